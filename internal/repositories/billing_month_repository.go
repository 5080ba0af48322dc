package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type BillingMonthRepository interface {
	Create(ctx context.Context, bm *models.BillingMonth) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BillingMonth, error)
	// FindByMonthYear returns the oldest row for the period, or nil.
	FindByMonthYear(ctx context.Context, month, year int) (*models.BillingMonth, error)
	List(ctx context.Context, activeOnly bool) ([]*models.BillingMonth, error)
	Update(ctx context.Context, bm *models.BillingMonth) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type billingMonthRepo struct {
	db DB
}

func NewBillingMonthRepository(db DB) BillingMonthRepository {
	return &billingMonthRepo{db: db}
}

func (r *billingMonthRepo) Create(ctx context.Context, bm *models.BillingMonth) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO billing_months (id, month, year, payment_link, is_active, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5, NOW(), NOW())
		RETURNING created_at, updated_at
	`, bm.ID, bm.Month, bm.Year, bm.PaymentLink, bm.IsActive).Scan(&bm.CreatedAt, &bm.UpdatedAt)
}

func (r *billingMonthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BillingMonth, error) {
	row := r.db.QueryRow(ctx, baseSelectBillingMonth()+" WHERE id=$1", id)
	return r.scanBillingMonth(row)
}

func (r *billingMonthRepo) FindByMonthYear(ctx context.Context, month, year int) (*models.BillingMonth, error) {
	row := r.db.QueryRow(ctx, baseSelectBillingMonth()+
		" WHERE month=$1 AND year=$2 ORDER BY created_at ASC LIMIT 1", month, year)
	return r.scanBillingMonth(row)
}

func (r *billingMonthRepo) List(ctx context.Context, activeOnly bool) ([]*models.BillingMonth, error) {
	sql := baseSelectBillingMonth()
	if activeOnly {
		sql += " WHERE is_active"
	}
	sql += " ORDER BY year DESC, month DESC, created_at DESC"

	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.BillingMonth
	for rows.Next() {
		bm, err := r.scanBillingMonth(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bm)
	}
	return out, rows.Err()
}

func (r *billingMonthRepo) Update(ctx context.Context, bm *models.BillingMonth) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE billing_months SET payment_link=$1, is_active=$2, updated_at=NOW()
		WHERE id=$3
	`, bm.PaymentLink, bm.IsActive, bm.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

// Delete removes the billing month. Invoices cascade in the schema; a
// referencing payment makes this fail with a foreign key violation.
func (r *billingMonthRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM billing_months WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func baseSelectBillingMonth() string {
	return `
		SELECT id, month, year, payment_link, is_active, created_at, updated_at
		FROM billing_months`
}

func (r *billingMonthRepo) scanBillingMonth(row pgx.Row) (*models.BillingMonth, error) {
	var bm models.BillingMonth
	if err := row.Scan(
		&bm.ID, &bm.Month, &bm.Year, &bm.PaymentLink, &bm.IsActive,
		&bm.CreatedAt, &bm.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &bm, nil
}

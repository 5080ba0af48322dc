package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

// PaymentFilter narrows List. Zero values mean "any".
type PaymentFilter struct {
	TenantID       *uuid.UUID
	BillingMonthID *uuid.UUID
	Statuses       []models.PaymentStatusType
	Limit          int
}

type PaymentRepository interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindByReference(ctx context.Context, reference string) (*models.Payment, error)
	List(ctx context.Context, f PaymentFilter) ([]*models.Payment, error)
	// LatestPerTenant maps each tenant to their most recent payment.
	LatestPerTenant(ctx context.Context) (map[uuid.UUID]*models.Payment, error)
	CountByBillingMonth(ctx context.Context, billingMonthID uuid.UUID) (int, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatusType) error
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepository(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

// Create keeps a caller-supplied CreatedAt (back-dated manual entries) and
// defaults to NOW() otherwise.
func (r *paymentRepo) Create(ctx context.Context, p *models.Payment) error {
	var createdAt *time.Time
	if !p.CreatedAt.IsZero() {
		createdAt = &p.CreatedAt
	}
	return r.db.QueryRow(ctx, `
		INSERT INTO payments (
			id, tenant_id, billing_month_id, full_name, amount, status, mpesa_code,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7, COALESCE($8, NOW()), NOW())
		RETURNING created_at, updated_at
	`, p.ID, p.TenantID, p.BillingMonthID, p.FullName, p.Amount, p.Status, p.MpesaCode, createdAt,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, baseSelectPayment()+" WHERE id=$1", id)
	return r.scanPayment(row)
}

func (r *paymentRepo) FindByReference(ctx context.Context, reference string) (*models.Payment, error) {
	row := r.db.QueryRow(ctx, baseSelectPayment()+" WHERE mpesa_code=$1 ORDER BY created_at LIMIT 1", reference)
	return r.scanPayment(row)
}

func (r *paymentRepo) List(ctx context.Context, f PaymentFilter) ([]*models.Payment, error) {
	var (
		where []string
		args  []any
	)
	if f.TenantID != nil {
		args = append(args, *f.TenantID)
		where = append(where, fmt.Sprintf("tenant_id=$%d", len(args)))
	}
	if f.BillingMonthID != nil {
		args = append(args, *f.BillingMonthID)
		where = append(where, fmt.Sprintf("billing_month_id=$%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}

	sql := baseSelectPayment()
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanPayments(rows)
}

func (r *paymentRepo) LatestPerTenant(ctx context.Context) (map[uuid.UUID]*models.Payment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT ON (tenant_id)
			id, tenant_id, billing_month_id, full_name, amount, status, mpesa_code,
			created_at, updated_at
		FROM payments
		ORDER BY tenant_id, created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list, err := r.scanPayments(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*models.Payment, len(list))
	for _, p := range list {
		out[p.TenantID] = p
	}
	return out, nil
}

func (r *paymentRepo) CountByBillingMonth(ctx context.Context, billingMonthID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE billing_month_id=$1`, billingMonthID).Scan(&n)
	return n, err
}

func (r *paymentRepo) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE tenant_id=$1`, tenantID).Scan(&n)
	return n, err
}

func (r *paymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatusType) error {
	tag, err := r.db.Exec(ctx, `UPDATE payments SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func baseSelectPayment() string {
	return `
		SELECT id, tenant_id, billing_month_id, full_name, amount, status, mpesa_code,
		created_at, updated_at
		FROM payments`
}

func (r *paymentRepo) scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(
		&p.ID, &p.TenantID, &p.BillingMonthID, &p.FullName, &p.Amount, &p.Status, &p.MpesaCode,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) scanPayments(rows pgx.Rows) ([]*models.Payment, error) {
	var out []*models.Payment
	for rows.Next() {
		p, err := r.scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

/* ───────────── public interface ───────────── */

type UnitRepository interface {
	Create(ctx context.Context, u *models.Unit) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	GetByTenantID(ctx context.Context, tenantID uuid.UUID) (*models.Unit, error)
	List(ctx context.Context, status *models.UnitStatusType) ([]*models.Unit, error)
	ListAssigned(ctx context.Context) ([]*models.Unit, error)

	// Update writes descriptive fields only. Occupancy goes through
	// UpdateWithRetry so status and tenant_id change in one statement.
	Update(ctx context.Context, u *models.Unit) error
	UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error
	Delete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type unitRepo struct {
	db DB
}

func NewUnitRepository(db DB) UnitRepository {
	return &unitRepo{db: db}
}

/* ---------- create ---------- */

func (r *unitRepo) Create(ctx context.Context, u *models.Unit) error {
	if u.Status == "" {
		u.Status = models.UnitStatusVacant
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO units (
			id, unit_number, floor, bedrooms, bathrooms, rent_amount,
			status, tenant_id, created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
	`, u.ID, u.UnitNumber, u.Floor, u.Bedrooms, u.Bathrooms, u.RentAmount,
		u.Status, u.TenantID)
	return err
}

/* ---------- reads ---------- */

func (r *unitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	row := r.db.QueryRow(ctx, baseSelectUnit()+" WHERE id=$1", id)
	return r.scanUnit(row)
}

func (r *unitRepo) GetByTenantID(ctx context.Context, tenantID uuid.UUID) (*models.Unit, error) {
	row := r.db.QueryRow(ctx, baseSelectUnit()+" WHERE tenant_id=$1 LIMIT 1", tenantID)
	return r.scanUnit(row)
}

func (r *unitRepo) List(ctx context.Context, status *models.UnitStatusType) ([]*models.Unit, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status != nil {
		rows, err = r.db.Query(ctx, baseSelectUnit()+" WHERE status=$1 ORDER BY unit_number", *status)
	} else {
		rows, err = r.db.Query(ctx, baseSelectUnit()+" ORDER BY unit_number")
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanUnits(rows)
}

func (r *unitRepo) ListAssigned(ctx context.Context) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx, baseSelectUnit()+" WHERE tenant_id IS NOT NULL ORDER BY unit_number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanUnits(rows)
}

/* ---------- update / delete ---------- */

func (r *unitRepo) Update(ctx context.Context, u *models.Unit) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE units
		SET unit_number=$1, floor=$2, bedrooms=$3, bathrooms=$4, rent_amount=$5,
		    updated_at=NOW()
		WHERE id=$6
	`, u.UnitNumber, u.Floor, u.Bedrooms, u.Bathrooms, u.RentAmount, u.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

// UpdateIfVersion writes occupancy only. Descriptive columns belong to
// Update, which does not take part in versioning, so a stale snapshot here
// cannot revert a concurrent rent edit.
func (r *unitRepo) UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE units
		SET status=$1, tenant_id=$2, updated_at=NOW(), row_version=row_version+1
		WHERE id=$3 AND row_version=$4
	`, u.Status, u.TenantID, u.ID, expected)
}

func (r *unitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	return UpdateVersioned(ctx, id, r.GetByID, r.UpdateIfVersion, mutate)
}

func (r *unitRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM units WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* ---------- internals ---------- */

func baseSelectUnit() string {
	return `
		SELECT id, unit_number, floor, bedrooms, bathrooms, rent_amount,
		status, tenant_id, created_at, updated_at, row_version
		FROM units`
}

func (r *unitRepo) scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	if err := row.Scan(
		&u.ID, &u.UnitNumber, &u.Floor, &u.Bedrooms, &u.Bathrooms, &u.RentAmount,
		&u.Status, &u.TenantID, &u.CreatedAt, &u.UpdatedAt, &u.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *unitRepo) scanUnits(rows pgx.Rows) ([]*models.Unit, error) {
	var out []*models.Unit
	for rows.Next() {
		u, err := r.scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

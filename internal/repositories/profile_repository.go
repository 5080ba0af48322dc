package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	List(ctx context.Context, role models.RoleType, status *models.ProfileStatusType) ([]*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type profileRepo struct {
	db DB
}

func NewProfileRepository(db DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Create(ctx context.Context, p *models.Profile) error {
	name, size, url, uploadedAt := leaseDocColumns(p.LeaseDocument)
	_, err := r.db.Exec(ctx, `
		INSERT INTO profiles (
			id, email, first_name, last_name, display_name, phone,
			id_number, id_number_full, role, status, password_hash,
			lease_start_date, lease_end_date,
			lease_document_name, lease_document_size, lease_document_url, lease_document_uploaded_at,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17, NOW(), NOW())
	`,
		p.ID, strings.ToLower(p.Email), p.FirstName, p.LastName, p.DisplayName, p.Phone,
		p.IDNumber, p.IDNumberFull, p.Role, p.Status, p.PasswordHash,
		p.LeaseStartDate, p.LeaseEndDate,
		name, size, url, uploadedAt,
	)
	return err
}

func (r *profileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	row := r.db.QueryRow(ctx, baseSelectProfile()+" WHERE id=$1", id)
	return r.scanProfile(row)
}

func (r *profileRepo) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	row := r.db.QueryRow(ctx, baseSelectProfile()+" WHERE email=$1", strings.ToLower(email))
	return r.scanProfile(row)
}

func (r *profileRepo) List(
	ctx context.Context,
	role models.RoleType,
	status *models.ProfileStatusType,
) ([]*models.Profile, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status != nil {
		rows, err = r.db.Query(ctx, baseSelectProfile()+` WHERE role=$1 AND status=$2 ORDER BY first_name, last_name`, role, *status)
	} else {
		rows, err = r.db.Query(ctx, baseSelectProfile()+` WHERE role=$1 ORDER BY first_name, last_name`, role)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Profile
	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *profileRepo) Update(ctx context.Context, p *models.Profile) error {
	name, size, url, uploadedAt := leaseDocColumns(p.LeaseDocument)
	tag, err := r.db.Exec(ctx, `
		UPDATE profiles SET
			first_name=$1, last_name=$2, display_name=$3, phone=$4,
			id_number=$5, id_number_full=$6, role=$7, status=$8,
			lease_start_date=$9, lease_end_date=$10,
			lease_document_name=$11, lease_document_size=$12,
			lease_document_url=$13, lease_document_uploaded_at=$14,
			updated_at=NOW()
		WHERE id=$15
	`,
		p.FirstName, p.LastName, p.DisplayName, p.Phone,
		p.IDNumber, p.IDNumberFull, p.Role, p.Status,
		p.LeaseStartDate, p.LeaseEndDate,
		name, size, url, uploadedAt,
		p.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *profileRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	tag, err := r.db.Exec(ctx, `UPDATE profiles SET password_hash=$1, updated_at=NOW() WHERE id=$2`, hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

func (r *profileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id=$1`, id)
	return err
}

/* ---------- internals ---------- */

func baseSelectProfile() string {
	return `
		SELECT id, email, first_name, last_name, display_name, phone,
		id_number, id_number_full, role, status, password_hash,
		lease_start_date, lease_end_date,
		lease_document_name, lease_document_size, lease_document_url, lease_document_uploaded_at,
		created_at, updated_at
		FROM profiles`
}

func (r *profileRepo) scanProfile(row pgx.Row) (*models.Profile, error) {
	var (
		p          models.Profile
		docName    *string
		docSize    *int64
		docURL     *string
		docUpdated *time.Time
	)
	if err := row.Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.DisplayName, &p.Phone,
		&p.IDNumber, &p.IDNumberFull, &p.Role, &p.Status, &p.PasswordHash,
		&p.LeaseStartDate, &p.LeaseEndDate,
		&docName, &docSize, &docURL, &docUpdated,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if docURL != nil {
		p.LeaseDocument = &models.LeaseDocument{
			Name: utils.Val(docName),
			Size: utils.Val(docSize),
			URL:  *docURL,
		}
		if docUpdated != nil {
			p.LeaseDocument.UploadedAt = *docUpdated
		}
	}
	return &p, nil
}

func leaseDocColumns(d *models.LeaseDocument) (*string, *int64, *string, *time.Time) {
	if d == nil {
		return nil, nil, nil, nil
	}
	return &d.Name, &d.Size, &d.URL, &d.UploadedAt
}

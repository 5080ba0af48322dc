package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
)

type PreferenceRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserPreference, error)
	Upsert(ctx context.Context, pref *models.UserPreference) error
}

type preferenceRepo struct {
	db DB
}

func NewPreferenceRepository(db DB) PreferenceRepository {
	return &preferenceRepo{db: db}
}

func (r *preferenceRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserPreference, error) {
	var p models.UserPreference
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, theme, created_at, updated_at
		FROM user_preferences WHERE user_id=$1
	`, userID).Scan(&p.ID, &p.UserID, &p.Theme, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *preferenceRepo) Upsert(ctx context.Context, pref *models.UserPreference) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO user_preferences (id, user_id, theme, created_at, updated_at)
		VALUES ($1,$2,$3, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET theme=EXCLUDED.theme, updated_at=NOW()
		RETURNING id, created_at, updated_at
	`, pref.ID, pref.UserID, pref.Theme).Scan(&pref.ID, &pref.CreatedAt, &pref.UpdatedAt)
}

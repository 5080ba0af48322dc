package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type NotificationRepository interface {
	CreateMany(ctx context.Context, list []models.Notification) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Notification, error)
	// ListRecent joins each notification with its tenant's name.
	ListRecent(ctx context.Context, limit int) ([]*models.NotificationLogEntry, error)
	MarkRead(ctx context.Context, id, tenantID uuid.UUID) error
}

type notificationRepo struct {
	db DB
}

func NewNotificationRepository(db DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) CreateMany(ctx context.Context, list []models.Notification) error {
	if len(list) == 0 {
		return nil
	}
	const cols = 4
	values := make([]string, 0, len(list))
	args := make([]any, 0, len(list)*cols)
	for i, n := range list {
		base := i * cols
		values = append(values, fmt.Sprintf("($%d,$%d,$%d,$%d, NOW())", base+1, base+2, base+3, base+4))
		args = append(args, n.ID, n.TenantID, n.Message, n.Read)
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO notifications (id, tenant_id, message, read, created_at) VALUES `+strings.Join(values, ","),
		args...)
	return err
}

func (r *notificationRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, message, read, created_at
		FROM notifications WHERE tenant_id=$1
		ORDER BY created_at DESC
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.TenantID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *notificationRepo) ListRecent(ctx context.Context, limit int) ([]*models.NotificationLogEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT n.id, n.tenant_id, n.message, n.read, n.created_at,
		       COALESCE(NULLIF(TRIM(p.first_name || ' ' || p.last_name), ''), p.email, '')
		FROM notifications n
		LEFT JOIN profiles p ON p.id = n.tenant_id
		ORDER BY n.created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.NotificationLogEntry
	for rows.Next() {
		var e models.NotificationLogEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Message, &e.Read, &e.CreatedAt, &e.TenantName); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, tenantID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET read=TRUE WHERE id=$1 AND tenant_id=$2`, id, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationLogEntry is a notification joined with its recipient's name.
type NotificationLogEntry struct {
	Notification
	TenantName string `json:"tenant_name"`
}

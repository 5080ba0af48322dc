package dtos

import (
	"github.com/google/uuid"
)

const (
	ReminderFilterAll     = "all"
	ReminderFilterOverdue = "overdue"
	ReminderFilterPending = "pending"
	ReminderFilterNone    = "none"
)

type ReminderCandidate struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone,omitempty"`
	UnitNumber   string    `json:"unit_number,omitempty"`
	LatestStatus string    `json:"latest_status"`
}

type SendRemindersRequest struct {
	Message   string      `json:"message"`
	TenantIDs []uuid.UUID `json:"tenant_ids"`
}

type SendRemindersResponse struct {
	NotificationsCreated int `json:"notifications_created"`
	EmailsSent           int `json:"emails_sent"`
	SMSSent              int `json:"sms_sent"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatusType string

const (
	PaymentStatusPending  PaymentStatusType = "pending"
	PaymentStatusPartial  PaymentStatusType = "partial"
	PaymentStatusPaid     PaymentStatusType = "paid"
	PaymentStatusRejected PaymentStatusType = "rejected"
	PaymentStatusOverdue  PaymentStatusType = "overdue"
	// Legacy gateway callbacks wrote this. Nothing new sets it.
	PaymentStatusFailed PaymentStatusType = "failed"

	// Display-only: no payment exists for the billing month.
	PaymentStatusUnpaid PaymentStatusType = "unpaid"
)

func (s PaymentStatusType) Stored() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid,
		PaymentStatusRejected, PaymentStatusOverdue, PaymentStatusFailed:
		return true
	}
	return false
}

// Payment is one tenant payment against a billing month. FullName is the
// name as submitted and is never resynced from the profile.
type Payment struct {
	ID             uuid.UUID         `json:"id"`
	TenantID       uuid.UUID         `json:"tenant_id"`
	BillingMonthID uuid.UUID         `json:"billing_month_id"`
	FullName       string            `json:"full_name"`
	Amount         decimal.Decimal   `json:"amount"`
	Status         PaymentStatusType `json:"status"`
	MpesaCode      *string           `json:"mpesa_code,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

package dtos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
)

// RecordPaymentRequest is the admin manual-entry form. Presence checks live
// in the service so every caller gets the same message.
type RecordPaymentRequest struct {
	TenantID       uuid.UUID                `json:"tenant_id"`
	Amount         decimal.Decimal          `json:"amount"`
	Status         models.PaymentStatusType `json:"status" validate:"omitempty,oneof=paid partial pending overdue"`
	PaymentDate    string                   `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
	Notes          string                   `json:"notes" validate:"max=200"`
	BillingMonthID *uuid.UUID               `json:"billing_month_id,omitempty"`
}

type RecordPaymentResponse struct {
	Payment             *models.Payment      `json:"payment"`
	BillingMonth        *models.BillingMonth `json:"billing_month"`
	BillingMonthCreated bool                 `json:"billing_month_created"`
	Receipt             *models.Receipt      `json:"receipt,omitempty"`
}

// SubmitPaymentRequest is a tenant's self-reported payment.
type SubmitPaymentRequest struct {
	BillingMonthID uuid.UUID       `json:"billing_month_id" validate:"required"`
	FullName       string          `json:"full_name" validate:"required,max=200"`
	Amount         decimal.Decimal `json:"amount"`
	Reference      string          `json:"mpesa_code" validate:"required,max=64"`
}

type UpdatePaymentStatusRequest struct {
	Status models.PaymentStatusType `json:"status" validate:"required,oneof=pending partial paid rejected overdue"`
}

type ListPaymentsQuery struct {
	TenantID       *uuid.UUID
	BillingMonthID *uuid.UUID
	Status         *models.PaymentStatusType
}

// PaymentView enriches a payment with the unit context an admin needs.
type PaymentView struct {
	*models.Payment
	UnitNumber    string           `json:"unit_number,omitempty"`
	RentAmount    *decimal.Decimal `json:"rent_amount,omitempty"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	BillingPeriod string           `json:"billing_period,omitempty"`
}

// PaymentConfirmation is a provider-confirmed payment. Amount is in major
// currency units.
type PaymentConfirmation struct {
	TenantID       uuid.UUID
	BillingMonthID *uuid.UUID
	Amount         decimal.Decimal
	Reference      string
	PayerName      string
	OccurredAt     time.Time
}

// StatusView is what a tenant sees for one billing month.
type StatusView struct {
	Status          models.PaymentStatusType `json:"status"`
	Message         *string                  `json:"message,omitempty"`
	Remaining       *decimal.Decimal         `json:"remaining,omitempty"`
	ShowPaymentLink bool                     `json:"show_payment_link"`
	PaymentLink     string                   `json:"payment_link,omitempty"`
}

// PaymentStatusResponse is returned after a status change or an external
// confirmation. Duplicate is set when the confirmation was already applied.
type PaymentStatusResponse struct {
	Payment   *models.Payment `json:"payment"`
	Receipt   *models.Receipt `json:"receipt,omitempty"`
	Duplicate bool            `json:"duplicate,omitempty"`
}

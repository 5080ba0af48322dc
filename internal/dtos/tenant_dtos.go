package dtos

import (
	"github.com/google/uuid"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
)

type AddTenantRequest struct {
	Email          string     `json:"email" validate:"required,email"`
	FirstName      string     `json:"first_name" validate:"required,max=100"`
	LastName       string     `json:"last_name" validate:"required,max=100"`
	Phone          *string    `json:"phone,omitempty" validate:"omitempty,max=32"`
	IDNumber       *string    `json:"id_number,omitempty" validate:"omitempty,max=32"`
	UnitID         *uuid.UUID `json:"unit_id,omitempty"`
	LeaseStartDate *string    `json:"lease_start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Password       string     `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
}

type AddTenantResponse struct {
	Tenant *models.Profile `json:"tenant"`
	Unit   *models.Unit    `json:"unit,omitempty"`
	// Only set when the service generated the password.
	TemporaryPassword string `json:"temporary_password,omitempty"`
}

type UpdateTenantStatusRequest struct {
	Status models.ProfileStatusType `json:"status" validate:"required,oneof=pending approved suspended"`
}

type UpdateLeaseRequest struct {
	LeaseStartDate *string `json:"lease_start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	LeaseEndDate   *string `json:"lease_end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type LeaseDocumentRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Size int64  `json:"size" validate:"min=1"`
	URL  string `json:"url" validate:"required,url"`
}

type TenantView struct {
	*models.Profile
	Unit                *models.Unit             `json:"unit,omitempty"`
	LatestPaymentStatus models.PaymentStatusType `json:"latest_payment_status,omitempty"`
}

type TenantMonthView struct {
	BillingMonth *models.BillingMonth `json:"billing_month"`
	Payment      *models.Payment      `json:"payment,omitempty"`
	Status       StatusView           `json:"status"`
}

// TenantOverview is the tenant portal landing page.
type TenantOverview struct {
	Profile       *models.Profile        `json:"profile"`
	Unit          *models.Unit           `json:"unit,omitempty"`
	Months        []TenantMonthView      `json:"months"`
	Invoices      []*models.Invoice      `json:"invoices"`
	Receipts      []*models.Receipt      `json:"receipts"`
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}

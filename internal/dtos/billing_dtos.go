package dtos

import (
	"github.com/shopspring/decimal"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
)

type CreateBillingMonthRequest struct {
	Month       int     `json:"month" validate:"required,min=1,max=12"`
	Year        int     `json:"year" validate:"required,min=2000,max=2100"`
	PaymentLink *string `json:"payment_link,omitempty"`
	// Defaults to true.
	GenerateInvoices *bool `json:"generate_invoices,omitempty"`
}

type CreateBillingMonthResponse struct {
	BillingMonth         *models.BillingMonth `json:"billing_month"`
	InvoicesCreated      int                  `json:"invoices_created"`
	InvoicesFailed       bool                 `json:"invoices_failed"`
	NotificationsCreated int                  `json:"notifications_created"`
}

type UpdateBillingMonthRequest struct {
	PaymentLink *string `json:"payment_link,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type BillingMonthReport struct {
	BillingMonth   *models.BillingMonth `json:"billing_month"`
	Expected       decimal.Decimal      `json:"expected"`
	Collected      decimal.Decimal      `json:"collected"`
	Pending        decimal.Decimal      `json:"pending"`
	Outstanding    decimal.Decimal      `json:"outstanding"`
	CollectionRate float64              `json:"collection_rate"`
	StatusCounts   map[string]int       `json:"status_counts"`
	Payments       []*PaymentView       `json:"payments"`
}

type DashboardStats struct {
	TotalUnits       int             `json:"total_units"`
	OccupiedUnits    int             `json:"occupied_units"`
	VacantUnits      int             `json:"vacant_units"`
	MaintenanceUnits int             `json:"maintenance_units"`
	OccupancyRate    int             `json:"occupancy_rate"`
	ApprovedTenants  int             `json:"approved_tenants"`
	PendingPayments  int             `json:"pending_payments"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	ExpectedMonthly  decimal.Decimal `json:"expected_monthly"`
}

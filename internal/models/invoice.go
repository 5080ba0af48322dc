package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID             uuid.UUID       `json:"id"`
	BillingMonthID uuid.UUID       `json:"billing_month_id"`
	TenantID       uuid.UUID       `json:"tenant_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	Amount         decimal.Decimal `json:"amount"`
	UnitNumber     string          `json:"unit_number"`
	PDFURL         *string         `json:"pdf_url,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Receipt struct {
	ID            uuid.UUID       `json:"id"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	ReceiptNumber string          `json:"receipt_number"`
	Amount        decimal.Decimal `json:"amount"`
	UnitNumber    string          `json:"unit_number"`
	PDFURL        *string         `json:"pdf_url,omitempty"`
	GeneratedAt   time.Time       `json:"generated_at"`
}

package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type BillingMonth struct {
	ID          uuid.UUID `json:"id"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	PaymentLink *string   `json:"payment_link,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Label renders the period as "January 2024".
func (b *BillingMonth) Label() string {
	return fmt.Sprintf("%s %d", time.Month(b.Month), b.Year)
}

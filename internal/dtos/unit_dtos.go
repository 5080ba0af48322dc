package dtos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateUnitRequest struct {
	UnitNumber string          `json:"unit_number" validate:"required,max=32"`
	Floor      string          `json:"floor" validate:"max=32"`
	Bedrooms   int             `json:"bedrooms" validate:"min=0,max=20"`
	Bathrooms  int             `json:"bathrooms" validate:"min=0,max=20"`
	RentAmount decimal.Decimal `json:"rent_amount"`
}

type UpdateUnitRequest struct {
	UnitNumber *string          `json:"unit_number,omitempty" validate:"omitempty,max=32"`
	Floor      *string          `json:"floor,omitempty" validate:"omitempty,max=32"`
	Bedrooms   *int             `json:"bedrooms,omitempty" validate:"omitempty,min=0,max=20"`
	Bathrooms  *int             `json:"bathrooms,omitempty" validate:"omitempty,min=0,max=20"`
	RentAmount *decimal.Decimal `json:"rent_amount,omitempty"`
}

type AssignTenantRequest struct {
	TenantID uuid.UUID `json:"tenant_id" validate:"required"`
}

type MaintenanceRequest struct {
	Enabled bool `json:"enabled"`
}

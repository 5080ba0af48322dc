package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitStatusType string

const (
	UnitStatusVacant      UnitStatusType = "vacant"
	UnitStatusOccupied    UnitStatusType = "occupied"
	UnitStatusMaintenance UnitStatusType = "maintenance"
)

var (
	ErrUnitNotVacant     = errors.New("unit_not_vacant")
	ErrUnitNotOccupied   = errors.New("unit_not_occupied")
	ErrUnitInMaintenance = errors.New("unit_in_maintenance")
)

// Unit is a rentable unit. Status and TenantID move together and are only
// changed through the occupancy transitions below.
type Unit struct {
	Versioned

	ID         uuid.UUID       `json:"id"`
	UnitNumber string          `json:"unit_number"`
	Floor      string          `json:"floor"`
	Bedrooms   int             `json:"bedrooms"`
	Bathrooms  int             `json:"bathrooms"`
	RentAmount decimal.Decimal `json:"rent_amount"`
	Status     UnitStatusType  `json:"status"`
	TenantID   *uuid.UUID      `json:"tenant_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (u *Unit) IsOccupied() bool {
	return u.Status == UnitStatusOccupied && u.TenantID != nil
}

// Occupy moves a vacant unit to occupied by tenantID.
func (u *Unit) Occupy(tenantID uuid.UUID) error {
	if u.Status != UnitStatusVacant || u.TenantID != nil {
		return ErrUnitNotVacant
	}
	u.TenantID = &tenantID
	u.Status = UnitStatusOccupied
	return nil
}

// Vacate clears the tenant. Vacating an already vacant unit is a no-op.
func (u *Unit) Vacate() error {
	if u.Status == UnitStatusMaintenance {
		return ErrUnitInMaintenance
	}
	u.TenantID = nil
	u.Status = UnitStatusVacant
	return nil
}

// SetMaintenance toggles between vacant and maintenance. Occupied units
// must be vacated first.
func (u *Unit) SetMaintenance(on bool) error {
	if on {
		if u.Status == UnitStatusMaintenance {
			return nil
		}
		if u.Status != UnitStatusVacant || u.TenantID != nil {
			return ErrUnitNotVacant
		}
		u.Status = UnitStatusMaintenance
		return nil
	}
	if u.Status == UnitStatusMaintenance {
		u.Status = UnitStatusVacant
	}
	return nil
}

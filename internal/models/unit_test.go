package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOccupancyTransitions(t *testing.T) {
	u := &Unit{ID: uuid.New(), Status: UnitStatusVacant}
	tenant := uuid.New()

	require.NoError(t, u.Occupy(tenant))
	assert.True(t, u.IsOccupied())
	assert.Equal(t, tenant, *u.TenantID)

	assert.ErrorIs(t, u.Occupy(uuid.New()), ErrUnitNotVacant)
	assert.ErrorIs(t, u.SetMaintenance(true), ErrUnitNotVacant)

	require.NoError(t, u.Vacate())
	assert.Equal(t, UnitStatusVacant, u.Status)
	assert.Nil(t, u.TenantID)
}

func TestUnitMaintenance(t *testing.T) {
	u := &Unit{ID: uuid.New(), Status: UnitStatusVacant}

	require.NoError(t, u.SetMaintenance(true))
	assert.Equal(t, UnitStatusMaintenance, u.Status)
	assert.ErrorIs(t, u.Occupy(uuid.New()), ErrUnitNotVacant)
	assert.ErrorIs(t, u.Vacate(), ErrUnitInMaintenance)

	require.NoError(t, u.SetMaintenance(false))
	assert.Equal(t, UnitStatusVacant, u.Status)
}

func TestBillingMonthLabel(t *testing.T) {
	bm := BillingMonth{Month: 1, Year: 2024}
	assert.Equal(t, "January 2024", bm.Label())
}

func TestProfileFullName(t *testing.T) {
	p := Profile{FirstName: "Amina", LastName: "Hassan", Email: "a@x.io"}
	assert.Equal(t, "Amina Hassan", p.FullName())

	p = Profile{Email: "only@x.io"}
	assert.Equal(t, "only@x.io", p.FullName())
}

package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

func TestAddTenantWithUnit(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	unit := h.addUnit("A-101", 20000, nil)

	resp, err := h.tenantSvc.AddTenant(ctx, dtos.AddTenantRequest{
		Email:          "Amina@Example.com",
		FirstName:      "Amina",
		LastName:       "Hassan",
		IDNumber:       utils.Ptr("12345678"),
		UnitID:         &unit.ID,
		LeaseStartDate: utils.Ptr("2024-01-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "amina@example.com", resp.Tenant.Email)
	assert.Equal(t, models.ProfileStatusApproved, resp.Tenant.Status)
	assert.Len(t, resp.TemporaryPassword, generatedPasswordLength)
	assert.True(t, utils.CheckPasswordHash(resp.TemporaryPassword, resp.Tenant.PasswordHash))
	assert.Equal(t, "****5678", *resp.Tenant.IDNumber)
	require.NotNil(t, resp.Unit)
	assert.Equal(t, resp.Tenant.ID, *resp.Unit.TenantID)

	_, err = h.tenantSvc.AddTenant(ctx, dtos.AddTenantRequest{Email: "amina@example.com", FirstName: "A", LastName: "B"})
	requireStatus(t, err, http.StatusConflict)
}

func TestAddTenantRollsBackOnFailedAssignment(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	taken := h.addUnit("A-101", 20000, h.addTenant("Omar", "Ali"))

	_, err := h.tenantSvc.AddTenant(ctx, dtos.AddTenantRequest{
		Email:     "amina@example.com",
		FirstName: "Amina",
		LastName:  "Hassan",
		Password:  "correct-horse",
		UnitID:    &taken.ID,
	})
	requireStatus(t, err, http.StatusConflict)

	p, err := h.profiles.GetByEmail(ctx, "amina@example.com")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestRemoveTenantVacatesUnit(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	amina := h.addTenant("Amina", "Hassan")
	unit := h.addUnit("A-101", 20000, amina)

	require.NoError(t, h.tenantSvc.RemoveTenant(ctx, amina.ID))

	u, err := h.units.GetByID(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UnitStatusVacant, u.Status)
	assert.Nil(t, u.TenantID)

	p, err := h.profiles.GetByID(ctx, amina.ID)
	require.NoError(t, err)
	assert.Nil(t, p)

	requireStatus(t, h.tenantSvc.RemoveTenant(ctx, uuid.New()), http.StatusNotFound)
}

func TestRemoveTenantKeepsPaymentHistory(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	amina := h.addTenant("Amina", "Hassan")
	unit := h.addUnit("A-101", 20000, amina)
	bm := h.addMonth(3, 2024)
	h.addPayment(amina, bm, 20000, models.PaymentStatusPaid)

	err := h.tenantSvc.RemoveTenant(ctx, amina.ID)
	appErr := asAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode)
	assert.Equal(t, "Tenant has 1 recorded payment(s) and cannot be removed. Suspend the account instead.", appErr.Message)

	p, err := h.profiles.GetByID(ctx, amina.ID)
	require.NoError(t, err)
	require.NotNil(t, p)
	u, err := h.units.GetByID(ctx, unit.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UnitStatusOccupied, u.Status, "unit is left alone when removal is refused")
	assert.Len(t, h.store.payments, 1)

	_, err = h.tenantSvc.SetTenantStatus(ctx, amina.ID, models.ProfileStatusSuspended)
	require.NoError(t, err)
}

func TestTenantStatusAndLease(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	amina := h.addTenant("Amina", "Hassan")

	p, err := h.tenantSvc.SetTenantStatus(ctx, amina.ID, models.ProfileStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileStatusSuspended, p.Status)

	_, err = h.tenantSvc.SetTenantStatus(ctx, amina.ID, "archived")
	requireStatus(t, err, http.StatusBadRequest)

	_, err = h.tenantSvc.UpdateLease(ctx, amina.ID, dtos.UpdateLeaseRequest{
		LeaseStartDate: utils.Ptr("2024-06-01"),
		LeaseEndDate:   utils.Ptr("2024-01-01"),
	})
	requireStatus(t, err, http.StatusBadRequest)

	p, err = h.tenantSvc.SetLeaseDocument(ctx, amina.ID, dtos.LeaseDocumentRequest{
		Name: "lease.pdf", Size: 2048, URL: "https://files.example.com/lease.pdf",
	})
	require.NoError(t, err)
	require.NotNil(t, p.LeaseDocument)
	assert.Equal(t, h.now, p.LeaseDocument.UploadedAt)
}

func TestTenantOverview(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	amina := h.addTenant("Amina", "Hassan")
	h.addUnit("A-101", 20000, amina)

	jan := h.addMonth(1, 2024)
	feb := h.addMonth(2, 2024)
	mar := h.addMonth(3, 2024)
	h.addPayment(amina, jan, 20000, models.PaymentStatusPaid)
	h.addPayment(amina, feb, 12000, models.PaymentStatusPartial)

	_, err := h.billingSvc.CreateBillingMonth(ctx, dtos.CreateBillingMonthRequest{Month: 4, Year: 2024})
	require.NoError(t, err)

	ov, err := h.tenantSvc.TenantOverview(ctx, amina.ID)
	require.NoError(t, err)
	require.NotNil(t, ov.Unit)
	require.Len(t, ov.Months, 4)

	byMonth := map[uuid.UUID]dtos.TenantMonthView{}
	for _, m := range ov.Months {
		byMonth[m.BillingMonth.ID] = m
	}
	assert.Equal(t, models.PaymentStatusPaid, byMonth[jan.ID].Status.Status)
	assert.False(t, byMonth[jan.ID].Status.ShowPaymentLink)

	febView := byMonth[feb.ID].Status
	assert.Equal(t, models.PaymentStatusPartial, febView.Status)
	require.NotNil(t, febView.Remaining)
	assert.True(t, febView.Remaining.Equal(decimalFromInt(8000)))

	marView := byMonth[mar.ID].Status
	assert.Equal(t, models.PaymentStatusUnpaid, marView.Status)
	assert.Equal(t, "/payment?billing="+mar.ID.String(), marView.PaymentLink)

	assert.Len(t, ov.Invoices, 1)
	assert.Len(t, ov.Notifications, 1)
	assert.Equal(t, 1, ov.UnreadCount)
}

func TestListTenants(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	amina := h.addTenant("Amina", "Hassan")
	h.addTenant("Omar", "Ali")
	h.addUnit("A-101", 20000, amina)
	h.addPayment(amina, h.addMonth(3, 2024), 20000, models.PaymentStatusPending)

	views, err := h.tenantSvc.ListTenants(ctx, nil)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Amina", views[0].FirstName)
	assert.Equal(t, "A-101", views[0].Unit.UnitNumber)
	assert.Equal(t, models.PaymentStatusPending, views[0].LatestPaymentStatus)
	assert.Nil(t, views[1].Unit)
}

func TestMaskIDNumber(t *testing.T) {
	assert.Equal(t, "****5678", MaskIDNumber("12345678"))
	assert.Equal(t, "123", MaskIDNumber("123"))
}

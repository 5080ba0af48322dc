package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

func TestSendRemindersValidation(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	amina := h.addTenant("Amina", "Hassan")

	_, err := h.notificationSvc.SendReminders(ctx, dtos.SendRemindersRequest{Message: "   ", TenantIDs: []uuid.UUID{amina.ID}})
	requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Please enter a reminder message.", asAppError(err).Message)

	_, err = h.notificationSvc.SendReminders(ctx, dtos.SendRemindersRequest{Message: "Rent is due"})
	requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Please select at least one tenant.", asAppError(err).Message)
	assert.Empty(t, h.store.notes)
}

func TestSendRemindersDelivers(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	amina := h.addTenant("Amina", "Hassan")
	omar := h.addTenant("Omar", "Ali")
	omar.Phone = utils.Ptr("+254700000001")
	require.NoError(t, h.profiles.Update(ctx, omar))

	email := &fakeEmail{}
	sms := &fakeSMS{}
	h.notificationSvc.delivery = &Delivery{
		Email:     email,
		SMS:       sms,
		FromEmail: "office@example.com",
		FromPhone: "+254700000000",
		OrgName:   "Test Residences",
		Sandbox:   true,
	}

	resp, err := h.notificationSvc.SendReminders(ctx, dtos.SendRemindersRequest{
		Message:   "Rent is due on the 5th.",
		TenantIDs: []uuid.UUID{amina.ID, omar.ID, amina.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.NotificationsCreated)
	assert.Equal(t, 2, resp.EmailsSent)
	assert.Equal(t, 1, resp.SMSSent)
	require.Len(t, email.sent, 2)
	require.NotNil(t, email.sent[0].MailSettings)
	require.Len(t, sms.sent, 1)
	assert.Equal(t, "+254700000001", *sms.sent[0].To)

	email.err = errors.New("sendgrid down")
	resp, err = h.notificationSvc.SendReminders(ctx, dtos.SendRemindersRequest{
		Message:   "Second notice",
		TenantIDs: []uuid.UUID{amina.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.NotificationsCreated)
	assert.Zero(t, resp.EmailsSent)
}

func TestReminderCandidates(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	amina := h.addTenant("Amina", "Hassan")
	omar := h.addTenant("Omar", "Ali")
	h.addTenant("Zawadi", "Otieno")
	h.addUnit("A-101", 20000, amina)
	bm := h.addMonth(3, 2024)
	h.addPayment(amina, bm, 20000, models.PaymentStatusPaid)
	h.addPayment(amina, bm, 20000, models.PaymentStatusOverdue)
	h.addPayment(omar, bm, 20000, models.PaymentStatusPending)

	all, err := h.notificationSvc.ReminderCandidates(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	overdue, err := h.notificationSvc.ReminderCandidates(ctx, dtos.ReminderFilterOverdue)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, amina.ID, overdue[0].TenantID)
	assert.Equal(t, "A-101", overdue[0].UnitNumber)

	none, err := h.notificationSvc.ReminderCandidates(ctx, dtos.ReminderFilterNone)
	require.NoError(t, err)
	require.Len(t, none, 1)
	assert.Equal(t, "Zawadi Otieno", none[0].Name)

	_, err = h.notificationSvc.ReminderCandidates(ctx, "late")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestSendUnpaidReminders(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	amina := h.addTenant("Amina", "Hassan")
	omar := h.addTenant("Omar", "Ali")
	h.addUnit("A-101", 20000, amina)
	h.addUnit("B-202", 15000, omar)
	bm := h.addMonth(3, 2024)
	h.addPayment(amina, bm, 20000, models.PaymentStatusPaid)

	n, err := h.notificationSvc.SendUnpaidReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, h.store.notes, 1)
	assert.Equal(t, omar.ID, h.store.notes[0].TenantID)
	assert.Contains(t, h.store.notes[0].Message, "March 2024")

	h.now = time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC)
	n, err = h.notificationSvc.SendUnpaidReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTenantInbox(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	amina := h.addTenant("Amina", "Hassan")
	omar := h.addTenant("Omar", "Ali")

	_, err := h.notificationSvc.SendReminders(ctx, dtos.SendRemindersRequest{Message: "Hello", TenantIDs: []uuid.UUID{amina.ID}})
	require.NoError(t, err)

	inbox, err := h.notificationSvc.ListTenantNotifications(ctx, amina.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)

	requireStatus(t, h.notificationSvc.MarkRead(ctx, inbox[0].ID, omar.ID), http.StatusNotFound)
	require.NoError(t, h.notificationSvc.MarkRead(ctx, inbox[0].ID, amina.ID))

	log, err := h.notificationSvc.ReminderLog(ctx)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, "Amina Hassan", log[0].TenantName)
	assert.True(t, log[0].Read)
}

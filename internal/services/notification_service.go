package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/constants"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

const reminderSubject = "Rent reminder"

type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	profileRepo      repositories.ProfileRepository
	unitRepo         repositories.UnitRepository
	paymentRepo      repositories.PaymentRepository
	billingRepo      repositories.BillingMonthRepository
	delivery         *Delivery
	bus              eventbus.Publisher
	now              Clock
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	profileRepo repositories.ProfileRepository,
	unitRepo repositories.UnitRepository,
	paymentRepo repositories.PaymentRepository,
	billingRepo repositories.BillingMonthRepository,
	delivery *Delivery,
	bus eventbus.Publisher,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		profileRepo:      profileRepo,
		unitRepo:         unitRepo,
		paymentRepo:      paymentRepo,
		billingRepo:      billingRepo,
		delivery:         delivery,
		bus:              bus,
		now:              systemClock,
	}
}

// ReminderCandidates lists approved tenants with the status of their most
// recent payment ("none" when they have never paid), narrowed by filter.
func (s *NotificationService) ReminderCandidates(ctx context.Context, filter string) ([]dtos.ReminderCandidate, error) {
	if filter == "" {
		filter = dtos.ReminderFilterAll
	}
	switch filter {
	case dtos.ReminderFilterAll, dtos.ReminderFilterOverdue, dtos.ReminderFilterPending, dtos.ReminderFilterNone:
	default:
		return nil, utils.NewValidationError(fmt.Sprintf("Unknown filter %q.", filter))
	}

	approved := models.ProfileStatusApproved
	tenants, err := s.profileRepo.List(ctx, models.RoleTenant, &approved)
	if err != nil {
		return nil, err
	}
	latest, err := s.paymentRepo.LatestPerTenant(ctx)
	if err != nil {
		return nil, err
	}
	unitNumbers := map[uuid.UUID]string{}
	if units, err := s.unitRepo.ListAssigned(ctx); err != nil {
		utils.Logger.WithError(err).Warn("Reminder candidates: unit lookup failed")
	} else {
		for _, u := range units {
			unitNumbers[*u.TenantID] = u.UnitNumber
		}
	}

	out := make([]dtos.ReminderCandidate, 0, len(tenants))
	for _, t := range tenants {
		status := dtos.ReminderFilterNone
		if p, ok := latest[t.ID]; ok {
			status = string(p.Status)
		}
		if filter != dtos.ReminderFilterAll && status != filter {
			continue
		}
		out = append(out, dtos.ReminderCandidate{
			TenantID:     t.ID,
			Name:         t.FullName(),
			Email:        t.Email,
			Phone:        t.Phone,
			UnitNumber:   unitNumbers[t.ID],
			LatestStatus: status,
		})
	}
	return out, nil
}

// SendReminders writes one in-app notification per tenant and, when
// delivery is configured, copies it by email and SMS. Delivery failures are
// logged and counted out.
func (s *NotificationService) SendReminders(ctx context.Context, req dtos.SendRemindersRequest) (*dtos.SendRemindersResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, utils.NewValidationError("Please enter a reminder message.")
	}
	ids := dedupeIDs(req.TenantIDs)
	if len(ids) == 0 {
		return nil, utils.NewValidationError("Please select at least one tenant.")
	}

	notes := make([]models.Notification, len(ids))
	for i, id := range ids {
		notes[i] = models.Notification{ID: uuid.New(), TenantID: id, Message: message}
	}
	if err := s.notificationRepo.CreateMany(ctx, notes); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return nil, utils.NewValidationError("One or more selected tenants no longer exist.")
		}
		return nil, utils.NewInternalError("Failed to send reminders.", err)
	}
	for i := range notes {
		publish(ctx, s.bus, eventbus.TableNotifications, eventbus.EventInsert, notes[i].ID, &notes[i].TenantID)
	}

	resp := &dtos.SendRemindersResponse{NotificationsCreated: len(notes)}
	if !s.delivery.emailEnabled() && !s.delivery.smsEnabled() {
		return resp, nil
	}

	for _, id := range ids {
		t, err := s.profileRepo.GetByID(ctx, id)
		if err != nil || t == nil {
			utils.Logger.WithError(err).Warnf("Reminder delivery: tenant %s not loaded", id)
			continue
		}
		if s.delivery.emailEnabled() && t.Email != "" {
			if err := s.delivery.sendEmail(t, reminderSubject, message); err != nil {
				utils.Logger.WithError(err).Warnf("Reminder email to tenant %s failed", id)
			} else {
				resp.EmailsSent++
			}
		}
		if s.delivery.smsEnabled() && t.Phone != nil && *t.Phone != "" {
			if err := s.delivery.sendSMS(*t.Phone, message); err != nil {
				utils.Logger.WithError(err).Warnf("Reminder SMS to tenant %s failed", id)
			} else {
				resp.SMSSent++
			}
		}
	}
	utils.Logger.Infof("Sent %d reminders (%d emails, %d sms)", resp.NotificationsCreated, resp.EmailsSent, resp.SMSSent)
	return resp, nil
}

// ReminderLog returns the most recent notifications with tenant names.
func (s *NotificationService) ReminderLog(ctx context.Context) ([]*models.NotificationLogEntry, error) {
	return s.notificationRepo.ListRecent(ctx, constants.ReminderLogLimit)
}

func (s *NotificationService) ListTenantNotifications(ctx context.Context, tenantID uuid.UUID) ([]*models.Notification, error) {
	return s.notificationRepo.ListByTenant(ctx, tenantID)
}

// MarkRead only touches notifications owned by tenantID.
func (s *NotificationService) MarkRead(ctx context.Context, id, tenantID uuid.UUID) error {
	if err := s.notificationRepo.MarkRead(ctx, id, tenantID); err != nil {
		if isNotFound(err) {
			return utils.NewNotFoundError("Notification not found")
		}
		return err
	}
	publish(ctx, s.bus, eventbus.TableNotifications, eventbus.EventUpdate, id, &tenantID)
	return nil
}

// SendUnpaidReminders runs daily from cron. After the due day it reminds
// every occupying tenant without a paid or pending payment for the
// current billing month.
func (s *NotificationService) SendUnpaidReminders(ctx context.Context) (int, error) {
	now := s.now()
	if now.Day() <= constants.RentDueDay {
		return 0, nil
	}
	bm, err := s.billingRepo.FindByMonthYear(ctx, int(now.Month()), now.Year())
	if err != nil {
		return 0, err
	}
	if bm == nil {
		utils.Logger.Debug("No billing month for the current period; skipping unpaid reminders")
		return 0, nil
	}

	units, err := s.unitRepo.ListAssigned(ctx)
	if err != nil {
		return 0, err
	}
	payments, err := s.paymentRepo.List(ctx, repositories.PaymentFilter{
		BillingMonthID: &bm.ID,
		Statuses:       []models.PaymentStatusType{models.PaymentStatusPaid, models.PaymentStatusPending},
	})
	if err != nil {
		return 0, err
	}
	settled := make(map[uuid.UUID]bool, len(payments))
	for _, p := range payments {
		settled[p.TenantID] = true
	}

	var due []uuid.UUID
	for _, u := range units {
		if !settled[*u.TenantID] {
			due = append(due, *u.TenantID)
		}
	}
	if len(due) == 0 {
		return 0, nil
	}

	resp, err := s.SendReminders(ctx, dtos.SendRemindersRequest{
		Message:   fmt.Sprintf(constants.UnpaidReminderTemplate, bm.Label()),
		TenantIDs: due,
	})
	if err != nil {
		return 0, err
	}
	return resp.NotificationsCreated, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

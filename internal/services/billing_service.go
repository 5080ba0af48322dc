package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/constants"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type BillingService struct {
	billingRepo      repositories.BillingMonthRepository
	unitRepo         repositories.UnitRepository
	invoiceRepo      repositories.InvoiceRepository
	notificationRepo repositories.NotificationRepository
	paymentRepo      repositories.PaymentRepository
	bus              eventbus.Publisher
	now              Clock
}

func NewBillingService(
	billingRepo repositories.BillingMonthRepository,
	unitRepo repositories.UnitRepository,
	invoiceRepo repositories.InvoiceRepository,
	notificationRepo repositories.NotificationRepository,
	paymentRepo repositories.PaymentRepository,
	bus eventbus.Publisher,
) *BillingService {
	return &BillingService{
		billingRepo:      billingRepo,
		unitRepo:         unitRepo,
		invoiceRepo:      invoiceRepo,
		notificationRepo: notificationRepo,
		paymentRepo:      paymentRepo,
		bus:              bus,
		now:              systemClock,
	}
}

// CreateBillingMonth inserts the period and, unless disabled, fans out one
// invoice and one notification per tenant-assigned unit. The fan-out is best
// effort: the billing month survives an invoice failure and the response
// says so.
func (s *BillingService) CreateBillingMonth(
	ctx context.Context,
	req dtos.CreateBillingMonthRequest,
) (*dtos.CreateBillingMonthResponse, error) {
	if req.Month < 1 || req.Month > 12 {
		return nil, utils.NewValidationError("Month must be between 1 and 12.")
	}
	if req.Year <= 0 {
		return nil, utils.NewValidationError("Year is required.")
	}

	if existing, err := s.billingRepo.FindByMonthYear(ctx, req.Month, req.Year); err == nil && existing != nil {
		utils.Logger.Warnf("Billing month %02d/%d already exists (%s); creating another", req.Month, req.Year, existing.ID)
	}

	bm := &models.BillingMonth{
		ID:       uuid.New(),
		Month:    req.Month,
		Year:     req.Year,
		IsActive: true,
	}
	if req.PaymentLink != nil && strings.TrimSpace(*req.PaymentLink) != "" {
		link := strings.TrimSpace(*req.PaymentLink)
		bm.PaymentLink = &link
	}

	if err := s.billingRepo.Create(ctx, bm); err != nil {
		return nil, utils.NewInternalError("Could not create billing month", err)
	}
	publish(ctx, s.bus, eventbus.TableBillingMonths, eventbus.EventInsert, bm.ID, nil)

	resp := &dtos.CreateBillingMonthResponse{BillingMonth: bm}
	if req.GenerateInvoices != nil && !*req.GenerateInvoices {
		return resp, nil
	}

	log := utils.Logger.WithFields(logrus.Fields{"billing_month_id": bm.ID, "period": bm.Label()})

	units, err := s.unitRepo.ListAssigned(ctx)
	if err != nil {
		log.WithError(err).Error("Listing assigned units for invoice generation failed")
		resp.InvoicesFailed = true
		return resp, nil
	}

	invoices := make([]models.Invoice, 0, len(units))
	for _, u := range units {
		if u.TenantID == nil {
			continue
		}
		invoices = append(invoices, models.Invoice{
			ID:             uuid.New(),
			BillingMonthID: bm.ID,
			TenantID:       *u.TenantID,
			InvoiceNumber:  InvoiceNumber(bm.Year, bm.Month, u.UnitNumber),
			Amount:         u.RentAmount,
			UnitNumber:     u.UnitNumber,
		})
	}
	if len(invoices) == 0 {
		return resp, nil
	}

	if err := s.invoiceRepo.CreateMany(ctx, invoices); err != nil {
		log.WithError(err).Error("Invoice generation failed")
		resp.InvoicesFailed = true
		return resp, nil
	}
	resp.InvoicesCreated = len(invoices)
	for i := range invoices {
		publish(ctx, s.bus, eventbus.TableInvoices, eventbus.EventInsert, invoices[i].ID, &invoices[i].TenantID)
	}

	msg := fmt.Sprintf(constants.InvoiceNotificationTemplate, time.Month(bm.Month).String(), bm.Year)
	notes := make([]models.Notification, len(invoices))
	for i, inv := range invoices {
		notes[i] = models.Notification{ID: uuid.New(), TenantID: inv.TenantID, Message: msg}
	}
	if err := s.notificationRepo.CreateMany(ctx, notes); err != nil {
		log.WithError(err).Warn("Invoice notifications failed")
		return resp, nil
	}
	resp.NotificationsCreated = len(notes)
	for i := range notes {
		publish(ctx, s.bus, eventbus.TableNotifications, eventbus.EventInsert, notes[i].ID, &notes[i].TenantID)
	}

	log.Infof("Created billing month with %d invoices", resp.InvoicesCreated)
	return resp, nil
}

// EnsureBillingMonth finds the billing month for (month, year), creating a
// bare one without invoices when none exists.
func (s *BillingService) EnsureBillingMonth(ctx context.Context, month, year int) (*models.BillingMonth, bool, error) {
	existing, err := s.billingRepo.FindByMonthYear(ctx, month, year)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	bm := &models.BillingMonth{ID: uuid.New(), Month: month, Year: year, IsActive: true}
	if err := s.billingRepo.Create(ctx, bm); err != nil {
		return nil, false, err
	}
	publish(ctx, s.bus, eventbus.TableBillingMonths, eventbus.EventInsert, bm.ID, nil)
	utils.Logger.Infof("Auto-created billing month %s", bm.Label())
	return bm, true, nil
}

// AutoCreateCurrentMonth runs from cron on the first of the month. It is a
// no-op when the period already exists.
func (s *BillingService) AutoCreateCurrentMonth(ctx context.Context) error {
	now := s.now()
	existing, err := s.billingRepo.FindByMonthYear(ctx, int(now.Month()), now.Year())
	if err != nil {
		return err
	}
	if existing != nil {
		utils.Logger.Debugf("Billing month %s already exists", existing.Label())
		return nil
	}
	_, err = s.CreateBillingMonth(ctx, dtos.CreateBillingMonthRequest{Month: int(now.Month()), Year: now.Year()})
	return err
}

func (s *BillingService) ListBillingMonths(ctx context.Context, activeOnly bool) ([]*models.BillingMonth, error) {
	return s.billingRepo.List(ctx, activeOnly)
}

func (s *BillingService) GetBillingMonth(ctx context.Context, id uuid.UUID) (*models.BillingMonth, error) {
	bm, err := s.billingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bm == nil {
		return nil, utils.NewNotFoundError("Billing month not found")
	}
	return bm, nil
}

func (s *BillingService) UpdateBillingMonth(
	ctx context.Context,
	id uuid.UUID,
	req dtos.UpdateBillingMonthRequest,
) (*models.BillingMonth, error) {
	bm, err := s.GetBillingMonth(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.PaymentLink != nil {
		link := strings.TrimSpace(*req.PaymentLink)
		if link == "" {
			bm.PaymentLink = nil
		} else {
			bm.PaymentLink = &link
		}
	}
	if req.IsActive != nil {
		bm.IsActive = *req.IsActive
	}
	if err := s.billingRepo.Update(ctx, bm); err != nil {
		if isNotFound(err) {
			return nil, utils.NewNotFoundError("Billing month not found")
		}
		return nil, err
	}
	publish(ctx, s.bus, eventbus.TableBillingMonths, eventbus.EventUpdate, bm.ID, nil)
	return bm, nil
}

// DeleteBillingMonth refuses while payments reference the period. Its
// invoices go with it.
func (s *BillingService) DeleteBillingMonth(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetBillingMonth(ctx, id); err != nil {
		return err
	}
	n, err := s.paymentRepo.CountByBillingMonth(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return utils.NewConflictError(
			fmt.Sprintf("Billing month has %d recorded payment(s) and cannot be deleted. Deactivate it instead.", n), nil)
	}
	if err := s.billingRepo.Delete(ctx, id); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return utils.NewConflictError("Billing month is still referenced by payments", err)
		}
		if isNotFound(err) {
			return utils.NewNotFoundError("Billing month not found")
		}
		return err
	}
	publish(ctx, s.bus, eventbus.TableBillingMonths, eventbus.EventDelete, id, nil)
	return nil
}

// InvoiceNumber renders INV-{year}-{MM}-{unit}.
func InvoiceNumber(year, month int, unitNumber string) string {
	return fmt.Sprintf("%s-%d-%02d-%s", constants.InvoiceNumberPrefix, year, month, unitNumber)
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/constants"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

const msgMissingFields = "Please fill in all required fields."

type PaymentService struct {
	paymentRepo      repositories.PaymentRepository
	profileRepo      repositories.ProfileRepository
	unitRepo         repositories.UnitRepository
	billingRepo      repositories.BillingMonthRepository
	notificationRepo repositories.NotificationRepository
	billing          *BillingService
	receipts         *ReceiptService
	bus              eventbus.Publisher
	now              Clock
}

func NewPaymentService(
	paymentRepo repositories.PaymentRepository,
	profileRepo repositories.ProfileRepository,
	unitRepo repositories.UnitRepository,
	billingRepo repositories.BillingMonthRepository,
	notificationRepo repositories.NotificationRepository,
	billing *BillingService,
	receipts *ReceiptService,
	bus eventbus.Publisher,
) *PaymentService {
	return &PaymentService{
		paymentRepo:      paymentRepo,
		profileRepo:      profileRepo,
		unitRepo:         unitRepo,
		billingRepo:      billingRepo,
		notificationRepo: notificationRepo,
		billing:          billing,
		receipts:         receipts,
		bus:              bus,
		now:              systemClock,
	}
}

// RecordManualPayment stores a payment an admin entered by hand. Without an
// explicit billing month the period is taken from the payment date and
// created when missing. The tenant is not notified.
func (s *PaymentService) RecordManualPayment(
	ctx context.Context,
	req dtos.RecordPaymentRequest,
) (*dtos.RecordPaymentResponse, error) {
	if req.TenantID == uuid.Nil || req.Amount.IsZero() || req.Status == "" || strings.TrimSpace(req.PaymentDate) == "" {
		return nil, utils.NewValidationError(msgMissingFields)
	}
	if err := validateMoney("Amount", req.Amount); err != nil {
		return nil, err
	}
	switch req.Status {
	case models.PaymentStatusPaid, models.PaymentStatusPartial,
		models.PaymentStatusPending, models.PaymentStatusOverdue:
	default:
		return nil, utils.NewValidationError(fmt.Sprintf("Unsupported payment status %q.", req.Status))
	}
	paidAt, err := time.Parse(time.DateOnly, req.PaymentDate)
	if err != nil {
		return nil, utils.NewValidationError("Payment date must be YYYY-MM-DD.")
	}

	tenant, err := s.profileRepo.GetByID(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, utils.NewNotFoundError("Tenant not found")
	}

	unit, err := s.unitRepo.GetByTenantID(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}
	if req.Status == models.PaymentStatusPartial {
		if err := checkPartial(req.Amount, rentOf(unit)); err != nil {
			return nil, err
		}
	}

	resp := &dtos.RecordPaymentResponse{}
	if req.BillingMonthID != nil {
		bm, err := s.billingRepo.GetByID(ctx, *req.BillingMonthID)
		if err != nil {
			return nil, err
		}
		if bm == nil {
			return nil, utils.NewNotFoundError("Billing month not found")
		}
		resp.BillingMonth = bm
	} else {
		bm, created, err := s.billing.EnsureBillingMonth(ctx, int(paidAt.Month()), paidAt.Year())
		if err != nil {
			return nil, utils.NewInternalError("Could not resolve billing month", err)
		}
		resp.BillingMonth = bm
		resp.BillingMonthCreated = created
	}

	reference := strings.TrimSpace(req.Notes)
	if reference == "" {
		reference = fmt.Sprintf("%s%d", constants.ManualReferencePrefix, s.now().UnixMilli())
	}

	p := &models.Payment{
		ID:             uuid.New(),
		TenantID:       req.TenantID,
		BillingMonthID: resp.BillingMonth.ID,
		FullName:       tenant.FullName(),
		Amount:         req.Amount,
		Status:         req.Status,
		MpesaCode:      &reference,
		CreatedAt:      paidAt,
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, duplicateReference(reference, err)
		}
		return nil, utils.NewInternalError("Failed to save payment.", err)
	}
	resp.Payment = p
	publish(ctx, s.bus, eventbus.TablePayments, eventbus.EventInsert, p.ID, &p.TenantID)

	utils.Logger.WithFields(logrus.Fields{
		"payment_id": p.ID,
		"tenant_id":  p.TenantID,
		"status":     p.Status,
	}).Infof("Recorded manual payment of KES %s", formatKES(p.Amount))

	if p.Status == models.PaymentStatusPaid {
		rc, err := s.receipts.IssueForPayment(ctx, p)
		if err != nil {
			utils.Logger.WithError(err).Errorf("Receipt for manual payment %s failed", p.ID)
		}
		resp.Receipt = rc
	}
	return resp, nil
}

// SubmitTenantPayment stores a tenant's self-reported payment as pending
// until an admin reviews it.
func (s *PaymentService) SubmitTenantPayment(
	ctx context.Context,
	tenantID uuid.UUID,
	req dtos.SubmitPaymentRequest,
) (*models.Payment, error) {
	if err := validateMoney("Amount", req.Amount); err != nil {
		return nil, err
	}
	bm, err := s.billingRepo.GetByID(ctx, req.BillingMonthID)
	if err != nil {
		return nil, err
	}
	if bm == nil {
		return nil, utils.NewNotFoundError("Billing month not found")
	}

	reference := strings.TrimSpace(req.Reference)
	p := &models.Payment{
		ID:             uuid.New(),
		TenantID:       tenantID,
		BillingMonthID: bm.ID,
		FullName:       strings.TrimSpace(req.FullName),
		Amount:         req.Amount,
		Status:         models.PaymentStatusPending,
		MpesaCode:      &reference,
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, duplicateReference(reference, err)
		}
		return nil, utils.NewInternalError("Failed to submit payment.", err)
	}
	publish(ctx, s.bus, eventbus.TablePayments, eventbus.EventInsert, p.ID, &p.TenantID)
	return p, nil
}

// UpdatePaymentStatus applies an admin decision. Concurrent decisions on
// the same payment are last-write-wins.
func (s *PaymentService) UpdatePaymentStatus(
	ctx context.Context,
	id uuid.UUID,
	status models.PaymentStatusType,
) (*dtos.PaymentStatusResponse, error) {
	if !status.Stored() || status == models.PaymentStatusFailed {
		return nil, utils.NewValidationError(fmt.Sprintf("Unsupported payment status %q.", status))
	}

	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.NewNotFoundError("Payment not found")
	}
	if status == models.PaymentStatusPartial {
		unit, err := s.unitRepo.GetByTenantID(ctx, p.TenantID)
		if err != nil {
			return nil, err
		}
		if err := checkPartial(p.Amount, rentOf(unit)); err != nil {
			return nil, err
		}
	}

	if err := s.paymentRepo.UpdateStatus(ctx, id, status); err != nil {
		if isNotFound(err) {
			return nil, utils.NewNotFoundError("Payment not found")
		}
		return nil, err
	}
	p.Status = status
	publish(ctx, s.bus, eventbus.TablePayments, eventbus.EventUpdate, p.ID, &p.TenantID)

	resp := &dtos.PaymentStatusResponse{Payment: p}
	if status == models.PaymentStatusPaid {
		rc, err := s.receipts.IssueForPayment(ctx, p)
		if err != nil {
			utils.Logger.WithError(err).Errorf("Receipt for payment %s failed", p.ID)
		}
		resp.Receipt = rc
	}
	s.notifyDecision(ctx, p, resp.Receipt)
	return resp, nil
}

// ConfirmExternalPayment applies a provider-confirmed payment. A reference
// that was already recorded is acknowledged without a second write.
func (s *PaymentService) ConfirmExternalPayment(
	ctx context.Context,
	c dtos.PaymentConfirmation,
) (*dtos.PaymentStatusResponse, error) {
	if c.TenantID == uuid.Nil || strings.TrimSpace(c.Reference) == "" {
		return nil, utils.NewValidationError("Payment confirmation is missing tenant or reference.")
	}
	if err := validateMoney("Amount", c.Amount); err != nil {
		return nil, err
	}

	existing, err := s.paymentRepo.FindByReference(ctx, c.Reference)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		utils.Logger.Infof("Payment reference %s already recorded as %s; ignoring", c.Reference, existing.ID)
		return &dtos.PaymentStatusResponse{Payment: existing, Duplicate: true}, nil
	}

	tenant, err := s.profileRepo.GetByID(ctx, c.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, utils.NewNotFoundError("Tenant not found")
	}

	var bm *models.BillingMonth
	if c.BillingMonthID != nil {
		bm, err = s.billingRepo.GetByID(ctx, *c.BillingMonthID)
		if err != nil {
			return nil, err
		}
		if bm == nil {
			return nil, utils.NewNotFoundError("Billing month not found")
		}
	} else {
		at := c.OccurredAt
		if at.IsZero() {
			at = s.now()
		}
		if bm, _, err = s.billing.EnsureBillingMonth(ctx, int(at.Month()), at.Year()); err != nil {
			return nil, err
		}
	}

	unit, err := s.unitRepo.GetByTenantID(ctx, c.TenantID)
	if err != nil {
		return nil, err
	}
	status := models.PaymentStatusPaid
	if c.Amount.LessThan(rentOf(unit)) {
		status = models.PaymentStatusPartial
	}

	name := strings.TrimSpace(c.PayerName)
	if name == "" {
		name = tenant.FullName()
	}
	reference := c.Reference
	p := &models.Payment{
		ID:             uuid.New(),
		TenantID:       c.TenantID,
		BillingMonthID: bm.ID,
		FullName:       name,
		Amount:         c.Amount,
		Status:         status,
		MpesaCode:      &reference,
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		// A concurrent redelivery won the insert.
		if repositories.IsUniqueViolation(err) {
			if existing, findErr := s.paymentRepo.FindByReference(ctx, reference); findErr == nil && existing != nil {
				utils.Logger.Infof("Payment reference %s recorded concurrently as %s; ignoring", reference, existing.ID)
				return &dtos.PaymentStatusResponse{Payment: existing, Duplicate: true}, nil
			}
		}
		return nil, err
	}
	publish(ctx, s.bus, eventbus.TablePayments, eventbus.EventInsert, p.ID, &p.TenantID)
	utils.Logger.WithFields(logrus.Fields{
		"payment_id": p.ID,
		"tenant_id":  p.TenantID,
		"reference":  reference,
	}).Infof("Confirmed external payment as %s", status)

	resp := &dtos.PaymentStatusResponse{Payment: p}
	if status == models.PaymentStatusPaid {
		rc, err := s.receipts.IssueForPayment(ctx, p)
		if err != nil {
			utils.Logger.WithError(err).Errorf("Receipt for payment %s failed", p.ID)
		}
		resp.Receipt = rc
	}
	s.notifyDecision(ctx, p, resp.Receipt)
	return resp, nil
}

func duplicateReference(reference string, err error) error {
	return utils.NewConflictError(fmt.Sprintf("Payment reference %s has already been recorded.", reference), err)
}

// ListPayments returns payments enriched with unit and period context.
func (s *PaymentService) ListPayments(ctx context.Context, q dtos.ListPaymentsQuery) ([]*dtos.PaymentView, error) {
	f := repositories.PaymentFilter{TenantID: q.TenantID, BillingMonthID: q.BillingMonthID}
	if q.Status != nil {
		f.Statuses = []models.PaymentStatusType{*q.Status}
	}
	payments, err := s.paymentRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, payments), nil
}

func (s *PaymentService) ListTenantPayments(ctx context.Context, tenantID uuid.UUID) ([]*dtos.PaymentView, error) {
	return s.ListPayments(ctx, dtos.ListPaymentsQuery{TenantID: &tenantID})
}

// enrich is best effort: lookups that fail leave the view fields empty.
func (s *PaymentService) enrich(ctx context.Context, payments []*models.Payment) []*dtos.PaymentView {
	unitsByTenant := map[uuid.UUID]*models.Unit{}
	if units, err := s.unitRepo.ListAssigned(ctx); err != nil {
		utils.Logger.WithError(err).Warn("Payment list: unit lookup failed")
	} else {
		for _, u := range units {
			unitsByTenant[*u.TenantID] = u
		}
	}
	periods := map[uuid.UUID]string{}
	if months, err := s.billingRepo.List(ctx, false); err != nil {
		utils.Logger.WithError(err).Warn("Payment list: billing month lookup failed")
	} else {
		for _, bm := range months {
			periods[bm.ID] = bm.Label()
		}
	}

	views := make([]*dtos.PaymentView, len(payments))
	for i, p := range payments {
		v := &dtos.PaymentView{Payment: p, BillingPeriod: periods[p.BillingMonthID]}
		if u, ok := unitsByTenant[p.TenantID]; ok {
			v.UnitNumber = u.UnitNumber
			rent := u.RentAmount
			v.RentAmount = &rent
			if p.Status == models.PaymentStatusPartial {
				bal := RemainingBalance(rent, p.Amount)
				v.Balance = &bal
			}
		}
		views[i] = v
	}
	return views
}

// notifyDecision tells the tenant about an approval, partial recording or
// rejection. Failures are logged only.
func (s *PaymentService) notifyDecision(ctx context.Context, p *models.Payment, rc *models.Receipt) {
	period := "this billing period"
	if bm, err := s.billingRepo.GetByID(ctx, p.BillingMonthID); err == nil && bm != nil {
		period = bm.Label()
	}

	var msg string
	switch p.Status {
	case models.PaymentStatusPaid:
		number := ""
		if rc != nil {
			number = rc.ReceiptNumber
		}
		msg = fmt.Sprintf(constants.PaymentApprovedNotification, formatKES(p.Amount), period, number)
	case models.PaymentStatusPartial:
		rent := decimal.Zero
		if unit, err := s.unitRepo.GetByTenantID(ctx, p.TenantID); err == nil {
			rent = rentOf(unit)
		}
		msg = fmt.Sprintf(constants.PaymentPartialNotification,
			formatKES(p.Amount), period, formatKES(RemainingBalance(rent, p.Amount)))
	case models.PaymentStatusRejected:
		msg = fmt.Sprintf(constants.PaymentRejectedNotification, period)
	default:
		return
	}

	n := models.Notification{ID: uuid.New(), TenantID: p.TenantID, Message: msg}
	if err := s.notificationRepo.CreateMany(ctx, []models.Notification{n}); err != nil {
		utils.Logger.WithError(err).Warnf("Notification for payment %s failed", p.ID)
		return
	}
	publish(ctx, s.bus, eventbus.TableNotifications, eventbus.EventInsert, n.ID, &n.TenantID)
}

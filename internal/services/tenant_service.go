package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

const generatedPasswordLength = 14

type TenantService struct {
	profileRepo      repositories.ProfileRepository
	unitRepo         repositories.UnitRepository
	billingRepo      repositories.BillingMonthRepository
	paymentRepo      repositories.PaymentRepository
	invoiceRepo      repositories.InvoiceRepository
	receiptRepo      repositories.ReceiptRepository
	notificationRepo repositories.NotificationRepository
	units            *UnitService
	bus              eventbus.Publisher
	now              Clock
}

func NewTenantService(
	profileRepo repositories.ProfileRepository,
	unitRepo repositories.UnitRepository,
	billingRepo repositories.BillingMonthRepository,
	paymentRepo repositories.PaymentRepository,
	invoiceRepo repositories.InvoiceRepository,
	receiptRepo repositories.ReceiptRepository,
	notificationRepo repositories.NotificationRepository,
	units *UnitService,
	bus eventbus.Publisher,
) *TenantService {
	return &TenantService{
		profileRepo:      profileRepo,
		unitRepo:         unitRepo,
		billingRepo:      billingRepo,
		paymentRepo:      paymentRepo,
		invoiceRepo:      invoiceRepo,
		receiptRepo:      receiptRepo,
		notificationRepo: notificationRepo,
		units:            units,
		bus:              bus,
		now:              systemClock,
	}
}

// ListTenants returns tenants with their unit and the status of their most
// recent payment.
func (s *TenantService) ListTenants(ctx context.Context, status *models.ProfileStatusType) ([]*dtos.TenantView, error) {
	tenants, err := s.profileRepo.List(ctx, models.RoleTenant, status)
	if err != nil {
		return nil, err
	}

	unitsByTenant := map[uuid.UUID]*models.Unit{}
	if units, err := s.unitRepo.ListAssigned(ctx); err != nil {
		utils.Logger.WithError(err).Warn("Tenant list: unit lookup failed")
	} else {
		for _, u := range units {
			unitsByTenant[*u.TenantID] = u
		}
	}
	latest, err := s.paymentRepo.LatestPerTenant(ctx)
	if err != nil {
		utils.Logger.WithError(err).Warn("Tenant list: latest payment lookup failed")
		latest = map[uuid.UUID]*models.Payment{}
	}

	views := make([]*dtos.TenantView, len(tenants))
	for i, t := range tenants {
		v := &dtos.TenantView{Profile: t, Unit: unitsByTenant[t.ID]}
		if p, ok := latest[t.ID]; ok {
			v.LatestPaymentStatus = p.Status
		}
		views[i] = v
	}
	return views, nil
}

// AddTenant creates an approved tenant and optionally places them in a
// unit. When the placement fails the new profile is removed again.
func (s *TenantService) AddTenant(ctx context.Context, req dtos.AddTenantRequest) (*dtos.AddTenantResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.profileRepo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, utils.NewConflictError("A user with this email already exists.", utils.ErrEmailExists)
	}

	resp := &dtos.AddTenantResponse{}
	password := req.Password
	if password == "" {
		password = utils.RandomString(generatedPasswordLength)
		resp.TemporaryPassword = password
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, utils.NewInternalError("Could not create tenant", err)
	}

	t := &models.Profile{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        trimmedOrNil(req.Phone),
		Role:         models.RoleTenant,
		Status:       models.ProfileStatusApproved,
		PasswordHash: hash,
	}
	if full := trimmedOrNil(req.IDNumber); full != nil {
		t.IDNumberFull = full
		masked := MaskIDNumber(*full)
		t.IDNumber = &masked
	}
	if req.LeaseStartDate != nil {
		start, err := time.Parse(time.DateOnly, *req.LeaseStartDate)
		if err != nil {
			return nil, utils.NewValidationError("Lease start date must be YYYY-MM-DD.")
		}
		t.LeaseStartDate = &start
	}

	if err := s.profileRepo.Create(ctx, t); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.NewConflictError("A user with this email already exists.", utils.ErrEmailExists)
		}
		return nil, err
	}
	publish(ctx, s.bus, eventbus.TableProfiles, eventbus.EventInsert, t.ID, &t.ID)
	resp.Tenant = t

	if req.UnitID != nil {
		unit, err := s.units.AssignTenant(ctx, *req.UnitID, t.ID)
		if err != nil {
			if delErr := s.profileRepo.Delete(ctx, t.ID); delErr != nil {
				utils.Logger.WithError(delErr).Errorf("Rolling back tenant %s after failed assignment", t.ID)
			}
			return nil, err
		}
		resp.Unit = unit
	}

	utils.Logger.Infof("Added tenant %s (%s)", t.ID, t.Email)
	return resp, nil
}

// RemoveTenant vacates the tenant's unit, then deletes the profile along
// with their invoices and notifications. Tenants with recorded payments
// are refused; suspend them instead so the history stays intact.
func (s *TenantService) RemoveTenant(ctx context.Context, id uuid.UUID) error {
	t, err := s.getTenant(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.paymentRepo.CountByTenant(ctx, t.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return utils.NewConflictError(
			fmt.Sprintf("Tenant has %d recorded payment(s) and cannot be removed. Suspend the account instead.", n), nil)
	}
	if err := s.units.VacateTenant(ctx, t.ID); err != nil {
		return err
	}
	if err := s.profileRepo.Delete(ctx, t.ID); err != nil {
		if repositories.IsForeignKeyViolation(err) {
			return utils.NewConflictError("Tenant still has recorded payments", err)
		}
		return err
	}
	publish(ctx, s.bus, eventbus.TableProfiles, eventbus.EventDelete, t.ID, &t.ID)
	utils.Logger.Infof("Removed tenant %s", t.ID)
	return nil
}

func (s *TenantService) SetTenantStatus(ctx context.Context, id uuid.UUID, status models.ProfileStatusType) (*models.Profile, error) {
	if !status.Valid() {
		return nil, utils.NewValidationError(fmt.Sprintf("Unsupported tenant status %q.", status))
	}
	t, err := s.getTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Status = status
	return t, s.save(ctx, t)
}

func (s *TenantService) UpdateLease(ctx context.Context, id uuid.UUID, req dtos.UpdateLeaseRequest) (*models.Profile, error) {
	t, err := s.getTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.LeaseStartDate != nil {
		start, err := time.Parse(time.DateOnly, *req.LeaseStartDate)
		if err != nil {
			return nil, utils.NewValidationError("Lease start date must be YYYY-MM-DD.")
		}
		t.LeaseStartDate = &start
	}
	if req.LeaseEndDate != nil {
		end, err := time.Parse(time.DateOnly, *req.LeaseEndDate)
		if err != nil {
			return nil, utils.NewValidationError("Lease end date must be YYYY-MM-DD.")
		}
		t.LeaseEndDate = &end
	}
	if t.LeaseStartDate != nil && t.LeaseEndDate != nil && t.LeaseEndDate.Before(*t.LeaseStartDate) {
		return nil, utils.NewValidationError("Lease end date must be after the start date.")
	}
	return t, s.save(ctx, t)
}

// SetLeaseDocument records metadata for a lease stored elsewhere.
func (s *TenantService) SetLeaseDocument(ctx context.Context, id uuid.UUID, req dtos.LeaseDocumentRequest) (*models.Profile, error) {
	t, err := s.getTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	t.LeaseDocument = &models.LeaseDocument{
		Name:       req.Name,
		Size:       req.Size,
		URL:        req.URL,
		UploadedAt: s.now().UTC(),
	}
	return t, s.save(ctx, t)
}

// TenantOverview assembles the tenant portal: the unit, every active
// billing month with its resolved status, and the tenant's documents.
func (s *TenantService) TenantOverview(ctx context.Context, tenantID uuid.UUID) (*dtos.TenantOverview, error) {
	profile, err := s.profileRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, utils.NewNotFoundError("Profile not found")
	}

	unit, err := s.unitRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	months, err := s.billingRepo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.List(ctx, repositories.PaymentFilter{TenantID: &tenantID})
	if err != nil {
		return nil, err
	}

	// payments arrive newest first, so the first hit per month wins
	latest := make(map[uuid.UUID]*models.Payment, len(payments))
	for _, p := range payments {
		if _, ok := latest[p.BillingMonthID]; !ok {
			latest[p.BillingMonthID] = p
		}
	}

	rent := rentOf(unit)
	ov := &dtos.TenantOverview{
		Profile: profile,
		Unit:    unit,
		Months:  make([]dtos.TenantMonthView, 0, len(months)),
	}
	for _, bm := range months {
		p := latest[bm.ID]
		ov.Months = append(ov.Months, dtos.TenantMonthView{
			BillingMonth: bm,
			Payment:      p,
			Status:       ResolveForMonth(bm, p, rent),
		})
	}

	if ov.Invoices, err = s.invoiceRepo.ListByTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	if ov.Receipts, err = s.receiptRepo.ListByTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	if ov.Notifications, err = s.notificationRepo.ListByTenant(ctx, tenantID); err != nil {
		return nil, err
	}
	for _, n := range ov.Notifications {
		if !n.Read {
			ov.UnreadCount++
		}
	}
	return ov, nil
}

func (s *TenantService) getTenant(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	t, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.Role != models.RoleTenant {
		return nil, utils.NewNotFoundError("Tenant not found")
	}
	return t, nil
}

func (s *TenantService) save(ctx context.Context, t *models.Profile) error {
	if err := s.profileRepo.Update(ctx, t); err != nil {
		if isNotFound(err) {
			return utils.NewNotFoundError("Tenant not found")
		}
		return err
	}
	publish(ctx, s.bus, eventbus.TableProfiles, eventbus.EventUpdate, t.ID, &t.ID)
	return nil
}

// MaskIDNumber keeps the last four characters visible.
func MaskIDNumber(id string) string {
	if len(id) <= 4 {
		return id
	}
	return strings.Repeat("*", len(id)-4) + id[len(id)-4:]
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

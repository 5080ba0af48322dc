package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/shopspring/decimal"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"golang.org/x/crypto/bcrypt"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

var errStoreDown = errors.New("store unavailable")

func uniqueViolation() error { return &pgconn.PgError{Code: "23505"} }

// memStore backs every fake repository. Reads hand out copies so services
// cannot mutate stored rows without going through a write.
type memStore struct {
	mu sync.Mutex

	profiles map[uuid.UUID]models.Profile
	units    map[uuid.UUID]models.Unit
	months   []models.BillingMonth
	payments []models.Payment
	invoices []models.Invoice
	receipts []models.Receipt
	notes    []models.Notification
	prefs    map[uuid.UUID]models.UserPreference

	failInvoices      bool
	failNotifications bool
	failUnitList      bool
	tick              time.Duration
}

func newMemStore() *memStore {
	return &memStore{
		profiles: map[uuid.UUID]models.Profile{},
		units:    map[uuid.UUID]models.Unit{},
		prefs:    map[uuid.UUID]models.UserPreference{},
	}
}

// stamp returns strictly increasing timestamps so "newest first" ordering
// is deterministic.
func (m *memStore) stamp() time.Time {
	m.tick += time.Second
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(m.tick)
}

/* ---------- profiles ---------- */

type fakeProfileRepo struct{ m *memStore }

func (r fakeProfileRepo) Create(_ context.Context, p *models.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.profiles {
		if existing.Email == p.Email {
			return uniqueViolation()
		}
	}
	p.CreatedAt = r.m.stamp()
	p.UpdatedAt = p.CreatedAt
	r.m.profiles[p.ID] = *p
	return nil
}

func (r fakeProfileRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r fakeProfileRepo) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.profiles {
		if p.Email == email {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeProfileRepo) List(_ context.Context, role models.RoleType, status *models.ProfileStatusType) ([]*models.Profile, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Profile
	for _, p := range r.m.profiles {
		if p.Role != role || (status != nil && p.Status != *status) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FirstName < out[j].FirstName })
	return out, nil
}

func (r fakeProfileRepo) Update(_ context.Context, p *models.Profile) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.profiles[p.ID]; !ok {
		return utils.ErrNoRowsUpdated
	}
	r.m.profiles[p.ID] = *p
	return nil
}

func (r fakeProfileRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.profiles[id]
	if !ok {
		return utils.ErrNoRowsUpdated
	}
	p.PasswordHash = hash
	r.m.profiles[id] = p
	return nil
}

func (r fakeProfileRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.units {
		if u.TenantID != nil && *u.TenantID == id {
			return &pgconn.PgError{Code: "23503"}
		}
	}
	delete(r.m.profiles, id)
	return nil
}

/* ---------- units ---------- */

type fakeUnitRepo struct{ m *memStore }

func (r fakeUnitRepo) Create(_ context.Context, u *models.Unit) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.units {
		if existing.UnitNumber == u.UnitNumber {
			return uniqueViolation()
		}
	}
	if u.Status == "" {
		u.Status = models.UnitStatusVacant
	}
	u.RowVersion = 1
	r.m.units[u.ID] = *u
	return nil
}

func (r fakeUnitRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Unit, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.units[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r fakeUnitRepo) GetByTenantID(_ context.Context, tenantID uuid.UUID) (*models.Unit, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.units {
		if u.TenantID != nil && *u.TenantID == tenantID {
			cp := u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeUnitRepo) List(_ context.Context, status *models.UnitStatusType) ([]*models.Unit, error) {
	return r.filter(func(u models.Unit) bool { return status == nil || u.Status == *status })
}

func (r fakeUnitRepo) ListAssigned(_ context.Context) ([]*models.Unit, error) {
	return r.filter(func(u models.Unit) bool { return u.TenantID != nil })
}

func (r fakeUnitRepo) filter(keep func(models.Unit) bool) ([]*models.Unit, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failUnitList {
		return nil, errStoreDown
	}
	var out []*models.Unit
	for _, u := range r.m.units {
		if keep(u) {
			cp := u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitNumber < out[j].UnitNumber })
	return out, nil
}

func (r fakeUnitRepo) Update(_ context.Context, u *models.Unit) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.units[u.ID]
	if !ok {
		return utils.ErrNoRowsUpdated
	}
	cur.UnitNumber, cur.Floor, cur.Bedrooms, cur.Bathrooms, cur.RentAmount =
		u.UnitNumber, u.Floor, u.Bedrooms, u.Bathrooms, u.RentAmount
	r.m.units[u.ID] = cur
	return nil
}

func (r fakeUnitRepo) UpdateIfVersion(_ context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.units[u.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	if u.TenantID != nil {
		for id, other := range r.m.units {
			if id != u.ID && other.TenantID != nil && *other.TenantID == *u.TenantID {
				return nil, uniqueViolation()
			}
		}
	}
	cur.Status, cur.TenantID = u.Status, u.TenantID
	cur.RowVersion = expected + 1
	r.m.units[u.ID] = cur
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r fakeUnitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	return repositories.UpdateVersioned(ctx, id, r.GetByID, r.UpdateIfVersion, mutate)
}

func (r fakeUnitRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.units[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.m.units, id)
	return nil
}

/* ---------- billing months ---------- */

type fakeBillingRepo struct{ m *memStore }

func (r fakeBillingRepo) Create(_ context.Context, bm *models.BillingMonth) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	bm.CreatedAt = r.m.stamp()
	bm.UpdatedAt = bm.CreatedAt
	r.m.months = append(r.m.months, *bm)
	return nil
}

func (r fakeBillingRepo) GetByID(_ context.Context, id uuid.UUID) (*models.BillingMonth, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, bm := range r.m.months {
		if bm.ID == id {
			cp := bm
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeBillingRepo) FindByMonthYear(_ context.Context, month, year int) (*models.BillingMonth, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, bm := range r.m.months {
		if bm.Month == month && bm.Year == year {
			cp := bm
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeBillingRepo) List(_ context.Context, activeOnly bool) ([]*models.BillingMonth, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.BillingMonth
	for _, bm := range r.m.months {
		if activeOnly && !bm.IsActive {
			continue
		}
		cp := bm
		out = append(out, &cp)
	}
	return out, nil
}

func (r fakeBillingRepo) Update(_ context.Context, bm *models.BillingMonth) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.months {
		if r.m.months[i].ID == bm.ID {
			r.m.months[i] = *bm
			return nil
		}
	}
	return utils.ErrNoRowsUpdated
}

func (r fakeBillingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.payments {
		if p.BillingMonthID == id {
			return &pgconn.PgError{Code: "23503"}
		}
	}
	for i := range r.m.months {
		if r.m.months[i].ID == id {
			r.m.months = append(r.m.months[:i], r.m.months[i+1:]...)
			kept := r.m.invoices[:0]
			for _, inv := range r.m.invoices {
				if inv.BillingMonthID != id {
					kept = append(kept, inv)
				}
			}
			r.m.invoices = kept
			return nil
		}
	}
	return pgx.ErrNoRows
}

/* ---------- payments ---------- */

type fakePaymentRepo struct{ m *memStore }

func (r fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	// payments_stripe_reference_key
	if p.MpesaCode != nil && strings.HasPrefix(*p.MpesaCode, "pi_") {
		for _, existing := range r.m.payments {
			if existing.MpesaCode != nil && *existing.MpesaCode == *p.MpesaCode {
				return uniqueViolation()
			}
		}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.m.stamp()
	}
	p.UpdatedAt = r.m.stamp()
	r.m.payments = append(r.m.payments, *p)
	return nil
}

func (r fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.payments {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakePaymentRepo) FindByReference(_ context.Context, reference string) (*models.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, p := range r.m.payments {
		if p.MpesaCode != nil && *p.MpesaCode == reference {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakePaymentRepo) List(_ context.Context, f repositories.PaymentFilter) ([]*models.Payment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Payment
	for _, p := range r.m.payments {
		if f.TenantID != nil && p.TenantID != *f.TenantID {
			continue
		}
		if f.BillingMonthID != nil && p.BillingMonthID != *f.BillingMonthID {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, p.Status) {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r fakePaymentRepo) LatestPerTenant(ctx context.Context) (map[uuid.UUID]*models.Payment, error) {
	all, err := r.List(ctx, repositories.PaymentFilter{})
	if err != nil {
		return nil, err
	}
	out := map[uuid.UUID]*models.Payment{}
	for _, p := range all {
		if _, ok := out[p.TenantID]; !ok {
			out[p.TenantID] = p
		}
	}
	return out, nil
}

func (r fakePaymentRepo) CountByBillingMonth(_ context.Context, billingMonthID uuid.UUID) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n := 0
	for _, p := range r.m.payments {
		if p.BillingMonthID == billingMonthID {
			n++
		}
	}
	return n, nil
}

func (r fakePaymentRepo) CountByTenant(_ context.Context, tenantID uuid.UUID) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n := 0
	for _, p := range r.m.payments {
		if p.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r fakePaymentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.PaymentStatusType) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.payments {
		if r.m.payments[i].ID == id {
			r.m.payments[i].Status = status
			r.m.payments[i].UpdatedAt = r.m.stamp()
			return nil
		}
	}
	return utils.ErrNoRowsUpdated
}

func containsStatus(list []models.PaymentStatusType, s models.PaymentStatusType) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

/* ---------- invoices, receipts, notifications, preferences ---------- */

type fakeInvoiceRepo struct{ m *memStore }

func (r fakeInvoiceRepo) CreateMany(_ context.Context, list []models.Invoice) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failInvoices {
		return errStoreDown
	}
	r.m.invoices = append(r.m.invoices, list...)
	return nil
}

func (r fakeInvoiceRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*models.Invoice, error) {
	return r.filter(func(i models.Invoice) bool { return i.TenantID == tenantID }), nil
}

func (r fakeInvoiceRepo) ListByBillingMonth(_ context.Context, id uuid.UUID) ([]*models.Invoice, error) {
	return r.filter(func(i models.Invoice) bool { return i.BillingMonthID == id }), nil
}

func (r fakeInvoiceRepo) filter(keep func(models.Invoice) bool) []*models.Invoice {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Invoice
	for _, inv := range r.m.invoices {
		if keep(inv) {
			cp := inv
			out = append(out, &cp)
		}
	}
	return out
}

type fakeReceiptRepo struct{ m *memStore }

func (r fakeReceiptRepo) Create(_ context.Context, rc *models.Receipt) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.receipts {
		if existing.PaymentID == rc.PaymentID {
			return uniqueViolation()
		}
	}
	rc.GeneratedAt = r.m.stamp()
	r.m.receipts = append(r.m.receipts, *rc)
	return nil
}

func (r fakeReceiptRepo) GetByPaymentID(_ context.Context, paymentID uuid.UUID) (*models.Receipt, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, rc := range r.m.receipts {
		if rc.PaymentID == paymentID {
			cp := rc
			return &cp, nil
		}
	}
	return nil, nil
}

func (r fakeReceiptRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*models.Receipt, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Receipt
	for _, rc := range r.m.receipts {
		if rc.TenantID == tenantID {
			cp := rc
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeNotificationRepo struct{ m *memStore }

func (r fakeNotificationRepo) CreateMany(_ context.Context, list []models.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failNotifications {
		return errStoreDown
	}
	for _, n := range list {
		n.CreatedAt = r.m.stamp()
		r.m.notes = append(r.m.notes, n)
	}
	return nil
}

func (r fakeNotificationRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*models.Notification, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.Notification
	for _, n := range r.m.notes {
		if n.TenantID == tenantID {
			cp := n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeNotificationRepo) ListRecent(_ context.Context, limit int) ([]*models.NotificationLogEntry, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*models.NotificationLogEntry
	for i := len(r.m.notes) - 1; i >= 0 && len(out) < limit; i-- {
		n := r.m.notes[i]
		p := r.m.profiles[n.TenantID]
		out = append(out, &models.NotificationLogEntry{Notification: n, TenantName: p.FullName()})
	}
	return out, nil
}

func (r fakeNotificationRepo) MarkRead(_ context.Context, id, tenantID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i := range r.m.notes {
		if r.m.notes[i].ID == id && r.m.notes[i].TenantID == tenantID {
			r.m.notes[i].Read = true
			return nil
		}
	}
	return utils.ErrNoRowsUpdated
}

type fakePreferenceRepo struct{ m *memStore }

func (r fakePreferenceRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*models.UserPreference, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r fakePreferenceRepo) Upsert(_ context.Context, pref *models.UserPreference) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if existing, ok := r.m.prefs[pref.UserID]; ok {
		pref.ID = existing.ID
	}
	r.m.prefs[pref.UserID] = *pref
	return nil
}

/* ---------- bus and delivery ---------- */

type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.ChangeEvent
}

func (b *recordingBus) Publish(_ context.Context, evt eventbus.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
}

func (b *recordingBus) count(table string, evt eventbus.EventType) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if eventbus.Matches(e, table, evt) {
			n++
		}
	}
	return n
}

type fakeEmail struct {
	sent []*mail.SGMailV3
	err  error
}

func (f *fakeEmail) Send(m *mail.SGMailV3) (*rest.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, m)
	return &rest.Response{StatusCode: 202}, nil
}

type fakeSMS struct {
	sent []*twilioApi.CreateMessageParams
}

func (f *fakeSMS) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.sent = append(f.sent, p)
	return &twilioApi.ApiV2010Message{}, nil
}

/* ---------- harness ---------- */

type harness struct {
	store *memStore
	bus   *recordingBus
	now   time.Time

	profiles      fakeProfileRepo
	units         fakeUnitRepo
	months        fakeBillingRepo
	payments      fakePaymentRepo
	invoices      fakeInvoiceRepo
	receipts      fakeReceiptRepo
	notifications fakeNotificationRepo
	prefs         fakePreferenceRepo

	receiptSvc      *ReceiptService
	billingSvc      *BillingService
	paymentSvc      *PaymentService
	unitSvc         *UnitService
	tenantSvc       *TenantService
	reportSvc       *ReportService
	notificationSvc *NotificationService
	settingsSvc     *SettingsService
}

func newHarness() *harness {
	utils.SilenceLogger()
	utils.SetPasswordCost(bcrypt.MinCost)
	m := newMemStore()
	h := &harness{
		store:         m,
		bus:           &recordingBus{},
		now:           time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
		profiles:      fakeProfileRepo{m},
		units:         fakeUnitRepo{m},
		months:        fakeBillingRepo{m},
		payments:      fakePaymentRepo{m},
		invoices:      fakeInvoiceRepo{m},
		receipts:      fakeReceiptRepo{m},
		notifications: fakeNotificationRepo{m},
		prefs:         fakePreferenceRepo{m},
	}
	clock := func() time.Time { return h.now }

	h.receiptSvc = NewReceiptService(h.receipts, h.units, h.bus)
	h.receiptSvc.now = clock
	h.billingSvc = NewBillingService(h.months, h.units, h.invoices, h.notifications, h.payments, h.bus)
	h.billingSvc.now = clock
	h.paymentSvc = NewPaymentService(h.payments, h.profiles, h.units, h.months, h.notifications,
		h.billingSvc, h.receiptSvc, h.bus)
	h.paymentSvc.now = clock
	h.unitSvc = NewUnitService(h.units, h.profiles, h.bus)
	h.tenantSvc = NewTenantService(h.profiles, h.units, h.months, h.payments, h.invoices, h.receipts,
		h.notifications, h.unitSvc, h.bus)
	h.tenantSvc.now = clock
	h.reportSvc = NewReportService(h.units, h.profiles, h.payments, h.months, h.paymentSvc)
	h.notificationSvc = NewNotificationService(h.notifications, h.profiles, h.units, h.payments, h.months, nil, h.bus)
	h.notificationSvc.now = clock
	h.settingsSvc = NewSettingsService(h.profiles, h.prefs, h.bus)
	return h
}

func (h *harness) addTenant(first, last string) *models.Profile {
	p := &models.Profile{
		ID:        uuid.New(),
		Email:     first + "@example.com",
		FirstName: first,
		LastName:  last,
		Role:      models.RoleTenant,
		Status:    models.ProfileStatusApproved,
	}
	if err := h.profiles.Create(context.Background(), p); err != nil {
		panic(err)
	}
	return p
}

func (h *harness) addUnit(number string, rent int64, tenant *models.Profile) *models.Unit {
	u := &models.Unit{ID: uuid.New(), UnitNumber: number, RentAmount: decimalFromInt(rent), Status: models.UnitStatusVacant}
	if tenant != nil {
		u.Status = models.UnitStatusOccupied
		u.TenantID = &tenant.ID
	}
	if err := h.units.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (h *harness) addMonth(month, year int) *models.BillingMonth {
	bm := &models.BillingMonth{ID: uuid.New(), Month: month, Year: year, IsActive: true}
	if err := h.months.Create(context.Background(), bm); err != nil {
		panic(err)
	}
	return bm
}

func (h *harness) addPayment(tenant *models.Profile, bm *models.BillingMonth, amount int64, status models.PaymentStatusType) *models.Payment {
	ref := uuid.NewString()
	p := &models.Payment{
		ID:             uuid.New(),
		TenantID:       tenant.ID,
		BillingMonthID: bm.ID,
		FullName:       tenant.FullName(),
		Amount:         decimalFromInt(amount),
		Status:         status,
		MpesaCode:      &ref,
	}
	if err := h.payments.Create(context.Background(), p); err != nil {
		panic(err)
	}
	return p
}

func decimalFromInt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func asAppError(err error) *utils.AppError {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

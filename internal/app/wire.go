package app

import (
	"github.com/kinnetikdevelopers-hub/almubarak/internal/config"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/services"
)

type Repositories struct {
	Profiles      repositories.ProfileRepository
	Units         repositories.UnitRepository
	BillingMonths repositories.BillingMonthRepository
	Payments      repositories.PaymentRepository
	Invoices      repositories.InvoiceRepository
	Receipts      repositories.ReceiptRepository
	Notifications repositories.NotificationRepository
	Preferences   repositories.PreferenceRepository
}

func NewRepositories(db repositories.DB) *Repositories {
	return &Repositories{
		Profiles:      repositories.NewProfileRepository(db),
		Units:         repositories.NewUnitRepository(db),
		BillingMonths: repositories.NewBillingMonthRepository(db),
		Payments:      repositories.NewPaymentRepository(db),
		Invoices:      repositories.NewInvoiceRepository(db),
		Receipts:      repositories.NewReceiptRepository(db),
		Notifications: repositories.NewNotificationRepository(db),
		Preferences:   repositories.NewPreferenceRepository(db),
	}
}

// Services is shared by the HTTP server and rentctl so both run the same
// business rules.
type Services struct {
	Auth          *services.AuthService
	Units         *services.UnitService
	Tenants       *services.TenantService
	Billing       *services.BillingService
	Payments      *services.PaymentService
	Receipts      *services.ReceiptService
	Reports       *services.ReportService
	Notifications *services.NotificationService
	Settings      *services.SettingsService
}

// NewServices wires every service. delivery may be nil, which keeps
// reminders in-app only.
func NewServices(cfg *config.Config, r *Repositories, delivery *services.Delivery, bus eventbus.Publisher) *Services {
	units := services.NewUnitService(r.Units, r.Profiles, bus)
	billing := services.NewBillingService(r.BillingMonths, r.Units, r.Invoices, r.Notifications, r.Payments, bus)
	receipts := services.NewReceiptService(r.Receipts, r.Units, bus)
	payments := services.NewPaymentService(r.Payments, r.Profiles, r.Units, r.BillingMonths, r.Notifications, billing, receipts, bus)

	return &Services{
		Auth:          services.NewAuthService(cfg, r.Profiles, bus),
		Units:         units,
		Tenants:       services.NewTenantService(r.Profiles, r.Units, r.BillingMonths, r.Payments, r.Invoices, r.Receipts, r.Notifications, units, bus),
		Billing:       billing,
		Payments:      payments,
		Receipts:      receipts,
		Reports:       services.NewReportService(r.Units, r.Profiles, r.Payments, r.BillingMonths, payments),
		Notifications: services.NewNotificationService(r.Notifications, r.Profiles, r.Units, r.Payments, r.BillingMonths, delivery, bus),
		Settings:      services.NewSettingsService(r.Profiles, r.Preferences, bus),
	}
}

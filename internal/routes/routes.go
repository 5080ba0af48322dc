package routes

const (
	Health = "/health"

	AuthSignup = "/api/v1/auth/signup"
	AuthLogin  = "/api/v1/auth/login"

	StripeWebhook = "/api/v1/payments/stripe/webhook"

	Realtime = "/api/v1/realtime"

	TenantOverview         = "/api/v1/tenant/overview"
	TenantPayments         = "/api/v1/tenant/payments"
	TenantNotifications    = "/api/v1/tenant/notifications"
	TenantNotificationRead = "/api/v1/tenant/notifications/{id}/read"

	SettingsProfile     = "/api/v1/settings/profile"
	SettingsPassword    = "/api/v1/settings/password"
	SettingsPreferences = "/api/v1/settings/preferences"

	AdminUnits           = "/api/v1/admin/units"
	AdminUnit            = "/api/v1/admin/units/{id}"
	AdminUnitAssign      = "/api/v1/admin/units/{id}/assign"
	AdminUnitVacate      = "/api/v1/admin/units/{id}/vacate"
	AdminUnitMaintenance = "/api/v1/admin/units/{id}/maintenance"

	AdminTenants             = "/api/v1/admin/tenants"
	AdminTenant              = "/api/v1/admin/tenants/{id}"
	AdminTenantStatus        = "/api/v1/admin/tenants/{id}/status"
	AdminTenantLease         = "/api/v1/admin/tenants/{id}/lease"
	AdminTenantLeaseDocument = "/api/v1/admin/tenants/{id}/lease-document"

	AdminBillingMonths      = "/api/v1/admin/billing-months"
	AdminBillingMonth       = "/api/v1/admin/billing-months/{id}"
	AdminBillingMonthReport = "/api/v1/admin/billing-months/{id}/report"

	AdminPayments      = "/api/v1/admin/payments"
	AdminPaymentStatus = "/api/v1/admin/payments/{id}/status"

	AdminDashboard = "/api/v1/admin/dashboard"

	AdminReminders          = "/api/v1/admin/reminders"
	AdminReminderCandidates = "/api/v1/admin/reminders/candidates"
	AdminReminderLog        = "/api/v1/admin/reminders/log"
)

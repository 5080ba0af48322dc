package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	"github.com/twilio/twilio-go"
	_ "time/tzdata"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/app"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/config"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/constants"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/controllers"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/middleware"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/migrations"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/routes"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/services"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize rent-service:", err)
	}
	defer application.Close()

	applied, err := migrations.Up(ctx, application.DB)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to apply migrations")
	}
	if len(applied) > 0 {
		utils.Logger.Infof("Applied migrations: %v", applied)
	}

	bus := eventbus.New(constants.EventBusBufferSize)
	bus.Start(context.Background())
	defer bus.Stop()

	repos := app.NewRepositories(application.DB)
	svc := app.NewServices(cfg, repos, newDelivery(cfg), bus)

	if cfg.LDFlag_SeedDbWithTestData {
		if err := app.SeedAllTestData(ctx, repos.Profiles, svc.Units, svc.Tenants, svc.Billing, cfg.SeedAdminPassword); err != nil {
			utils.Logger.Fatal("Failed to seed test data:", err)
		}
	}

	allowedOrigins := []string{cfg.AppUrl}
	if !cfg.LDFlag_CORSHighSecurity {
		allowedOrigins = append(allowedOrigins, utils.CORSLowSecurityAllowedOriginLocalhost)
	}

	// Controllers
	healthController := controllers.NewHealthController(application.DB)
	authController := controllers.NewAuthController(svc.Auth)
	unitController := controllers.NewUnitController(svc.Units)
	tenantController := controllers.NewTenantController(svc.Tenants)
	billingController := controllers.NewBillingController(svc.Billing, svc.Reports)
	paymentController := controllers.NewPaymentController(svc.Payments)
	notificationController := controllers.NewNotificationController(svc.Notifications)
	settingsController := controllers.NewSettingsController(svc.Settings, svc.Auth)
	stripeWebhookController := controllers.NewStripeWebhookController(cfg.StripeWebhookSecret, svc.Payments)
	realtimeController := controllers.NewRealtimeController(bus, wsOriginPatterns(allowedOrigins))

	router := mux.NewRouter()

	// Public routes
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.AuthSignup, authController.SignupHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.AuthLogin, authController.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.StripeWebhook, stripeWebhookController.WebhookHandler).Methods(http.MethodPost)

	// Any signed-in user
	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))
	secured.Handle(routes.Realtime, realtimeController).Methods(http.MethodGet)
	secured.HandleFunc(routes.TenantOverview, tenantController.OverviewHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TenantPayments, paymentController.SubmitHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.TenantPayments, paymentController.TenantListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TenantNotifications, notificationController.TenantListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TenantNotificationRead, notificationController.MarkReadHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.SettingsProfile, settingsController.UpdateProfileHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.SettingsPassword, settingsController.ChangePasswordHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.SettingsPreferences, settingsController.GetPreferencesHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.SettingsPreferences, settingsController.SetPreferencesHandler).Methods(http.MethodPut)

	// Admin only
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.AuthMiddleware(cfg.RSAPublicKey), middleware.AdminMiddleware)
	admin.HandleFunc(routes.AdminUnits, unitController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminUnits, unitController.CreateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminUnit, unitController.UpdateHandler).Methods(http.MethodPatch)
	admin.HandleFunc(routes.AdminUnit, unitController.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminUnitAssign, unitController.AssignHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminUnitVacate, unitController.VacateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminUnitMaintenance, unitController.MaintenanceHandler).Methods(http.MethodPost)

	admin.HandleFunc(routes.AdminTenants, tenantController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminTenants, tenantController.AddHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminTenant, tenantController.RemoveHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminTenantStatus, tenantController.StatusHandler).Methods(http.MethodPatch)
	admin.HandleFunc(routes.AdminTenantLease, tenantController.LeaseHandler).Methods(http.MethodPatch)
	admin.HandleFunc(routes.AdminTenantLeaseDocument, tenantController.LeaseDocumentHandler).Methods(http.MethodPut)

	admin.HandleFunc(routes.AdminBillingMonths, billingController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminBillingMonths, billingController.CreateHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminBillingMonth, billingController.UpdateHandler).Methods(http.MethodPatch)
	admin.HandleFunc(routes.AdminBillingMonth, billingController.DeleteHandler).Methods(http.MethodDelete)
	admin.HandleFunc(routes.AdminBillingMonthReport, billingController.ReportHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminDashboard, billingController.DashboardHandler).Methods(http.MethodGet)

	admin.HandleFunc(routes.AdminPayments, paymentController.ListHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminPayments, paymentController.RecordHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminPaymentStatus, paymentController.StatusHandler).Methods(http.MethodPatch)

	admin.HandleFunc(routes.AdminReminderCandidates, notificationController.CandidatesHandler).Methods(http.MethodGet)
	admin.HandleFunc(routes.AdminReminders, notificationController.SendHandler).Methods(http.MethodPost)
	admin.HandleFunc(routes.AdminReminderLog, notificationController.LogHandler).Methods(http.MethodGet)

	c := startCron(cfg, svc)
	defer func() { <-c.Stop().Done() }()

	co := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           co.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			utils.Logger.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.Logger.Fatal("rent-service failed to start:", err)
	}
	// In-flight handlers may still publish; the bus must outlive them.
	<-shutdownDone
	utils.Logger.Info("rent-service stopped")
}

// newDelivery returns nil when neither channel is switched on.
func newDelivery(cfg *config.Config) *services.Delivery {
	if !cfg.LDFlag_SendEmailReminders && !cfg.LDFlag_SendSMSReminders {
		return nil
	}
	d := &services.Delivery{
		OrgName: cfg.OrganizationName,
		Sandbox: cfg.LDFlag_SendgridSandboxMode,
	}
	if cfg.LDFlag_SendEmailReminders {
		d.Email = sendgrid.NewSendClient(cfg.SendGridAPIKey)
		d.FromEmail = cfg.LDFlag_SendgridFromEmail
	}
	if cfg.LDFlag_SendSMSReminders {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
		d.SMS = client.Api
		d.FromPhone = cfg.LDFlag_TwilioFromPhone
	}
	return d
}

func startCron(cfg *config.Config, svc *app.Services) *cron.Cron {
	c := cron.New(cron.WithLocation(time.UTC))

	if cfg.LDFlag_AutoCreateBillingMonths {
		_, err := c.AddFunc(constants.BillingMonthCronSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.CronJobTimeout)
			defer cancel()
			utils.Logger.Info("Starting billing month cron job...")
			if err := svc.Billing.AutoCreateCurrentMonth(ctx); err != nil {
				utils.Logger.WithError(err).Error("Failed to auto-create billing month")
			}
		})
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to schedule billing month cron")
		}
	}

	if cfg.LDFlag_DailyUnpaidReminders {
		_, err := c.AddFunc(constants.UnpaidReminderCronSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.CronJobTimeout)
			defer cancel()
			n, err := svc.Notifications.SendUnpaidReminders(ctx)
			if err != nil {
				utils.Logger.WithError(err).Error("Failed to send unpaid rent reminders")
				return
			}
			utils.Logger.Infof("Sent %d unpaid rent reminders", n)
		})
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to schedule unpaid reminder cron")
		}
	}

	c.Start()
	return c
}

// wsOriginPatterns strips schemes, since websocket.AcceptOptions matches
// on host only.
func wsOriginPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if i := strings.Index(o, "://"); i >= 0 {
			o = o[i+3:]
		}
		out = append(out, o)
	}
	return out
}

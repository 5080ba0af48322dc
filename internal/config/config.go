package config

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	Env              string

	// Database
	DBUrl string

	// Auth
	RSAPrivateKey  *rsa.PrivateKey
	RSAPublicKey   *rsa.PublicKey
	AccessTokenTTL time.Duration

	// Payment confirmation events
	StripeWebhookSecret string

	// Reminder delivery
	TwilioAccountSID string
	TwilioAuthToken  string
	SendGridAPIKey   string

	// Only read when seeding; empty means generate one.
	SeedAdminPassword string

	// LaunchDarkly flags (env fallbacks when no LD key is configured)
	LDFlag_SeedDbWithTestData      bool
	LDFlag_CORSHighSecurity        bool
	LDFlag_AutoCreateBillingMonths bool
	LDFlag_SendEmailReminders      bool
	LDFlag_SendSMSReminders        bool
	LDFlag_SendgridSandboxMode     bool
	LDFlag_SendgridFromEmail       string
	LDFlag_TwilioFromPhone         string
	LDFlag_DailyUnpaidReminders    bool
}

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second
	defaultAppName      = "rent-service"
	defaultTokenTTL     = 12 * time.Hour
)

// build-time overrides
var (
	AppName             string
	LDServerContextKey  = "rent-service"
	LDServerContextKind = "service"
)

// secretSource resolves a secret by key. Bitwarden wins over the
// environment when both are configured.
type secretSource struct {
	bws map[string]string
}

func (s secretSource) get(key string) string {
	if v, ok := s.bws[key]; ok && v != "" {
		return v
	}
	return os.Getenv(key)
}

// bwsProjectName names the Bitwarden project holding one environment's
// secrets, e.g. rent-service-prod.
func bwsProjectName(app, env string) string {
	return fmt.Sprintf("%s-%s", app, env)
}

func LoadConfig() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if AppName == "" {
		AppName = defaultAppName
	}
	utils.Logger.Info("Loading config for app: ", AppName)

	env := os.Getenv("ENV")
	if env == "" {
		env = "dev"
	}
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		appPort = "8080"
	}
	appUrl := os.Getenv("APP_URL")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}

	secrets := secretSource{}
	if utils.BWSConfigured() {
		client, err := utils.NewBWSSecretsClient()
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to initialize BWSSecretsClient")
		}
		projectName := bwsProjectName(AppName, env)
		appSecrets, err := client.GetBWSSecrets(projectName)
		client.Close()
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to fetch app secrets from BWS")
		}
		secrets.bws = appSecrets
		utils.Logger.Infof("Loaded %d secrets from BWS project %s", len(appSecrets), projectName)
	}

	dbURL := secrets.get("DATABASE_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DATABASE_URL is missing")
	}

	privKey, err := parseRSAPrivateKey(secrets.get("RSA_PRIVATE_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA private key")
	}
	pubKey, err := parseRSAPublicKey(secrets.get("RSA_PUBLIC_KEY_BASE64"))
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}

	tokenTTL := defaultTokenTTL
	if raw := os.Getenv("ACCESS_TOKEN_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			utils.Logger.WithError(err).Fatal("ACCESS_TOKEN_TTL is not a valid duration")
		}
		tokenTTL = d
	}

	stripeSecret := secrets.get("STRIPE_WEBHOOK_SECRET")
	if stripeSecret == "" {
		utils.Logger.Warn("STRIPE_WEBHOOK_SECRET is empty; payment confirmation webhooks will be rejected")
	}

	cfg := &Config{
		OrganizationName:    OrganizationName,
		AppName:             AppName,
		AppPort:             appPort,
		AppUrl:              appUrl,
		Env:                 env,
		DBUrl:               dbURL,
		RSAPrivateKey:       privKey,
		RSAPublicKey:        pubKey,
		AccessTokenTTL:      tokenTTL,
		StripeWebhookSecret: stripeSecret,
		TwilioAccountSID:    secrets.get("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:     secrets.get("TWILIO_AUTH_TOKEN"),
		SendGridAPIKey:      secrets.get("SENDGRID_API_KEY"),
		SeedAdminPassword:   secrets.get("SEED_ADMIN_PASSWORD"),
	}

	if ldKey := secrets.get("LD_SDK_KEY"); ldKey != "" {
		loadLDFlags(cfg, ldKey)
	} else {
		utils.Logger.Info("LD_SDK_KEY not set; reading feature flags from FLAG_* env vars")
		loadEnvFlags(cfg)
	}

	if cfg.LDFlag_SendEmailReminders && cfg.SendGridAPIKey == "" {
		utils.Logger.Warn("send_email_reminders enabled but SENDGRID_API_KEY is empty; disabling")
		cfg.LDFlag_SendEmailReminders = false
	}
	if cfg.LDFlag_SendSMSReminders && (cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "") {
		utils.Logger.Warn("send_sms_reminders enabled but Twilio credentials are empty; disabling")
		cfg.LDFlag_SendSMSReminders = false
	}

	return cfg
}

func loadLDFlags(cfg *Config, sdkKey string) {
	ldClient, err := ld.MakeClient(sdkKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !ldClient.Initialized() {
		ldClient.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	defer ldClient.Close()

	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)

	boolFlag := func(key string, fallback bool) bool {
		v, err := ldClient.BoolVariation(key, ctx, fallback)
		if err != nil {
			utils.Logger.WithError(err).Fatalf("Error retrieving %s flag", key)
		}
		utils.Logger.Debugf("%s flag: %t", key, v)
		return v
	}
	stringFlag := func(key, fallback string) string {
		v, err := ldClient.StringVariation(key, ctx, fallback)
		if err != nil {
			utils.Logger.WithError(err).Fatalf("Error retrieving %s flag", key)
		}
		utils.Logger.Debugf("%s flag: %s", key, v)
		if v == "" {
			return fallback
		}
		return v
	}

	cfg.LDFlag_SeedDbWithTestData = boolFlag("seed_db_with_test_data", false)
	cfg.LDFlag_CORSHighSecurity = boolFlag("cors_high_security", true)
	cfg.LDFlag_AutoCreateBillingMonths = boolFlag("auto_create_billing_months", false)
	cfg.LDFlag_SendEmailReminders = boolFlag("send_email_reminders", false)
	cfg.LDFlag_SendSMSReminders = boolFlag("send_sms_reminders", false)
	cfg.LDFlag_SendgridSandboxMode = boolFlag("sendgrid_sandbox_mode", false)
	cfg.LDFlag_DailyUnpaidReminders = boolFlag("daily_unpaid_reminders", false)
	cfg.LDFlag_SendgridFromEmail = stringFlag("sendgrid_from_email", defaultFromEmail)
	cfg.LDFlag_TwilioFromPhone = stringFlag("twilio_from_phone", "")
}

const defaultFromEmail = "no-reply@almubarak.co.ke"

func loadEnvFlags(cfg *Config) {
	cfg.LDFlag_SeedDbWithTestData = envBool("FLAG_SEED_DB_WITH_TEST_DATA", false)
	cfg.LDFlag_CORSHighSecurity = envBool("FLAG_CORS_HIGH_SECURITY", true)
	cfg.LDFlag_AutoCreateBillingMonths = envBool("FLAG_AUTO_CREATE_BILLING_MONTHS", false)
	cfg.LDFlag_SendEmailReminders = envBool("FLAG_SEND_EMAIL_REMINDERS", false)
	cfg.LDFlag_SendSMSReminders = envBool("FLAG_SEND_SMS_REMINDERS", false)
	cfg.LDFlag_SendgridSandboxMode = envBool("FLAG_SENDGRID_SANDBOX_MODE", false)
	cfg.LDFlag_DailyUnpaidReminders = envBool("FLAG_DAILY_UNPAID_REMINDERS", false)
	cfg.LDFlag_SendgridFromEmail = envString("FLAG_SENDGRID_FROM_EMAIL", defaultFromEmail)
	cfg.LDFlag_TwilioFromPhone = envString("FLAG_TWILIO_FROM_PHONE", "")
}

func envBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		utils.Logger.Warnf("Invalid boolean for %s=%q, using %t", key, raw, fallback)
		return fallback
	}
	return v
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseRSAPrivateKey(b64 string) (*rsa.PrivateKey, error) {
	if b64 == "" {
		return nil, fmt.Errorf("RSA_PRIVATE_KEY_BASE64 is missing")
	}
	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode RSA_PRIVATE_KEY_BASE64: %w", err)
	}
	return jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
}

func parseRSAPublicKey(b64 string) (*rsa.PublicKey, error) {
	if b64 == "" {
		return nil, fmt.Errorf("RSA_PUBLIC_KEY_BASE64 is missing")
	}
	pemBytes, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode RSA_PUBLIC_KEY_BASE64: %w", err)
	}
	return jwt.ParseRSAPublicKeyFromPEM(pemBytes)
}

package repositories_test

import (
	"context"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/app"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/config"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/migrations"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

// testDatabaseURLEnv points at a Postgres server, in URL form. Each test
// gets a throwaway schema so runs never share rows.
const testDatabaseURLEnv = "TEST_DATABASE_URL"

func openTestDB(t *testing.T) repositories.DB {
	t.Helper()
	base := os.Getenv(testDatabaseURLEnv)
	if base == "" {
		t.Skipf("%s not set; skipping Postgres tests", testDatabaseURLEnv)
	}
	utils.SilenceLogger()
	ctx := context.Background()

	schema := "rent_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	admin, err := pgx.Connect(ctx, base)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		_ = admin.Close(context.Background())
	})

	u, err := url.Parse(base)
	require.NoError(t, err)
	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	a, err := app.NewApp(&config.Config{AppName: "rent-service-test", DBUrl: u.String()})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	_, err = migrations.Up(ctx, a.DB)
	require.NoError(t, err)
	return a.DB
}

func createTenant(t *testing.T, repo repositories.ProfileRepository, first string) *models.Profile {
	t.Helper()
	p := &models.Profile{
		ID:        uuid.New(),
		Email:     strings.ToLower(first) + "@example.com",
		FirstName: first,
		LastName:  "Test",
		Role:      models.RoleTenant,
		Status:    models.ProfileStatusApproved,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func createPayment(
	t *testing.T,
	repo repositories.PaymentRepository,
	tenant *models.Profile,
	bm *models.BillingMonth,
	amount string,
	status models.PaymentStatusType,
	reference string,
	at time.Time,
) *models.Payment {
	t.Helper()
	p := &models.Payment{
		ID:             uuid.New(),
		TenantID:       tenant.ID,
		BillingMonthID: bm.ID,
		FullName:       tenant.FullName(),
		Amount:         decimal.RequireFromString(amount),
		Status:         status,
		MpesaCode:      &reference,
		CreatedAt:      at,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestPostgresPaymentQueries(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	profiles := repositories.NewProfileRepository(db)
	months := repositories.NewBillingMonthRepository(db)
	payments := repositories.NewPaymentRepository(db)

	amina := createTenant(t, profiles, "Amina")
	omar := createTenant(t, profiles, "Omar")
	bm := &models.BillingMonth{ID: uuid.New(), Month: 3, Year: 2024, IsActive: true}
	require.NoError(t, months.Create(ctx, bm))

	day := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	createPayment(t, payments, amina, bm, "5000", models.PaymentStatusPartial, "QX1", day)
	latestAmina := createPayment(t, payments, amina, bm, "12500.50", models.PaymentStatusPending, "QX2", day.Add(48*time.Hour))
	latestOmar := createPayment(t, payments, omar, bm, "20000", models.PaymentStatusPaid, "pi_omar", day.Add(24*time.Hour))

	latest, err := payments.LatestPerTenant(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, latestAmina.ID, latest[amina.ID].ID)
	assert.Equal(t, latestOmar.ID, latest[omar.ID].ID)
	assert.True(t, latest[amina.ID].Amount.Equal(decimal.RequireFromString("12500.5")), "got %s", latest[amina.ID].Amount)
	assert.Equal(t, "Amina Test", latest[amina.ID].FullName)

	list, err := payments.List(ctx, repositories.PaymentFilter{
		TenantID: &amina.ID,
		Statuses: []models.PaymentStatusType{models.PaymentStatusPartial, models.PaymentStatusPending},
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, latestAmina.ID, list[0].ID, "newest first")

	n, err := payments.CountByTenant(ctx, amina.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = payments.CountByBillingMonth(ctx, bm.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	found, err := payments.FindByReference(ctx, "pi_omar")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, latestOmar.ID, found.ID)

	require.NoError(t, payments.UpdateStatus(ctx, latestAmina.ID, models.PaymentStatusPaid))
	got, err := payments.GetByID(ctx, latestAmina.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, got.Status)
	assert.ErrorIs(t, payments.UpdateStatus(ctx, uuid.New(), models.PaymentStatusPaid), utils.ErrNoRowsUpdated)
}

func TestPostgresPaymentConstraints(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	profiles := repositories.NewProfileRepository(db)
	months := repositories.NewBillingMonthRepository(db)
	payments := repositories.NewPaymentRepository(db)

	amina := createTenant(t, profiles, "Amina")
	bm := &models.BillingMonth{ID: uuid.New(), Month: 4, Year: 2024, IsActive: true}
	require.NoError(t, months.Create(ctx, bm))
	at := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	createPayment(t, payments, amina, bm, "20000", models.PaymentStatusPaid, "pi_dup", at)
	dup := &models.Payment{
		ID: uuid.New(), TenantID: amina.ID, BillingMonthID: bm.ID, FullName: "Amina Test",
		Amount: decimal.NewFromInt(20000), Status: models.PaymentStatusPaid, MpesaCode: utils.Ptr("pi_dup"),
	}
	assert.True(t, repositories.IsUniqueViolation(payments.Create(ctx, dup)))

	// Tenant-entered references are not unique.
	createPayment(t, payments, amina, bm, "100", models.PaymentStatusPending, "QX9", at)
	createPayment(t, payments, amina, bm, "100", models.PaymentStatusPending, "QX9", at)

	assert.True(t, repositories.IsForeignKeyViolation(profiles.Delete(ctx, amina.ID)))
	assert.True(t, repositories.IsForeignKeyViolation(months.Delete(ctx, bm.ID)))
}

func TestPostgresUnitOccupancyKeepsDescriptiveFields(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	profiles := repositories.NewProfileRepository(db)
	units := repositories.NewUnitRepository(db)

	amina := createTenant(t, profiles, "Amina")
	unit := &models.Unit{ID: uuid.New(), UnitNumber: "A-101", RentAmount: decimal.NewFromInt(20000)}
	require.NoError(t, units.Create(ctx, unit))

	stale, err := units.GetByID(ctx, unit.ID)
	require.NoError(t, err)
	require.NotNil(t, stale)
	assert.Equal(t, int64(1), stale.RowVersion)

	edited := *stale
	edited.RentAmount = decimal.NewFromInt(22000)
	require.NoError(t, units.Update(ctx, &edited))

	require.NoError(t, stale.Occupy(amina.ID))
	tag, err := units.UpdateIfVersion(ctx, stale, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tag.RowsAffected())

	got, err := units.GetByTenantID(ctx, amina.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.UnitStatusOccupied, got.Status)
	assert.Equal(t, int64(2), got.RowVersion)
	assert.True(t, got.RentAmount.Equal(decimal.NewFromInt(22000)), "rent reverted to %s", got.RentAmount)

	tag, err = units.UpdateIfVersion(ctx, stale, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tag.RowsAffected(), "stale version must not write")

	require.NoError(t, units.UpdateWithRetry(ctx, unit.ID, func(u *models.Unit) error { return u.Vacate() }))
	assigned, err := units.ListAssigned(ctx)
	require.NoError(t, err)
	assert.Empty(t, assigned)
}

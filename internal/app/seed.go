package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/services"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

// SeedAdminEmail doubles as the idempotency sentinel: it is created last,
// so a seed that failed halfway runs again on the next start.
const SeedAdminEmail = "admin@almubarak.test"

const seedPasswordLength = 16

type seedUnit struct {
	number   string
	floor    string
	bedrooms int
	rent     int64
}

var seedUnits = []seedUnit{
	{"A1", "Ground", 1, 15000},
	{"A2", "Ground", 2, 20000},
	{"B1", "First", 2, 20000},
	{"B2", "First", 3, 25000},
}

type seedTenant struct {
	email, first, last, unit string
}

var seedTenants = []seedTenant{
	{"amina.yusuf@almubarak.test", "Amina", "Yusuf", "A2"},
	{"brian.otieno@almubarak.test", "Brian", "Otieno", "B1"},
}

// SeedAllTestData fills an empty database with units, two tenants, the
// current billing month and an admin. Passwords are never fixed in code:
// adminPassword may be empty, in which case one is generated and logged.
func SeedAllTestData(
	ctx context.Context,
	profileRepo repositories.ProfileRepository,
	unitService *services.UnitService,
	tenantService *services.TenantService,
	billingService *services.BillingService,
	adminPassword string,
) error {
	if existing, err := profileRepo.GetByEmail(ctx, SeedAdminEmail); err != nil {
		return fmt.Errorf("check for seed admin: %w", err)
	} else if existing != nil {
		utils.Logger.Info("Seed data already present; skipping seeding.")
		return nil
	}

	units, err := unitService.ListUnits(ctx, nil)
	if err != nil {
		return fmt.Errorf("list units: %w", err)
	}
	byNumber := make(map[string]*models.Unit, len(units))
	for _, u := range units {
		byNumber[strings.ToUpper(u.UnitNumber)] = u
	}

	for _, su := range seedUnits {
		if _, ok := byNumber[su.number]; ok {
			continue
		}
		u, err := unitService.CreateUnit(ctx, dtos.CreateUnitRequest{
			UnitNumber: su.number,
			Floor:      su.floor,
			Bedrooms:   su.bedrooms,
			Bathrooms:  1,
			RentAmount: decimal.NewFromInt(su.rent),
		})
		if err != nil {
			return fmt.Errorf("seed unit %s: %w", su.number, err)
		}
		byNumber[su.number] = u
	}

	for _, st := range seedTenants {
		if existing, err := profileRepo.GetByEmail(ctx, st.email); err != nil {
			return fmt.Errorf("check tenant %s: %w", st.email, err)
		} else if existing != nil {
			continue
		}
		req := dtos.AddTenantRequest{Email: st.email, FirstName: st.first, LastName: st.last}
		if u, ok := byNumber[st.unit]; ok && u.Status == models.UnitStatusVacant {
			req.UnitID = &u.ID
		}
		resp, err := tenantService.AddTenant(ctx, req)
		if err != nil {
			return fmt.Errorf("seed tenant %s: %w", st.email, err)
		}
		utils.Logger.Warnf("Seeded tenant %s with temporary password %s", st.email, resp.TemporaryPassword)
	}

	if err := billingService.AutoCreateCurrentMonth(ctx); err != nil {
		return fmt.Errorf("seed billing month: %w", err)
	}

	generated := adminPassword == ""
	if generated {
		adminPassword = utils.RandomString(seedPasswordLength)
	}
	hash, err := utils.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &models.Profile{
		ID:           uuid.New(),
		Email:        SeedAdminEmail,
		FirstName:    "Property",
		LastName:     "Admin",
		Role:         models.RoleAdmin,
		Status:       models.ProfileStatusApproved,
		PasswordHash: hash,
	}
	if err := profileRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if generated {
		utils.Logger.Warnf("Seeded admin %s with generated password %s", SeedAdminEmail, adminPassword)
	}

	utils.Logger.Info("Seeding completed successfully.")
	return nil
}

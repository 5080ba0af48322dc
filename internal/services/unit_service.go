package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type UnitService struct {
	unitRepo    repositories.UnitRepository
	profileRepo repositories.ProfileRepository
	bus         eventbus.Publisher
}

func NewUnitService(
	unitRepo repositories.UnitRepository,
	profileRepo repositories.ProfileRepository,
	bus eventbus.Publisher,
) *UnitService {
	return &UnitService{unitRepo: unitRepo, profileRepo: profileRepo, bus: bus}
}

func (s *UnitService) ListUnits(ctx context.Context, status *models.UnitStatusType) ([]*models.Unit, error) {
	return s.unitRepo.List(ctx, status)
}

func (s *UnitService) CreateUnit(ctx context.Context, req dtos.CreateUnitRequest) (*models.Unit, error) {
	number := strings.TrimSpace(req.UnitNumber)
	if number == "" {
		return nil, utils.NewValidationError(msgMissingFields)
	}
	if err := validateMoney("Rent amount", req.RentAmount); err != nil {
		return nil, err
	}

	u := &models.Unit{
		ID:         uuid.New(),
		UnitNumber: number,
		Floor:      strings.TrimSpace(req.Floor),
		Bedrooms:   req.Bedrooms,
		Bathrooms:  req.Bathrooms,
		RentAmount: req.RentAmount,
		Status:     models.UnitStatusVacant,
	}
	if err := s.unitRepo.Create(ctx, u); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.NewConflictError(fmt.Sprintf("Unit %s already exists.", number), err)
		}
		return nil, err
	}
	u.RowVersion = 1
	publish(ctx, s.bus, eventbus.TableUnits, eventbus.EventInsert, u.ID, nil)
	return u, nil
}

func (s *UnitService) UpdateUnit(ctx context.Context, id uuid.UUID, req dtos.UpdateUnitRequest) (*models.Unit, error) {
	u, err := s.getUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.UnitNumber != nil {
		if n := strings.TrimSpace(*req.UnitNumber); n != "" {
			u.UnitNumber = n
		}
	}
	if req.Floor != nil {
		u.Floor = strings.TrimSpace(*req.Floor)
	}
	if req.Bedrooms != nil {
		u.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		u.Bathrooms = *req.Bathrooms
	}
	if req.RentAmount != nil {
		if err := validateMoney("Rent amount", *req.RentAmount); err != nil {
			return nil, err
		}
		u.RentAmount = *req.RentAmount
	}

	if err := s.unitRepo.Update(ctx, u); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.NewConflictError(fmt.Sprintf("Unit %s already exists.", u.UnitNumber), err)
		}
		if isNotFound(err) {
			return nil, utils.NewNotFoundError("Unit not found")
		}
		return nil, err
	}
	publish(ctx, s.bus, eventbus.TableUnits, eventbus.EventUpdate, u.ID, u.TenantID)
	return u, nil
}

// DeleteUnit refuses occupied units; vacate first.
func (s *UnitService) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	u, err := s.getUnit(ctx, id)
	if err != nil {
		return err
	}
	if u.IsOccupied() {
		return utils.NewConflictError("Unit is occupied. Vacate it before deleting.", nil)
	}
	if err := s.unitRepo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return utils.NewNotFoundError("Unit not found")
		}
		return err
	}
	publish(ctx, s.bus, eventbus.TableUnits, eventbus.EventDelete, id, nil)
	return nil
}

// AssignTenant occupies a vacant unit. A tenant holds at most one unit.
func (s *UnitService) AssignTenant(ctx context.Context, unitID, tenantID uuid.UUID) (*models.Unit, error) {
	tenant, err := s.profileRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil || tenant.Role != models.RoleTenant {
		return nil, utils.NewNotFoundError("Tenant not found")
	}

	held, err := s.unitRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if held != nil {
		if held.ID == unitID {
			return held, nil
		}
		return nil, utils.NewConflictError(fmt.Sprintf("Tenant already occupies unit %s.", held.UnitNumber), nil)
	}

	return s.transition(ctx, unitID, func(u *models.Unit) error { return u.Occupy(tenantID) })
}

// VacateUnit clears the tenant from a unit. Vacating a vacant unit is a
// no-op.
func (s *UnitService) VacateUnit(ctx context.Context, unitID uuid.UUID) (*models.Unit, error) {
	return s.transition(ctx, unitID, func(u *models.Unit) error { return u.Vacate() })
}

// VacateTenant vacates whatever unit the tenant holds, if any.
func (s *UnitService) VacateTenant(ctx context.Context, tenantID uuid.UUID) error {
	u, err := s.unitRepo.GetByTenantID(ctx, tenantID)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}
	_, err = s.VacateUnit(ctx, u.ID)
	return err
}

func (s *UnitService) SetMaintenance(ctx context.Context, unitID uuid.UUID, on bool) (*models.Unit, error) {
	return s.transition(ctx, unitID, func(u *models.Unit) error { return u.SetMaintenance(on) })
}

// transition applies one occupancy change as a versioned update.
func (s *UnitService) transition(ctx context.Context, unitID uuid.UUID, mutate func(*models.Unit) error) (*models.Unit, error) {
	var (
		updated    *models.Unit
		prevTenant *uuid.UUID
	)

	err := s.unitRepo.UpdateWithRetry(ctx, unitID, func(u *models.Unit) error {
		prevTenant = u.TenantID
		if err := mutate(u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, occupancyError(err)
	}
	// The write only touched occupancy; re-read for current descriptive fields.
	if fresh, err := s.unitRepo.GetByID(ctx, unitID); err == nil && fresh != nil {
		updated = fresh
	}

	tenant := updated.TenantID
	if tenant == nil {
		tenant = prevTenant
	}
	publish(ctx, s.bus, eventbus.TableUnits, eventbus.EventUpdate, updated.ID, tenant)
	utils.Logger.Infof("Unit %s is now %s", updated.UnitNumber, updated.Status)
	return updated, nil
}

func (s *UnitService) getUnit(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	u, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, utils.NewNotFoundError("Unit not found")
	}
	return u, nil
}

func occupancyError(err error) error {
	switch {
	case errors.Is(err, models.ErrUnitNotVacant):
		return utils.NewConflictError("Unit is not vacant.", err)
	case errors.Is(err, models.ErrUnitInMaintenance):
		return utils.NewConflictError("Unit is under maintenance.", err)
	case isNotFound(err):
		return utils.NewNotFoundError("Unit not found")
	case errors.Is(err, utils.ErrRowVersionConflict):
		return &utils.AppError{
			StatusCode: http.StatusConflict,
			Code:       utils.ErrCodeRowVersionConflict,
			Message:    "Unit was changed by someone else. Please retry.",
			Err:        err,
		}
	case repositories.IsUniqueViolation(err):
		return utils.NewConflictError("Tenant already occupies another unit.", err)
	}
	return err
}

package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type SettingsService struct {
	profileRepo    repositories.ProfileRepository
	preferenceRepo repositories.PreferenceRepository
	bus            eventbus.Publisher
}

func NewSettingsService(
	profileRepo repositories.ProfileRepository,
	preferenceRepo repositories.PreferenceRepository,
	bus eventbus.Publisher,
) *SettingsService {
	return &SettingsService{profileRepo: profileRepo, preferenceRepo: preferenceRepo, bus: bus}
}

func (s *SettingsService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.NewNotFoundError("Profile not found")
	}
	return p, nil
}

// UpdateProfile edits the caller's own contact details. Role, status and
// lease fields are admin-only and untouched here.
func (s *SettingsService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dtos.UpdateProfileRequest) (*models.Profile, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		if v := strings.TrimSpace(*req.FirstName); v != "" {
			p.FirstName = v
		}
	}
	if req.LastName != nil {
		if v := strings.TrimSpace(*req.LastName); v != "" {
			p.LastName = v
		}
	}
	if req.DisplayName != nil {
		p.DisplayName = trimmedOrNil(req.DisplayName)
	}
	if req.Phone != nil {
		p.Phone = trimmedOrNil(req.Phone)
	}
	if err := s.profileRepo.Update(ctx, p); err != nil {
		if isNotFound(err) {
			return nil, utils.NewNotFoundError("Profile not found")
		}
		return nil, err
	}
	publish(ctx, s.bus, eventbus.TableProfiles, eventbus.EventUpdate, p.ID, &p.ID)
	return p, nil
}

// GetPreferences defaults to the system theme when nothing is stored.
func (s *SettingsService) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.UserPreference, error) {
	pref, err := s.preferenceRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return &models.UserPreference{UserID: userID, Theme: models.ThemeSystem}, nil
	}
	return pref, nil
}

func (s *SettingsService) SetTheme(ctx context.Context, userID uuid.UUID, theme models.ThemeType) (*models.UserPreference, error) {
	switch theme {
	case models.ThemeLight, models.ThemeDark, models.ThemeSystem:
	default:
		return nil, utils.NewValidationError("Theme must be light, dark or system.")
	}
	pref := &models.UserPreference{ID: uuid.New(), UserID: userID, Theme: theme}
	if err := s.preferenceRepo.Upsert(ctx, pref); err != nil {
		return nil, err
	}
	publish(ctx, s.bus, eventbus.TableUserPreferences, eventbus.EventUpdate, pref.ID, &userID)
	return pref, nil
}

package services

import (
	"context"
	"crypto/rsa"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/config"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/middleware"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type AuthService struct {
	profileRepo repositories.ProfileRepository
	privateKey  *rsa.PrivateKey
	tokenTTL    time.Duration
	bus         eventbus.Publisher
	now         Clock
}

func NewAuthService(cfg *config.Config, profileRepo repositories.ProfileRepository, bus eventbus.Publisher) *AuthService {
	return &AuthService{
		profileRepo: profileRepo,
		privateKey:  cfg.RSAPrivateKey,
		tokenTTL:    cfg.AccessTokenTTL,
		bus:         bus,
		now:         systemClock,
	}
}

// Signup registers a tenant. The account stays pending until an admin
// approves it.
func (s *AuthService) Signup(ctx context.Context, req dtos.SignupRequest) (*models.Profile, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.NewConflictError("An account with this email already exists.", utils.ErrEmailExists)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.NewInternalError("Could not create account", err)
	}
	p := &models.Profile{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        trimmedOrNil(req.Phone),
		Role:         models.RoleTenant,
		Status:       models.ProfileStatusPending,
		PasswordHash: hash,
	}
	if err := s.profileRepo.Create(ctx, p); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, utils.NewConflictError("An account with this email already exists.", utils.ErrEmailExists)
		}
		return nil, err
	}
	publish(ctx, s.bus, eventbus.TableProfiles, eventbus.EventInsert, p.ID, &p.ID)
	utils.Logger.Infof("New tenant signup %s awaiting approval", p.ID)
	return p, nil
}

func (s *AuthService) Login(ctx context.Context, req dtos.LoginRequest) (*dtos.LoginResponse, error) {
	p, err := s.profileRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}
	if p == nil || !utils.CheckPasswordHash(req.Password, p.PasswordHash) {
		return nil, &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeInvalidCredentials,
			Message:    "Invalid email or password.",
			Err:        utils.ErrInvalidCredentials,
		}
	}

	switch p.Status {
	case models.ProfileStatusPending:
		return nil, lockedAccount("Your account is awaiting approval by the property manager.")
	case models.ProfileStatusSuspended:
		return nil, lockedAccount("Your account has been suspended. Please contact the office.")
	}

	token, expiresAt, err := s.generateAccessToken(p)
	if err != nil {
		return nil, utils.NewInternalError("Could not sign in", err)
	}
	return &dtos.LoginResponse{AccessToken: token, ExpiresAt: expiresAt, Profile: p}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req dtos.ChangePasswordRequest) error {
	p, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if p == nil {
		return utils.NewNotFoundError("Profile not found")
	}
	if !utils.CheckPasswordHash(req.CurrentPassword, p.PasswordHash) {
		return &utils.AppError{
			StatusCode: http.StatusUnauthorized,
			Code:       utils.ErrCodeInvalidCredentials,
			Message:    "Current password is incorrect.",
			Err:        utils.ErrInvalidCredentials,
		}
	}
	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return utils.NewInternalError("Could not update password", err)
	}
	return s.profileRepo.UpdatePasswordHash(ctx, userID, hash)
}

func (s *AuthService) generateAccessToken(p *models.Profile) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"iss":  middleware.TokenIssuer,
		"sub":  p.ID.String(),
		"role": string(p.Role),
		"exp":  expiresAt.Unix(),
		"iat":  now.Unix(),
		"jti":  uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func lockedAccount(msg string) *utils.AppError {
	return &utils.AppError{StatusCode: http.StatusForbidden, Code: utils.ErrCodeLockedAccount, Message: msg}
}

package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/config"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/middleware"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

func TestSignupAndLogin(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	svc := NewAuthService(&config.Config{RSAPrivateKey: key, AccessTokenTTL: time.Hour}, h.profiles, h.bus)

	p, err := svc.Signup(ctx, dtos.SignupRequest{
		Email: "Amina@Example.com", Password: "s3cret-pass", FirstName: "Amina", LastName: "Hassan",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProfileStatusPending, p.Status)
	assert.Equal(t, models.RoleTenant, p.Role)

	_, err = svc.Signup(ctx, dtos.SignupRequest{Email: "amina@example.com", Password: "another-pass"})
	requireStatus(t, err, http.StatusConflict)

	_, err = svc.Login(ctx, dtos.LoginRequest{Email: "amina@example.com", Password: "s3cret-pass"})
	requireStatus(t, err, http.StatusForbidden)
	assert.Equal(t, utils.ErrCodeLockedAccount, asAppError(err).Code)

	p.Status = models.ProfileStatusApproved
	require.NoError(t, h.profiles.Update(ctx, p))

	_, err = svc.Login(ctx, dtos.LoginRequest{Email: "amina@example.com", Password: "wrong"})
	requireStatus(t, err, http.StatusUnauthorized)

	resp, err := svc.Login(ctx, dtos.LoginRequest{Email: "amina@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, resp.Profile.ID)

	tok, err := middleware.ValidateToken(resp.AccessToken, &key.PublicKey)
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, p.ID.String(), claims["sub"])
	assert.Equal(t, "tenant", claims["role"])
	assert.Equal(t, middleware.TokenIssuer, claims["iss"])
}

func TestChangePassword(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	svc := NewAuthService(&config.Config{RSAPrivateKey: key, AccessTokenTTL: time.Hour}, h.profiles, h.bus)

	p, err := svc.Signup(ctx, dtos.SignupRequest{Email: "omar@example.com", Password: "first-pass", FirstName: "Omar", LastName: "Ali"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, p.ID, dtos.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "second-pass"})
	requireStatus(t, err, http.StatusUnauthorized)

	require.NoError(t, svc.ChangePassword(ctx, p.ID, dtos.ChangePasswordRequest{CurrentPassword: "first-pass", NewPassword: "second-pass"}))
	stored, err := h.profiles.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("second-pass", stored.PasswordHash))
}

func TestSettingsPreferences(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	amina := h.addTenant("Amina", "Hassan")

	pref, err := h.settingsSvc.GetPreferences(ctx, amina.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeSystem, pref.Theme)

	_, err = h.settingsSvc.SetTheme(ctx, amina.ID, models.ThemeDark)
	require.NoError(t, err)
	_, err = h.settingsSvc.SetTheme(ctx, amina.ID, models.ThemeLight)
	require.NoError(t, err)
	assert.Len(t, h.store.prefs, 1)

	pref, err = h.settingsSvc.GetPreferences(ctx, amina.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ThemeLight, pref.Theme)

	_, err = h.settingsSvc.SetTheme(ctx, amina.ID, "neon")
	requireStatus(t, err, http.StatusBadRequest)

	p, err := h.settingsSvc.UpdateProfile(ctx, amina.ID, dtos.UpdateProfileRequest{Phone: utils.Ptr(" +254700000002 ")})
	require.NoError(t, err)
	assert.Equal(t, "+254700000002", *p.Phone)
	assert.Equal(t, "Amina", p.FirstName)
}

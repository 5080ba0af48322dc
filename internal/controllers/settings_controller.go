package controllers

import (
	"net/http"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/services"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type SettingsController struct {
	settingsService *services.SettingsService
	authService     *services.AuthService
}

func NewSettingsController(ss *services.SettingsService, as *services.AuthService) *SettingsController {
	return &SettingsController{settingsService: ss, authService: as}
}

// PATCH /api/v1/settings/profile
func (c *SettingsController) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.settingsService.UpdateProfile(r.Context(), s.UserID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// POST /api/v1/settings/password
func (c *SettingsController) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dtos.ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := c.authService.ChangePassword(r.Context(), s.UserID, req); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/settings/preferences
func (c *SettingsController) GetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	pref, err := c.settingsService.GetPreferences(r.Context(), s.UserID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pref)
}

// PUT /api/v1/settings/preferences
func (c *SettingsController) SetPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dtos.PreferencesRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	pref, err := c.settingsService.SetTheme(r.Context(), s.UserID, req.Theme)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, pref)
}

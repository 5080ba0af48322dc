package controllers

import (
	"net/http"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/services"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(as *services.AuthService) *AuthController {
	return &AuthController{authService: as}
}

// POST /api/v1/auth/signup
func (c *AuthController) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SignupRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.authService.Signup(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// POST /api/v1/auth/login
func (c *AuthController) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.authService.Login(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

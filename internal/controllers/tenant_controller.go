package controllers

import (
	"net/http"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/services"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type TenantController struct {
	tenantService *services.TenantService
}

func NewTenantController(ts *services.TenantService) *TenantController {
	return &TenantController{tenantService: ts}
}

// GET /api/v1/admin/tenants?status=approved
func (c *TenantController) ListHandler(w http.ResponseWriter, r *http.Request) {
	var status *models.ProfileStatusType
	if s := r.URL.Query().Get("status"); s != "" {
		st := models.ProfileStatusType(s)
		status = &st
	}
	tenants, err := c.tenantService.ListTenants(r.Context(), status)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if tenants == nil {
		tenants = []*dtos.TenantView{}
	}
	utils.RespondWithJSON(w, http.StatusOK, tenants)
}

// POST /api/v1/admin/tenants
func (c *TenantController) AddHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.AddTenantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.tenantService.AddTenant(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// DELETE /api/v1/admin/tenants/{id}
func (c *TenantController) RemoveHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.tenantService.RemoveTenant(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PATCH /api/v1/admin/tenants/{id}/status
func (c *TenantController) StatusHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateTenantStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.tenantService.SetTenantStatus(r.Context(), id, req.Status)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// PATCH /api/v1/admin/tenants/{id}/lease
func (c *TenantController) LeaseHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateLeaseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.tenantService.UpdateLease(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// PUT /api/v1/admin/tenants/{id}/lease-document
func (c *TenantController) LeaseDocumentHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.LeaseDocumentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.tenantService.SetLeaseDocument(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// GET /api/v1/tenant/overview
func (c *TenantController) OverviewHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	ov, err := c.tenantService.TenantOverview(r.Context(), s.UserID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, ov)
}

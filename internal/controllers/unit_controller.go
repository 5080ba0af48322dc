package controllers

import (
	"net/http"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/services"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type UnitController struct {
	unitService *services.UnitService
}

func NewUnitController(us *services.UnitService) *UnitController {
	return &UnitController{unitService: us}
}

// GET /api/v1/admin/units?status=vacant
func (c *UnitController) ListHandler(w http.ResponseWriter, r *http.Request) {
	var status *models.UnitStatusType
	if s := r.URL.Query().Get("status"); s != "" {
		st := models.UnitStatusType(s)
		status = &st
	}
	units, err := c.unitService.ListUnits(r.Context(), status)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if units == nil {
		units = []*models.Unit{}
	}
	utils.RespondWithJSON(w, http.StatusOK, units)
}

// POST /api/v1/admin/units
func (c *UnitController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateUnitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := c.unitService.CreateUnit(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, u)
}

// PATCH /api/v1/admin/units/{id}
func (c *UnitController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateUnitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := c.unitService.UpdateUnit(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, u)
}

// DELETE /api/v1/admin/units/{id}
func (c *UnitController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.unitService.DeleteUnit(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/admin/units/{id}/assign
func (c *UnitController) AssignHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.AssignTenantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := c.unitService.AssignTenant(r.Context(), id, req.TenantID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, u)
}

// POST /api/v1/admin/units/{id}/vacate
func (c *UnitController) VacateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := c.unitService.VacateUnit(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, u)
}

// POST /api/v1/admin/units/{id}/maintenance
func (c *UnitController) MaintenanceHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.MaintenanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	u, err := c.unitService.SetMaintenance(r.Context(), id, req.Enabled)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, u)
}

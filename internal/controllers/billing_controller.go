package controllers

import (
	"net/http"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/services"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type BillingController struct {
	billingService *services.BillingService
	reportService  *services.ReportService
}

func NewBillingController(bs *services.BillingService, rs *services.ReportService) *BillingController {
	return &BillingController{billingService: bs, reportService: rs}
}

// GET /api/v1/admin/billing-months?active=true
func (c *BillingController) ListHandler(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	months, err := c.billingService.ListBillingMonths(r.Context(), activeOnly)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if months == nil {
		months = []*models.BillingMonth{}
	}
	utils.RespondWithJSON(w, http.StatusOK, months)
}

// POST /api/v1/admin/billing-months
func (c *BillingController) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CreateBillingMonthRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.billingService.CreateBillingMonth(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// PATCH /api/v1/admin/billing-months/{id}
func (c *BillingController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdateBillingMonthRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	bm, err := c.billingService.UpdateBillingMonth(r.Context(), id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, bm)
}

// DELETE /api/v1/admin/billing-months/{id}
func (c *BillingController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.billingService.DeleteBillingMonth(r.Context(), id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/admin/billing-months/{id}/report
func (c *BillingController) ReportHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rep, err := c.reportService.BillingMonthReport(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, rep)
}

// GET /api/v1/admin/dashboard
func (c *BillingController) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, c.reportService.DashboardStats(r.Context()))
}

package controllers

import (
	"net/http"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/services"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type PaymentController struct {
	paymentService *services.PaymentService
}

func NewPaymentController(ps *services.PaymentService) *PaymentController {
	return &PaymentController{paymentService: ps}
}

// GET /api/v1/admin/payments?tenant_id=&billing_month_id=&status=
func (c *PaymentController) ListHandler(w http.ResponseWriter, r *http.Request) {
	var q dtos.ListPaymentsQuery
	var ok bool
	if q.TenantID, ok = queryUUID(w, r, "tenant_id"); !ok {
		return
	}
	if q.BillingMonthID, ok = queryUUID(w, r, "billing_month_id"); !ok {
		return
	}
	if s := r.URL.Query().Get("status"); s != "" {
		st := models.PaymentStatusType(s)
		q.Status = &st
	}
	views, err := c.paymentService.ListPayments(r.Context(), q)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if views == nil {
		views = []*dtos.PaymentView{}
	}
	utils.RespondWithJSON(w, http.StatusOK, views)
}

// POST /api/v1/admin/payments
func (c *PaymentController) RecordHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RecordPaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.paymentService.RecordManualPayment(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// PATCH /api/v1/admin/payments/{id}/status
func (c *PaymentController) StatusHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req dtos.UpdatePaymentStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.paymentService.UpdatePaymentStatus(r.Context(), id, req.Status)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// POST /api/v1/tenant/payments
func (c *PaymentController) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	var req dtos.SubmitPaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	p, err := c.paymentService.SubmitTenantPayment(r.Context(), s.UserID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// GET /api/v1/tenant/payments
func (c *PaymentController) TenantListHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	views, err := c.paymentService.ListTenantPayments(r.Context(), s.UserID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if views == nil {
		views = []*dtos.PaymentView{}
	}
	utils.RespondWithJSON(w, http.StatusOK, views)
}

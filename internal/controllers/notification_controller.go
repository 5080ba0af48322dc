package controllers

import (
	"net/http"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/services"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

type NotificationController struct {
	notificationService *services.NotificationService
}

func NewNotificationController(ns *services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: ns}
}

// GET /api/v1/admin/reminders/candidates?filter=unpaid
func (c *NotificationController) CandidatesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := c.notificationService.ReminderCandidates(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if list == nil {
		list = []dtos.ReminderCandidate{}
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// POST /api/v1/admin/reminders
// Message and recipient checks live in the service so the user-facing
// wording stays in one place.
func (c *NotificationController) SendHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.SendRemindersRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.notificationService.SendReminders(r.Context(), req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// GET /api/v1/admin/reminders/log
func (c *NotificationController) LogHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := c.notificationService.ReminderLog(r.Context())
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if entries == nil {
		entries = []*models.NotificationLogEntry{}
	}
	utils.RespondWithJSON(w, http.StatusOK, entries)
}

// GET /api/v1/tenant/notifications
func (c *NotificationController) TenantListHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	list, err := c.notificationService.ListTenantNotifications(r.Context(), s.UserID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	if list == nil {
		list = []*models.Notification{}
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// POST /api/v1/tenant/notifications/{id}/read
func (c *NotificationController) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := requireSession(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := c.notificationService.MarkRead(r.Context(), id, s.UserID); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

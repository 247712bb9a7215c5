package http

import (
	"net/http"

	"rentstack-backend/internal/service"
)

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	page, pageSize := pagination(r)
	notes, total, err := h.noteSvc.GetNotifications(r.Context(), claims.CustomerID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"notifications": notes, "total": total})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r)
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.noteSvc.MarkAsRead(r.Context(), claims.CustomerID, id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

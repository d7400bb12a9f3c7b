package handlers

import (
	"net/http"

	"github.com/dvloznov/budget-tracker/internal/api/middleware"
	"github.com/dvloznov/budget-tracker/internal/app"
	"github.com/go-chi/chi/v5"
)

// NotificationsHandler handles the notification feed.
type NotificationsHandler struct {
	app *app.App
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(a *app.App) *NotificationsHandler {
	return &NotificationsHandler{app: a}
}

// ListNotifications handles GET /api/notifications
func (h *NotificationsHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := h.app.Notifications()
	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
		"unread":        unread,
	})
}

// MarkAllRead handles POST /api/notifications/read
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	h.app.MarkAllNotificationsRead()
	w.WriteHeader(http.StatusNoContent)
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.app.MarkNotificationRead(chi.URLParam(r, "id")); err != nil {
		writeAppError(w, r, err, "Failed to mark notification read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

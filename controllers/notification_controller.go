package controllers

import (
	"net/http"
	"strconv"

	"fanlink_server/services"

	"github.com/gorilla/mux"
)

// NotificationController handles HTTP requests for the notification feed
type NotificationController struct {
	NotificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController instance
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// HandleList returns the caller's notifications, newest first.
func (nc *NotificationController) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	notifications, err := nc.NotificationService.List(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// HandleUnreadCount returns how many notifications are unread.
func (nc *NotificationController) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	count, err := nc.NotificationService.UnreadCount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// HandleMarkRead marks one notification as read.
func (nc *NotificationController) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := nc.NotificationService.MarkRead(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMarkAllRead marks every notification of the caller as read.
func (nc *NotificationController) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := nc.NotificationService.MarkAllRead(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

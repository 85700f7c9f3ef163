package routes

import (
	"fanlink_server/controllers"
	"fanlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterNotificationRoutes sets up routes for the notification feed
func RegisterNotificationRoutes(r *mux.Router, notificationService *services.NotificationService) {
	controller := controllers.NewNotificationController(notificationService)

	notificationRouter := r.PathPrefix("/notifications").Subrouter()
	notificationRouter.HandleFunc("", controller.HandleList).Methods("GET")
	notificationRouter.HandleFunc("/unread-count", controller.HandleUnreadCount).Methods("GET")
	notificationRouter.HandleFunc("/read-all", controller.HandleMarkAllRead).Methods("PUT")
	notificationRouter.HandleFunc("/{id}/read", controller.HandleMarkRead).Methods("PUT")
}

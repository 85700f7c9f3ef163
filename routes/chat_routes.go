package routes

import (
	"fanlink_server/cache"
	"fanlink_server/controllers"
	"fanlink_server/services"

	socketio "github.com/googollee/go-socket.io"
	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for direct messages
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, limits *cache.ActionLimits, socket *socketio.Server) {
	controller := controllers.NewChatController(chatService, limits, socket)

	chatRouter := r.PathPrefix("/chat").Subrouter()
	chatRouter.HandleFunc("/{userId}/messages", controller.HandleSend).Methods("POST")
	chatRouter.HandleFunc("/{userId}/messages", controller.HandleMessages).Methods("GET")
	chatRouter.HandleFunc("/{userId}/read", controller.HandleMarkRead).Methods("PUT")
}

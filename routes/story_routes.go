package routes

import (
	"fanlink_server/cache"
	"fanlink_server/controllers"
	"fanlink_server/services"

	socketio "github.com/googollee/go-socket.io"
	"github.com/gorilla/mux"
)

// RegisterStoryRoutes sets up routes for the story lifecycle
func RegisterStoryRoutes(r *mux.Router, storyService *services.StoryService, limits *cache.ActionLimits, socket *socketio.Server) {
	controller := controllers.NewStoryController(storyService, limits, socket)

	storyRouter := r.PathPrefix("/stories").Subrouter()
	storyRouter.HandleFunc("", controller.HandleCreate).Methods("POST")
	storyRouter.HandleFunc("/sweep", controller.HandleSweep).Methods("POST")
	storyRouter.HandleFunc("/creator/{creatorId}", controller.HandleActiveStories).Methods("GET")
	storyRouter.HandleFunc("/{id}/view", controller.HandleMarkViewed).Methods("POST")
	storyRouter.HandleFunc("/{id}/like", controller.HandleLike).Methods("POST")
	storyRouter.HandleFunc("/{id}/comments", controller.HandleComment).Methods("POST")
	storyRouter.HandleFunc("/{id}", controller.HandleDelete).Methods("DELETE")
}

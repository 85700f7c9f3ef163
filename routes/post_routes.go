package routes

import (
	"fanlink_server/cache"
	"fanlink_server/controllers"
	"fanlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterPostRoutes sets up routes for creator posts
func RegisterPostRoutes(r *mux.Router, postService *services.PostService, limits *cache.ActionLimits) {
	controller := controllers.NewPostController(postService, limits)

	postRouter := r.PathPrefix("/posts").Subrouter()
	postRouter.HandleFunc("", controller.HandleCreate).Methods("POST")
	postRouter.HandleFunc("/creator/{creatorId}", controller.HandleCreatorFeed).Methods("GET")
	postRouter.HandleFunc("/{id}", controller.HandleGet).Methods("GET")
	postRouter.HandleFunc("/{id}", controller.HandleDelete).Methods("DELETE")
}

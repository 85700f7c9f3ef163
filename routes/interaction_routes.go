package routes

import (
	"fanlink_server/cache"
	"fanlink_server/controllers"
	"fanlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterInteractionRoutes sets up routes for like/retweet toggles
func RegisterInteractionRoutes(r *mux.Router, interactionService *services.InteractionService, limits *cache.ActionLimits) {
	controller := controllers.NewInteractionController(interactionService, limits)

	interactionRouter := r.PathPrefix("/interactions").Subrouter()
	interactionRouter.HandleFunc("/toggle", controller.HandleToggle).Methods("POST")
	interactionRouter.HandleFunc("", controller.HandleLikedTargets).Methods("GET")
}

package routes

import (
	"fanlink_server/controllers"
	"fanlink_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for user profiles
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService) {
	controller := controllers.NewUserProfileController(userProfileService)

	userRouter := r.PathPrefix("/user").Subrouter()
	userRouter.HandleFunc("", controller.HandleGetOwn).Methods("GET")
	userRouter.HandleFunc("", controller.HandleUpsert).Methods("PUT")
	userRouter.HandleFunc("/{id}", controller.HandleGet).Methods("GET")
}

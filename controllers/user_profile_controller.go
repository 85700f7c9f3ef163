package controllers

import (
	"encoding/json"
	"net/http"

	"fanlink_server/models"
	"fanlink_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles HTTP requests for user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

// NewUserProfileController creates a new UserProfileController instance
func NewUserProfileController(userProfileService *services.UserProfileService) *UserProfileController {
	return &UserProfileController{UserProfileService: userProfileService}
}

// HandleGetOwn returns the caller's profile, with the derived level.
func (uc *UserProfileController) HandleGetOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	uc.respondWithProfile(w, r, userID)
}

// HandleGet returns another user's profile.
func (uc *UserProfileController) HandleGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	uc.respondWithProfile(w, r, mux.Vars(r)["id"])
}

func (uc *UserProfileController) respondWithProfile(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := uc.UserProfileService.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"level":   profile.Level(),
	})
}

// HandleUpsert creates or updates the caller's profile.
func (uc *UserProfileController) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var request models.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	request.ID = userID

	profile, err := uc.UserProfileService.Upsert(r.Context(), request)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

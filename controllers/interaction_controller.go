package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"fanlink_server/cache"
	"fanlink_server/models"
	"fanlink_server/services"

	log "github.com/sirupsen/logrus"
)

// InteractionController handles HTTP requests for like/retweet toggles
type InteractionController struct {
	InteractionService *services.InteractionService
	Limits             *cache.ActionLimits
}

// NewInteractionController creates a new InteractionController instance
func NewInteractionController(interactionService *services.InteractionService, limits *cache.ActionLimits) *InteractionController {
	return &InteractionController{InteractionService: interactionService, Limits: limits}
}

// HandleToggle flips the caller's like/retweet on a post or story and
// returns the authoritative state the client reconciles against.
func (ic *InteractionController) HandleToggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var request struct {
		TargetID   string `json:"targetId"`
		TargetType string `json:"targetType"` // post (default) or story
		Kind       string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.TargetID == "" || request.Kind == "" {
		http.Error(w, "targetId and kind are required", http.StatusBadRequest)
		return
	}

	limiter := ic.limiterFor(request.Kind)
	if !allowAction(w, r, limiter, userID) {
		return
	}

	targetTable := models.PostsTable
	if request.TargetType == "story" {
		targetTable = models.StoriesTable
	}

	result, err := ic.InteractionService.Toggle(r.Context(), userID, targetTable, request.TargetID, request.Kind)
	if err != nil {
		log.Println("Error processing toggle:", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleLikedTargets reports which of the requested targets the caller has
// an active record for, so clients can seed their optimistic sets.
func (ic *InteractionController) HandleLikedTargets(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = models.KindLike
	}
	var targetIDs []string
	if ids := r.URL.Query().Get("ids"); ids != "" {
		targetIDs = strings.Split(ids, ",")
	}

	active, err := ic.InteractionService.LikedTargets(r.Context(), userID, kind, targetIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"targets": active})
}

func (ic *InteractionController) limiterFor(kind string) *cache.RateLimiter {
	if ic.Limits == nil {
		return nil
	}
	if kind == models.KindRetweet {
		return ic.Limits.Retweet
	}
	return ic.Limits.Like
}

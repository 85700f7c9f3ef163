package controllers

import (
	"encoding/json"
	"net/http"

	"fanlink_server/cache"
	"fanlink_server/models"
	"fanlink_server/services"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// PostController handles HTTP requests for creator posts
type PostController struct {
	PostService *services.PostService
	Limits      *cache.ActionLimits
}

// NewPostController creates a new PostController instance
func NewPostController(postService *services.PostService, limits *cache.ActionLimits) *PostController {
	return &PostController{PostService: postService, Limits: limits}
}

// HandleCreate publishes a new post for the caller.
func (pc *PostController) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if pc.Limits != nil && !allowAction(w, r, pc.Limits.CreatePost, userID) {
		return
	}

	var request models.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	post, err := pc.PostService.Create(r.Context(), userID, request)
	if err != nil {
		log.Println("Error creating post:", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleGet fetches a single post.
func (pc *PostController) HandleGet(w http.ResponseWriter, r *http.Request) {
	post, err := pc.PostService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// HandleCreatorFeed lists a creator's posts, newest first.
func (pc *PostController) HandleCreatorFeed(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.PostService.CreatorFeed(r.Context(), mux.Vars(r)["creatorId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"posts": posts})
}

// HandleDelete removes the caller's own post.
func (pc *PostController) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := pc.PostService.Delete(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package controllers

import (
	"encoding/json"
	"net/http"

	"fanlink_server/cache"
	"fanlink_server/models"
	"fanlink_server/services"

	socketio "github.com/googollee/go-socket.io"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// StoryController handles HTTP requests for the ephemeral story lifecycle
type StoryController struct {
	StoryService *services.StoryService
	Limits       *cache.ActionLimits
	Socket       *socketio.Server
}

// NewStoryController creates a new StoryController instance
func NewStoryController(storyService *services.StoryService, limits *cache.ActionLimits, socket *socketio.Server) *StoryController {
	return &StoryController{StoryService: storyService, Limits: limits, Socket: socket}
}

// HandleCreate publishes a new story for the caller.
func (sc *StoryController) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if sc.Limits != nil && !allowAction(w, r, sc.Limits.CreateStory, userID) {
		return
	}

	var request models.CreateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	story, err := sc.StoryService.Create(r.Context(), userID, request)
	if err != nil {
		log.Println("Error creating story:", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, story)
}

// HandleActiveStories lists a creator's currently visible stories.
func (sc *StoryController) HandleActiveStories(w http.ResponseWriter, r *http.Request) {
	creatorID := mux.Vars(r)["creatorId"]

	stories, err := sc.StoryService.ActiveStories(r.Context(), creatorID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"stories": stories})
}

// HandleMarkViewed records the caller as a viewer of the story.
func (sc *StoryController) HandleMarkViewed(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	storyID := mux.Vars(r)["id"]

	if err := sc.StoryService.MarkViewed(r.Context(), storyID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLike toggles the caller's like on the story.
func (sc *StoryController) HandleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if sc.Limits != nil && !allowAction(w, r, sc.Limits.Like, userID) {
		return
	}
	storyID := mux.Vars(r)["id"]

	result, err := sc.StoryService.Like(r.Context(), userID, storyID)
	if err != nil {
		log.Println("Error liking story:", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"active": result.Active, "count": result.Count})
}

// HandleComment appends a comment to the story and pushes it to the
// story's live room.
func (sc *StoryController) HandleComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if sc.Limits != nil && !allowAction(w, r, sc.Limits.Comment, userID) {
		return
	}
	storyID := mux.Vars(r)["id"]

	var request models.CommentStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	comment, err := sc.StoryService.Comment(r.Context(), userID, storyID, request.Text)
	if err != nil {
		log.Println("Error commenting on story:", err)
		writeServiceError(w, err)
		return
	}

	if sc.Socket != nil {
		sc.Socket.BroadcastToRoom("/", "story:"+storyID, "storyComment", comment)
	}

	writeJSON(w, http.StatusCreated, comment)
}

// HandleDelete removes the caller's own story.
func (sc *StoryController) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	storyID := mux.Vars(r)["id"]

	if err := sc.StoryService.Delete(r.Context(), storyID, userID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSweep purges expired stories on demand. The background sweeper
// calls the same service operation on a schedule; both are re-run safe.
func (sc *StoryController) HandleSweep(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	result, err := sc.StoryService.SweepExpired(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"fanlink_server/cache"
	"fanlink_server/models"
	"fanlink_server/services"

	socketio "github.com/googollee/go-socket.io"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// ChatController handles HTTP requests for direct messages
type ChatController struct {
	ChatService *services.ChatService
	Limits      *cache.ActionLimits
	Socket      *socketio.Server
}

// NewChatController creates a new ChatController instance
func NewChatController(chatService *services.ChatService, limits *cache.ActionLimits, socket *socketio.Server) *ChatController {
	return &ChatController{ChatService: chatService, Limits: limits, Socket: socket}
}

// HandleSend stores a message to the addressed user and pushes it into the
// conversation's live room.
func (cc *ChatController) HandleSend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if cc.Limits != nil && !allowAction(w, r, cc.Limits.SendMessage, userID) {
		return
	}
	recipientID := mux.Vars(r)["userId"]

	var request struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	message, err := cc.ChatService.Send(r.Context(), userID, recipientID, request.Content)
	if err != nil {
		log.Println("Error sending message:", err)
		writeServiceError(w, err)
		return
	}

	if cc.Socket != nil {
		cc.Socket.BroadcastToRoom("/", message.ConversationID, "newMessage", message)
	}

	writeJSON(w, http.StatusCreated, message)
}

// HandleMessages fetches the conversation with the addressed user.
func (cc *ChatController) HandleMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	otherID := mux.Vars(r)["userId"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	messages, err := cc.ChatService.Messages(r.Context(), userID, otherID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"conversationId": models.ConversationID(userID, otherID),
		"messages":       messages,
	})
}

// HandleMarkRead marks the conversation's received messages as read.
func (cc *ChatController) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	otherID := mux.Vars(r)["userId"]

	if err := cc.ChatService.MarkConversationRead(r.Context(), userID, otherID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

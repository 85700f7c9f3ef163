package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"fanlink_server/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// ChatService stores direct messages between a subscriber and a creator and
// notifies the recipient. Live delivery to open sessions happens over the
// socket room keyed by the conversation id.
type ChatService struct {
	Dynamo        Datastore
	Notifications *NotificationService
	Now           func() time.Time
}

func NewChatService(dynamo Datastore, notifications *NotificationService) *ChatService {
	return &ChatService{Dynamo: dynamo, Notifications: notifications, Now: time.Now}
}

// Send stores a new message in the conversation between sender and
// recipient and returns it.
func (s *ChatService) Send(ctx context.Context, senderID, recipientID, content string) (*models.Message, error) {
	if senderID == "" {
		return nil, ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	message := models.Message{
		ConversationID: models.ConversationID(senderID, recipientID),
		MessageID:      uuid.NewString(),
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      s.Now(),
	}

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return nil, storeErr(err)
	}

	if s.Notifications != nil {
		s.Notifications.NotifyMessage(ctx, recipientID, senderID)
	}

	log.Printf("📩 Message stored for conversation %s", message.ConversationID)
	return &message, nil
}

// Messages fetches the conversation between two users, newest first.
func (s *ChatService) Messages(ctx context.Context, userID, otherID string, limit int) ([]models.Message, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if limit <= 0 {
		limit = 100
	}

	conversationID := models.ConversationID(userID, otherID)
	var messages []models.Message
	if err := s.Dynamo.QueryByKey(ctx, models.MessagesTable, "conversationId", conversationID, int32(limit), &messages); err != nil {
		return nil, storeErr(err)
	}

	// DynamoDB sorts by the messageId range key; order by time instead.
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
	return messages, nil
}

// MarkConversationRead marks every message the user received in the
// conversation as read.
func (s *ChatService) MarkConversationRead(ctx context.Context, userID, otherID string) error {
	messages, err := s.Messages(ctx, userID, otherID, 0)
	if err != nil {
		return err
	}

	conversationID := models.ConversationID(userID, otherID)
	for _, message := range messages {
		if message.SenderID == userID || message.Read {
			continue
		}
		key := map[string]string{"conversationId": conversationID, "messageId": message.MessageID}
		if err := s.Dynamo.SetField(ctx, models.MessagesTable, key, "read", true); err != nil {
			log.Errorf("❌ Failed to mark message %s as read: %v", message.MessageID, err)
		}
	}
	return nil
}

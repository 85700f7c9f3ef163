package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fanlink_server/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Broadcaster pushes an event to a named room on the live socket server.
// Nil-safe at the call sites so the service works without a socket layer.
type Broadcaster interface {
	BroadcastToRoom(namespace, room, event string, args ...interface{}) bool
}

// NotificationService writes and serves notification feed entries, pushing
// them live to the recipient's socket room when one is attached.
type NotificationService struct {
	Dynamo Datastore
	Socket Broadcaster
	Now    func() time.Time
}

func NewNotificationService(dynamo Datastore) *NotificationService {
	return &NotificationService{Dynamo: dynamo, Now: time.Now}
}

// NotifyLike records that actorID liked one of userID's items.
func (s *NotificationService) NotifyLike(ctx context.Context, userID, actorID, targetID string) {
	s.create(ctx, models.Notification{
		UserID:   userID,
		Type:     models.NotificationTypeLike,
		ActorID:  actorID,
		TargetID: targetID,
		Message:  fmt.Sprintf("%s liked your content", actorID),
	})
}

// NotifyComment records that actorID commented on one of userID's items.
func (s *NotificationService) NotifyComment(ctx context.Context, userID, actorID, targetID string) {
	s.create(ctx, models.Notification{
		UserID:   userID,
		Type:     models.NotificationTypeComment,
		ActorID:  actorID,
		TargetID: targetID,
		Message:  fmt.Sprintf("%s commented on your story", actorID),
	})
}

// NotifyMessage records that actorID sent userID a chat message.
func (s *NotificationService) NotifyMessage(ctx context.Context, userID, actorID string) {
	s.create(ctx, models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypeMessage,
		ActorID: actorID,
		Message: fmt.Sprintf("New message from %s", actorID),
	})
}

// create is fire-and-forget: a failed notification write never fails the
// interaction that triggered it.
func (s *NotificationService) create(ctx context.Context, n models.Notification) {
	n.ID = uuid.NewString()
	n.CreatedAt = s.Now()

	if err := s.Dynamo.PutItem(ctx, models.NotificationsTable, n); err != nil {
		log.Errorf("❌ Failed to store notification for %s: %v", n.UserID, err)
		return
	}
	if s.Socket != nil {
		s.Socket.BroadcastToRoom("/", "user:"+n.UserID, "notification", n)
	}
}

// List returns a user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if limit <= 0 {
		limit = 50
	}

	var notifications []models.Notification
	if err := s.Dynamo.QueryByField(ctx, models.NotificationsTable, models.NotificationsUserIndex, "userId", userID, int32(limit), &notifications); err != nil {
		return nil, storeErr(err)
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
	return notifications, nil
}

// UnreadCount returns how many of the user's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	notifications, err := s.List(ctx, userID, 0)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkRead marks one notification as read; only its recipient may.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	var n models.Notification
	if err := s.Dynamo.GetItem(ctx, models.NotificationsTable, map[string]string{"id": notificationID}, &n); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return ErrNotFound
		}
		return storeErr(err)
	}
	if n.UserID != userID {
		return ErrForbidden
	}

	if err := s.Dynamo.SetField(ctx, models.NotificationsTable, map[string]string{"id": notificationID}, "read", true); err != nil {
		return storeErr(err)
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	notifications, err := s.List(ctx, userID, 0)
	if err != nil {
		return err
	}
	for _, n := range notifications {
		if n.Read {
			continue
		}
		if err := s.Dynamo.SetField(ctx, models.NotificationsTable, map[string]string{"id": n.ID}, "read", true); err != nil {
			log.Errorf("❌ Failed to mark notification %s as read: %v", n.ID, err)
		}
	}
	return nil
}

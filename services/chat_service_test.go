package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fanlink_server/models"
)

func newChatEnv(t *testing.T) (*memStore, *ChatService) {
	t.Helper()
	store := newMemStore()
	svc := NewChatService(store, NewNotificationService(store))

	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return store, svc
}

func TestSendAndFetchConversation(t *testing.T) {
	ctx := context.Background()
	_, svc := newChatEnv(t)

	if _, err := svc.Send(ctx, "alice", "bob", "  "); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("got %v, want ErrEmptyContent", err)
	}
	if _, err := svc.Send(ctx, "", "bob", "hi"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("got %v, want ErrUnauthenticated", err)
	}

	first, err := svc.Send(ctx, "alice", "bob", "hey bob")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	second, err := svc.Send(ctx, "bob", "alice", "hey alice")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}

	// Both directions land in the same conversation.
	if first.ConversationID != second.ConversationID {
		t.Fatalf("conversation ids differ: %s vs %s", first.ConversationID, second.ConversationID)
	}

	messages, err := svc.Messages(ctx, "bob", "alice", 0)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	// Newest first.
	if messages[0].MessageID != second.MessageID {
		t.Fatalf("got %s first, want the newest message", messages[0].MessageID)
	}
}

func TestSendNotifiesRecipient(t *testing.T) {
	ctx := context.Background()
	_, svc := newChatEnv(t)

	if _, err := svc.Send(ctx, "alice", "bob", "hey"); err != nil {
		t.Fatalf("send: %v", err)
	}

	feed, err := svc.Notifications.List(ctx, "bob", 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(feed) != 1 || feed[0].Type != models.NotificationTypeMessage || feed[0].ActorID != "alice" {
		t.Fatalf("got %v, want one message notification from alice", feed)
	}
}

func TestMarkConversationRead(t *testing.T) {
	ctx := context.Background()
	_, svc := newChatEnv(t)

	sent, err := svc.Send(ctx, "alice", "bob", "hey")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.Send(ctx, "bob", "alice", "hi back"); err != nil {
		t.Fatalf("reply: %v", err)
	}

	if err := svc.MarkConversationRead(ctx, "bob", "alice"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	messages, err := svc.Messages(ctx, "bob", "alice", 0)
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	for _, message := range messages {
		if message.MessageID == sent.MessageID && !message.Read {
			t.Fatal("received message still unread")
		}
		// Bob's own message must stay untouched.
		if message.SenderID == "bob" && message.Read {
			t.Fatal("sender's own message marked read")
		}
	}
}

func TestNotificationReadFlow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	notifications := NewNotificationService(store)
	notifications.Now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

	notifications.NotifyLike(ctx, "creator1", "fan1", "p1")
	notifications.NotifyComment(ctx, "creator1", "fan2", "s1")

	unread, err := notifications.UnreadCount(ctx, "creator1")
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if unread != 2 {
		t.Fatalf("got unread=%d, want 2", unread)
	}

	feed, _ := notifications.List(ctx, "creator1", 10)
	if err := notifications.MarkRead(ctx, feed[0].ID, "intruder"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
	if err := notifications.MarkRead(ctx, feed[0].ID, "creator1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, _ = notifications.UnreadCount(ctx, "creator1")
	if unread != 1 {
		t.Fatalf("got unread=%d after mark read, want 1", unread)
	}

	if err := notifications.MarkAllRead(ctx, "creator1"); err != nil {
		t.Fatalf("mark all read: %v", err)
	}
	unread, _ = notifications.UnreadCount(ctx, "creator1")
	if unread != 0 {
		t.Fatalf("got unread=%d after mark all, want 0", unread)
	}
}

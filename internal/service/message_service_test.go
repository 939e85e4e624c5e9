package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/knagato/messenger-backend/internal/model"
	"github.com/knagato/messenger-backend/internal/realtime"
)

func strptr(s string) *string { return &s }

func directConversation(id uint64, users ...model.User) *model.Conversation {
	cv := &model.Conversation{ID: id, LastMessageAt: time.Now().Add(-time.Hour)}
	for _, u := range users {
		cv.Users = append(cv.Users, model.UserConversation{UserID: u.ID, ConversationID: id, User: u})
	}
	return cv
}

func TestSendMessage(t *testing.T) {
	alice := model.User{ID: 7, Email: "alice@example.com"}
	bob := model.User{ID: 8, Email: "bob@example.com"}

	convRepo := newFakeConvRepo()
	convRepo.add(directConversation(42, alice, bob), alice.ID, bob.ID)
	msgRepo := newFakeMessageRepo()
	bus := &recordingBus{}

	svc := NewMessageService(msgRepo, convRepo, bus)

	msg, err := svc.Send(context.Background(), &alice, 42, strptr("hi"), nil)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.Sender.ID != 7 {
		t.Errorf("sender id = %d, want 7", msg.Sender.ID)
	}
	if msg.Body == nil || *msg.Body != "hi" {
		t.Errorf("body = %v, want hi", msg.Body)
	}
	if msg.Image != nil {
		t.Errorf("image = %v, want nil", msg.Image)
	}

	if len(msgRepo.created) != 1 {
		t.Fatalf("created %d messages, want 1", len(msgRepo.created))
	}
	if !msgRepo.seenRows[msg.ID][alice.ID] {
		t.Errorf("no seen row recorded for sender")
	}
	touched, ok := msgRepo.touched[42]
	if !ok {
		t.Fatalf("lastMessageAt not advanced")
	}
	if touched.Before(msg.CreatedAt) {
		t.Errorf("lastMessageAt %v predates message %v", touched, msg.CreatedAt)
	}

	if got := bus.on("42", realtime.EventMessageNew); len(got) != 1 {
		t.Errorf("messages:new on channel 42: %d events, want 1", len(got))
	}
	for _, email := range []string{alice.Email, bob.Email} {
		got := bus.on(email, realtime.EventConversationUpdate)
		if len(got) != 1 {
			t.Fatalf("conversation:update on %s: %d events, want 1", email, len(got))
		}
		upd, ok := got[0].payload.(ConversationUpdatePayload)
		if !ok {
			t.Fatalf("unexpected payload type %T", got[0].payload)
		}
		if upd.ID != 42 || len(upd.Messages) != 1 || upd.Messages[0].ID != msg.ID {
			t.Errorf("update payload = %+v, want latest message only", upd)
		}
	}
}

func TestSendMessageRejections(t *testing.T) {
	alice := model.User{ID: 7, Email: "alice@example.com"}
	stranger := model.User{ID: 99, Email: "mallory@example.com"}

	convRepo := newFakeConvRepo()
	convRepo.add(directConversation(42, alice), alice.ID)

	tests := []struct {
		name    string
		sender  *model.User
		convID  uint64
		wantErr error
	}{
		{"unknown conversation", &alice, 12345, ErrNotFound},
		{"sender not a member", &stranger, 42, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgRepo := newFakeMessageRepo()
			bus := &recordingBus{}
			svc := NewMessageService(msgRepo, convRepo, bus)

			_, err := svc.Send(context.Background(), tt.sender, tt.convID, strptr("hi"), nil)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if len(msgRepo.created) != 0 {
				t.Errorf("message was written despite rejection")
			}
			if len(bus.events) != 0 {
				t.Errorf("events published despite rejection")
			}
		})
	}
}

func TestSendMessagePersistenceFailureSkipsFanout(t *testing.T) {
	alice := model.User{ID: 7, Email: "alice@example.com"}
	convRepo := newFakeConvRepo()
	convRepo.add(directConversation(42, alice), alice.ID)
	msgRepo := newFakeMessageRepo()
	msgRepo.createErr = errors.New("disk on fire")
	bus := &recordingBus{}

	svc := NewMessageService(msgRepo, convRepo, bus)
	if _, err := svc.Send(context.Background(), &alice, 42, strptr("hi"), nil); err == nil {
		t.Fatalf("expected error")
	}
	if len(bus.events) != 0 {
		t.Errorf("fan-out ran after a failed write")
	}
}

func TestSendMessageFanoutFailureIsSwallowed(t *testing.T) {
	alice := model.User{ID: 7, Email: "alice@example.com"}
	convRepo := newFakeConvRepo()
	convRepo.add(directConversation(42, alice), alice.ID)
	msgRepo := newFakeMessageRepo()
	bus := &recordingBus{err: errors.New("transport down")}

	svc := NewMessageService(msgRepo, convRepo, bus)
	msg, err := svc.Send(context.Background(), &alice, 42, strptr("hi"), nil)
	if err != nil {
		t.Fatalf("Send: %v (fan-out failure must not fail the send)", err)
	}
	if msg == nil {
		t.Fatalf("no message returned")
	}
}

func TestListByConversationSwallowsFailures(t *testing.T) {
	msgRepo := newFakeMessageRepo()
	msgRepo.listErr = errors.New("db gone")
	svc := NewMessageService(msgRepo, newFakeConvRepo(), &recordingBus{})

	got := svc.ListByConversation(context.Background(), 42)
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", got)
	}
}

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/knagato/messenger-backend/internal/model"
)

// The prerender store must render an empty UI, never an error page: every
// read comes back empty with a nil error, every write is refused.
func TestStubReadsAreEmpty(t *testing.T) {
	ctx := context.Background()

	users, err := StubUserRepository{}.ListExcept(ctx, "alice@example.com")
	if err != nil || len(users) != 0 {
		t.Errorf("ListExcept = (%v, %v), want empty and nil", users, err)
	}
	convs, err := StubConversationRepository{}.FindByUser(ctx, 1)
	if err != nil || len(convs) != 0 {
		t.Errorf("FindByUser = (%v, %v), want empty and nil", convs, err)
	}
	msgs, err := StubMessageRepository{}.ListByConversation(ctx, 1)
	if err != nil || len(msgs) != 0 {
		t.Errorf("ListByConversation = (%v, %v), want empty and nil", msgs, err)
	}
	member, err := StubConversationRepository{}.IsMember(ctx, 1, 1)
	if err != nil || member {
		t.Errorf("IsMember = (%v, %v), want false and nil", member, err)
	}
}

func TestStubWritesAreRefused(t *testing.T) {
	ctx := context.Background()

	if _, err := (StubMessageRepository{}).CreateWithSeen(ctx, &model.Message{}); !errors.Is(err, ErrDBNotReady) {
		t.Errorf("CreateWithSeen err = %v, want ErrDBNotReady", err)
	}
	if err := (StubConversationRepository{}).CreateWithMembers(ctx, &model.Conversation{}, []uint64{1, 2}); !errors.Is(err, ErrDBNotReady) {
		t.Errorf("CreateWithMembers err = %v, want ErrDBNotReady", err)
	}
	if _, err := (StubUserRepository{}).UpdateProfile(ctx, 1, nil, nil); !errors.Is(err, ErrDBNotReady) {
		t.Errorf("UpdateProfile err = %v, want ErrDBNotReady", err)
	}
	if err := (StubConversationRepository{}).Delete(ctx, 1); !errors.Is(err, ErrDBNotReady) {
		t.Errorf("Delete err = %v, want ErrDBNotReady", err)
	}
}

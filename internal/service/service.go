package service

import (
	"context"
	"errors"
	"log"

	"github.com/knagato/messenger-backend/internal/model"
	"github.com/knagato/messenger-backend/internal/realtime"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrSelfConversation = errors.New("cannot chat with yourself")
)

// ConversationUpdatePayload is the user-channel update shape: the
// conversation id plus only its latest message.
type ConversationUpdatePayload struct {
	ID       uint64          `json:"id"`
	Messages []model.Message `json:"messages"`
}

// publish is best-effort; the primary mutation has already committed, so a
// failed fan-out is logged and never escalated.
func publish(ctx context.Context, bus realtime.Broadcaster, channel, event string, payload interface{}) {
	if err := bus.Publish(ctx, channel, event, payload); err != nil {
		log.Printf("[FANOUT_ERROR] %s on %s: %v", event, channel, err)
	}
}

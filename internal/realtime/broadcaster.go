package realtime

import (
	"context"
	"encoding/json"
	"strconv"
)

// Event names carried on the wire. Conversation-scoped events go to the
// conversation's own channel, user-scoped events to the member's email
// channel, directory events to the shared users channel.
const (
	EventMessageNew         = "messages:new"
	EventMessageUpdate      = "message:update"
	EventConversationNew    = "conversation:new"
	EventConversationUpdate = "conversation:update"
	EventConversationRemove = "conversation:remove"
	EventUserNew            = "user:new"
	EventUserUpdate         = "user:update"
)

// UsersChannel is the well-known shared channel for user-directory events.
const UsersChannel = "users-channel"

func ConversationChannel(id uint64) string {
	return strconv.FormatUint(id, 10)
}

// Envelope is the published unit. ID gives consumers a stable key for
// duplicate delivery; there is no delivery or cross-channel ordering
// guarantee beyond what the transport provides.
type Envelope struct {
	ID      string          `json:"id"`
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Broadcaster publishes one event to one channel, best-effort: at most one
// attempt, no retry. Callers treat failures as log-and-continue.
type Broadcaster interface {
	Publish(ctx context.Context, channel, event string, payload interface{}) error
}

// Subscriber delivers events from a set of channels until the context is
// cancelled. Events for one subscription arrive on a single Go channel, so
// handler dispatch is serialized per subscriber.
type Subscriber interface {
	Subscribe(ctx context.Context, channels ...string) (<-chan Envelope, error)
}

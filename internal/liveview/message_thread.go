package liveview

import (
	"encoding/json"
	"log"
	"sort"
	"sync"

	"github.com/knagato/messenger-backend/internal/model"
	"github.com/knagato/messenger-backend/internal/realtime"
)

// MessageThread mirrors one open conversation: messages in creation order,
// seen-by lists refreshed live.
type MessageThread struct {
	mu       sync.Mutex
	messages []model.Message
}

func NewMessageThread(initial []model.Message) *MessageThread {
	msgs := make([]model.Message, len(initial))
	copy(msgs, initial)
	return &MessageThread{messages: msgs}
}

func (t *MessageThread) Apply(env realtime.Envelope) {
	var msg model.Message
	if err := json.Unmarshal(env.Payload, &msg); err != nil {
		log.Printf("[LIVEVIEW] bad %s payload: %v", env.Event, err)
		return
	}
	switch env.Event {
	case realtime.EventMessageNew:
		t.applyNew(msg)
	case realtime.EventMessageUpdate:
		t.applyUpdate(msg)
	}
}

func (t *MessageThread) applyNew(msg model.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.messages {
		if t.messages[i].ID == msg.ID {
			return
		}
	}
	t.messages = append(t.messages, msg)
	sort.SliceStable(t.messages, func(i, j int) bool {
		return t.messages[i].CreatedAt.Before(t.messages[j].CreatedAt)
	})
}

// applyUpdate replaces the matching message (seen-by refresh); unknown ids
// are a no-op.
func (t *MessageThread) applyUpdate(msg model.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.messages {
		if t.messages[i].ID == msg.ID {
			t.messages[i] = msg
			return
		}
	}
}

func (t *MessageThread) Messages() []model.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

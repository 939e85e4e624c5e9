package liveview

import (
	"encoding/json"
	"log"
	"sort"
	"sync"

	"github.com/knagato/messenger-backend/internal/model"
	"github.com/knagato/messenger-backend/internal/realtime"
)

// ConversationList mirrors the sidebar: the current user's conversations,
// newest activity first, with direct-conversation duplicates hidden.
type ConversationList struct {
	mu        sync.Mutex
	selfEmail string
	activeID  uint64
	items     []model.Conversation

	// called when the actively viewed conversation is removed, so the UI
	// can navigate away instead of showing a dead view.
	onActiveRemoved func()
}

func NewConversationList(selfEmail string, initial []model.Conversation, onActiveRemoved func()) *ConversationList {
	items := make([]model.Conversation, len(initial))
	copy(items, initial)
	return &ConversationList{
		selfEmail:       selfEmail,
		items:           items,
		onActiveRemoved: onActiveRemoved,
	}
}

// SetActive marks the conversation currently open in the main pane.
func (l *ConversationList) SetActive(id uint64) {
	l.mu.Lock()
	l.activeID = id
	l.mu.Unlock()
}

func (l *ConversationList) Apply(env realtime.Envelope) {
	switch env.Event {
	case realtime.EventConversationNew:
		var cv model.Conversation
		if err := json.Unmarshal(env.Payload, &cv); err != nil {
			log.Printf("[LIVEVIEW] bad conversation:new payload: %v", err)
			return
		}
		l.applyNew(cv)
	case realtime.EventConversationUpdate:
		var upd struct {
			ID       uint64          `json:"id"`
			Messages []model.Message `json:"messages"`
		}
		if err := json.Unmarshal(env.Payload, &upd); err != nil {
			log.Printf("[LIVEVIEW] bad conversation:update payload: %v", err)
			return
		}
		l.applyUpdate(upd.ID, upd.Messages)
	case realtime.EventConversationRemove:
		var cv model.Conversation
		if err := json.Unmarshal(env.Payload, &cv); err != nil {
			log.Printf("[LIVEVIEW] bad conversation:remove payload: %v", err)
			return
		}
		l.applyRemove(cv.ID)
	}
}

// applyNew is idempotent against duplicate delivery: an already known id is
// a no-op.
func (l *ConversationList) applyNew(cv model.Conversation) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID == cv.ID {
			return
		}
	}
	l.items = append([]model.Conversation{cv}, l.items...)
}

// applyUpdate merges the pushed latest-message slice onto the matching item;
// unknown ids are a no-op.
func (l *ConversationList) applyUpdate(id uint64, messages []model.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.items {
		if l.items[i].ID != id {
			continue
		}
		for _, msg := range messages {
			mergeMessage(&l.items[i].Messages, msg)
			if msg.CreatedAt.After(l.items[i].LastMessageAt) {
				l.items[i].LastMessageAt = msg.CreatedAt
			}
		}
		return
	}
}

func (l *ConversationList) applyRemove(id uint64) {
	l.mu.Lock()
	kept := l.items[:0]
	for _, cv := range l.items {
		if cv.ID != id {
			kept = append(kept, cv)
		}
	}
	l.items = kept
	removedActive := l.activeID != 0 && l.activeID == id
	cb := l.onActiveRemoved
	l.mu.Unlock()

	if removedActive && cb != nil {
		cb()
	}
}

func mergeMessage(msgs *[]model.Message, msg model.Message) {
	for i := range *msgs {
		if (*msgs)[i].ID == msg.ID {
			(*msgs)[i] = msg
			return
		}
	}
	*msgs = append(*msgs, msg)
}

// Items returns the display order: group conversations plus, per distinct
// other member, only the most recently active direct conversation. The
// active conversation is additionally retained even when a newer duplicate
// wins its peer's slot, so the open view cannot vanish from under the user.
func (l *ConversationList) Items() []model.Conversation {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.Conversation, 0, len(l.items))
	bestByPeer := map[uint64]model.Conversation{}
	var peerOrder []uint64

	for _, cv := range l.items {
		if cv.IsGroup {
			out = append(out, cv)
			continue
		}
		peer, ok := l.otherUser(cv)
		if !ok {
			out = append(out, cv)
			continue
		}
		if cv.ID == l.activeID {
			out = append(out, cv)
		}
		// the active conversation still competes for its peer's slot, so an
		// older duplicate can never win it back
		best, seen := bestByPeer[peer]
		if !seen {
			bestByPeer[peer] = cv
			peerOrder = append(peerOrder, peer)
			continue
		}
		if cv.LastMessageAt.After(best.LastMessageAt) {
			bestByPeer[peer] = cv
		}
	}
	for _, peer := range peerOrder {
		best := bestByPeer[peer]
		if best.ID == l.activeID {
			continue
		}
		out = append(out, best)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessageAt.After(out[j].LastMessageAt)
	})
	return out
}

func (l *ConversationList) otherUser(cv model.Conversation) (uint64, bool) {
	for _, uc := range cv.Users {
		if uc.User.Email != l.selfEmail {
			return uc.User.ID, true
		}
	}
	return 0, false
}

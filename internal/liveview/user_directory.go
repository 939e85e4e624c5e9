package liveview

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/knagato/messenger-backend/internal/model"
	"github.com/knagato/messenger-backend/internal/realtime"
)

// UserDirectory mirrors the people tab, fed by the shared users channel.
type UserDirectory struct {
	mu    sync.Mutex
	users []model.User
}

func NewUserDirectory(initial []model.User) *UserDirectory {
	users := make([]model.User, len(initial))
	copy(users, initial)
	return &UserDirectory{users: users}
}

func (d *UserDirectory) Apply(env realtime.Envelope) {
	var u model.User
	if err := json.Unmarshal(env.Payload, &u); err != nil {
		log.Printf("[LIVEVIEW] bad %s payload: %v", env.Event, err)
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	switch env.Event {
	case realtime.EventUserNew:
		for i := range d.users {
			if d.users[i].ID == u.ID {
				return
			}
		}
		d.users = append([]model.User{u}, d.users...)
	case realtime.EventUserUpdate:
		for i := range d.users {
			if d.users[i].ID == u.ID {
				d.users[i] = u
				return
			}
		}
	}
}

func (d *UserDirectory) Users() []model.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.User, len(d.users))
	copy(out, d.users)
	return out
}

package service

import (
	"context"
	"time"

	"github.com/knagato/messenger-backend/internal/model"
	"gorm.io/gorm"
)

type publishedEvent struct {
	channel string
	event   string
	payload interface{}
}

type recordingBus struct {
	events []publishedEvent
	err    error
}

func (b *recordingBus) Publish(_ context.Context, channel, event string, payload interface{}) error {
	b.events = append(b.events, publishedEvent{channel: channel, event: event, payload: payload})
	return b.err
}

func (b *recordingBus) on(channel, event string) []publishedEvent {
	var out []publishedEvent
	for _, ev := range b.events {
		if ev.channel == channel && ev.event == event {
			out = append(out, ev)
		}
	}
	return out
}

type fakeConvRepo struct {
	byID       map[uint64]*model.Conversation
	members    map[uint64]map[uint64]bool
	direct     *model.Conversation
	listDirect []model.Conversation
	byUser     []model.Conversation
	byUserErr  error
	created    []*model.Conversation
	deleted    []uint64
}

func newFakeConvRepo() *fakeConvRepo {
	return &fakeConvRepo{
		byID:    map[uint64]*model.Conversation{},
		members: map[uint64]map[uint64]bool{},
	}
}

func (r *fakeConvRepo) add(cv *model.Conversation, memberIDs ...uint64) {
	r.byID[cv.ID] = cv
	set := map[uint64]bool{}
	for _, id := range memberIDs {
		set[id] = true
	}
	r.members[cv.ID] = set
}

func (r *fakeConvRepo) FindByUser(context.Context, uint64) ([]model.Conversation, error) {
	return r.byUser, r.byUserErr
}

func (r *fakeConvRepo) FindByID(_ context.Context, id uint64) (*model.Conversation, error) {
	cv, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return cv, nil
}

func (r *fakeConvRepo) FindDirectBetween(context.Context, uint64, uint64) (*model.Conversation, error) {
	if r.direct == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.direct, nil
}

func (r *fakeConvRepo) ListDirectByUser(context.Context, uint64) ([]model.Conversation, error) {
	return r.listDirect, nil
}

func (r *fakeConvRepo) CreateWithMembers(_ context.Context, cv *model.Conversation, memberIDs []uint64) error {
	cv.ID = uint64(len(r.byID) + 100)
	cv.LastMessageAt = time.Now()
	r.add(cv, memberIDs...)
	r.created = append(r.created, cv)
	return nil
}

func (r *fakeConvRepo) Delete(_ context.Context, id uint64) error {
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeConvRepo) IsMember(_ context.Context, convID, userID uint64) (bool, error) {
	return r.members[convID][userID], nil
}

func (r *fakeConvRepo) SetDB(*gorm.DB) {}

type fakeMessageRepo struct {
	created   []*model.Message
	seenRows  map[uint64]map[uint64]bool // messageID -> userID
	touched   map[uint64]time.Time
	last      *model.Message
	list      []model.Message
	listErr   error
	createErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		seenRows: map[uint64]map[uint64]bool{},
		touched:  map[uint64]time.Time{},
	}
}

func (r *fakeMessageRepo) CreateWithSeen(_ context.Context, msg *model.Message) (*model.Message, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	msg.ID = uint64(len(r.created) + 1)
	msg.CreatedAt = time.Now()
	msg.Sender = model.User{ID: msg.SenderID}
	msg.SeenBy = []model.UserSeenMessage{{UserID: msg.SenderID, MessageID: msg.ID, User: msg.Sender}}
	r.created = append(r.created, msg)
	r.seenRows[msg.ID] = map[uint64]bool{msg.SenderID: true}
	r.touched[msg.ConversationID] = time.Now()
	return msg, nil
}

func (r *fakeMessageRepo) ListByConversation(context.Context, uint64) ([]model.Message, error) {
	return r.list, r.listErr
}

func (r *fakeMessageRepo) LastInConversation(context.Context, uint64) (*model.Message, error) {
	if r.last == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.last, nil
}

func (r *fakeMessageRepo) MarkSeen(_ context.Context, msgID, userID uint64) (*model.Message, error) {
	if r.seenRows[msgID] == nil {
		r.seenRows[msgID] = map[uint64]bool{}
	}
	r.seenRows[msgID][userID] = true
	m := *r.last
	m.SeenBy = append(m.SeenBy, model.UserSeenMessage{UserID: userID, MessageID: msgID})
	return &m, nil
}

func (r *fakeMessageRepo) SetDB(*gorm.DB) {}

type fakeUserRepo struct {
	byID    map[uint64]*model.User
	byEmail map[string]*model.User
	listErr error
	list    []model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{byID: map[uint64]*model.User{}, byEmail: map[string]*model.User{}}
	for _, u := range users {
		r.byID[u.ID] = u
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ListExcept(context.Context, string) ([]model.User, error) {
	return r.list, r.listErr
}

func (r *fakeUserRepo) EnsureByEmail(_ context.Context, u *model.User) (bool, error) {
	if existing, ok := r.byEmail[u.Email]; ok {
		*u = *existing
		return false, nil
	}
	u.ID = uint64(len(r.byID) + 1)
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u
	return true, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id uint64, name, image *string) (*model.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if name != nil {
		u.Name = name
	}
	if image != nil {
		u.Image = image
	}
	return u, nil
}

func (r *fakeUserRepo) SetDB(*gorm.DB) {}

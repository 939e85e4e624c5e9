package repository

import (
	"context"

	"github.com/knagato/messenger-backend/internal/model"
	"gorm.io/gorm"
)

// Stub implementations back the prerender path: reads come back empty so
// static generation renders an empty UI, writes are refused outright. They
// are selected by configuration at startup, never sniffed at call time.

type StubUserRepository struct{}

func (StubUserRepository) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (StubUserRepository) FindByID(context.Context, uint64) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (StubUserRepository) ListExcept(context.Context, string) ([]model.User, error) {
	return []model.User{}, nil
}

func (StubUserRepository) EnsureByEmail(context.Context, *model.User) (bool, error) {
	return false, ErrDBNotReady
}

func (StubUserRepository) UpdateProfile(context.Context, uint64, *string, *string) (*model.User, error) {
	return nil, ErrDBNotReady
}

func (StubUserRepository) SetDB(*gorm.DB) {}

type StubConversationRepository struct{}

func (StubConversationRepository) FindByUser(context.Context, uint64) ([]model.Conversation, error) {
	return []model.Conversation{}, nil
}

func (StubConversationRepository) FindByID(context.Context, uint64) (*model.Conversation, error) {
	return nil, gorm.ErrRecordNotFound
}

func (StubConversationRepository) FindDirectBetween(context.Context, uint64, uint64) (*model.Conversation, error) {
	return nil, gorm.ErrRecordNotFound
}

func (StubConversationRepository) ListDirectByUser(context.Context, uint64) ([]model.Conversation, error) {
	return []model.Conversation{}, nil
}

func (StubConversationRepository) CreateWithMembers(context.Context, *model.Conversation, []uint64) error {
	return ErrDBNotReady
}

func (StubConversationRepository) Delete(context.Context, uint64) error {
	return ErrDBNotReady
}

func (StubConversationRepository) IsMember(context.Context, uint64, uint64) (bool, error) {
	return false, nil
}

func (StubConversationRepository) SetDB(*gorm.DB) {}

type StubMessageRepository struct{}

func (StubMessageRepository) CreateWithSeen(context.Context, *model.Message) (*model.Message, error) {
	return nil, ErrDBNotReady
}

func (StubMessageRepository) ListByConversation(context.Context, uint64) ([]model.Message, error) {
	return []model.Message{}, nil
}

func (StubMessageRepository) LastInConversation(context.Context, uint64) (*model.Message, error) {
	return nil, gorm.ErrRecordNotFound
}

func (StubMessageRepository) MarkSeen(context.Context, uint64, uint64) (*model.Message, error) {
	return nil, ErrDBNotReady
}

func (StubMessageRepository) SetDB(*gorm.DB) {}

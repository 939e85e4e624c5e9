package service

import (
	"context"
	"errors"
	"log"

	"github.com/knagato/messenger-backend/internal/model"
	"github.com/knagato/messenger-backend/internal/realtime"
	"github.com/knagato/messenger-backend/internal/repository"
	"gorm.io/gorm"
)

type MessageService interface {
	Send(ctx context.Context, sender *model.User, convID uint64, body, image *string) (*model.Message, error)
	ListByConversation(ctx context.Context, convID uint64) []model.Message
}

type messageService struct {
	messages repository.MessageRepository
	convs    repository.ConversationRepository
	bus      realtime.Broadcaster
}

func NewMessageService(messages repository.MessageRepository, convs repository.ConversationRepository, bus realtime.Broadcaster) MessageService {
	return &messageService{messages: messages, convs: convs, bus: bus}
}

// Send writes the message, the sender's own seen row and the lastMessageAt
// touch in one transaction, then fans out. Fan-out failures never undo a
// durably stored message.
func (s *messageService) Send(ctx context.Context, sender *model.User, convID uint64, body, image *string) (*model.Message, error) {
	cv, err := s.convs.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	member, err := s.convs.IsMember(ctx, convID, sender.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrForbidden
	}

	msg := &model.Message{
		ConversationID: convID,
		SenderID:       sender.ID,
		Body:           body,
		Image:          image,
	}
	created, err := s.messages.CreateWithSeen(ctx, msg)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, realtime.ConversationChannel(convID), realtime.EventMessageNew, created)
	update := ConversationUpdatePayload{ID: convID, Messages: []model.Message{*created}}
	for _, uc := range cv.Users {
		if uc.User.Email == "" {
			continue
		}
		publish(ctx, s.bus, uc.User.Email, realtime.EventConversationUpdate, update)
	}

	return created, nil
}

// ListByConversation backs initial page render; failures degrade to an empty
// list rather than a crashed page.
func (s *messageService) ListByConversation(ctx context.Context, convID uint64) []model.Message {
	msgs, err := s.messages.ListByConversation(ctx, convID)
	if err != nil {
		log.Printf("[MESSAGES_ERROR] list conversation %d: %v", convID, err)
		return []model.Message{}
	}
	return msgs
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/knagato/messenger-backend/internal/model"
	"github.com/knagato/messenger-backend/internal/realtime"
	"github.com/knagato/messenger-backend/internal/repository"
	"gorm.io/gorm"
)

type ConversationService interface {
	ListForUser(ctx context.Context, user *model.User) []model.Conversation
	GetByID(ctx context.Context, user *model.User, convID uint64) *model.Conversation
	CreateDirect(ctx context.Context, caller *model.User, otherID uint64) (*model.Conversation, bool, error)
	CreateGroup(ctx context.Context, caller *model.User, name string, memberIDs []uint64) (*model.Conversation, error)
	Seen(ctx context.Context, caller *model.User, convID uint64) (*model.Message, error)
	Delete(ctx context.Context, caller *model.User, convID uint64) error
	CleanupDuplicates(ctx context.Context, caller *model.User) (int, error)
}

type conversationService struct {
	convs    repository.ConversationRepository
	messages repository.MessageRepository
	users    repository.UserRepository
	bus      realtime.Broadcaster
}

func NewConversationService(convs repository.ConversationRepository, messages repository.MessageRepository, users repository.UserRepository, bus realtime.Broadcaster) ConversationService {
	return &conversationService{convs: convs, messages: messages, users: users, bus: bus}
}

// ListForUser backs the conversation list render. Unauthenticated callers and
// query failures degrade to an empty list, never an error.
func (s *conversationService) ListForUser(ctx context.Context, user *model.User) []model.Conversation {
	if user == nil || user.ID == 0 {
		return []model.Conversation{}
	}
	list, err := s.convs.FindByUser(ctx, user.ID)
	if err != nil {
		log.Printf("[CONVERSATIONS_ERROR] list for user %d: %v", user.ID, err)
		return []model.Conversation{}
	}
	return list
}

// GetByID degrades to nil on any failure, matching the list behavior.
func (s *conversationService) GetByID(ctx context.Context, user *model.User, convID uint64) *model.Conversation {
	if user == nil {
		return nil
	}
	cv, err := s.convs.FindByID(ctx, convID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[CONVERSATIONS_ERROR] get %d: %v", convID, err)
		}
		return nil
	}
	return cv
}

// CreateDirect reuses an existing direct conversation between the pair when
// one exists. Racing creates can still both insert; CleanupDuplicates is the
// remedy for that.
func (s *conversationService) CreateDirect(ctx context.Context, caller *model.User, otherID uint64) (*model.Conversation, bool, error) {
	other, err := s.users.FindByID(ctx, otherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}
	if other.ID == caller.ID {
		return nil, false, ErrSelfConversation
	}

	existing, err := s.convs.FindDirectBetween(ctx, caller.ID, other.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	cv := &model.Conversation{IsGroup: false}
	if err := s.convs.CreateWithMembers(ctx, cv, []uint64{caller.ID, other.ID}); err != nil {
		return nil, false, err
	}
	full, err := s.convs.FindByID(ctx, cv.ID)
	if err != nil {
		return nil, false, err
	}

	s.notifyMembers(ctx, full, realtime.EventConversationNew)
	return full, true, nil
}

func (s *conversationService) CreateGroup(ctx context.Context, caller *model.User, name string, memberIDs []uint64) (*model.Conversation, error) {
	if name == "" || len(memberIDs) < 2 {
		return nil, ErrInvalidInput
	}
	members := append([]uint64{caller.ID}, memberIDs...)
	cv := &model.Conversation{Name: &name, IsGroup: true}
	if err := s.convs.CreateWithMembers(ctx, cv, members); err != nil {
		return nil, err
	}
	full, err := s.convs.FindByID(ctx, cv.ID)
	if err != nil {
		return nil, err
	}

	s.notifyMembers(ctx, full, realtime.EventConversationNew)
	return full, nil
}

// Seen marks the latest message as observed by the caller. A conversation
// with no messages is a no-op.
func (s *conversationService) Seen(ctx context.Context, caller *model.User, convID uint64) (*model.Message, error) {
	cv, err := s.convs.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	member, err := s.convs.IsMember(ctx, convID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrForbidden
	}

	last, err := s.messages.LastInConversation(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	updated, err := s.messages.MarkSeen(ctx, last.ID, caller.ID)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.bus, caller.Email, realtime.EventConversationUpdate,
		ConversationUpdatePayload{ID: cv.ID, Messages: []model.Message{*updated}})
	publish(ctx, s.bus, realtime.ConversationChannel(cv.ID), realtime.EventMessageUpdate, updated)

	return updated, nil
}

func (s *conversationService) Delete(ctx context.Context, caller *model.User, convID uint64) error {
	cv, err := s.convs.FindByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	member, err := s.convs.IsMember(ctx, convID, caller.ID)
	if err != nil {
		return err
	}
	if !member {
		return ErrForbidden
	}
	if err := s.convs.Delete(ctx, convID); err != nil {
		return err
	}

	s.notifyMembers(ctx, cv, realtime.EventConversationRemove)
	return nil
}

// CleanupDuplicates removes the caller's duplicate direct conversations,
// keeping the most recently active one per unordered member pair.
func (s *conversationService) CleanupDuplicates(ctx context.Context, caller *model.User) (int, error) {
	list, err := s.convs.ListDirectByUser(ctx, caller.ID)
	if err != nil {
		return 0, err
	}

	// list arrives ordered by last_message_at descending, so the first
	// conversation seen for a pair is the keeper.
	keep := map[string]bool{}
	deleted := 0
	for i := range list {
		cv := &list[i]
		key := pairKey(cv)
		if !keep[key] {
			keep[key] = true
			continue
		}
		if err := s.convs.Delete(ctx, cv.ID); err != nil {
			return deleted, err
		}
		deleted++
		s.notifyMembers(ctx, cv, realtime.EventConversationRemove)
	}
	return deleted, nil
}

func pairKey(cv *model.Conversation) string {
	ids := make([]string, 0, len(cv.Users))
	for _, uc := range cv.Users {
		ids = append(ids, fmt.Sprintf("%d", uc.UserID))
	}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}

func (s *conversationService) notifyMembers(ctx context.Context, cv *model.Conversation, event string) {
	for _, uc := range cv.Users {
		if uc.User.Email == "" {
			continue
		}
		publish(ctx, s.bus, uc.User.Email, event, cv)
	}
}

package repository

import (
	"context"
	"time"

	"github.com/knagato/messenger-backend/internal/model"
	"gorm.io/gorm"
)

type ConversationRepository interface {
	FindByUser(ctx context.Context, userID uint64) ([]model.Conversation, error)
	FindByID(ctx context.Context, id uint64) (*model.Conversation, error)
	FindDirectBetween(ctx context.Context, a, b uint64) (*model.Conversation, error)
	ListDirectByUser(ctx context.Context, userID uint64) ([]model.Conversation, error)
	CreateWithMembers(ctx context.Context, cv *model.Conversation, memberIDs []uint64) error
	Delete(ctx context.Context, id uint64) error
	IsMember(ctx context.Context, convID, userID uint64) (bool, error)
	SetDB(db *gorm.DB)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) SetDB(db *gorm.DB) {
	r.db = db
}

func withJoins(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Users.User").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("messages.created_at ASC")
		}).
		Preload("Messages.Sender").
		Preload("Messages.SeenBy.User")
}

func (r *conversationRepository) FindByUser(ctx context.Context, userID uint64) ([]model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Conversation
	memberOf := r.db.Table("user_conversations").Select("conversation_id").Where("user_id = ?", userID)
	if err := withJoins(r.db.WithContext(ctx)).
		Where("id IN (?)", memberOf).
		Order("last_message_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id uint64) (*model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var cv model.Conversation
	if err := withJoins(r.db.WithContext(ctx)).First(&cv, id).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *conversationRepository) FindDirectBetween(ctx context.Context, a, b uint64) (*model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var cv model.Conversation
	withA := r.db.Table("user_conversations").Select("conversation_id").Where("user_id = ?", a)
	withB := r.db.Table("user_conversations").Select("conversation_id").Where("user_id = ?", b)
	if err := withJoins(r.db.WithContext(ctx)).
		Where("is_group = ?", false).
		Where("id IN (?)", withA).
		Where("id IN (?)", withB).
		Order("last_message_at DESC").
		First(&cv).Error; err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *conversationRepository) ListDirectByUser(ctx context.Context, userID uint64) ([]model.Conversation, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var list []model.Conversation
	memberOf := r.db.Table("user_conversations").Select("conversation_id").Where("user_id = ?", userID)
	if err := r.db.WithContext(ctx).
		Preload("Users.User").
		Where("is_group = ?", false).
		Where("id IN (?)", memberOf).
		Order("last_message_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CreateWithMembers writes the conversation and its membership rows in one
// transaction; a failed membership insert rolls the conversation back.
func (r *conversationRepository) CreateWithMembers(ctx context.Context, cv *model.Conversation, memberIDs []uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	if cv.LastMessageAt.IsZero() {
		cv.LastMessageAt = time.Now()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(cv).Error; err != nil {
			return err
		}
		for _, uid := range memberIDs {
			uc := model.UserConversation{UserID: uid, ConversationID: cv.ID}
			if err := tx.Create(&uc).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *conversationRepository) Delete(ctx context.Context, id uint64) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		msgIDs := tx.Table("messages").Select("id").Where("conversation_id = ?", id)
		if err := tx.Where("message_id IN (?)", msgIDs).Delete(&model.UserSeenMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", id).Delete(&model.UserConversation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Conversation{}, id).Error
	})
}

func (r *conversationRepository) IsMember(ctx context.Context, convID, userID uint64) (bool, error) {
	if r.db == nil {
		return false, ErrDBNotReady
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.UserConversation{}).
		Where("conversation_id = ? AND user_id = ?", convID, userID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

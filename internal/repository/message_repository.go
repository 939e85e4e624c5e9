package repository

import (
	"context"
	"time"

	"github.com/knagato/messenger-backend/internal/model"
	"gorm.io/gorm"
)

type MessageRepository interface {
	CreateWithSeen(ctx context.Context, msg *model.Message) (*model.Message, error)
	ListByConversation(ctx context.Context, convID uint64) ([]model.Message, error)
	LastInConversation(ctx context.Context, convID uint64) (*model.Message, error)
	MarkSeen(ctx context.Context, msgID, userID uint64) (*model.Message, error)
	SetDB(db *gorm.DB)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) SetDB(db *gorm.DB) {
	r.db = db
}

// CreateWithSeen inserts the message, records the sender's own seen row and
// advances the conversation's last_message_at, all in one transaction. The
// returned message carries the sender and seen-by joins.
func (r *messageRepository) CreateWithSeen(ctx context.Context, msg *model.Message) (*model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		seen := model.UserSeenMessage{UserID: msg.SenderID, MessageID: msg.ID}
		if err := tx.Create(&seen).Error; err != nil {
			return err
		}
		return tx.Model(&model.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_message_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return r.findFull(ctx, msg.ID)
}

func (r *messageRepository) findFull(ctx context.Context, id uint64) (*model.Message, error) {
	var m model.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("SeenBy.User").
		First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *messageRepository) ListByConversation(ctx context.Context, convID uint64) ([]model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var msgs []model.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("SeenBy.User").
		Where("conversation_id = ?", convID).
		Order("created_at ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *messageRepository) LastInConversation(ctx context.Context, convID uint64) (*model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var m model.Message
	if err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("SeenBy.User").
		Where("conversation_id = ?", convID).
		Order("created_at DESC").
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// MarkSeen is idempotent per (user, message) thanks to the composite key.
func (r *messageRepository) MarkSeen(ctx context.Context, msgID, userID uint64) (*model.Message, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	seen := model.UserSeenMessage{UserID: userID, MessageID: msgID}
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, msgID).
		FirstOrCreate(&seen).Error; err != nil {
		return nil, err
	}
	return r.findFull(ctx, msgID)
}

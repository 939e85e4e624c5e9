package model

import "time"

// Message is immutable once created. Exactly one of Body/Image is expected
// to be set; that is policy, not schema.
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64    `gorm:"column:conversation_id;index;not null" json:"conversationId"`
	SenderID       uint64    `gorm:"column:sender_id;index;not null" json:"senderId"`
	Body           *string   `gorm:"type:text" json:"body"`
	Image          *string   `gorm:"size:512" json:"image"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index" json:"createdAt"`

	Sender User              `gorm:"foreignKey:SenderID" json:"sender"`
	SeenBy []UserSeenMessage `gorm:"foreignKey:MessageID" json:"seenBy,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

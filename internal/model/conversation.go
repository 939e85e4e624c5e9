package model

import "time"

type Conversation struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          *string   `gorm:"size:191" json:"name"`
	IsGroup       bool      `gorm:"column:is_group;not null;default:false" json:"isGroup"`
	LastMessageAt time.Time `gorm:"column:last_message_at;index" json:"lastMessageAt"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`

	Users    []UserConversation `gorm:"foreignKey:ConversationID" json:"users,omitempty"`
	Messages []Message          `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

func (Conversation) TableName() string {
	return "conversations"
}

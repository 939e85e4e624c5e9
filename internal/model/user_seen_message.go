package model

import "time"

// UserSeenMessage is the read-receipt junction row, unique per (user, message).
type UserSeenMessage struct {
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	MessageID uint64    `gorm:"primaryKey;autoIncrement:false;index" json:"messageId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

func (UserSeenMessage) TableName() string {
	return "user_seen_messages"
}

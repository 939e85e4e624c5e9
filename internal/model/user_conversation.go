package model

// UserConversation is the membership junction row. A row existing is the
// sole authority for "is a participant".
type UserConversation struct {
	UserID         uint64 `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	ConversationID uint64 `gorm:"primaryKey;autoIncrement:false;index" json:"conversationId"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

func (UserConversation) TableName() string {
	return "user_conversations"
}

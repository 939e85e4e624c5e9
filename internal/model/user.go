package model

import "time"

type User struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          *string    `gorm:"size:191" json:"name"`
	Email         string     `gorm:"size:191;uniqueIndex;not null" json:"email"`
	EmailVerified *time.Time `gorm:"column:email_verified" json:"emailVerified"`
	Image         *string    `gorm:"size:512" json:"image"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

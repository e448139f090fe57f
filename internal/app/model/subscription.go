package model

import (
	"time"

	"gorm.io/gorm"
)

// Subscription is a newsletter signup. Unsubscribe flips Active rather
// than deleting, so a later re-subscribe revives the same row.
type Subscription struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Active    bool           `gorm:"default:true" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

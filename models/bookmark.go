package models

import "time"

// Bookmark is a saved link owned by a single user.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:100;not null" json:"title"`
	URL       string    `gorm:"size:500;not null" json:"url"`
}

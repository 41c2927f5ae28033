package models

import (
	"time"
)

// User model
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `gorm:"index" json:"-"`
	Username       string     `gorm:"size:255;not null;unique" json:"username"`
	Email          string     `gorm:"size:255;not null;unique" json:"email"`
	HashedPassword []byte     `gorm:"not null" json:"-"`
	Enabled        bool       `gorm:"not null;default:true" json:"enabled"`
	Roles          []Role     `gorm:"many2many:user_roles;" json:"roles,omitempty"`
	Bookmarks      []Bookmark `json:"-"`
}

// RoleNames returns the names of the user's roles in assignment order.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

package models

import (
	"time"
)

// Like represents a user's like on a blog. The (UserID, BlogID) pair is
// unique, which makes the likes table a set keyed by user and gives the
// toggle operation its add-if-absent semantics at the store level.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_blog" json:"user_id"`
	BlogID    uint      `gorm:"not null;uniqueIndex:idx_user_blog" json:"blog_id"`
	CreatedAt time.Time `json:"created_at"`
}

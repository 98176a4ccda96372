package models

import (
	"time"
)

// Comment represents a comment on a blog. The hierarchy is fixed at two
// levels: a comment with a nil ParentCommentID is top-level and may carry
// replies; a reply never parents further replies.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	// Author is resolved by the repository as an explicit projection.
	Author          Author `gorm:"-" json:"author"`
	BlogID          uint   `gorm:"not null;index" json:"blog_id"`
	ParentCommentID *uint  `gorm:"index" json:"parent_comment_id,omitempty"`
	// Replies is populated only on top-level comments, oldest first.
	Replies   []Comment `gorm:"-" json:"replies,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTopLevel reports whether the comment is directly attached to its blog.
func (c *Comment) IsTopLevel() bool {
	return c.ParentCommentID == nil
}

package models

import (
	"time"
)

// CategoryAll is the "no category filter" sentinel used by listings; it is
// not a storable category.
const CategoryAll = "all"

// BlogCategories is the fixed set of storable categories.
var BlogCategories = []string{
	"technology", "lifestyle", "travel", "food", "health",
	"business", "education", "entertainment", "sports", "other",
}

// ValidCategory reports whether c is a storable blog category.
func ValidCategory(c string) bool {
	for _, v := range BlogCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Blog represents a long-form post.
//
// Views, LikesCount and CommentsCount are denormalized counters kept in sync
// by atomic column deltas; they are never written through whole-row saves.
// CommentsCount counts top-level comments only.
type Blog struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	Title      string   `gorm:"not null" json:"title"`
	Content    string   `gorm:"type:text;not null" json:"content"`
	CoverImage string   `json:"cover_image"`
	Category   string   `gorm:"not null;index" json:"category"`
	Tags       []string `gorm:"serializer:json" json:"tags"`
	AuthorID   uint     `gorm:"not null;index" json:"author_id"`
	// Author is resolved by the repository as an explicit projection.
	Author        Author `gorm:"-" json:"author"`
	IsPublished   bool   `gorm:"not null;default:true" json:"is_published"`
	Views         int    `gorm:"not null;default:0" json:"views"`
	LikesCount    int    `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int    `gorm:"not null;default:0" json:"comments_count"`
	// Liked indicates whether the requesting user liked this blog (computed at query time).
	Liked     bool      `gorm:"->;-:migration" json:"liked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

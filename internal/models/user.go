// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. Credentials are issued and verified
// by the identity provider; this service only consumes the resolved identity.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"unique;not null" json:"username"`
	Email      string    `gorm:"unique;not null" json:"email"`
	Role       string    `gorm:"not null;default:user" json:"role"`
	IsBlocked  bool      `gorm:"not null;default:false" json:"is_blocked"`
	Bio        string    `json:"bio"`
	Avatar     string    `json:"avatar"`
	BlogsCount int       `gorm:"not null;default:0" json:"blogs_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Author is the projection of a user embedded in blog and comment responses.
type Author struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// AuthorOf builds the embedded author projection for a user.
func AuthorOf(u User) Author {
	return Author{ID: u.ID, Username: u.Username, Avatar: u.Avatar}
}

package service

import (
	"context"
	"time"

	"vibepress/internal/cache"
	"vibepress/internal/repository"
)

// UserService serves public user profile reads.
type UserService struct {
	users repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Profile is the public view of a user.
type Profile struct {
	ID         uint      `json:"id"`
	Username   string    `json:"username"`
	Avatar     string    `json:"avatar"`
	Bio        string    `json:"bio"`
	BlogsCount int       `json:"blogs_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// GetProfile returns a user's public profile, cached for a short TTL.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	var profile Profile
	err := cache.Aside(ctx, cache.UserKey(userID), &profile, cache.UserTTL, func() error {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		profile = Profile{
			ID:         user.ID,
			Username:   user.Username,
			Avatar:     user.Avatar,
			Bio:        user.Bio,
			BlogsCount: user.BlogsCount,
			CreatedAt:  user.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

package service

import (
	"context"
	"time"

	"vibepress/internal/cache"
	"vibepress/internal/models"
	"vibepress/internal/pagination"
	"vibepress/internal/repository"
)

// AdminService implements the moderation workflows: user listing, blocking,
// the cascading user delete and the dashboard aggregation.
type AdminService struct {
	users repository.UserRepository
	blogs repository.BlogRepository
}

// NewAdminService returns a new AdminService.
func NewAdminService(users repository.UserRepository, blogs repository.BlogRepository) *AdminService {
	return &AdminService{users: users, blogs: blogs}
}

// UserListResult is a page of users plus paging bookkeeping.
type UserListResult struct {
	Items       []*models.User
	CurrentPage int
	TotalPages  int
	TotalCount  int64
}

// ListUsers returns a page of all users, newest first.
func (s *AdminService) ListUsers(ctx context.Context, page, limit int) (*UserListResult, error) {
	p := pagination.NewParams(page, limit)
	items, total, err := s.users.List(ctx, p)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.User{}
	}
	return &UserListResult{
		Items:       items,
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages(total),
		TotalCount:  total,
	}, nil
}

// DashboardStats aggregates the counters shown on the admin dashboard.
// Counts are taken as independent queries; the snapshot is best-effort.
type DashboardStats struct {
	TotalUsers   int64          `json:"totalUsers"`
	TotalBlogs   int64          `json:"totalBlogs"`
	TotalAdmins  int64          `json:"totalAdmins"`
	BlockedUsers int64          `json:"blockedUsers"`
	RecentUsers  int64          `json:"recentUsers"`
	RecentBlogs  int64          `json:"recentBlogs"`
	TopBlogs     []*models.Blog `json:"topBlogs"`
}

// Stats computes the dashboard aggregation, cached for a short TTL.
func (s *AdminService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := cache.Aside(ctx, cache.AdminStatsKey, &stats, cache.AdminStatsTTL, func() error {
		return s.computeStats(ctx, &stats)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *AdminService) computeStats(ctx context.Context, stats *DashboardStats) error {
	var err error
	if stats.TotalUsers, err = s.users.CountByRole(ctx, models.RoleUser); err != nil {
		return err
	}
	if stats.TotalAdmins, err = s.users.CountByRole(ctx, models.RoleAdmin); err != nil {
		return err
	}
	if stats.BlockedUsers, err = s.users.CountBlocked(ctx); err != nil {
		return err
	}
	if stats.TotalBlogs, err = s.blogs.Count(ctx); err != nil {
		return err
	}

	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	if stats.RecentUsers, err = s.users.CountCreatedSince(ctx, sevenDaysAgo); err != nil {
		return err
	}
	if stats.RecentBlogs, err = s.blogs.CountCreatedSince(ctx, sevenDaysAgo); err != nil {
		return err
	}

	if stats.TopBlogs, err = s.blogs.TopByLikes(ctx, 5); err != nil {
		return err
	}
	if stats.TopBlogs == nil {
		stats.TopBlogs = []*models.Blog{}
	}
	return nil
}

// SetBlocked updates a user's blocked flag. A nil blocked toggles the
// current state. Admins can never be blocked.
func (s *AdminService) SetBlocked(ctx context.Context, userID uint, blocked *bool) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return nil, models.NewConflictError("Cannot block admin user")
	}

	next := !user.IsBlocked
	if blocked != nil {
		next = *blocked
	}

	if err := s.users.SetBlocked(ctx, userID, next); err != nil {
		return nil, err
	}
	user.IsBlocked = next

	cache.InvalidateUser(ctx, userID)
	cache.InvalidateAdminStats(ctx)

	return user, nil
}

// DeleteUser removes a user, cascading through every blog they authored via
// the blog-delete path. Admin accounts cannot be deleted. Their comments on
// other users' blogs survive.
func (s *AdminService) DeleteUser(ctx context.Context, userID uint) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role == models.RoleAdmin {
		return models.NewConflictError("Cannot delete admin user")
	}

	if err := s.users.DeleteCascade(ctx, user); err != nil {
		return models.WrapInternal(err)
	}

	cache.InvalidateUser(ctx, userID)
	cache.InvalidateAdminStats(ctx)

	return nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"vibepress/internal/models"
	"vibepress/internal/pagination"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, p pagination.Params) ([]*models.User, int64, error)
	SetBlocked(ctx context.Context, id uint, blocked bool) error
	DeleteCascade(ctx context.Context, user *models.User) error
	CountByRole(ctx context.Context, role string) (int64, error)
	CountBlocked(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, p pagination.Params) ([]*models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) SetBlocked(ctx context.Context, id uint, blocked bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("is_blocked", blocked)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	return nil
}

// DeleteCascade removes a user and everything that exists only in reference
// to them, in a single transaction:
//
//   - each blog they authored goes through the full blog-delete cascade
//     (comments of both levels, like rows, counter bookkeeping), the same
//     path a direct blog deletion takes;
//   - their like rows on other authors' blogs are removed with matching
//     likes_count decrements so no counter drifts;
//   - their comments on other authors' blogs are intentionally left in
//     place (documented asymmetry).
func (r *userRepository) DeleteCascade(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blogs []*models.Blog
		if err := tx.Where("author_id = ?", user.ID).Find(&blogs).Error; err != nil {
			return err
		}
		for _, blog := range blogs {
			if err := deleteBlogCascade(tx, blog); err != nil {
				return err
			}
		}

		// Likes this user placed on surviving blogs: repair counters, then
		// drop the membership rows.
		if err := tx.Exec(
			`UPDATE blogs SET likes_count = likes_count - 1
			 WHERE id IN (SELECT blog_id FROM likes WHERE user_id = ?)`,
			user.ID,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.User{}, user.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", user.ID)
		}
		return nil
	})
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", role).
		Count(&n).Error
	return n, err
}

func (r *userRepository) CountBlocked(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_blocked = ?", true).
		Count(&n).Error
	return n, err
}

func (r *userRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, err
}

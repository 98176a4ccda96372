package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vibepress/internal/models"
	"vibepress/internal/pagination"

	"gorm.io/gorm"
)

// BlogRepository defines the interface for blog data operations.
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error)
	IncrementViews(ctx context.Context, id uint) error
	List(ctx context.Context, q pagination.Query, currentUserID uint) ([]*models.Blog, int64, error)
	Update(ctx context.Context, blog *models.Blog) error
	DeleteCascade(ctx context.Context, blog *models.Blog) error
	ToggleLike(ctx context.Context, blogID, userID uint) (liked bool, likesCount int, err error)
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	TopByLikes(ctx context.Context, n int) ([]*models.Blog, error)
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository.
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

// Create inserts the blog and bumps the author's blogs_count in one
// transaction. The counter delta is a column expression, never a
// read-modify-write.
func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(blog).Error; err != nil {
			return err
		}

		res := tx.Model(&models.User{}).
			Where("id = ?", blog.AuthorID).
			UpdateColumn("blogs_count", gorm.Expr("blogs_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("User", blog.AuthorID)
		}
		return nil
	})
}

// applyLiked selects all blog columns plus the requester's liked flag.
func (r *blogRepository) applyLiked(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID != 0 {
		return db.Select(
			"blogs.*, EXISTS(SELECT 1 FROM likes WHERE likes.blog_id = blogs.id AND likes.user_id = ?) AS liked",
			currentUserID,
		)
	}
	return db.Select("blogs.*, FALSE AS liked")
}

func (r *blogRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error) {
	var blog models.Blog
	err := r.applyLiked(r.db.WithContext(ctx).Model(&models.Blog{}), currentUserID).
		First(&blog, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog", id)
		}
		return nil, err
	}

	authors, err := loadAuthors(ctx, r.db, []uint{blog.AuthorID})
	if err != nil {
		return nil, err
	}
	blog.Author = authors[blog.AuthorID]

	return &blog, nil
}

// IncrementViews applies an atomic view-count delta. Callers treat it as
// fire-and-forget; occasional under-counting is accepted.
func (r *blogRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// applyFilter translates the listing filter into WHERE clauses.
func (r *blogRepository) applyFilter(db *gorm.DB, f pagination.Filter) *gorm.DB {
	if f.Published != nil {
		db = db.Where("is_published = ?", *f.Published)
	}
	if f.HasCategory() {
		db = db.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		db = db.Where("title ILIKE ? OR content ILIKE ?", like, like)
	}
	if f.AuthorID != 0 {
		db = db.Where("author_id = ?", f.AuthorID)
	}
	return db
}

// List runs the count and page queries for a listing. The two queries are
// not a snapshot; a write landing between them is accepted.
func (r *blogRepository) List(ctx context.Context, q pagination.Query, currentUserID uint) ([]*models.Blog, int64, error) {
	base := r.applyFilter(r.db.WithContext(ctx).Model(&models.Blog{}), q.Filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var blogs []*models.Blog
	err := r.applyLiked(base.Session(&gorm.Session{}), currentUserID).
		Order(pagination.OrderClause(q.SortBy, q.SortOrder)).
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}

	authors, err := loadAuthors(ctx, r.db, blogAuthorIDs(blogs))
	if err != nil {
		return nil, 0, err
	}
	for _, b := range blogs {
		b.Author = authors[b.AuthorID]
	}

	return blogs, total, nil
}

// Update persists the mutable columns only. Counters and author are not
// writable through this path.
func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	res := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("id = ?", blog.ID).
		Select("title", "content", "cover_image", "category", "tags", "updated_at").
		Updates(map[string]interface{}{
			"title":       blog.Title,
			"content":     blog.Content,
			"cover_image": blog.CoverImage,
			"category":    blog.Category,
			"tags":        blog.Tags,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Blog", blog.ID)
	}
	return nil
}

// deleteBlogCascade removes a blog, every comment referencing it (both
// levels, regardless of parent linkage), its like rows, and decrements the
// author's blogs_count. It must run inside tx so a failure partway leaves
// nothing half-deleted. Shared with the user cascade so admin user deletion
// goes through the same path per blog.
func deleteBlogCascade(tx *gorm.DB, blog *models.Blog) error {
	if err := tx.Where("blog_id = ?", blog.ID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("blog_id = ?", blog.ID).Delete(&models.Like{}).Error; err != nil {
		return err
	}

	res := tx.Delete(&models.Blog{}, blog.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Blog", blog.ID)
	}

	return tx.Model(&models.User{}).
		Where("id = ?", blog.AuthorID).
		UpdateColumn("blogs_count", gorm.Expr("blogs_count - 1")).Error
}

func (r *blogRepository) DeleteCascade(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteBlogCascade(tx, blog)
	})
}

// ToggleLike flips the caller's like membership and applies the matching
// likes_count delta in one transaction. Membership add is add-if-absent
// (INSERT ... ON CONFLICT DO NOTHING), so concurrent toggles by different
// users can never overwrite each other's change.
func (r *blogRepository) ToggleLike(ctx context.Context, blogID, userID uint) (bool, int, error) {
	var liked bool
	var likesCount int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// FK constraints are managed by the repository layer, so the blog's
		// existence has to be checked inside the transaction.
		var n int64
		if err := tx.Model(&models.Blog{}).Where("id = ?", blogID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return models.NewNotFoundError("Blog", blogID)
		}

		res := tx.Exec(
			`INSERT INTO likes (user_id, blog_id, created_at)
			 VALUES (?, ?, NOW())
			 ON CONFLICT (user_id, blog_id) DO NOTHING`,
			userID, blogID,
		)
		if res.Error != nil {
			return res.Error
		}

		delta := 0
		if res.RowsAffected == 1 {
			liked = true
			delta = 1
		} else {
			liked = false
			del := tx.Where("user_id = ? AND blog_id = ?", userID, blogID).
				Delete(&models.Like{})
			if del.Error != nil {
				return del.Error
			}
			// A concurrent toggle by the same user may have removed the row
			// between our conflicting insert and this delete. The counter
			// moves only when this transaction removed a member.
			if del.RowsAffected == 1 {
				delta = -1
			}
		}

		row := tx.Raw(
			`UPDATE blogs SET likes_count = likes_count + ? WHERE id = ? RETURNING likes_count`,
			delta, blogID,
		).Row()
		if err := row.Scan(&likesCount); err != nil {
			return fmt.Errorf("updating likes_count: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	return liked, likesCount, nil
}

func (r *blogRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Blog{}).Count(&n).Error
	return n, err
}

func (r *blogRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("created_at >= ?", since).
		Count(&n).Error
	return n, err
}

// TopByLikes returns the n most liked blogs for the admin dashboard.
func (r *blogRepository) TopByLikes(ctx context.Context, n int) ([]*models.Blog, error) {
	var blogs []*models.Blog
	err := r.db.WithContext(ctx).
		Select("blogs.*, FALSE AS liked").
		Order("likes_count DESC").
		Limit(n).
		Find(&blogs).Error
	if err != nil {
		return nil, err
	}

	authors, err := loadAuthors(ctx, r.db, blogAuthorIDs(blogs))
	if err != nil {
		return nil, err
	}
	for _, b := range blogs {
		b.Author = authors[b.AuthorID]
	}
	return blogs, nil
}

package repository

import (
	"context"
	"errors"

	"vibepress/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment thread operations.
type CommentRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListForBlog(ctx context.Context, blogID uint) ([]*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	DeleteCascade(ctx context.Context, comment *models.Comment) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, err
	}
	return &comment, nil
}

// ListForBlog returns the blog's top-level comments newest first, each with
// its replies oldest first and author projections resolved.
func (r *commentRepository) ListForBlog(ctx context.Context, blogID uint) ([]*models.Comment, error) {
	var topLevel []*models.Comment
	err := r.db.WithContext(ctx).
		Where("blog_id = ? AND parent_comment_id IS NULL", blogID).
		Order("created_at DESC").
		Find(&topLevel).Error
	if err != nil {
		return nil, err
	}

	var replies []models.Comment
	err = r.db.WithContext(ctx).
		Where("blog_id = ? AND parent_comment_id IS NOT NULL", blogID).
		Order("created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, err
	}

	byParent := make(map[uint][]models.Comment)
	for _, reply := range replies {
		byParent[*reply.ParentCommentID] = append(byParent[*reply.ParentCommentID], reply)
	}

	authorIDs := make(map[uint]struct{})
	for _, c := range topLevel {
		authorIDs[c.AuthorID] = struct{}{}
	}
	for _, reply := range replies {
		authorIDs[reply.AuthorID] = struct{}{}
	}
	ids := make([]uint, 0, len(authorIDs))
	for id := range authorIDs {
		ids = append(ids, id)
	}
	authors, err := loadAuthors(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	for _, c := range topLevel {
		c.Author = authors[c.AuthorID]
		c.Replies = byParent[c.ID]
		for i := range c.Replies {
			c.Replies[i].Author = authors[c.Replies[i].AuthorID]
		}
	}

	return topLevel, nil
}

// Create inserts the comment and, for a top-level comment, bumps the blog's
// comments_count in the same transaction. Replies never touch the counter.
func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		if !comment.IsTopLevel() {
			return nil
		}

		res := tx.Model(&models.Blog{}).
			Where("id = ?", comment.BlogID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Blog", comment.BlogID)
		}
		return nil
	})
}

// DeleteCascade removes the comment as one unit: its replies first, then the
// counter or parent-link bookkeeping, then the record itself. A reply's
// removal from its parent's thread is the row delete; only top-level
// deletions decrement the blog's comments_count.
func (r *commentRepository) DeleteCascade(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_comment_id = ?", comment.ID).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if comment.IsTopLevel() {
			if err := tx.Model(&models.Blog{}).
				Where("id = ?", comment.BlogID).
				UpdateColumn("comments_count", gorm.Expr("comments_count - 1")).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&models.Comment{}, comment.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Comment", comment.ID)
		}
		return nil
	})
}

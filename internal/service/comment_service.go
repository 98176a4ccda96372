package service

import (
	"context"

	"vibepress/internal/models"
	"vibepress/internal/repository"
)

const maxCommentLen = 5000

// CommentService manages the two-level comment hierarchy of a blog.
type CommentService struct {
	repo  repository.CommentRepository
	blogs repository.BlogRepository
}

// NewCommentService returns a new CommentService.
func NewCommentService(repo repository.CommentRepository, blogs repository.BlogRepository) *CommentService {
	return &CommentService{repo: repo, blogs: blogs}
}

// CreateCommentInput carries the fields a comment is created from. A nil
// ParentCommentID creates a top-level comment.
type CreateCommentInput struct {
	Content         string
	BlogID          uint
	AuthorID        uint
	ParentCommentID *uint
}

// ListForBlog returns a blog's comment threads: top-level comments newest
// first, replies within each thread oldest first.
func (s *CommentService) ListForBlog(ctx context.Context, blogID uint) ([]*models.Comment, error) {
	if _, err := s.blogs.GetByID(ctx, blogID, 0); err != nil {
		return nil, err
	}
	return s.repo.ListForBlog(ctx, blogID)
}

// Create adds a comment or reply. A reply's parent must exist, must itself
// be top-level (depth is fixed at two), and must belong to the same blog.
// Only top-level comments count toward the blog's comments_count.
func (s *CommentService) Create(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 5000 characters)")
	}

	if _, err := s.blogs.GetByID(ctx, in.BlogID, 0); err != nil {
		return nil, err
	}

	if in.ParentCommentID != nil {
		parent, err := s.repo.GetByID(ctx, *in.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if !parent.IsTopLevel() {
			return nil, models.NewValidationError("Replies to replies are not allowed")
		}
		if parent.BlogID != in.BlogID {
			return nil, models.NewValidationError("Parent comment belongs to a different blog")
		}
	}

	comment := &models.Comment{
		Content:         in.Content,
		AuthorID:        in.AuthorID,
		BlogID:          in.BlogID,
		ParentCommentID: in.ParentCommentID,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// Delete removes a comment and, for a top-level comment, its replies, as one
// unit. The comment's author or an admin may delete.
func (s *CommentService) Delete(ctx context.Context, commentID uint, requesterID uint, requesterRole string) error {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if !CanModify(requesterID, requesterRole, comment.AuthorID) {
		return models.NewForbiddenError("Not authorized to delete this comment")
	}

	return models.WrapInternal(s.repo.DeleteCascade(ctx, comment))
}

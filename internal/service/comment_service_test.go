package service

import (
	"context"
	"strings"
	"testing"

	"vibepress/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.Comment, error)
	listForBlogFn   func(context.Context, uint) ([]*models.Comment, error)
	createFn        func(context.Context, *models.Comment) error
	deleteCascadeFn func(context.Context, *models.Comment) error
}

func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListForBlog(ctx context.Context, blogID uint) ([]*models.Comment, error) {
	return s.listForBlogFn(ctx, blogID)
}
func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) DeleteCascade(ctx context.Context, comment *models.Comment) error {
	return s.deleteCascadeFn(ctx, comment)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listForBlogFn:   func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.Comment) error { return nil },
		deleteCascadeFn: func(_ context.Context, _ *models.Comment) error { return nil },
	}
}

func uintPtr(v uint) *uint { return &v }

func TestCommentService_Create_Validation(t *testing.T) {
	svc := NewCommentService(noopCommentRepo(), noopBlogRepo())

	t.Run("Empty content", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateCommentInput{
			BlogID: 1, AuthorID: 2,
		})
		assertValidationError(t, err)
	})

	t.Run("Content too long", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateCommentInput{
			Content: strings.Repeat("x", maxCommentLen+1), BlogID: 1, AuthorID: 2,
		})
		assertValidationError(t, err)
	})
}

func TestCommentService_Create_MissingBlog(t *testing.T) {
	blogs := noopBlogRepo()
	blogs.getByIDFn = func(_ context.Context, id, _ uint) (*models.Blog, error) {
		return nil, models.NewNotFoundError("Blog", id)
	}
	svc := NewCommentService(noopCommentRepo(), blogs)

	_, err := svc.Create(context.Background(), CreateCommentInput{
		Content: "hi", BlogID: 1, AuthorID: 2,
	})
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestCommentService_Create_TopLevel(t *testing.T) {
	var created *models.Comment
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 11
		created = c
		return nil
	}
	svc := NewCommentService(comments, noopBlogRepo())

	comment, err := svc.Create(context.Background(), CreateCommentInput{
		Content: "first!", BlogID: 3, AuthorID: 2,
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Nil(t, created.ParentCommentID)
	assert.Equal(t, uint(3), created.BlogID)
	assert.Equal(t, uint(11), comment.ID)
}

func TestCommentService_Create_ReplyRules(t *testing.T) {
	t.Run("Reply to a top-level comment", func(t *testing.T) {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, BlogID: 3}, nil
		}
		svc := NewCommentService(comments, noopBlogRepo())

		comment, err := svc.Create(context.Background(), CreateCommentInput{
			Content: "agreed", BlogID: 3, AuthorID: 2, ParentCommentID: uintPtr(11),
		})
		require.NoError(t, err)
		require.NotNil(t, comment.ParentCommentID)
		assert.Equal(t, uint(11), *comment.ParentCommentID)
	})

	t.Run("Reply to a reply is rejected", func(t *testing.T) {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, BlogID: 3, ParentCommentID: uintPtr(5)}, nil
		}
		svc := NewCommentService(comments, noopBlogRepo())

		_, err := svc.Create(context.Background(), CreateCommentInput{
			Content: "nested", BlogID: 3, AuthorID: 2, ParentCommentID: uintPtr(11),
		})
		assertValidationError(t, err)
	})

	t.Run("Parent on a different blog is rejected", func(t *testing.T) {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, BlogID: 99}, nil
		}
		svc := NewCommentService(comments, noopBlogRepo())

		_, err := svc.Create(context.Background(), CreateCommentInput{
			Content: "stray", BlogID: 3, AuthorID: 2, ParentCommentID: uintPtr(11),
		})
		assertValidationError(t, err)
	})

	t.Run("Missing parent", func(t *testing.T) {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		svc := NewCommentService(comments, noopBlogRepo())

		_, err := svc.Create(context.Background(), CreateCommentInput{
			Content: "orphan", BlogID: 3, AuthorID: 2, ParentCommentID: uintPtr(11),
		})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestCommentService_ListForBlog(t *testing.T) {
	t.Run("Missing blog", func(t *testing.T) {
		blogs := noopBlogRepo()
		blogs.getByIDFn = func(_ context.Context, id, _ uint) (*models.Blog, error) {
			return nil, models.NewNotFoundError("Blog", id)
		}
		svc := NewCommentService(noopCommentRepo(), blogs)

		_, err := svc.ListForBlog(context.Background(), 3)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("Threads pass through", func(t *testing.T) {
		comments := noopCommentRepo()
		comments.listForBlogFn = func(_ context.Context, blogID uint) ([]*models.Comment, error) {
			assert.Equal(t, uint(3), blogID)
			return []*models.Comment{{ID: 1, Replies: []models.Comment{{ID: 2}}}}, nil
		}
		svc := NewCommentService(comments, noopBlogRepo())

		threads, err := svc.ListForBlog(context.Background(), 3)
		require.NoError(t, err)
		require.Len(t, threads, 1)
		assert.Len(t, threads[0].Replies, 1)
	})
}

func TestCommentService_Delete_Authorization(t *testing.T) {
	newRepo := func(deleted *bool) *commentRepoStub {
		comments := noopCommentRepo()
		comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, AuthorID: 1, BlogID: 3}, nil
		}
		comments.deleteCascadeFn = func(_ context.Context, c *models.Comment) error {
			*deleted = true
			return nil
		}
		return comments
	}

	t.Run("Author may delete", func(t *testing.T) {
		var deleted bool
		svc := NewCommentService(newRepo(&deleted), noopBlogRepo())
		require.NoError(t, svc.Delete(context.Background(), 11, 1, models.RoleUser))
		assert.True(t, deleted)
	})

	t.Run("Admin may delete", func(t *testing.T) {
		var deleted bool
		svc := NewCommentService(newRepo(&deleted), noopBlogRepo())
		require.NoError(t, svc.Delete(context.Background(), 11, 99, models.RoleAdmin))
		assert.True(t, deleted)
	})

	t.Run("Stranger is rejected", func(t *testing.T) {
		var deleted bool
		svc := NewCommentService(newRepo(&deleted), noopBlogRepo())
		err := svc.Delete(context.Background(), 11, 2, models.RoleUser)
		assertForbiddenError(t, err)
		assert.False(t, deleted)
	})
}

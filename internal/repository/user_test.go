package repository

import (
	"context"
	"testing"

	"vibepress/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_DeleteCascade_Integration(t *testing.T) {
	blogs := NewBlogRepository(testDB)
	comments := NewCommentRepository(testDB)
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	leaving := createTestUser(t, "ud_l")
	staying := createTestUser(t, "ud_s")

	ownBlog := createTestBlog(t, blogs, leaving.ID)
	otherBlog := createTestBlog(t, blogs, staying.ID)

	// The leaving user's footprint on the surviving blog: a like and a comment.
	_, _, err := blogs.ToggleLike(ctx, otherBlog.ID, leaving.ID)
	require.NoError(t, err)
	remark := &models.Comment{Content: "still here", AuthorID: leaving.ID, BlogID: otherBlog.ID}
	require.NoError(t, comments.Create(ctx, remark))

	// And activity on their own blog that must cascade away with it.
	onOwn := &models.Comment{Content: "on own", AuthorID: staying.ID, BlogID: ownBlog.ID}
	require.NoError(t, comments.Create(ctx, onOwn))

	require.NoError(t, repo.DeleteCascade(ctx, leaving))

	assert.Zero(t, countRows(t, &models.User{}, "id = ?", leaving.ID))
	assert.Zero(t, countRows(t, &models.Blog{}, "id = ?", ownBlog.ID))
	assert.Zero(t, countRows(t, &models.Comment{}, "blog_id = ?", ownBlog.ID))
	assert.Zero(t, countRows(t, &models.Like{}, "user_id = ?", leaving.ID))

	// The like on the surviving blog is gone and its counter repaired.
	assert.Equal(t, 0, blogLikesCount(t, otherBlog.ID))

	// The leaving user's comment on the surviving blog intentionally remains.
	assert.EqualValues(t, 1, countRows(t, &models.Comment{}, "id = ?", remark.ID))
	assert.Equal(t, 1, blogCommentsCount(t, otherBlog.ID))
}

func TestUserRepository_SetBlocked_Integration(t *testing.T) {
	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := createTestUser(t, "ub")
	require.NoError(t, repo.SetBlocked(ctx, user.ID, true))

	stored, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsBlocked)

	require.Error(t, repo.SetBlocked(ctx, 999999999, true))
}

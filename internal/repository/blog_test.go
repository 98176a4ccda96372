package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"vibepress/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, prefix string) *models.User {
	t.Helper()
	ts := time.Now().UnixNano()
	user := &models.User{
		Username: fmt.Sprintf("%s_%d", prefix, ts),
		Email:    fmt.Sprintf("%s_%d@e.com", prefix, ts),
		Role:     models.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createTestBlog(t *testing.T, repo BlogRepository, authorID uint) *models.Blog {
	t.Helper()
	blog := &models.Blog{
		Title:       "Cascade fixture",
		Content:     "body",
		Category:    "technology",
		Tags:        []string{},
		AuthorID:    authorID,
		IsPublished: true,
	}
	require.NoError(t, repo.Create(context.Background(), blog))
	return blog
}

func countRows(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, testDB.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func blogLikesCount(t *testing.T, blogID uint) int {
	t.Helper()
	var blog models.Blog
	require.NoError(t, testDB.First(&blog, blogID).Error)
	return blog.LikesCount
}

func TestBlogRepository_Create_Integration(t *testing.T) {
	repo := NewBlogRepository(testDB)
	user := createTestUser(t, "bc")

	createTestBlog(t, repo, user.ID)

	var stored models.User
	require.NoError(t, testDB.First(&stored, user.ID).Error)
	assert.Equal(t, 1, stored.BlogsCount)
}

func TestBlogRepository_DeleteCascade_Integration(t *testing.T) {
	repo := NewBlogRepository(testDB)
	comments := NewCommentRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t, "bd_a")
	reader := createTestUser(t, "bd_r")
	blog := createTestBlog(t, repo, author.ID)

	top := &models.Comment{Content: "top", AuthorID: reader.ID, BlogID: blog.ID}
	require.NoError(t, comments.Create(ctx, top))
	reply := &models.Comment{Content: "reply", AuthorID: author.ID, BlogID: blog.ID, ParentCommentID: &top.ID}
	require.NoError(t, comments.Create(ctx, reply))

	_, _, err := repo.ToggleLike(ctx, blog.ID, reader.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteCascade(ctx, blog))

	assert.Zero(t, countRows(t, &models.Comment{}, "blog_id = ?", blog.ID),
		"both comment levels must be removed")
	assert.Zero(t, countRows(t, &models.Like{}, "blog_id = ?", blog.ID))
	assert.Zero(t, countRows(t, &models.Blog{}, "id = ?", blog.ID))

	var stored models.User
	require.NoError(t, testDB.First(&stored, author.ID).Error)
	assert.Equal(t, 0, stored.BlogsCount)
}

func TestBlogRepository_ToggleLike_RoundTrip(t *testing.T) {
	repo := NewBlogRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t, "tl_a")
	reader := createTestUser(t, "tl_r")
	blog := createTestBlog(t, repo, author.ID)

	liked, count, err := repo.ToggleLike(ctx, blog.ID, reader.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, count)
	assert.EqualValues(t, 1, countRows(t, &models.Like{}, "blog_id = ? AND user_id = ?", blog.ID, reader.ID))

	liked, count, err = repo.ToggleLike(ctx, blog.ID, reader.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Equal(t, 0, count)
	assert.Zero(t, countRows(t, &models.Like{}, "blog_id = ? AND user_id = ?", blog.ID, reader.ID))
	assert.Equal(t, 0, blogLikesCount(t, blog.ID))
}

func TestBlogRepository_ToggleLike_MissingBlog(t *testing.T) {
	repo := NewBlogRepository(testDB)
	reader := createTestUser(t, "tm")

	_, _, err := repo.ToggleLike(context.Background(), 999999999, reader.ID)
	require.Error(t, err)
}

// Concurrent toggles by the same user must never drift the counter away from
// the membership set, whichever interleaving wins.
func TestBlogRepository_ToggleLike_ConcurrentSameUser(t *testing.T) {
	repo := NewBlogRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t, "cc_a")
	reader := createTestUser(t, "cc_r")
	blog := createTestBlog(t, repo, author.ID)

	_, _, err := repo.ToggleLike(ctx, blog.ID, reader.ID)
	require.NoError(t, err)

	const workers = 8
	const togglesPerWorker = 10

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < togglesPerWorker; j++ {
				_, _, _ = repo.ToggleLike(ctx, blog.ID, reader.ID)
			}
		}()
	}
	wg.Wait()

	members := countRows(t, &models.Like{}, "blog_id = ?", blog.ID)
	assert.EqualValues(t, members, blogLikesCount(t, blog.ID),
		"likes_count must equal the membership count after any toggle sequence")
	assert.GreaterOrEqual(t, blogLikesCount(t, blog.ID), 0)
}

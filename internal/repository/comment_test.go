package repository

import (
	"context"
	"testing"

	"vibepress/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blogCommentsCount(t *testing.T, blogID uint) int {
	t.Helper()
	var blog models.Blog
	require.NoError(t, testDB.First(&blog, blogID).Error)
	return blog.CommentsCount
}

func TestCommentRepository_Create_CounterRules(t *testing.T) {
	blogs := NewBlogRepository(testDB)
	repo := NewCommentRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t, "cr")
	blog := createTestBlog(t, blogs, author.ID)

	top := &models.Comment{Content: "top", AuthorID: author.ID, BlogID: blog.ID}
	require.NoError(t, repo.Create(ctx, top))
	assert.Equal(t, 1, blogCommentsCount(t, blog.ID))

	reply := &models.Comment{Content: "reply", AuthorID: author.ID, BlogID: blog.ID, ParentCommentID: &top.ID}
	require.NoError(t, repo.Create(ctx, reply))
	assert.Equal(t, 1, blogCommentsCount(t, blog.ID), "replies never touch the counter")
}

func TestCommentRepository_DeleteCascade_TopLevel(t *testing.T) {
	blogs := NewBlogRepository(testDB)
	repo := NewCommentRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t, "cdt")
	blog := createTestBlog(t, blogs, author.ID)

	top := &models.Comment{Content: "top", AuthorID: author.ID, BlogID: blog.ID}
	require.NoError(t, repo.Create(ctx, top))
	for i := 0; i < 2; i++ {
		reply := &models.Comment{Content: "reply", AuthorID: author.ID, BlogID: blog.ID, ParentCommentID: &top.ID}
		require.NoError(t, repo.Create(ctx, reply))
	}

	before := countRows(t, &models.Comment{}, "blog_id = ?", blog.ID)
	require.EqualValues(t, 3, before)

	require.NoError(t, repo.DeleteCascade(ctx, top))

	assert.Zero(t, countRows(t, &models.Comment{}, "blog_id = ?", blog.ID),
		"the comment and exactly its two replies must be removed")
	assert.Equal(t, 0, blogCommentsCount(t, blog.ID),
		"a top-level delete decrements the counter exactly once")
}

func TestCommentRepository_DeleteCascade_Reply(t *testing.T) {
	blogs := NewBlogRepository(testDB)
	repo := NewCommentRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t, "cdr")
	blog := createTestBlog(t, blogs, author.ID)

	top := &models.Comment{Content: "top", AuthorID: author.ID, BlogID: blog.ID}
	require.NoError(t, repo.Create(ctx, top))
	reply := &models.Comment{Content: "reply", AuthorID: author.ID, BlogID: blog.ID, ParentCommentID: &top.ID}
	require.NoError(t, repo.Create(ctx, reply))

	require.NoError(t, repo.DeleteCascade(ctx, reply))

	assert.Zero(t, countRows(t, &models.Comment{}, "id = ?", reply.ID))
	assert.EqualValues(t, 1, countRows(t, &models.Comment{}, "id = ?", top.ID),
		"the parent survives a reply delete")
	assert.Equal(t, 1, blogCommentsCount(t, blog.ID),
		"a reply delete never touches the counter")
}

func TestCommentRepository_ListForBlog_Ordering(t *testing.T) {
	blogs := NewBlogRepository(testDB)
	repo := NewCommentRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t, "clo")
	blog := createTestBlog(t, blogs, author.ID)

	first := &models.Comment{Content: "first", AuthorID: author.ID, BlogID: blog.ID}
	require.NoError(t, repo.Create(ctx, first))
	second := &models.Comment{Content: "second", AuthorID: author.ID, BlogID: blog.ID}
	require.NoError(t, repo.Create(ctx, second))

	replyA := &models.Comment{Content: "reply a", AuthorID: author.ID, BlogID: blog.ID, ParentCommentID: &first.ID}
	require.NoError(t, repo.Create(ctx, replyA))
	replyB := &models.Comment{Content: "reply b", AuthorID: author.ID, BlogID: blog.ID, ParentCommentID: &first.ID}
	require.NoError(t, repo.Create(ctx, replyB))

	threads, err := repo.ListForBlog(ctx, blog.ID)
	require.NoError(t, err)
	require.Len(t, threads, 2)

	// Top-level newest first, replies oldest first.
	assert.Equal(t, second.ID, threads[0].ID)
	assert.Equal(t, first.ID, threads[1].ID)
	require.Len(t, threads[1].Replies, 2)
	assert.Equal(t, replyA.ID, threads[1].Replies[0].ID)
	assert.Equal(t, replyB.ID, threads[1].Replies[1].ID)
	assert.Equal(t, author.Username, threads[0].Author.Username)
}

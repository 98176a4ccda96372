package service

import (
	"context"

	"vibepress/internal/middleware"
	"vibepress/internal/models"
	"vibepress/internal/observability"
	"vibepress/internal/pagination"
	"vibepress/internal/repository"
)

const maxTitleLen = 200

// BlogService owns the blog lifecycle: creation, reads with view counting,
// listing, owner-gated updates and cascading deletion.
type BlogService struct {
	repo repository.BlogRepository
}

// NewBlogService returns a new BlogService.
func NewBlogService(repo repository.BlogRepository) *BlogService {
	return &BlogService{repo: repo}
}

// CreateBlogInput carries the fields a new blog is created from.
type CreateBlogInput struct {
	Title      string
	Content    string
	CoverImage string
	Category   string
	Tags       []string
	AuthorID   uint
}

// UpdateBlogInput carries the mutable fields of a blog update.
type UpdateBlogInput struct {
	BlogID      uint
	RequesterID uint
	Title       string
	Content     string
	CoverImage  string
	Category    string
	Tags        []string
}

// ListBlogsInput carries raw listing parameters before normalization.
type ListBlogsInput struct {
	Page      int
	Limit     int
	Search    string
	Category  string
	SortBy    string
	SortOrder string
}

func validateBlogFields(title, content, category string) error {
	if title == "" || content == "" {
		return models.NewValidationError("Title and content are required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 200 characters)")
	}
	if !models.ValidCategory(category) {
		return models.NewValidationError("Unknown category")
	}
	return nil
}

// Create validates and stores a new blog. Counters start at zero, the blog
// is published immediately and the author's blogs_count is bumped
// atomically alongside the insert.
func (s *BlogService) Create(ctx context.Context, in CreateBlogInput) (*models.Blog, error) {
	if err := validateBlogFields(in.Title, in.Content, in.Category); err != nil {
		return nil, err
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	blog := &models.Blog{
		Title:       in.Title,
		Content:     in.Content,
		CoverImage:  in.CoverImage,
		Category:    in.Category,
		Tags:        tags,
		AuthorID:    in.AuthorID,
		IsPublished: true,
	}
	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, blog.ID, in.AuthorID)
}

// Get returns a blog by id and registers a view. The increment is
// best-effort: a failure is logged and never surfaces to the reader.
func (s *BlogService) Get(ctx context.Context, id uint, currentUserID uint) (*models.Blog, error) {
	blog, err := s.repo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.IncrementViews(ctx, id); err != nil {
		middleware.Logger.WarnContext(ctx, "view count increment failed",
			"blog_id", id, "error", err.Error())
	} else {
		blog.Views++
	}

	return blog, nil
}

// ListResult is a page of blogs plus the paging bookkeeping every list
// endpoint reports.
type ListResult struct {
	Items       []*models.Blog
	CurrentPage int
	TotalPages  int
	TotalCount  int64
}

func (s *BlogService) list(ctx context.Context, q pagination.Query, currentUserID uint) (*ListResult, error) {
	items, total, err := s.repo.List(ctx, q, currentUserID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Blog{}
	}
	return &ListResult{
		Items:       items,
		CurrentPage: q.Page,
		TotalPages:  q.TotalPages(total),
		TotalCount:  total,
	}, nil
}

// ListPublished is the public catalog listing: published blogs only,
// filterable by category and free-text search, sortable including the
// trending composite order.
func (s *BlogService) ListPublished(ctx context.Context, in ListBlogsInput, currentUserID uint) (*ListResult, error) {
	published := true
	q := pagination.Query{
		Params: pagination.NewParams(in.Page, in.Limit),
		Filter: pagination.Filter{
			Published: &published,
			Category:  in.Category,
			Search:    in.Search,
		},
		SortBy:    in.SortBy,
		SortOrder: in.SortOrder,
	}
	return s.list(ctx, q, currentUserID)
}

// ListByAuthor lists another user's published blogs, newest first.
func (s *BlogService) ListByAuthor(ctx context.Context, authorID uint, page, limit int, currentUserID uint) (*ListResult, error) {
	published := true
	q := pagination.Query{
		Params: pagination.NewParams(page, limit),
		Filter: pagination.Filter{Published: &published, AuthorID: authorID},
	}
	return s.list(ctx, q, currentUserID)
}

// ListMine lists the requester's own blogs, unpublished included.
func (s *BlogService) ListMine(ctx context.Context, userID uint, page, limit int) (*ListResult, error) {
	q := pagination.Query{
		Params: pagination.NewParams(page, limit),
		Filter: pagination.Filter{AuthorID: userID},
	}
	return s.list(ctx, q, userID)
}

// ListAll is the admin listing with no publication restriction.
func (s *BlogService) ListAll(ctx context.Context, page, limit int) (*ListResult, error) {
	q := pagination.Query{
		Params: pagination.NewParams(page, limit),
	}
	return s.list(ctx, q, 0)
}

// Update replaces the mutable fields of a blog. Only the author may update;
// counters and authorship are not reachable through this path.
func (s *BlogService) Update(ctx context.Context, in UpdateBlogInput) (*models.Blog, error) {
	blog, err := s.repo.GetByID(ctx, in.BlogID, in.RequesterID)
	if err != nil {
		return nil, err
	}
	if blog.AuthorID != in.RequesterID {
		return nil, models.NewForbiddenError("Not authorized to update this blog")
	}

	if err := validateBlogFields(in.Title, in.Content, in.Category); err != nil {
		return nil, err
	}

	blog.Title = in.Title
	blog.Content = in.Content
	blog.CoverImage = in.CoverImage
	blog.Category = in.Category
	blog.Tags = in.Tags
	if blog.Tags == nil {
		blog.Tags = []string{}
	}

	if err := s.repo.Update(ctx, blog); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, in.BlogID, in.RequesterID)
}

// Delete removes a blog and everything referencing it. The author or an
// admin may delete; the cascade is a single failure-atomic unit.
func (s *BlogService) Delete(ctx context.Context, id uint, requesterID uint, requesterRole string) error {
	blog, err := s.repo.GetByID(ctx, id, 0)
	if err != nil {
		return err
	}
	if !CanModify(requesterID, requesterRole, blog.AuthorID) {
		return models.NewForbiddenError("Not authorized to delete this blog")
	}

	return models.WrapInternal(s.repo.DeleteCascade(ctx, blog))
}

// ToggleLikeResult reports the post-toggle like state.
type ToggleLikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// ToggleLike flips the caller's like on a blog and returns the state after
// the toggle.
func (s *BlogService) ToggleLike(ctx context.Context, blogID, userID uint) (*ToggleLikeResult, error) {
	liked, likesCount, err := s.repo.ToggleLike(ctx, blogID, userID)
	if err != nil {
		return nil, err
	}

	state := "unliked"
	if liked {
		state = "liked"
	}
	observability.LikeToggles.WithLabelValues(state).Inc()

	return &ToggleLikeResult{Liked: liked, LikesCount: likesCount}, nil
}

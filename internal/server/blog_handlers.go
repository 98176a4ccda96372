package server

import (
	"vibepress/internal/models"
	"vibepress/internal/service"

	"github.com/gofiber/fiber/v2"
)

type blogRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	CoverImage string   `json:"cover_image"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
}

// GetBlogs handles GET /api/posts
func (s *Server) GetBlogs(c *fiber.Ctx) error {
	page, limit := parsePaging(c)
	userID, _ := s.optionalUserID(c)

	result, err := s.blogService.ListPublished(c.UserContext(), service.ListBlogsInput{
		Page:      page,
		Limit:     limit,
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}, userID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(listEnvelope(result.Items, result.CurrentPage, result.TotalPages, result.TotalCount))
}

// GetBlog handles GET /api/posts/:id and registers a view.
func (s *Server) GetBlog(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	blog, err := s.blogService.Get(c.UserContext(), id, userID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(blog)
}

// CreateBlog handles POST /api/posts
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	identity := s.identity(c)

	var req blogRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	blog, err := s.blogService.Create(c.UserContext(), service.CreateBlogInput{
		Title:      req.Title,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Category:   req.Category,
		Tags:       req.Tags,
		AuthorID:   identity.UserID,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(blog)
}

// UpdateBlog handles PUT /api/posts/:id
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	identity := s.identity(c)
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req blogRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	blog, err := s.blogService.Update(c.UserContext(), service.UpdateBlogInput{
		BlogID:      blogID,
		RequesterID: identity.UserID,
		Title:       req.Title,
		Content:     req.Content,
		CoverImage:  req.CoverImage,
		Category:    req.Category,
		Tags:        req.Tags,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(blog)
}

// DeleteBlog handles DELETE /api/posts/:id
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	identity := s.identity(c)
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.blogService.Delete(c.UserContext(), blogID, identity.UserID, identity.Role); err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Blog deleted successfully"})
}

// ToggleLike handles POST /api/posts/:id/like
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	identity := s.identity(c)
	blogID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.blogService.ToggleLike(c.UserContext(), blogID, identity.UserID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(result)
}

// GetAuthorBlogs handles GET /api/posts/author/:userId (published only).
func (s *Server) GetAuthorBlogs(c *fiber.Ctx) error {
	authorID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	page, limit := parsePaging(c)
	userID, _ := s.optionalUserID(c)

	result, err := s.blogService.ListByAuthor(c.UserContext(), authorID, page, limit, userID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(listEnvelope(result.Items, result.CurrentPage, result.TotalPages, result.TotalCount))
}

// GetMyBlogs handles GET /api/posts/mine (unpublished included).
func (s *Server) GetMyBlogs(c *fiber.Ctx) error {
	identity := s.identity(c)
	page, limit := parsePaging(c)

	result, err := s.blogService.ListMine(c.UserContext(), identity.UserID, page, limit)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(listEnvelope(result.Items, result.CurrentPage, result.TotalPages, result.TotalCount))
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(c.UserContext(), userID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(profile)
}

package server

import (
	"vibepress/internal/models"
	"vibepress/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/comments/post/:postId
func (s *Server) GetComments(c *fiber.Ctx) error {
	blogID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListForBlog(c.UserContext(), blogID)
	if err != nil {
		return s.respondError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	return c.JSON(comments)
}

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	identity := s.identity(c)

	var req struct {
		Content         string `json:"content"`
		PostID          uint   `json:"postId"`
		ParentCommentID *uint  `json:"parentCommentId,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("postId is required"))
	}

	comment, err := s.commentService.Create(c.UserContext(), service.CreateCommentInput{
		Content:         req.Content,
		BlogID:          req.PostID,
		AuthorID:        identity.UserID,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	identity := s.identity(c)
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(c.UserContext(), commentID, identity.UserID, identity.Role); err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted successfully"})
}

package server

import (
	"vibepress/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetAdminBlogs handles GET /api/admin/posts (unpublished included).
func (s *Server) GetAdminBlogs(c *fiber.Ctx) error {
	page, limit := parsePaging(c)

	result, err := s.blogService.ListAll(c.UserContext(), page, limit)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(listEnvelope(result.Items, result.CurrentPage, result.TotalPages, result.TotalCount))
}

// GetAdminUsers handles GET /api/admin/users
func (s *Server) GetAdminUsers(c *fiber.Ctx) error {
	page, limit := parsePaging(c)

	result, err := s.adminService.ListUsers(c.UserContext(), page, limit)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(listEnvelope(result.Items, result.CurrentPage, result.TotalPages, result.TotalCount))
}

// BlockUser handles PUT /api/admin/users/:id/block. Without a body the
// blocked flag is toggled; {"blocked": bool} sets it explicitly.
func (s *Server) BlockUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Blocked *bool `json:"blocked"`
	}
	// An empty body means toggle; only a malformed one is rejected.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}

	user, err := s.adminService.SetBlocked(c.UserContext(), userID, req.Blocked)
	if err != nil {
		return s.respondError(c, err)
	}

	message := "User unblocked successfully"
	if user.IsBlocked {
		message = "User blocked successfully"
	}

	return c.JSON(fiber.Map{
		"message": message,
		"user":    user,
	})
}

// DeleteUser handles DELETE /api/admin/users/:id
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.adminService.DeleteUser(c.UserContext(), userID); err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// GetStats handles GET /api/admin/stats
func (s *Server) GetStats(c *fiber.Ctx) error {
	stats, err := s.adminService.Stats(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(stats)
}

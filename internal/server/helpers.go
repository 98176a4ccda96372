package server

import (
	"errors"

	"vibepress/internal/middleware"
	"vibepress/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) so
// Fiber's ErrorHandler does not overwrite the response.
var errResponseWritten = errors.New("response already written")

// parsePaging extracts the raw page and limit query parameters. Clamping is
// owned by the pagination engine.
func parsePaging(c *fiber.Ctx) (page, limit int) {
	return c.QueryInt("page", 0), c.QueryInt("limit", 0)
}

// parseID extracts a route parameter by name as a positive uint. On failure
// it writes a 400 JSON response and returns errResponseWritten; callers
// should check: if err != nil { return nil }.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// identity returns the authenticated identity. Handlers behind AuthRequired
// can rely on it being present.
func (s *Server) identity(c *fiber.Ctx) middleware.Identity {
	id, _ := middleware.IdentityFromCtx(c)
	return id
}

// optionalUserID resolves the caller's user id from a bearer token when one
// is supplied, without requiring authentication. Public reads use it to
// compute per-user fields such as the liked flag.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	tokenString, ok := middleware.BearerToken(authHeader)
	if !ok {
		return 0, false
	}

	identity, err := middleware.ParseIdentity(tokenString)
	if err != nil {
		return 0, false
	}
	return identity.UserID, true
}

// RequireActiveUser rejects blocked users on mutating routes. It must run
// after AuthRequired.
func (s *Server) RequireActiveUser(c *fiber.Ctx) error {
	identity := s.identity(c)

	user, err := s.userRepo.GetByID(c.UserContext(), identity.UserID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Unknown user"))
	}
	if user.IsBlocked {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Account is blocked"))
	}

	return c.Next()
}

// respondError translates a service error into the standard error payload.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusCode(err), err)
}

// listEnvelope is the uniform response shape of every list endpoint.
func listEnvelope(items interface{}, currentPage, totalPages int, totalCount int64) fiber.Map {
	return fiber.Map{
		"items":       items,
		"currentPage": currentPage,
		"totalPages":  totalPages,
		"totalCount":  totalCount,
	}
}

// Package service implements the application's business rules on top of the
// repository layer.
package service

import (
	"vibepress/internal/models"
)

// CanModify is the single capability check for mutating a resource owned by
// another user: the owner may always act, an admin may act on anything.
func CanModify(requesterID uint, requesterRole string, ownerID uint) bool {
	return requesterID == ownerID || requesterRole == models.RoleAdmin
}

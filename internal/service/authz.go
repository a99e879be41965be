package service

import (
	"github.com/google/uuid"

	"github.com/recipedium/backend/internal/models"
)

// CanModify is the single ownership predicate used by every mutation:
// admins may mutate anything, otherwise the caller must be one of the
// listed owners. Comment deletion passes both the comment author and the
// recipe owner.
func CanModify(callerID uuid.UUID, callerRole string, owners ...uuid.UUID) bool {
	if callerRole == models.RoleAdmin {
		return true
	}
	for _, owner := range owners {
		if callerID == owner {
			return true
		}
	}
	return false
}

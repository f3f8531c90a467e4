// Package identity validates opaque actor identifiers and answers role
// capability questions. Malformed ids fail here with INVALID_ID before
// any store access.
package identity

import (
	"bayou-commons/internal/models"
	"bayou-commons/internal/utils"

	"github.com/google/uuid"
)

// ParseID validates one opaque identifier without touching the store.
// field names the id in the validation error ("actorId", "postId", ...).
func ParseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, utils.NewInvalidIDError(field)
	}
	return id, nil
}

// Authorize checks that the actor holds at least the required role in the
// community. Returns a FORBIDDEN error naming the missing role.
func Authorize(actorID uuid.UUID, required models.Role, community *models.Community) error {
	if community.RoleOf(actorID).AtLeast(required) {
		return nil
	}
	return utils.NewForbiddenError("requires " + required.String() + " role")
}

// AuthorizeSelf checks that the actor is operating on their own resource.
func AuthorizeSelf(actorID, ownerID uuid.UUID) error {
	if actorID == ownerID {
		return nil
	}
	return utils.NewForbiddenError("not the owner of this resource")
}

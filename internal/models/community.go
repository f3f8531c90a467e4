package models

import (
	"time"

	"github.com/google/uuid"
)

// Privacy controls how users join a community.
type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyPrivate Privacy = "private"
)

// Role is a user's standing in a community. Each role subsumes the ones
// below it: CREATOR > ADMIN > MEMBER > PENDING > NONE.
type Role int

const (
	RoleNone Role = iota
	RolePending
	RoleMember
	RoleAdmin
	RoleCreator
)

func (r Role) String() string {
	switch r {
	case RolePending:
		return "pending"
	case RoleMember:
		return "member"
	case RoleAdmin:
		return "admin"
	case RoleCreator:
		return "creator"
	default:
		return "none"
	}
}

// AtLeast reports whether r carries the capabilities of min.
func (r Role) AtLeast(min Role) bool {
	return r >= min
}

type Community struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Privacy          Privacy     `json:"privacy"`
	CreatorID        uuid.UUID   `json:"creatorId"`
	AdminIDs         []uuid.UUID `json:"adminIds"`
	MemberIDs        []uuid.UUID `json:"memberIds"`
	PendingMemberIDs []uuid.UUID `json:"pendingMemberIds"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// RoleOf derives a user's role from the community's membership sets.
// This is the single place membership state is read from raw fields.
func (c *Community) RoleOf(userID uuid.UUID) Role {
	if c.CreatorID == userID {
		return RoleCreator
	}
	for _, id := range c.AdminIDs {
		if id == userID {
			return RoleAdmin
		}
	}
	for _, id := range c.MemberIDs {
		if id == userID {
			return RoleMember
		}
	}
	for _, id := range c.PendingMemberIDs {
		if id == userID {
			return RolePending
		}
	}
	return RoleNone
}

// CanLeave reports whether a user in the given role may leave the community.
// The creator must transfer ownership or delete the community instead.
func CanLeave(r Role) bool {
	return r == RoleMember || r == RoleAdmin
}

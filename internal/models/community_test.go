package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRoleOf(t *testing.T) {
	creator := uuid.New()
	admin := uuid.New()
	member := uuid.New()
	pending := uuid.New()
	stranger := uuid.New()

	c := &Community{
		CreatorID:        creator,
		AdminIDs:         []uuid.UUID{creator, admin},
		MemberIDs:        []uuid.UUID{creator, admin, member},
		PendingMemberIDs: []uuid.UUID{pending},
	}

	assert.Equal(t, RoleCreator, c.RoleOf(creator))
	assert.Equal(t, RoleAdmin, c.RoleOf(admin))
	assert.Equal(t, RoleMember, c.RoleOf(member))
	assert.Equal(t, RolePending, c.RoleOf(pending))
	assert.Equal(t, RoleNone, c.RoleOf(stranger))
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleCreator.AtLeast(RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleMember))
	assert.True(t, RoleMember.AtLeast(RoleMember))
	assert.False(t, RolePending.AtLeast(RoleMember))
	assert.False(t, RoleNone.AtLeast(RolePending))
}

func TestCanLeave(t *testing.T) {
	assert.True(t, CanLeave(RoleMember))
	assert.True(t, CanLeave(RoleAdmin))
	assert.False(t, CanLeave(RoleCreator))
	assert.False(t, CanLeave(RoleNone))
}

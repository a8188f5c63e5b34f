package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvert_KnownAliases(t *testing.T) {
	cases := map[string]Role{
		"owner":       RoleOwner,
		"admin":       RoleAdmin,
		"manager":     RoleAdmin,
		"editor":      RoleEditor,
		"contributor": RoleEditor,
		"creator":     RoleEditor,
		"viewer":      RoleViewer,
		"member":      RoleViewer,
		"guest":       RoleViewer,
	}

	for legacy, want := range cases {
		got, err := Convert(legacy)
		assert.NoError(t, err, "legacy role %q", legacy)
		assert.Equal(t, want, got, "legacy role %q", legacy)
	}
}

func TestConvert_Completeness(t *testing.T) {
	// Every legacy alias must convert to a valid organization role.
	for _, legacy := range LegacyRoles() {
		role, err := Convert(legacy)
		assert.NoError(t, err)
		assert.True(t, Valid(role), "alias %q maps to invalid role %q", legacy, role)
	}
}

func TestConvert_Unknown(t *testing.T) {
	_, err := Convert("superuser")
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRole)

	_, err = Convert("")
	assert.Error(t, err)
}

func TestAtLeast(t *testing.T) {
	assert.True(t, AtLeast(RoleOwner, RoleViewer))
	assert.True(t, AtLeast(RoleAdmin, RoleEditor))
	assert.True(t, AtLeast(RoleEditor, RoleEditor))
	assert.False(t, AtLeast(RoleViewer, RoleEditor))
	assert.False(t, AtLeast(RoleEditor, RoleAdmin))
}

func TestEffective_OwnerOverride(t *testing.T) {
	// The org owner is always owner, even if the membership row says viewer.
	role := Effective("user-1", "user-1", RoleViewer)
	assert.Equal(t, RoleOwner, role)
}

func TestEffective_AssignedRole(t *testing.T) {
	role := Effective("user-1", "user-2", RoleEditor)
	assert.Equal(t, RoleEditor, role)
}

func TestEffective_EmptyOwner(t *testing.T) {
	role := Effective("", "", RoleViewer)
	assert.Equal(t, RoleViewer, role)
}

func TestCan(t *testing.T) {
	assert.True(t, Can(RoleViewer, ActionViewContent))
	assert.False(t, Can(RoleViewer, ActionEditContent))
	assert.True(t, Can(RoleEditor, ActionPublishContent))
	assert.False(t, Can(RoleEditor, ActionManageMembers))
	assert.True(t, Can(RoleAdmin, ActionManageBilling))
	assert.False(t, Can(RoleAdmin, ActionManageOrg))
	assert.True(t, Can(RoleOwner, ActionManageOrg))
}

func TestCan_UnknownAction(t *testing.T) {
	assert.False(t, Can(RoleOwner, Action("does.not.exist")))
}

func TestCan_EveryActionHasARole(t *testing.T) {
	// The owner can do everything the capability matrix names.
	for _, a := range Actions() {
		assert.True(t, Can(RoleOwner, a), "owner denied %q", a)
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(RoleOwner))
	assert.True(t, Valid(RoleViewer))
	assert.False(t, Valid(Role("moderator")))
	assert.False(t, Valid(Role("")))
}

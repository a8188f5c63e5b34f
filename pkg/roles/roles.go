package roles

import (
	"errors"
	"fmt"
)

// Role is the organization-level role stored on a membership row.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Account-level roles carried in the JWT. Staff bypasses org scoping on
// the operational endpoints.
const (
	AccountRoleMember = "member"
	AccountRoleStaff  = "staff"
)

var ErrUnknownRole = errors.New("unknown role")

// rank orders roles for AtLeast comparisons. Higher wins.
var rank = map[Role]int{
	RoleViewer: 1,
	RoleEditor: 2,
	RoleAdmin:  3,
	RoleOwner:  4,
}

// legacyAliases maps role strings from the previous single-user account
// model onto the organization roles. Every alias the old data can contain
// must appear here; Convert returns ErrUnknownRole for anything else.
var legacyAliases = map[string]Role{
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

// Valid reports whether r is one of the fixed role enumeration.
func Valid(r Role) bool {
	_, ok := rank[r]
	return ok
}

// Convert maps a legacy role string to an organization role.
func Convert(legacy string) (Role, error) {
	if r, ok := legacyAliases[legacy]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, legacy)
}

// AtLeast reports whether have grants everything min grants.
func AtLeast(have, min Role) bool {
	return rank[have] >= rank[min]
}

// Effective resolves the role a user actually holds in an organization.
// The organization owner is always RoleOwner, regardless of what the
// membership row says.
func Effective(ownerID, userID string, assigned Role) Role {
	if ownerID != "" && ownerID == userID {
		return RoleOwner
	}
	return assigned
}

// Action names a permission checked by handlers and middleware.
type Action string

const (
	ActionViewContent    Action = "content.view"
	ActionEditContent    Action = "content.edit"
	ActionPublishContent Action = "content.publish"
	ActionManageMembers  Action = "members.manage"
	ActionManageBilling  Action = "billing.manage"
	ActionManageOrg      Action = "org.manage"
)

// capabilities is the minimum role required for each action.
var capabilities = map[Action]Role{
	ActionViewContent:    RoleViewer,
	ActionEditContent:    RoleEditor,
	ActionPublishContent: RoleEditor,
	ActionManageMembers:  RoleAdmin,
	ActionManageBilling:  RoleAdmin,
	ActionManageOrg:      RoleOwner,
}

// Can reports whether a role may perform an action. Unknown actions are
// denied.
func Can(r Role, a Action) bool {
	min, ok := capabilities[a]
	if !ok {
		return false
	}
	return AtLeast(r, min)
}

// Actions returns the full action list, for the capability matrix endpoint.
func Actions() []Action {
	out := make([]Action, 0, len(capabilities))
	for a := range capabilities {
		out = append(out, a)
	}
	return out
}

// LegacyRoles returns every legacy role string Convert accepts.
func LegacyRoles() []string {
	out := make([]string, 0, len(legacyAliases))
	for s := range legacyAliases {
		out = append(out, s)
	}
	return out
}

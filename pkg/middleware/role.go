package middleware

import (
	"errors"
	"net/http"

	"postdeck/pkg/roles"

	"github.com/gin-gonic/gin"
)

// ErrNotMember is returned by MembershipSource implementations when the
// user has no membership row in the organization.
var ErrNotMember = errors.New("not a member of this organization")

// MembershipSource resolves the effective role a user holds in an
// organization. Implementations live in each service's repository so the
// role is always read from the store, never trusted from the token.
type MembershipSource interface {
	EffectiveRole(orgID, userID string) (roles.Role, error)
}

// RequireOrgRole loads the caller's membership for the :org_id route param
// and rejects the request unless the effective role is at least min.
// It must run after AuthMiddleware.
func RequireOrgRole(source MembershipSource, min roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param("org_id")
		if orgID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Organization ID required"})
			c.Abort()
			return
		}

		userID := c.GetString("user_id")
		role, err := source.EffectiveRole(orgID, userID)
		if err != nil {
			if errors.Is(err, ErrNotMember) {
				c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this organization"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve membership"})
			}
			c.Abort()
			return
		}

		if !roles.AtLeast(role, min) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this operation"})
			c.Abort()
			return
		}

		c.Set("org_id", orgID)
		c.Set("org_role", string(role))
		c.Next()
	}
}

package http

import (
	"net/http"
	"sort"

	"postdeck/pkg/roles"
	"postdeck/services/team/internal/usecase"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	teamUseCase usecase.TeamUseCase
}

func NewTeamHandler(teamUseCase usecase.TeamUseCase) *TeamHandler {
	return &TeamHandler{
		teamUseCase: teamUseCase,
	}
}

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
	Slug string `json:"slug" binding:"required,min=2,max=50"`
}

type UpdateOrganizationRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
	Slug string `json:"slug" binding:"required,min=2,max=50"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type CreateInviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type AcceptInviteRequest struct {
	Token string `json:"token" binding:"required"`
}

type TransferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id" binding:"required"`
}

// CreateOrganization godoc
// @Summary      Create an organization
// @Description  Create a new organization owned by the current user
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateOrganizationRequest true "Organization data"
// @Success      201  {object}  entity.Organization
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /orgs [post]
func (h *TeamHandler) CreateOrganization(c *gin.Context) {
	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	org, err := h.teamUseCase.CreateOrganization(userID, req.Name, req.Slug)
	if err != nil {
		if err.Error() == "organization slug already taken" {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, org)
}

// ListOrganizations godoc
// @Summary      List my organizations
// @Description  List organizations the current user belongs to
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /orgs [get]
func (h *TeamHandler) ListOrganizations(c *gin.Context) {
	userID := c.GetString("user_id")

	orgs, err := h.teamUseCase.ListOrganizations(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch organizations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"organizations": orgs, "count": len(orgs)})
}

// GetOrganization godoc
// @Summary      Get organization
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Success      200  {object}  entity.Organization
// @Failure      404  {object}  map[string]string
// @Router       /orgs/{org_id} [get]
func (h *TeamHandler) GetOrganization(c *gin.Context) {
	org, err := h.teamUseCase.GetOrganization(c.Param("org_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Organization not found"})
		return
	}

	c.JSON(http.StatusOK, org)
}

// UpdateOrganization godoc
// @Summary      Update organization
// @Description  Update organization name and slug (owner only)
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        request body UpdateOrganizationRequest true "Organization data"
// @Success      200  {object}  entity.Organization
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /orgs/{org_id} [put]
func (h *TeamHandler) UpdateOrganization(c *gin.Context) {
	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	org, err := h.teamUseCase.UpdateOrganization(c.Param("org_id"), req.Name, req.Slug)
	if err != nil {
		switch err.Error() {
		case "organization not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case "organization slug already taken":
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, org)
}

// ListMembers godoc
// @Summary      List organization members
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /orgs/{org_id}/members [get]
func (h *TeamHandler) ListMembers(c *gin.Context) {
	members, err := h.teamUseCase.ListMembers(c.Param("org_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members, "count": len(members)})
}

// UpdateMemberRole godoc
// @Summary      Change a member's role
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        user_id path string true "User ID"
// @Param        request body UpdateMemberRoleRequest true "New role"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /orgs/{org_id}/members/{user_id} [put]
func (h *TeamHandler) UpdateMemberRole(c *gin.Context) {
	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.teamUseCase.UpdateMemberRole(c.Param("org_id"), c.Param("user_id"), req.Role)
	if err != nil {
		switch err.Error() {
		case "organization not found", "member not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member role updated"})
}

// RemoveMember godoc
// @Summary      Remove a member
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        user_id path string true "User ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /orgs/{org_id}/members/{user_id} [delete]
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	err := h.teamUseCase.RemoveMember(c.Param("org_id"), c.Param("user_id"))
	if err != nil {
		switch err.Error() {
		case "organization not found", "member not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// CreateInvite godoc
// @Summary      Invite a user
// @Description  Create an invite token for an email address. The token is returned in the response; delivery is up to the caller.
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        request body CreateInviteRequest true "Invite data"
// @Success      201  {object}  entity.Invite
// @Failure      400  {object}  map[string]string
// @Router       /orgs/{org_id}/invites [post]
func (h *TeamHandler) CreateInvite(c *gin.Context) {
	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invite, err := h.teamUseCase.CreateInvite(c.Param("org_id"), req.Email, req.Role)
	if err != nil {
		if err.Error() == "invalid role" || err.Error() == "cannot invite as owner" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, invite)
}

// ListInvites godoc
// @Summary      List organization invites
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /orgs/{org_id}/invites [get]
func (h *TeamHandler) ListInvites(c *gin.Context) {
	invites, err := h.teamUseCase.ListInvites(c.Param("org_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invites": invites, "count": len(invites)})
}

// AcceptInvite godoc
// @Summary      Accept an invite
// @Description  Join an organization using an invite token
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AcceptInviteRequest true "Invite token"
// @Success      201  {object}  entity.Member
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /invites/accept [post]
func (h *TeamHandler) AcceptInvite(c *gin.Context) {
	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	member, err := h.teamUseCase.AcceptInvite(req.Token, userID)
	if err != nil {
		switch err.Error() {
		case "invite not found", "organization not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case "already a member of this organization":
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case "invite is no longer valid", "invite has expired", "organization member limit reached":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RevokeInvite godoc
// @Summary      Revoke an invite
// @Tags         team
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        invite_id path string true "Invite ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /orgs/{org_id}/invites/{invite_id} [delete]
func (h *TeamHandler) RevokeInvite(c *gin.Context) {
	err := h.teamUseCase.RevokeInvite(c.Param("org_id"), c.Param("invite_id"))
	if err != nil {
		if err.Error() == "invite not found" {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invite revoked"})
}

// TransferOwnership godoc
// @Summary      Transfer organization ownership
// @Tags         team
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        request body TransferOwnershipRequest true "New owner"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /orgs/{org_id}/transfer [post]
func (h *TeamHandler) TransferOwnership(c *gin.Context) {
	var req TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	err := h.teamUseCase.TransferOwnership(c.Param("org_id"), userID, req.NewOwnerID)
	if err != nil {
		switch err.Error() {
		case "organization not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case "only the organization owner can transfer ownership":
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ownership transferred"})
}

// GetRoleMatrix godoc
// @Summary      Role capability matrix
// @Description  The organization roles, the actions each can perform, and the accepted legacy role aliases
// @Tags         team
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /roles [get]
func (h *TeamHandler) GetRoleMatrix(c *gin.Context) {
	matrix := make(map[string][]string)
	for _, role := range []roles.Role{roles.RoleViewer, roles.RoleEditor, roles.RoleAdmin, roles.RoleOwner} {
		allowed := []string{}
		for _, action := range roles.Actions() {
			if roles.Can(role, action) {
				allowed = append(allowed, string(action))
			}
		}
		sort.Strings(allowed)
		matrix[string(role)] = allowed
	}

	aliases := roles.LegacyRoles()
	sort.Strings(aliases)

	c.JSON(http.StatusOK, gin.H{"roles": matrix, "legacy_aliases": aliases})
}

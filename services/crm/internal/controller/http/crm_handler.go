package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"postdeck/pkg/logger"
	"postdeck/services/crm/internal/entity"
	"postdeck/services/crm/internal/usecase"
)

type CRMHandler struct {
	crmUseCase usecase.CRMUseCase
	logger     *logger.Logger
}

func NewCRMHandler(crmUseCase usecase.CRMUseCase, logger *logger.Logger) *CRMHandler {
	return &CRMHandler{
		crmUseCase: crmUseCase,
		logger:     logger,
	}
}

type CreateConnectionRequest struct {
	Provider  string `json:"provider" binding:"required"`
	BaseURL   string `json:"base_url" binding:"required"`
	SecretRef string `json:"secret_ref" binding:"required"`
}

type UpdateConnectionRequest struct {
	BaseURL   string `json:"base_url"`
	SecretRef string `json:"secret_ref"`
	Status    string `json:"status"`
}

type PushContactRequest struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email" binding:"required,email"`
	Name       string `json:"name" binding:"required"`
	Company    string `json:"company"`
}

func respondCRMError(c *gin.Context, err error) {
	switch err.Error() {
	case "connection not found":
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case "provider already connected":
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case "provider is required", "invalid base URL", "invalid status":
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateConnection godoc
// @Summary      Connect a CRM provider
// @Description  One connection per provider per organization. The secret ref names the env var holding the credential.
// @Tags         crm
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        request body CreateConnectionRequest true "Connection"
// @Success      201 {object} entity.CRMConnection
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /orgs/{org_id}/crm/connections [post]
func (h *CRMHandler) CreateConnection(c *gin.Context) {
	var req CreateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.crmUseCase.CreateConnection(c.Param("org_id"), req.Provider, req.BaseURL, req.SecretRef)
	if err != nil {
		respondCRMError(c, err)
		return
	}

	c.JSON(http.StatusCreated, conn)
}

// ListConnections godoc
// @Summary      List CRM connections
// @Tags         crm
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Success      200 {object} map[string]interface{}
// @Router       /orgs/{org_id}/crm/connections [get]
func (h *CRMHandler) ListConnections(c *gin.Context) {
	conns, err := h.crmUseCase.ListConnections(c.Param("org_id"))
	if err != nil {
		respondCRMError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connections": conns,
		"count":       len(conns),
	})
}

// UpdateConnection godoc
// @Summary      Update a CRM connection
// @Description  Status may be set to active or disabled; error is reserved for sync outcomes.
// @Tags         crm
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        connection_id path string true "Connection ID"
// @Param        request body UpdateConnectionRequest true "Changes"
// @Success      200 {object} entity.CRMConnection
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /orgs/{org_id}/crm/connections/{connection_id} [put]
func (h *CRMHandler) UpdateConnection(c *gin.Context) {
	var req UpdateConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := h.crmUseCase.UpdateConnection(c.Param("org_id"), c.Param("connection_id"), req.BaseURL, req.SecretRef, req.Status)
	if err != nil {
		respondCRMError(c, err)
		return
	}

	c.JSON(http.StatusOK, conn)
}

// DeleteConnection godoc
// @Summary      Disconnect a CRM provider
// @Tags         crm
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        connection_id path string true "Connection ID"
// @Success      200 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /orgs/{org_id}/crm/connections/{connection_id} [delete]
func (h *CRMHandler) DeleteConnection(c *gin.Context) {
	if err := h.crmUseCase.DeleteConnection(c.Param("org_id"), c.Param("connection_id")); err != nil {
		respondCRMError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Connection deleted successfully"})
}

// SyncContacts godoc
// @Summary      Pull contacts from every connected CRM
// @Description  Providers are fetched in parallel; a failing provider reports an error entry while the others return contacts.
// @Tags         crm
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Success      200 {object} entity.SyncResult
// @Router       /orgs/{org_id}/crm/sync-contacts [post]
func (h *CRMHandler) SyncContacts(c *gin.Context) {
	result, err := h.crmUseCase.SyncContacts(c.Request.Context(), c.Param("org_id"))
	if err != nil {
		respondCRMError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PushContact godoc
// @Summary      Push one contact to every connected CRM
// @Tags         crm
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        request body PushContactRequest true "Contact"
// @Success      200 {object} entity.PushResult
// @Failure      400 {object} map[string]string
// @Router       /orgs/{org_id}/crm/push-contact [post]
func (h *CRMHandler) PushContact(c *gin.Context) {
	var req PushContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact := entity.Contact{
		ExternalID: req.ExternalID,
		Email:      req.Email,
		Name:       req.Name,
		Company:    req.Company,
	}

	result, err := h.crmUseCase.PushContact(c.Request.Context(), c.Param("org_id"), contact)
	if err != nil {
		respondCRMError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

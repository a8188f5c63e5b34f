package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"postdeck/pkg/logger"
	"postdeck/pkg/roles"
	"postdeck/services/support/internal/usecase"
)

type SupportHandler struct {
	supportUseCase usecase.SupportUseCase
	logger         *logger.Logger
}

func NewSupportHandler(supportUseCase usecase.SupportUseCase, logger *logger.Logger) *SupportHandler {
	return &SupportHandler{
		supportUseCase: supportUseCase,
		logger:         logger,
	}
}

type CreateTicketRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Body     string `json:"body" binding:"required"`
	Priority string `json:"priority"`
	OrgID    string `json:"org_id"`
}

type ReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type SetPriorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

func isStaff(c *gin.Context) bool {
	return c.GetString("role") == roles.AccountRoleStaff
}

func respondTicketError(c *gin.Context, err error) {
	switch err.Error() {
	case "ticket not found":
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case "ticket is closed", "ticket already in this status":
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case "invalid status", "invalid priority":
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case "not allowed to set this status":
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateTicket godoc
// @Summary      Open a support ticket
// @Tags         support
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTicketRequest true "Ticket"
// @Success      201 {object} entity.SupportTicket
// @Failure      400 {object} map[string]string
// @Router       /tickets [post]
func (h *SupportHandler) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.supportUseCase.CreateTicket(c.GetString("user_id"), req.OrgID, req.Subject, req.Body, req.Priority)
	if err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// ListTickets godoc
// @Summary      List my tickets
// @Tags         support
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /tickets [get]
func (h *SupportHandler) ListTickets(c *gin.Context) {
	tickets, err := h.supportUseCase.ListTickets(c.GetString("user_id"))
	if err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
		"count":   len(tickets),
	})
}

// GetTicket godoc
// @Summary      Get a ticket with its conversation
// @Tags         support
// @Produce      json
// @Security     BearerAuth
// @Param        ticket_id path string true "Ticket ID"
// @Success      200 {object} entity.SupportTicket
// @Failure      404 {object} map[string]string
// @Router       /tickets/{ticket_id} [get]
func (h *SupportHandler) GetTicket(c *gin.Context) {
	ticket, err := h.supportUseCase.GetTicket(c.Param("ticket_id"), c.GetString("user_id"), isStaff(c))
	if err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// Reply godoc
// @Summary      Reply to a ticket
// @Description  A staff reply moves an open ticket to pending; a customer reply reopens it.
// @Tags         support
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ticket_id path string true "Ticket ID"
// @Param        request body ReplyRequest true "Reply"
// @Success      201 {object} entity.TicketReply
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /tickets/{ticket_id}/replies [post]
func (h *SupportHandler) Reply(c *gin.Context) {
	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.supportUseCase.Reply(c.Param("ticket_id"), c.GetString("user_id"), isStaff(c), req.Body)
	if err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reply)
}

// SetStatus godoc
// @Summary      Change ticket status
// @Description  Customers may resolve or close their own tickets; staff may set any status.
// @Tags         support
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ticket_id path string true "Ticket ID"
// @Param        request body SetStatusRequest true "New status"
// @Success      200 {object} entity.SupportTicket
// @Failure      400 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /tickets/{ticket_id}/status [put]
func (h *SupportHandler) SetStatus(c *gin.Context) {
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.supportUseCase.SetStatus(c.Param("ticket_id"), c.GetString("user_id"), isStaff(c), req.Status)
	if err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// SetPriority godoc
// @Summary      Change ticket priority
// @Description  Staff only
// @Tags         support
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        ticket_id path string true "Ticket ID"
// @Param        request body SetPriorityRequest true "New priority"
// @Success      200 {object} entity.SupportTicket
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /tickets/{ticket_id}/priority [put]
func (h *SupportHandler) SetPriority(c *gin.Context) {
	var req SetPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.supportUseCase.SetPriority(c.Param("ticket_id"), req.Priority)
	if err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// Queue godoc
// @Summary      Staff ticket queue
// @Description  Open and pending tickets, most urgent first
// @Tags         support
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /support/queue [get]
func (h *SupportHandler) Queue(c *gin.Context) {
	tickets, err := h.supportUseCase.Queue()
	if err != nil {
		respondTicketError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
		"count":   len(tickets),
	})
}

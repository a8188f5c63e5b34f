package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"postdeck/pkg/logger"
	"postdeck/services/growth/internal/usecase"
)

type GrowthHandler struct {
	growthUseCase usecase.GrowthUseCase
	logger        *logger.Logger
}

func NewGrowthHandler(growthUseCase usecase.GrowthUseCase, logger *logger.Logger) *GrowthHandler {
	return &GrowthHandler{
		growthUseCase: growthUseCase,
		logger:        logger,
	}
}

type CreateTestimonialRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required,email"`
}

type SubmitTestimonialRequest struct {
	Token  string `json:"token" binding:"required"`
	Text   string `json:"text" binding:"required"`
	Rating int    `json:"rating" binding:"required"`
}

type CreateReferralRequest struct {
	ReferredEmail string `json:"referred_email" binding:"required,email"`
	RewardCents   int    `json:"reward_cents"`
}

type CreateRoadmapItemRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

type UpdateRoadmapStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func respondGrowthError(c *gin.Context, err error) {
	switch err.Error() {
	case "invalid share token", "testimonial not found", "referral not found", "roadmap item not found":
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case "testimonial already submitted", "testimonial not submitted yet",
		"testimonial already approved", "referral already converted":
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case "rating must be between 1 and 5", "invalid status":
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// CreateTestimonial godoc
// @Summary      Request a testimonial
// @Description  Returns the share token the customer submits against
// @Tags         growth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        request body CreateTestimonialRequest true "Customer"
// @Success      201 {object} entity.TestimonialRequest
// @Failure      400 {object} map[string]string
// @Router       /orgs/{org_id}/testimonials [post]
func (h *GrowthHandler) CreateTestimonial(c *gin.Context) {
	var req CreateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	testimonial, err := h.growthUseCase.CreateTestimonialRequest(c.Param("org_id"), req.CustomerName, req.CustomerEmail)
	if err != nil {
		respondGrowthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, testimonial)
}

// ListTestimonials godoc
// @Summary      List testimonials
// @Tags         growth
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Success      200 {object} map[string]interface{}
// @Router       /orgs/{org_id}/testimonials [get]
func (h *GrowthHandler) ListTestimonials(c *gin.Context) {
	testimonials, err := h.growthUseCase.ListTestimonials(c.Param("org_id"))
	if err != nil {
		respondGrowthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"testimonials": testimonials,
		"count":        len(testimonials),
	})
}

// SubmitTestimonial godoc
// @Summary      Submit a testimonial
// @Description  Public, authenticated by the share token. A token submits once.
// @Tags         growth
// @Accept       json
// @Produce      json
// @Param        request body SubmitTestimonialRequest true "Submission"
// @Success      200 {object} entity.TestimonialRequest
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /testimonials/submit [post]
func (h *GrowthHandler) SubmitTestimonial(c *gin.Context) {
	var req SubmitTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	testimonial, err := h.growthUseCase.SubmitTestimonial(req.Token, req.Text, req.Rating)
	if err != nil {
		respondGrowthError(c, err)
		return
	}

	c.JSON(http.StatusOK, testimonial)
}

// ApproveTestimonial godoc
// @Summary      Approve a testimonial
// @Tags         growth
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        testimonial_id path string true "Testimonial ID"
// @Success      200 {object} entity.TestimonialRequest
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /orgs/{org_id}/testimonials/{testimonial_id}/approve [post]
func (h *GrowthHandler) ApproveTestimonial(c *gin.Context) {
	testimonial, err := h.growthUseCase.ApproveTestimonial(c.Param("org_id"), c.Param("testimonial_id"))
	if err != nil {
		respondGrowthError(c, err)
		return
	}

	c.JSON(http.StatusOK, testimonial)
}

// CreateReferral godoc
// @Summary      Create referral
// @Description  Returns the shareable code
// @Tags         growth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        request body CreateReferralRequest true "Referral"
// @Success      201 {object} entity.ReferralRecord
// @Failure      400 {object} map[string]string
// @Router       /orgs/{org_id}/referrals [post]
func (h *GrowthHandler) CreateReferral(c *gin.Context) {
	var req CreateReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	referral, err := h.growthUseCase.CreateReferral(c.Param("org_id"), req.ReferredEmail, req.RewardCents)
	if err != nil {
		respondGrowthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, referral)
}

// ListReferrals godoc
// @Summary      List referrals
// @Tags         growth
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Success      200 {object} map[string]interface{}
// @Router       /orgs/{org_id}/referrals [get]
func (h *GrowthHandler) ListReferrals(c *gin.Context) {
	referrals, err := h.growthUseCase.ListReferrals(c.Param("org_id"))
	if err != nil {
		respondGrowthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referrals": referrals,
		"count":     len(referrals),
	})
}

// ConvertReferral godoc
// @Summary      Mark referral converted
// @Description  Staff only. Converted is terminal.
// @Tags         growth
// @Produce      json
// @Security     BearerAuth
// @Param        referral_id path string true "Referral ID"
// @Success      200 {object} entity.ReferralRecord
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /referrals/{referral_id}/convert [post]
func (h *GrowthHandler) ConvertReferral(c *gin.Context) {
	referral, err := h.growthUseCase.ConvertReferral(c.Param("referral_id"))
	if err != nil {
		respondGrowthError(c, err)
		return
	}

	c.JSON(http.StatusOK, referral)
}

// ListRoadmap godoc
// @Summary      List roadmap items
// @Description  Most voted first, with the caller's vote flagged
// @Tags         growth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /roadmap [get]
func (h *GrowthHandler) ListRoadmap(c *gin.Context) {
	items, err := h.growthUseCase.ListRoadmap(c.GetString("user_id"))
	if err != nil {
		respondGrowthError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// CreateRoadmapItem godoc
// @Summary      Create roadmap item
// @Description  Staff only
// @Tags         growth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRoadmapItemRequest true "Item"
// @Success      201 {object} entity.RoadmapItem
// @Failure      400 {object} map[string]string
// @Router       /roadmap [post]
func (h *GrowthHandler) CreateRoadmapItem(c *gin.Context) {
	var req CreateRoadmapItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.growthUseCase.CreateRoadmapItem(req.Title, req.Body)
	if err != nil {
		respondGrowthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// UpdateRoadmapStatus godoc
// @Summary      Update roadmap item status
// @Description  Staff only
// @Tags         growth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        item_id path string true "Item ID"
// @Param        request body UpdateRoadmapStatusRequest true "New status"
// @Success      200 {object} entity.RoadmapItem
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /roadmap/{item_id}/status [put]
func (h *GrowthHandler) UpdateRoadmapStatus(c *gin.Context) {
	var req UpdateRoadmapStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.growthUseCase.UpdateRoadmapStatus(c.Param("item_id"), req.Status)
	if err != nil {
		respondGrowthError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// ToggleVote godoc
// @Summary      Vote for a roadmap item
// @Description  Toggles the caller's vote
// @Tags         growth
// @Produce      json
// @Security     BearerAuth
// @Param        item_id path string true "Item ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /roadmap/{item_id}/vote [post]
func (h *GrowthHandler) ToggleVote(c *gin.Context) {
	voted, votes, err := h.growthUseCase.ToggleVote(c.Param("item_id"), c.GetString("user_id"))
	if err != nil {
		respondGrowthError(c, err)
		return
	}

	if voted {
		c.JSON(http.StatusOK, gin.H{"message": "Vote counted", "voted": true, "votes": votes})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "Vote removed", "voted": false, "votes": votes})
	}
}

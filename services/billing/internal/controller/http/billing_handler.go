package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"postdeck/pkg/logger"
	"postdeck/services/billing/internal/usecase"
)

type BillingHandler struct {
	billingUseCase usecase.BillingUseCase
	logger         *logger.Logger
}

func NewBillingHandler(billingUseCase usecase.BillingUseCase, logger *logger.Logger) *BillingHandler {
	return &BillingHandler{
		billingUseCase: billingUseCase,
		logger:         logger,
	}
}

type CheckoutRequest struct {
	Tier string `json:"tier" binding:"required"`
}

type WebhookRequest struct {
	EventID         string     `json:"event_id" binding:"required"`
	Type            string     `json:"type" binding:"required"`
	OrgID           string     `json:"org_id" binding:"required"`
	PlanTier        string     `json:"plan_tier"`
	PeriodEnd       *time.Time `json:"period_end"`
	CustomerRef     string     `json:"customer_ref"`
	SubscriptionRef string     `json:"subscription_ref"`
}

// ListPlans godoc
// @Summary      List plans
// @Description  Public catalog of subscription plans
// @Tags         billing
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /billing/plans [get]
func (h *BillingHandler) ListPlans(c *gin.Context) {
	plans, err := h.billingUseCase.ListPlans()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list plans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plans": plans,
		"count": len(plans),
	})
}

// Checkout godoc
// @Summary      Start checkout
// @Description  Validate the requested plan and return an opaque checkout session stub
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Param        request body CheckoutRequest true "Plan tier"
// @Success      201 {object} entity.CheckoutSession
// @Failure      400 {object} map[string]string
// @Router       /orgs/{org_id}/billing/checkout [post]
func (h *BillingHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.billingUseCase.CreateCheckout(c.Param("org_id"), req.Tier)
	if err != nil {
		switch err.Error() {
		case "unknown plan tier":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case "organization not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, session)
}

// Webhook godoc
// @Summary      Billing webhook
// @Description  Apply a normalized billing event. Replayed event ids are acknowledged without effect.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        Authorization header string true "Bearer webhook secret"
// @Param        request body WebhookRequest true "Normalized event"
// @Success      200 {object} entity.WebhookResult
// @Failure      400 {object} map[string]string
// @Router       /billing/webhook [post]
func (h *BillingHandler) Webhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.billingUseCase.HandleWebhook(usecase.WebhookEvent{
		EventID:         req.EventID,
		Type:            req.Type,
		OrgID:           req.OrgID,
		PlanTier:        req.PlanTier,
		PeriodEnd:       req.PeriodEnd,
		CustomerRef:     req.CustomerRef,
		SubscriptionRef: req.SubscriptionRef,
	})
	if err != nil {
		switch err.Error() {
		case "unsupported event type", "unknown plan tier":
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case "organization not found":
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSubscription godoc
// @Summary      Subscription state
// @Description  The organization's current plan and subscription status
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        org_id path string true "Organization ID"
// @Success      200 {object} entity.Subscription
// @Failure      404 {object} map[string]string
// @Router       /orgs/{org_id}/billing/subscription [get]
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	sub, err := h.billingUseCase.GetSubscription(c.Param("org_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sub)
}

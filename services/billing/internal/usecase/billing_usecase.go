package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"postdeck/pkg/logger"
	"postdeck/services/billing/internal/entity"
	"postdeck/services/billing/internal/repo/persistent"
)

const checkoutSessionTTL = 30 * time.Minute

// WebhookEvent is the provider-agnostic normalized event shape posted to
// the webhook endpoint.
type WebhookEvent struct {
	EventID         string     `json:"event_id"`
	Type            string     `json:"type"`
	OrgID           string     `json:"org_id"`
	PlanTier        string     `json:"plan_tier"`
	PeriodEnd       *time.Time `json:"period_end"`
	CustomerRef     string     `json:"customer_ref"`
	SubscriptionRef string     `json:"subscription_ref"`
}

type BillingUseCase interface {
	ListPlans() ([]*entity.Plan, error)
	CreateCheckout(orgID, tier string) (*entity.CheckoutSession, error)
	HandleWebhook(event WebhookEvent) (*entity.WebhookResult, error)
	GetSubscription(orgID string) (*entity.Subscription, error)
}

type billingUseCase struct {
	billingRepo persistent.BillingRepository
	logger      *logger.Logger
	now         func() time.Time
}

func NewBillingUseCase(billingRepo persistent.BillingRepository, logger *logger.Logger) BillingUseCase {
	return &billingUseCase{
		billingRepo: billingRepo,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *billingUseCase) ListPlans() ([]*entity.Plan, error) {
	return uc.billingRepo.ListPlans()
}

// CreateCheckout validates the requested plan and returns an opaque
// session stub. The payment processor round trip lives outside this
// system; its completion comes back through the webhook.
func (uc *billingUseCase) CreateCheckout(orgID, tier string) (*entity.CheckoutSession, error) {
	if _, err := uc.billingRepo.GetPlanByTier(tier); err != nil {
		return nil, fmt.Errorf("unknown plan tier")
	}
	if _, err := uc.billingRepo.GetSubscription(orgID); err != nil {
		return nil, fmt.Errorf("organization not found")
	}

	return &entity.CheckoutSession{
		ID:        "cs_" + uuid.New().String(),
		OrgID:     orgID,
		PlanTier:  tier,
		ExpiresAt: uc.now().Add(checkoutSessionTTL),
	}, nil
}

func (uc *billingUseCase) GetSubscription(orgID string) (*entity.Subscription, error) {
	sub, err := uc.billingRepo.GetSubscription(orgID)
	if err != nil {
		return nil, fmt.Errorf("organization not found")
	}
	return sub, nil
}

// HandleWebhook runs the subscription state machine. Replayed event ids
// are acknowledged without effect, and a canceled subscription is never
// resurrected by a late invoice event; only a fresh checkout starts a new
// subscription.
func (uc *billingUseCase) HandleWebhook(event WebhookEvent) (*entity.WebhookResult, error) {
	eventType := entity.EventType(event.Type)
	switch eventType {
	case entity.EventCheckoutCompleted, entity.EventInvoicePaid,
		entity.EventInvoicePaymentFailed, entity.EventSubscriptionCanceled:
	default:
		return nil, fmt.Errorf("unsupported event type")
	}

	seen, err := uc.billingRepo.EventSeen(event.EventID)
	if err != nil {
		uc.logger.Error("Failed to check event %s: %v", event.EventID, err)
		return nil, fmt.Errorf("failed to process event")
	}
	if seen {
		return &entity.WebhookResult{EventID: event.EventID, Status: entity.WebhookDuplicate}, nil
	}

	sub, err := uc.billingRepo.GetSubscription(event.OrgID)
	if err != nil {
		return nil, fmt.Errorf("organization not found")
	}

	updates, reason, err := uc.transition(eventType, event, sub)
	if err != nil {
		return nil, err
	}

	if err := uc.billingRepo.ApplyEvent(event.EventID, eventType, event.OrgID, updates); err != nil {
		uc.logger.Error("Failed to apply event %s: %v", event.EventID, err)
		return nil, fmt.Errorf("failed to process event")
	}

	result := &entity.WebhookResult{EventID: event.EventID, Status: entity.WebhookProcessed}
	if updates == nil {
		result.Status = entity.WebhookIgnored
		result.Reason = reason
	}

	uc.logger.Info("Billing event %s (%s) for org %s: %s", event.EventID, event.Type, event.OrgID, result.Status)
	return result, nil
}

// transition maps an event against the current subscription to the column
// updates to apply. A nil map with a reason means record-only.
func (uc *billingUseCase) transition(eventType entity.EventType, event WebhookEvent, sub *entity.Subscription) (map[string]interface{}, string, error) {
	canceled := sub.Status == entity.SubscriptionCanceled

	switch eventType {
	case entity.EventCheckoutCompleted:
		plan, err := uc.billingRepo.GetPlanByTier(event.PlanTier)
		if err != nil {
			return nil, "", fmt.Errorf("unknown plan tier")
		}
		updates := map[string]interface{}{
			"plan_id":             plan.ID,
			"subscription_status": string(entity.SubscriptionActive),
		}
		if event.PeriodEnd != nil {
			updates["current_period_end"] = event.PeriodEnd
		}
		if event.CustomerRef != "" {
			updates["billing_customer_ref"] = event.CustomerRef
		}
		if event.SubscriptionRef != "" {
			updates["billing_subscription_ref"] = event.SubscriptionRef
		}
		return updates, "", nil

	case entity.EventInvoicePaid:
		if canceled {
			return nil, "subscription already canceled", nil
		}
		updates := map[string]interface{}{
			"subscription_status": string(entity.SubscriptionActive),
		}
		if event.PeriodEnd != nil {
			updates["current_period_end"] = event.PeriodEnd
		}
		return updates, "", nil

	case entity.EventInvoicePaymentFailed:
		if canceled {
			return nil, "subscription already canceled", nil
		}
		return map[string]interface{}{
			"subscription_status": string(entity.SubscriptionPastDue),
		}, "", nil

	case entity.EventSubscriptionCanceled:
		return map[string]interface{}{
			"subscription_status": string(entity.SubscriptionCanceled),
		}, "", nil
	}

	return nil, "", fmt.Errorf("unsupported event type")
}

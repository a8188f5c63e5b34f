package entity

import "time"

type SubscriptionStatus string

const (
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

type EventType string

const (
	EventCheckoutCompleted    EventType = "checkout.completed"
	EventInvoicePaid          EventType = "invoice.paid"
	EventInvoicePaymentFailed EventType = "invoice.payment_failed"
	EventSubscriptionCanceled EventType = "subscription.canceled"
)

type Plan struct {
	ID                string  `json:"id"`
	Tier              string  `json:"tier"`
	Name              string  `json:"name"`
	PriceCents        int     `json:"price_cents"`
	MaxMembers        int     `json:"max_members"`
	MaxScheduledPosts int     `json:"max_scheduled_posts"`
	MonthlyAICredits  int     `json:"monthly_ai_credits"`
	AIModel           string  `json:"ai_model"`
	AIMaxTokens       int     `json:"ai_max_tokens"`
	AITemperature     float64 `json:"ai_temperature"`
}

type Subscription struct {
	OrgID            string             `json:"org_id"`
	PlanID           string             `json:"plan_id"`
	PlanTier         string             `json:"plan_tier"`
	Status           SubscriptionStatus `json:"status"`
	CurrentPeriodEnd *time.Time         `json:"current_period_end"`
	CustomerRef      string             `json:"customer_ref"`
	SubscriptionRef  string             `json:"subscription_ref"`
}

type CheckoutSession struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	PlanTier  string    `json:"plan_tier"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WebhookResult tells the provider what happened to its event. Duplicates
// and late events on terminal subscriptions are acknowledged, not retried.
type WebhookResult struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
}

const (
	WebhookProcessed = "processed"
	WebhookDuplicate = "duplicate"
	WebhookIgnored   = "ignored"
)

package usecase

import (
	"errors"
	"testing"
	"time"

	"postdeck/pkg/roles"
	"postdeck/services/billing/internal/entity"
	"postdeck/services/billing/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"postdeck/pkg/logger"
)

// MockBillingRepository is a mock implementation of BillingRepository
type MockBillingRepository struct {
	mock.Mock
}

var _ persistent.BillingRepository = (*MockBillingRepository)(nil)

func (m *MockBillingRepository) ListPlans() ([]*entity.Plan, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Plan), args.Error(1)
}

func (m *MockBillingRepository) GetPlanByTier(tier string) (*entity.Plan, error) {
	args := m.Called(tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Plan), args.Error(1)
}

func (m *MockBillingRepository) GetSubscription(orgID string) (*entity.Subscription, error) {
	args := m.Called(orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Subscription), args.Error(1)
}

func (m *MockBillingRepository) EventSeen(eventID string) (bool, error) {
	args := m.Called(eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillingRepository) ApplyEvent(eventID string, eventType entity.EventType, orgID string, updates map[string]interface{}) error {
	args := m.Called(eventID, eventType, orgID, updates)
	return args.Error(0)
}

func (m *MockBillingRepository) EffectiveRole(orgID, userID string) (roles.Role, error) {
	args := m.Called(orgID, userID)
	return args.Get(0).(roles.Role), args.Error(1)
}

func newTestUseCase(repo *MockBillingRepository) BillingUseCase {
	return NewBillingUseCase(repo, logger.New())
}

func TestHandleWebhook_CheckoutActivatesSubscription(t *testing.T) {
	repo := new(MockBillingRepository)
	uc := newTestUseCase(repo)

	periodEnd := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	repo.On("EventSeen", "evt-1").Return(false, nil)
	repo.On("GetSubscription", "org-1").Return(&entity.Subscription{OrgID: "org-1", Status: entity.SubscriptionTrialing}, nil)
	repo.On("GetPlanByTier", "pro").Return(&entity.Plan{ID: "plan-pro", Tier: "pro"}, nil)
	repo.On("ApplyEvent", "evt-1", entity.EventCheckoutCompleted, "org-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["plan_id"] == "plan-pro" &&
			updates["subscription_status"] == "active" &&
			updates["billing_customer_ref"] == "cus_123" &&
			updates["billing_subscription_ref"] == "sub_456"
	})).Return(nil)

	result, err := uc.HandleWebhook(WebhookEvent{
		EventID:         "evt-1",
		Type:            "checkout.completed",
		OrgID:           "org-1",
		PlanTier:        "pro",
		PeriodEnd:       &periodEnd,
		CustomerRef:     "cus_123",
		SubscriptionRef: "sub_456",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.WebhookProcessed, result.Status)
	repo.AssertExpectations(t)
}

func TestHandleWebhook_DuplicateEventHasNoEffect(t *testing.T) {
	repo := new(MockBillingRepository)
	uc := newTestUseCase(repo)

	repo.On("EventSeen", "evt-1").Return(true, nil)

	result, err := uc.HandleWebhook(WebhookEvent{EventID: "evt-1", Type: "invoice.paid", OrgID: "org-1"})

	require.NoError(t, err)
	assert.Equal(t, entity.WebhookDuplicate, result.Status)
	repo.AssertNotCalled(t, "ApplyEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleWebhook_LatePaidNeverResurrectsCanceled(t *testing.T) {
	repo := new(MockBillingRepository)
	uc := newTestUseCase(repo)

	repo.On("EventSeen", "evt-9").Return(false, nil)
	repo.On("GetSubscription", "org-1").Return(&entity.Subscription{OrgID: "org-1", Status: entity.SubscriptionCanceled}, nil)
	repo.On("ApplyEvent", "evt-9", entity.EventInvoicePaid, "org-1", map[string]interface{}(nil)).Return(nil)

	result, err := uc.HandleWebhook(WebhookEvent{EventID: "evt-9", Type: "invoice.paid", OrgID: "org-1"})

	require.NoError(t, err)
	assert.Equal(t, entity.WebhookIgnored, result.Status)
	assert.Equal(t, "subscription already canceled", result.Reason)
	repo.AssertExpectations(t)
}

func TestHandleWebhook_Transitions(t *testing.T) {
	periodEnd := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		eventType     string
		currentStatus entity.SubscriptionStatus
		wantStatus    string
		wantIgnored   bool
	}{
		{"paid keeps active", "invoice.paid", entity.SubscriptionActive, "active", false},
		{"paid recovers past_due", "invoice.paid", entity.SubscriptionPastDue, "active", false},
		{"failed payment flags past_due", "invoice.payment_failed", entity.SubscriptionActive, "past_due", false},
		{"cancel is terminal", "subscription.canceled", entity.SubscriptionActive, "canceled", false},
		{"failed payment after cancel ignored", "invoice.payment_failed", entity.SubscriptionCanceled, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockBillingRepository)
			uc := newTestUseCase(repo)

			repo.On("EventSeen", "evt-t").Return(false, nil)
			repo.On("GetSubscription", "org-1").Return(&entity.Subscription{OrgID: "org-1", Status: tt.currentStatus}, nil)
			repo.On("ApplyEvent", "evt-t", entity.EventType(tt.eventType), "org-1", mock.Anything).Return(nil)

			result, err := uc.HandleWebhook(WebhookEvent{
				EventID:   "evt-t",
				Type:      tt.eventType,
				OrgID:     "org-1",
				PeriodEnd: &periodEnd,
			})

			require.NoError(t, err)
			if tt.wantIgnored {
				assert.Equal(t, entity.WebhookIgnored, result.Status)
				repo.AssertCalled(t, "ApplyEvent", "evt-t", entity.EventType(tt.eventType), "org-1", map[string]interface{}(nil))
				return
			}

			assert.Equal(t, entity.WebhookProcessed, result.Status)
			updates := repo.Calls[len(repo.Calls)-1].Arguments.Get(3).(map[string]interface{})
			assert.Equal(t, tt.wantStatus, updates["subscription_status"])
		})
	}
}

func TestHandleWebhook_UnsupportedType(t *testing.T) {
	repo := new(MockBillingRepository)
	uc := newTestUseCase(repo)

	_, err := uc.HandleWebhook(WebhookEvent{EventID: "evt-1", Type: "customer.updated", OrgID: "org-1"})

	assert.EqualError(t, err, "unsupported event type")
	repo.AssertNotCalled(t, "EventSeen", mock.Anything)
}

func TestHandleWebhook_UnknownPlanTier(t *testing.T) {
	repo := new(MockBillingRepository)
	uc := newTestUseCase(repo)

	repo.On("EventSeen", "evt-1").Return(false, nil)
	repo.On("GetSubscription", "org-1").Return(&entity.Subscription{OrgID: "org-1", Status: entity.SubscriptionTrialing}, nil)
	repo.On("GetPlanByTier", "platinum").Return(nil, errors.New("record not found"))

	_, err := uc.HandleWebhook(WebhookEvent{EventID: "evt-1", Type: "checkout.completed", OrgID: "org-1", PlanTier: "platinum"})

	assert.EqualError(t, err, "unknown plan tier")
	repo.AssertNotCalled(t, "ApplyEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCheckout_ReturnsSessionStub(t *testing.T) {
	repo := new(MockBillingRepository)
	uc := newTestUseCase(repo)

	repo.On("GetPlanByTier", "starter").Return(&entity.Plan{ID: "plan-starter", Tier: "starter"}, nil)
	repo.On("GetSubscription", "org-1").Return(&entity.Subscription{OrgID: "org-1"}, nil)

	session, err := uc.CreateCheckout("org-1", "starter")

	require.NoError(t, err)
	assert.Contains(t, session.ID, "cs_")
	assert.Equal(t, "org-1", session.OrgID)
	assert.Equal(t, "starter", session.PlanTier)
	assert.True(t, session.ExpiresAt.After(time.Now()))
}

func TestCreateCheckout_UnknownTier(t *testing.T) {
	repo := new(MockBillingRepository)
	uc := newTestUseCase(repo)

	repo.On("GetPlanByTier", "platinum").Return(nil, errors.New("record not found"))

	_, err := uc.CreateCheckout("org-1", "platinum")

	assert.EqualError(t, err, "unknown plan tier")
}

func TestGetSubscription_NotFound(t *testing.T) {
	repo := new(MockBillingRepository)
	uc := newTestUseCase(repo)

	repo.On("GetSubscription", "missing").Return(nil, errors.New("record not found"))

	_, err := uc.GetSubscription("missing")

	assert.EqualError(t, err, "organization not found")
}

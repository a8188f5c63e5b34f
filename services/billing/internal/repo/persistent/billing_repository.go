package persistent

import (
	"errors"

	"postdeck/pkg/middleware"
	"postdeck/pkg/roles"
	"postdeck/services/billing/internal/entity"
	"postdeck/services/billing/internal/model"

	"gorm.io/gorm"
)

type BillingRepository interface {
	ListPlans() ([]*entity.Plan, error)
	GetPlanByTier(tier string) (*entity.Plan, error)

	GetSubscription(orgID string) (*entity.Subscription, error)

	EventSeen(eventID string) (bool, error)
	ApplyEvent(eventID string, eventType entity.EventType, orgID string, updates map[string]interface{}) error

	EffectiveRole(orgID, userID string) (roles.Role, error)
}

type billingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) ListPlans() ([]*entity.Plan, error) {
	var planModels []model.PlanModel
	if err := r.db.Order("price_cents ASC").Find(&planModels).Error; err != nil {
		return nil, err
	}

	plans := make([]*entity.Plan, len(planModels))
	for i := range planModels {
		plans[i] = ToPlanEntity(&planModels[i])
	}
	return plans, nil
}

func (r *billingRepository) GetPlanByTier(tier string) (*entity.Plan, error) {
	var planModel model.PlanModel
	if err := r.db.Where("tier = ?", tier).First(&planModel).Error; err != nil {
		return nil, err
	}
	return ToPlanEntity(&planModel), nil
}

func (r *billingRepository) GetSubscription(orgID string) (*entity.Subscription, error) {
	var orgModel model.OrganizationModel
	if err := r.db.Where("id = ?", orgID).First(&orgModel).Error; err != nil {
		return nil, err
	}

	sub := &entity.Subscription{
		OrgID:            orgModel.ID,
		PlanID:           orgModel.PlanID,
		Status:           entity.SubscriptionStatus(orgModel.SubscriptionStatus),
		CurrentPeriodEnd: orgModel.CurrentPeriodEnd,
		CustomerRef:      orgModel.BillingCustomerRef,
		SubscriptionRef:  orgModel.BillingSubscriptionRef,
	}
	if sub.Status == "" {
		sub.Status = entity.SubscriptionTrialing
	}

	if orgModel.PlanID != "" {
		var planModel model.PlanModel
		if err := r.db.Where("id = ?", orgModel.PlanID).First(&planModel).Error; err == nil {
			sub.PlanTier = planModel.Tier
		}
	}

	return sub, nil
}

func (r *billingRepository) EventSeen(eventID string) (bool, error) {
	var eventModel model.BillingEventModel
	err := r.db.Where("event_id = ?", eventID).First(&eventModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ApplyEvent records the event id and applies the subscription column
// updates in one transaction. A nil updates map records the event without
// touching the organization, which is how late events on a terminal
// subscription stay idempotent.
func (r *billingRepository) ApplyEvent(eventID string, eventType entity.EventType, orgID string, updates map[string]interface{}) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		eventModel := &model.BillingEventModel{
			EventID:   eventID,
			EventType: string(eventType),
			OrgID:     orgID,
		}
		if err := tx.Create(eventModel).Error; err != nil {
			return err
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&model.OrganizationModel{}).Where("id = ?", orgID).Updates(updates).Error
	})
}

// EffectiveRole implements middleware.MembershipSource against the shared
// organizations tables. The owner always resolves to owner.
func (r *billingRepository) EffectiveRole(orgID, userID string) (roles.Role, error) {
	var orgModel model.OrganizationModel
	if err := r.db.Where("id = ?", orgID).First(&orgModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", middleware.ErrNotMember
		}
		return "", err
	}

	if orgModel.OwnerID == userID {
		return roles.RoleOwner, nil
	}

	var memberModel model.MemberModel
	if err := r.db.Where("org_id = ? AND user_id = ?", orgID, userID).First(&memberModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", middleware.ErrNotMember
		}
		return "", err
	}

	return roles.Effective(orgModel.OwnerID, userID, roles.Role(memberModel.Role)), nil
}

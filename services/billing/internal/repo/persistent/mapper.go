package persistent

import (
	"postdeck/services/billing/internal/entity"
	"postdeck/services/billing/internal/model"
)

func ToPlanEntity(m *model.PlanModel) *entity.Plan {
	if m == nil {
		return nil
	}

	return &entity.Plan{
		ID:                m.ID,
		Tier:              m.Tier,
		Name:              m.Name,
		PriceCents:        m.PriceCents,
		MaxMembers:        m.MaxMembers,
		MaxScheduledPosts: m.MaxScheduledPosts,
		MonthlyAICredits:  m.MonthlyAICredits,
		AIModel:           m.AIModel,
		AIMaxTokens:       m.AIMaxTokens,
		AITemperature:     m.AITemperature,
	}
}

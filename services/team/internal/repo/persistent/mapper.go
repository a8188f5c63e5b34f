package persistent

import (
	"postdeck/services/team/internal/entity"
	"postdeck/services/team/internal/model"
)

func ToOrganizationEntity(m *model.OrganizationModel) *entity.Organization {
	if m == nil {
		return nil
	}

	return &entity.Organization{
		ID:                 m.ID,
		Name:               m.Name,
		Slug:               m.Slug,
		OwnerID:            m.OwnerID,
		PlanID:             m.PlanID,
		SubscriptionStatus: entity.SubscriptionStatus(m.SubscriptionStatus),
		CurrentPeriodEnd:   m.CurrentPeriodEnd,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func ToOrganizationModel(e *entity.Organization) *model.OrganizationModel {
	if e == nil {
		return nil
	}

	return &model.OrganizationModel{
		ID:                 e.ID,
		Name:               e.Name,
		Slug:               e.Slug,
		OwnerID:            e.OwnerID,
		PlanID:             e.PlanID,
		SubscriptionStatus: string(e.SubscriptionStatus),
		CurrentPeriodEnd:   e.CurrentPeriodEnd,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func ToMemberEntity(m *model.MemberModel) *entity.Member {
	if m == nil {
		return nil
	}

	return &entity.Member{
		ID:        m.ID,
		OrgID:     m.OrgID,
		UserID:    m.UserID,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToMemberModel(e *entity.Member) *model.MemberModel {
	if e == nil {
		return nil
	}

	return &model.MemberModel{
		ID:        e.ID,
		OrgID:     e.OrgID,
		UserID:    e.UserID,
		Role:      e.Role,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToInviteEntity(m *model.InviteModel) *entity.Invite {
	if m == nil {
		return nil
	}

	return &entity.Invite{
		ID:        m.ID,
		OrgID:     m.OrgID,
		Email:     m.Email,
		Role:      m.Role,
		Token:     m.Token,
		Status:    entity.InviteStatus(m.Status),
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToInviteModel(e *entity.Invite) *model.InviteModel {
	if e == nil {
		return nil
	}

	return &model.InviteModel{
		ID:        e.ID,
		OrgID:     e.OrgID,
		Email:     e.Email,
		Role:      e.Role,
		Token:     e.Token,
		Status:    string(e.Status),
		ExpiresAt: e.ExpiresAt,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToPlanEntity(m *model.PlanModel) *entity.Plan {
	if m == nil {
		return nil
	}

	return &entity.Plan{
		ID:         m.ID,
		Tier:       m.Tier,
		Name:       m.Name,
		MaxMembers: m.MaxMembers,
	}
}

package persistent

import (
	"postdeck/services/growth/internal/entity"
	"postdeck/services/growth/internal/model"
)

func ToTestimonialEntity(m *model.TestimonialModel) *entity.TestimonialRequest {
	return &entity.TestimonialRequest{
		ID:            m.ID,
		OrgID:         m.OrgID,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		ShareToken:    m.ShareToken,
		Status:        entity.TestimonialStatus(m.Status),
		Text:          m.Text,
		Rating:        m.Rating,
		SubmittedAt:   m.SubmittedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToTestimonialModel(e *entity.TestimonialRequest) *model.TestimonialModel {
	return &model.TestimonialModel{
		ID:            e.ID,
		OrgID:         e.OrgID,
		CustomerName:  e.CustomerName,
		CustomerEmail: e.CustomerEmail,
		ShareToken:    e.ShareToken,
		Status:        string(e.Status),
		Text:          e.Text,
		Rating:        e.Rating,
		SubmittedAt:   e.SubmittedAt,
	}
}

func ToReferralEntity(m *model.ReferralModel) *entity.ReferralRecord {
	return &entity.ReferralRecord{
		ID:            m.ID,
		OrgID:         m.OrgID,
		Code:          m.Code,
		ReferredEmail: m.ReferredEmail,
		Status:        entity.ReferralStatus(m.Status),
		RewardCents:   m.RewardCents,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToReferralModel(e *entity.ReferralRecord) *model.ReferralModel {
	return &model.ReferralModel{
		ID:            e.ID,
		OrgID:         e.OrgID,
		Code:          e.Code,
		ReferredEmail: e.ReferredEmail,
		Status:        string(e.Status),
		RewardCents:   e.RewardCents,
	}
}

func ToRoadmapItemEntity(m *model.RoadmapItemModel) *entity.RoadmapItem {
	return &entity.RoadmapItem{
		ID:        m.ID,
		Title:     m.Title,
		Body:      m.Body,
		Status:    entity.RoadmapStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToRoadmapItemModel(e *entity.RoadmapItem) *model.RoadmapItemModel {
	return &model.RoadmapItemModel{
		ID:     e.ID,
		Title:  e.Title,
		Body:   e.Body,
		Status: string(e.Status),
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanTier string

const (
	PlanFree    PlanTier = "free"
	PlanStarter PlanTier = "starter"
	PlanPro     PlanTier = "pro"
	PlanAgency  PlanTier = "agency"
)

// Plan carries both billing limits and the AI model configuration an
// organization on this tier resolves to.
type Plan struct {
	ID                string    `gorm:"type:uuid;primary_key" json:"id"`
	Tier              PlanTier  `gorm:"type:varchar(20);uniqueIndex;not null" json:"tier"`
	Name              string    `gorm:"not null" json:"name"`
	PriceCents        int       `gorm:"not null" json:"price_cents"`
	MaxMembers        int       `gorm:"not null" json:"max_members"`
	MaxScheduledPosts int       `gorm:"not null" json:"max_scheduled_posts"`
	MonthlyAICredits  int       `gorm:"not null" json:"monthly_ai_credits"`
	AIModel           string    `gorm:"type:varchar(50);not null" json:"ai_model"`
	AIMaxTokens       int       `gorm:"not null" json:"ai_max_tokens"`
	AITemperature     float64   `gorm:"not null" json:"ai_temperature"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (p *Plan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

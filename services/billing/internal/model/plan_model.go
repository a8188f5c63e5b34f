package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlanModel is the authoritative plans table. Other services keep
// read-only copies of the columns they need.
type PlanModel struct {
	ID                string    `gorm:"type:uuid;primary_key" json:"id"`
	Tier              string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"tier"`
	Name              string    `gorm:"not null" json:"name"`
	PriceCents        int       `gorm:"not null;default:0" json:"price_cents"`
	MaxMembers        int       `json:"max_members"`
	MaxScheduledPosts int       `json:"max_scheduled_posts"`
	MonthlyAICredits  int       `json:"monthly_ai_credits"`
	AIModel           string    `gorm:"type:varchar(50)" json:"ai_model"`
	AIMaxTokens       int       `json:"ai_max_tokens"`
	AITemperature     float64   `json:"ai_temperature"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (PlanModel) TableName() string {
	return "plans"
}

func (p *PlanModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

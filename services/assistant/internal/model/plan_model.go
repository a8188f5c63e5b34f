package model

import "time"

// PlanModel is read-only here. Plans are owned by the billing service;
// the assistant only reads the AI columns.
type PlanModel struct {
	ID               string    `gorm:"type:uuid;primary_key" json:"id"`
	Tier             string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"tier"`
	Name             string    `gorm:"not null" json:"name"`
	AIModel          string    `gorm:"type:varchar(50)" json:"ai_model"`
	AIMaxTokens      int       `json:"ai_max_tokens"`
	AITemperature    float64   `json:"ai_temperature"`
	MonthlyAICredits int       `json:"monthly_ai_credits"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (PlanModel) TableName() string {
	return "plans"
}

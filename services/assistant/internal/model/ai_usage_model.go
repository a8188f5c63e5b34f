package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AIUsageModel counts assistant requests per org per calendar month.
// Month is formatted YYYY-MM.
type AIUsageModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	OrgID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_ai_usage_org_month" json:"org_id"`
	Month     string    `gorm:"type:varchar(7);not null;uniqueIndex:idx_ai_usage_org_month" json:"month"`
	Requests  int       `gorm:"not null;default:0" json:"requests"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AIUsageModel) TableName() string {
	return "ai_usage"
}

func (u *AIUsageModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

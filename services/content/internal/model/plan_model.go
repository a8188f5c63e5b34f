package model

import "time"

// PlanModel is read-only here. Plans are owned by the billing service.
type PlanModel struct {
	ID                string    `gorm:"type:uuid;primary_key" json:"id"`
	Tier              string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"tier"`
	Name              string    `gorm:"not null" json:"name"`
	MaxScheduledPosts int       `json:"max_scheduled_posts"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (PlanModel) TableName() string {
	return "plans"
}

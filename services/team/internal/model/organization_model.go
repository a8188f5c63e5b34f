package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationModel struct {
	ID                 string         `gorm:"type:uuid;primary_key" json:"id"`
	Name               string         `gorm:"not null" json:"name"`
	Slug               string         `gorm:"uniqueIndex;not null" json:"slug"`
	OwnerID            string         `gorm:"type:uuid;not null;index" json:"owner_id"`
	PlanID             string         `gorm:"type:uuid" json:"plan_id"`
	SubscriptionStatus string         `gorm:"type:varchar(20);default:'trialing'" json:"subscription_status"`
	CurrentPeriodEnd   *time.Time     `json:"current_period_end"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OrganizationModel) TableName() string {
	return "organizations"
}

func (o *OrganizationModel) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

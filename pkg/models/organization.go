package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

type Organization struct {
	ID                     string             `gorm:"type:uuid;primary_key" json:"id"`
	Name                   string             `gorm:"not null" json:"name"`
	Slug                   string             `gorm:"uniqueIndex;not null" json:"slug"`
	OwnerID                string             `gorm:"type:uuid;not null;index" json:"owner_id"`
	PlanID                 string             `gorm:"type:uuid;index" json:"plan_id"`
	SubscriptionStatus     SubscriptionStatus `gorm:"type:varchar(20);default:'trialing'" json:"subscription_status"`
	CurrentPeriodEnd       *time.Time         `json:"current_period_end,omitempty"`
	BillingCustomerRef     string             `json:"-"`
	BillingSubscriptionRef string             `json:"-"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
	DeletedAt              gorm.DeletedAt     `gorm:"index" json:"-"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

type OrganizationMember struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	OrgID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_org_user" json:"org_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_org_user" json:"user_id"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *OrganizationMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

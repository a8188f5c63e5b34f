package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillingEventModel records processed webhook event ids. The unique index
// is what makes replayed events no-ops.
type BillingEventModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	EventID   string    `gorm:"uniqueIndex;not null" json:"event_id"`
	EventType string    `gorm:"type:varchar(40);not null" json:"event_type"`
	OrgID     string    `gorm:"type:uuid;index" json:"org_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (BillingEventModel) TableName() string {
	return "billing_events"
}

func (e *BillingEventModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

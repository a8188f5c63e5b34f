package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// One connection per provider per org, enforced by the composite unique
// index. Rows are hard-deleted so a disconnected provider can reconnect.
type CRMConnectionModel struct {
	ID           string     `gorm:"type:uuid;primary_key" json:"id"`
	OrgID        string     `gorm:"type:uuid;not null;uniqueIndex:idx_crm_connections_org_provider" json:"org_id"`
	Provider     string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_crm_connections_org_provider" json:"provider"`
	BaseURL      string     `gorm:"type:varchar(500);not null" json:"base_url"`
	SecretRef    string     `gorm:"type:varchar(120);not null" json:"secret_ref"`
	Status       string     `gorm:"type:varchar(20);default:'active';index" json:"status"`
	LastError    string     `json:"last_error"`
	LastSyncedAt *time.Time `json:"last_synced_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (CRMConnectionModel) TableName() string {
	return "crm_connections"
}

func (m *CRMConnectionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

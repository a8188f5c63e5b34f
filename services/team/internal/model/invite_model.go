package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InviteModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	OrgID     string    `gorm:"type:uuid;not null;index" json:"org_id"`
	Email     string    `gorm:"not null" json:"email"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	Status    string    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InviteModel) TableName() string {
	return "invites"
}

func (i *InviteModel) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

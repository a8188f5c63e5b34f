package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MediaAsset struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	OrgID       string         `gorm:"type:uuid;not null;index" json:"org_id"`
	UploaderID  string         `gorm:"type:uuid;not null" json:"uploader_id"`
	FileName    string         `gorm:"not null" json:"file_name"`
	ContentType string         `gorm:"not null" json:"content_type"`
	SizeBytes   int64          `gorm:"not null" json:"size_bytes"`
	S3Key       string         `gorm:"not null" json:"-"`
	URL         string         `gorm:"not null" json:"url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *MediaAsset) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

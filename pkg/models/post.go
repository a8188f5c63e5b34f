package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
)

type Post struct {
	ID             string         `gorm:"type:uuid;primary_key" json:"id"`
	OrgID          string         `gorm:"type:uuid;not null;index" json:"org_id"`
	AuthorID       string         `gorm:"type:uuid;not null;index" json:"author_id"`
	Body           string         `gorm:"not null" json:"body"`
	Platform       string         `gorm:"type:varchar(20);not null;index" json:"platform"`
	Hashtags       pq.StringArray `gorm:"type:text[]" json:"hashtags"`
	MediaAssetIDs  pq.StringArray `gorm:"type:text[]" json:"media_asset_ids"`
	Status         PostStatus     `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	ScheduledFor   *time.Time     `gorm:"index" json:"scheduled_for,omitempty"`
	PublishedAt    *time.Time     `json:"published_at,omitempty"`
	PlatformPostID string         `json:"platform_post_id,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

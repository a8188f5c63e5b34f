package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ForumCategory struct {
	ID          string         `gorm:"type:uuid;primary_key" json:"id"`
	Name        string         `gorm:"type:varchar(80);not null" json:"name"`
	Slug        string         `gorm:"type:varchar(80);uniqueIndex;not null" json:"slug"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ForumCategory) TableName() string {
	return "forum_categories"
}

func (c *ForumCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

type ForumPost struct {
	ID         string         `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID string         `gorm:"type:uuid;not null;index" json:"category_id"`
	AuthorID   string         `gorm:"type:uuid;not null;index" json:"author_id"`
	Title      string         `gorm:"type:varchar(200);not null" json:"title"`
	Body       string         `gorm:"not null" json:"body"`
	Pinned     bool           `gorm:"default:false;index" json:"pinned"`
	Locked     bool           `gorm:"default:false" json:"locked"`
	Views      int            `gorm:"default:0" json:"views"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ForumPost) TableName() string {
	return "forum_posts"
}

func (p *ForumPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

type ForumComment struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	PostID    string         `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID  string         `gorm:"type:uuid;not null;index" json:"author_id"`
	Body      string         `gorm:"not null" json:"body"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ForumComment) TableName() string {
	return "forum_comments"
}

func (c *ForumComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

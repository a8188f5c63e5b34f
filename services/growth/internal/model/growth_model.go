package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TestimonialModel struct {
	ID            string         `gorm:"type:uuid;primary_key" json:"id"`
	OrgID         string         `gorm:"type:uuid;not null;index" json:"org_id"`
	CustomerName  string         `gorm:"type:varchar(120);not null" json:"customer_name"`
	CustomerEmail string         `gorm:"type:varchar(255);not null" json:"customer_email"`
	ShareToken    string         `gorm:"type:uuid;uniqueIndex;not null" json:"share_token"`
	Status        string         `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Text          string         `json:"text"`
	Rating        int            `gorm:"default:0" json:"rating"`
	SubmittedAt   *time.Time     `json:"submitted_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TestimonialModel) TableName() string {
	return "testimonials"
}

func (m *TestimonialModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

type ReferralModel struct {
	ID            string         `gorm:"type:uuid;primary_key" json:"id"`
	OrgID         string         `gorm:"type:uuid;not null;index" json:"org_id"`
	Code          string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	ReferredEmail string         `gorm:"type:varchar(255);not null" json:"referred_email"`
	Status        string         `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	RewardCents   int            `gorm:"default:0" json:"reward_cents"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ReferralModel) TableName() string {
	return "referrals"
}

func (m *ReferralModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

type RoadmapItemModel struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	Title     string         `gorm:"type:varchar(200);not null" json:"title"`
	Body      string         `json:"body"`
	Status    string         `gorm:"type:varchar(20);default:'proposed';index" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (RoadmapItemModel) TableName() string {
	return "roadmap_items"
}

func (m *RoadmapItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// One vote per user per item, enforced by the composite unique index.
type RoadmapVoteModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	ItemID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_roadmap_votes_item_user" json:"item_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_roadmap_votes_item_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (RoadmapVoteModel) TableName() string {
	return "roadmap_votes"
}

func (m *RoadmapVoteModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketModel struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	OrgID     string         `gorm:"type:uuid;index" json:"org_id"`
	AuthorID  string         `gorm:"type:uuid;not null;index" json:"author_id"`
	Subject   string         `gorm:"type:varchar(200);not null" json:"subject"`
	Body      string         `gorm:"not null" json:"body"`
	Status    string         `gorm:"type:varchar(20);default:'open';index" json:"status"`
	Priority  string         `gorm:"type:varchar(20);default:'normal';index" json:"priority"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TicketModel) TableName() string {
	return "tickets"
}

func (m *TicketModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

type TicketReplyModel struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	TicketID  string    `gorm:"type:uuid;not null;index" json:"ticket_id"`
	AuthorID  string    `gorm:"type:uuid;not null" json:"author_id"`
	Staff     bool      `gorm:"default:false" json:"staff"`
	Body      string    `gorm:"not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (TicketReplyModel) TableName() string {
	return "ticket_replies"
}

func (m *TicketReplyModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

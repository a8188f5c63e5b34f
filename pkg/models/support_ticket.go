package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketPending  TicketStatus = "pending"
	TicketResolved TicketStatus = "resolved"
	TicketClosed   TicketStatus = "closed"
)

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityNormal TicketPriority = "normal"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

// SupportTicket is account-scoped; OrgID is an optional tag pointing at
// the workspace the ticket is about.
type SupportTicket struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	OrgID     string         `gorm:"type:uuid;index" json:"org_id,omitempty"`
	AuthorID  string         `gorm:"type:uuid;not null;index" json:"author_id"`
	Subject   string         `gorm:"type:varchar(200);not null" json:"subject"`
	Body      string         `gorm:"not null" json:"body"`
	Status    TicketStatus   `gorm:"type:varchar(20);default:'open';index" json:"status"`
	Priority  TicketPriority `gorm:"type:varchar(20);default:'normal';index" json:"priority"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SupportTicket) TableName() string {
	return "tickets"
}

func (t *SupportTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

type TicketReply struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	TicketID  string    `gorm:"type:uuid;not null;index" json:"ticket_id"`
	AuthorID  string    `gorm:"type:uuid;not null" json:"author_id"`
	Staff     bool      `gorm:"default:false" json:"staff"`
	Body      string    `gorm:"not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (TicketReply) TableName() string {
	return "ticket_replies"
}

func (r *TicketReply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

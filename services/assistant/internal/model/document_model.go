package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentModel struct {
	ID         string         `gorm:"type:uuid;primary_key" json:"id"`
	Title      string         `gorm:"not null" json:"title"`
	Source     string         `json:"source"`
	ChunkCount int            `json:"chunk_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (DocumentModel) TableName() string {
	return "kb_documents"
}

func (d *DocumentModel) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

type DocumentChunkModel struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	DocumentID string    `gorm:"type:uuid;not null;index" json:"document_id"`
	ChunkIndex int       `gorm:"not null" json:"chunk_index"`
	Content    string    `gorm:"not null" json:"content"`
	TokenCount int       `json:"token_count"`
	Embedding  string    `gorm:"type:jsonb" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (DocumentChunkModel) TableName() string {
	return "kb_document_chunks"
}

func (c *DocumentChunkModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

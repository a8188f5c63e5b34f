package entity

import "time"

type Document struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Source     string    `json:"source"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type DocumentChunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	ChunkIndex int       `json:"chunk_index"`
	Content    string    `json:"content"`
	TokenCount int       `json:"token_count"`
	Embedding  []float64 `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

type AIUsage struct {
	OrgID    string `json:"org_id"`
	Month    string `json:"month"`
	Requests int    `json:"requests"`
}

// PlanAIConfig is the slice of an organization's plan that the assistant
// cares about. Billing owns the full plans table.
type PlanAIConfig struct {
	Tier             string  `json:"tier"`
	AIModel          string  `json:"ai_model"`
	AIMaxTokens      int     `json:"ai_max_tokens"`
	AITemperature    float64 `json:"ai_temperature"`
	MonthlyAICredits int     `json:"monthly_ai_credits"`
}

type ChatSource struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
}

type ChatAnswer struct {
	SessionID string       `json:"session_id"`
	Answer    string       `json:"answer"`
	Sources   []ChatSource `json:"sources"`
}

type UsageReport struct {
	Month string `json:"month"`
	Used  int    `json:"used"`
	Limit int    `json:"limit"`
}

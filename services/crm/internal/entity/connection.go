package entity

import "time"

type ConnectionStatus string

const (
	ConnectionActive   ConnectionStatus = "active"
	ConnectionError    ConnectionStatus = "error"
	ConnectionDisabled ConnectionStatus = "disabled"
)

// CRMConnection links an organization to one CRM vendor. SecretRef names
// the environment variable holding the API credential; the credential
// itself is never stored.
type CRMConnection struct {
	ID           string           `json:"id"`
	OrgID        string           `json:"org_id"`
	Provider     string           `json:"provider"`
	BaseURL      string           `json:"base_url"`
	SecretRef    string           `json:"secret_ref"`
	Status       ConnectionStatus `json:"status"`
	LastError    string           `json:"last_error,omitempty"`
	LastSyncedAt *time.Time       `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Contact is the normalized shape every CRM vendor's records are mapped to.
type Contact struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Company    string `json:"company,omitempty"`
}

// SyncResult maps provider name to the contacts it returned. A provider
// that failed keeps an empty contact slice and an entry in Errors.
type SyncResult struct {
	Contacts map[string][]Contact `json:"contacts"`
	Errors   map[string]string    `json:"errors,omitempty"`
	Synced   int                  `json:"synced"`
}

// PushResult collects per-provider outcomes of writing one contact out.
type PushResult struct {
	Delivered []string          `json:"delivered"`
	Errors    map[string]string `json:"errors,omitempty"`
}

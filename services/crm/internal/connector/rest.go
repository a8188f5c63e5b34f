package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"postdeck/services/crm/internal/entity"
)

const contactsEndpoint = "contacts"

type contactRecord struct {
	ID      string `json:"id,omitempty"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
}

type contactsResponse struct {
	Contacts []contactRecord `json:"contacts"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// RESTConnector talks the one generic JSON contract every CRM vendor is
// reached through: GET/POST {base}/contacts. The bearer credential is
// resolved from the environment at call time, never stored.
type RESTConnector struct {
	provider  string
	baseURL   string
	secretRef string
	client    *http.Client
}

// RESTDialer builds REST connectors sharing one HTTP client.
type RESTDialer struct {
	client *http.Client
}

func NewRESTDialer() *RESTDialer {
	return &RESTDialer{client: &http.Client{Timeout: 15 * time.Second}}
}

func (d *RESTDialer) Dial(conn *entity.CRMConnection) Connector {
	return &RESTConnector{
		provider:  conn.Provider,
		baseURL:   conn.BaseURL,
		secretRef: conn.SecretRef,
		client:    d.client,
	}
}

func (c *RESTConnector) Provider() string { return c.provider }

func (c *RESTConnector) FetchContacts(ctx context.Context) ([]entity.Contact, error) {
	respBody, err := c.do(ctx, "GET", nil)
	if err != nil {
		return nil, err
	}

	var fetched contactsResponse
	if err := json.Unmarshal(respBody, &fetched); err != nil {
		return nil, fmt.Errorf("failed to decode %s contacts: %w", c.provider, err)
	}

	contacts := make([]entity.Contact, len(fetched.Contacts))
	for i, record := range fetched.Contacts {
		contacts[i] = entity.Contact{
			ExternalID: record.ID,
			Email:      record.Email,
			Name:       record.Name,
			Company:    record.Company,
		}
	}
	return contacts, nil
}

func (c *RESTConnector) PushContact(ctx context.Context, contact entity.Contact) error {
	payload, err := json.Marshal(contactRecord{
		ID:      contact.ExternalID,
		Email:   contact.Email,
		Name:    contact.Name,
		Company: contact.Company,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal contact: %w", err)
	}

	_, err = c.do(ctx, "POST", payload)
	return err
}

func (c *RESTConnector) do(ctx context.Context, method string, payload []byte) ([]byte, error) {
	secret := os.Getenv(c.secretRef)
	if secret == "" {
		return nil, fmt.Errorf("credential %s is not set", c.secretRef)
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), contactsEndpoint)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+secret)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.provider, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var vendorErr apiError
		if json.Unmarshal(respBody, &vendorErr) == nil && vendorErr.Error.Message != "" {
			return nil, fmt.Errorf("%s API error (%d): %s", c.provider, resp.StatusCode, vendorErr.Error.Message)
		}
		return nil, fmt.Errorf("%s API error (%d)", c.provider, resp.StatusCode)
	}

	return respBody, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"postdeck/pkg/logger"
	"postdeck/services/crm/internal/connector"
	"postdeck/services/crm/internal/entity"
	"postdeck/services/crm/internal/repo/persistent"

	"gorm.io/gorm"
)

type CRMUseCase interface {
	CreateConnection(orgID, provider, baseURL, secretRef string) (*entity.CRMConnection, error)
	ListConnections(orgID string) ([]*entity.CRMConnection, error)
	UpdateConnection(orgID, connectionID, baseURL, secretRef, status string) (*entity.CRMConnection, error)
	DeleteConnection(orgID, connectionID string) error

	SyncContacts(ctx context.Context, orgID string) (*entity.SyncResult, error)
	PushContact(ctx context.Context, orgID string, contact entity.Contact) (*entity.PushResult, error)
}

type crmUseCase struct {
	connectionRepo persistent.ConnectionRepository
	dialer         connector.Dialer
	logger         *logger.Logger
	now            func() time.Time
}

func NewCRMUseCase(connectionRepo persistent.ConnectionRepository, dialer connector.Dialer, logger *logger.Logger) CRMUseCase {
	return &crmUseCase{
		connectionRepo: connectionRepo,
		dialer:         dialer,
		logger:         logger,
		now:            time.Now,
	}
}

func (uc *crmUseCase) CreateConnection(orgID, provider, baseURL, secretRef string) (*entity.CRMConnection, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return nil, fmt.Errorf("provider is required")
	}
	if !validBaseURL(baseURL) {
		return nil, fmt.Errorf("invalid base URL")
	}

	existing, err := uc.connectionRepo.ListConnectionsByOrg(orgID)
	if err != nil {
		uc.logger.Error("Failed to list connections: %v", err)
		return nil, fmt.Errorf("failed to create connection")
	}
	for _, conn := range existing {
		if conn.Provider == provider {
			return nil, fmt.Errorf("provider already connected")
		}
	}

	conn := &entity.CRMConnection{
		OrgID:     orgID,
		Provider:  provider,
		BaseURL:   baseURL,
		SecretRef: secretRef,
		Status:    entity.ConnectionActive,
	}
	if err := uc.connectionRepo.CreateConnection(conn); err != nil {
		uc.logger.Error("Failed to create connection: %v", err)
		return nil, fmt.Errorf("failed to create connection")
	}
	return conn, nil
}

func (uc *crmUseCase) ListConnections(orgID string) ([]*entity.CRMConnection, error) {
	conns, err := uc.connectionRepo.ListConnectionsByOrg(orgID)
	if err != nil {
		uc.logger.Error("Failed to list connections: %v", err)
		return nil, fmt.Errorf("failed to list connections")
	}
	return conns, nil
}

func (uc *crmUseCase) UpdateConnection(orgID, connectionID, baseURL, secretRef, status string) (*entity.CRMConnection, error) {
	conn, err := uc.loadConnection(orgID, connectionID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if baseURL != "" {
		if !validBaseURL(baseURL) {
			return nil, fmt.Errorf("invalid base URL")
		}
		updates["base_url"] = baseURL
	}
	if secretRef != "" {
		updates["secret_ref"] = secretRef
	}
	if status != "" {
		// Error is an outcome recorded by the sync itself, not a state a
		// caller can choose.
		if status != string(entity.ConnectionActive) && status != string(entity.ConnectionDisabled) {
			return nil, fmt.Errorf("invalid status")
		}
		updates["status"] = status
		if status == string(entity.ConnectionActive) {
			updates["last_error"] = ""
		}
	}
	if len(updates) == 0 {
		return conn, nil
	}

	if err := uc.connectionRepo.UpdateConnection(conn.ID, updates); err != nil {
		uc.logger.Error("Failed to update connection: %v", err)
		return nil, fmt.Errorf("failed to update connection")
	}

	updated, err := uc.connectionRepo.GetConnectionByID(conn.ID)
	if err != nil {
		uc.logger.Error("Failed to reload connection: %v", err)
		return nil, fmt.Errorf("failed to update connection")
	}
	return updated, nil
}

func (uc *crmUseCase) DeleteConnection(orgID, connectionID string) error {
	conn, err := uc.loadConnection(orgID, connectionID)
	if err != nil {
		return err
	}

	if err := uc.connectionRepo.DeleteConnection(conn.ID); err != nil {
		uc.logger.Error("Failed to delete connection: %v", err)
		return fmt.Errorf("failed to delete connection")
	}
	return nil
}

// SyncContacts pulls contacts from every connection in parallel. One
// failing provider contributes an empty slice and an error entry; the
// others proceed untouched.
func (uc *crmUseCase) SyncContacts(ctx context.Context, orgID string) (*entity.SyncResult, error) {
	conns, err := uc.connectionRepo.ListConnectionsByOrg(orgID)
	if err != nil {
		uc.logger.Error("Failed to list connections: %v", err)
		return nil, fmt.Errorf("failed to sync contacts")
	}

	result := &entity.SyncResult{
		Contacts: make(map[string][]entity.Contact),
		Errors:   make(map[string]string),
	}

	type outcome struct {
		connectionID string
		provider     string
		contacts     []entity.Contact
		err          error
	}

	var wg sync.WaitGroup
	outcomes := make(chan outcome, len(conns))

	for _, conn := range conns {
		// Disabled connections sit out. A connection in error keeps
		// trying, so a transient vendor failure heals on the next sync.
		if conn.Status == entity.ConnectionDisabled {
			continue
		}
		wg.Add(1)
		go func(conn *entity.CRMConnection) {
			defer wg.Done()
			contacts, err := uc.dialer.Dial(conn).FetchContacts(ctx)
			outcomes <- outcome{connectionID: conn.ID, provider: conn.Provider, contacts: contacts, err: err}
		}(conn)
	}

	wg.Wait()
	close(outcomes)

	syncedAt := uc.now()
	for out := range outcomes {
		if out.err != nil {
			uc.logger.Warn("CRM sync failed for %s: %v", out.provider, out.err)
			result.Contacts[out.provider] = []entity.Contact{}
			result.Errors[out.provider] = out.err.Error()
			if err := uc.connectionRepo.MarkError(out.connectionID, out.err.Error()); err != nil {
				uc.logger.Error("Failed to record sync error for %s: %v", out.provider, err)
			}
			continue
		}

		result.Contacts[out.provider] = out.contacts
		result.Synced++
		if err := uc.connectionRepo.MarkSynced(out.connectionID, syncedAt); err != nil {
			uc.logger.Error("Failed to record sync time for %s: %v", out.provider, err)
		}
	}

	return result, nil
}

// PushContact writes one contact to every enabled connection, collecting
// per-provider outcomes.
func (uc *crmUseCase) PushContact(ctx context.Context, orgID string, contact entity.Contact) (*entity.PushResult, error) {
	conns, err := uc.connectionRepo.ListConnectionsByOrg(orgID)
	if err != nil {
		uc.logger.Error("Failed to list connections: %v", err)
		return nil, fmt.Errorf("failed to push contact")
	}

	result := &entity.PushResult{
		Delivered: []string{},
		Errors:    make(map[string]string),
	}

	for _, conn := range conns {
		if conn.Status == entity.ConnectionDisabled {
			continue
		}
		if err := uc.dialer.Dial(conn).PushContact(ctx, contact); err != nil {
			uc.logger.Warn("CRM push failed for %s: %v", conn.Provider, err)
			result.Errors[conn.Provider] = err.Error()
			continue
		}
		result.Delivered = append(result.Delivered, conn.Provider)
	}

	return result, nil
}

func (uc *crmUseCase) loadConnection(orgID, connectionID string) (*entity.CRMConnection, error) {
	conn, err := uc.connectionRepo.GetConnectionByID(connectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("connection not found")
		}
		uc.logger.Error("Failed to load connection: %v", err)
		return nil, fmt.Errorf("failed to load connection")
	}
	if conn.OrgID != orgID {
		return nil, fmt.Errorf("connection not found")
	}
	return conn, nil
}

func validBaseURL(baseURL string) bool {
	return strings.HasPrefix(baseURL, "http://") || strings.HasPrefix(baseURL, "https://")
}

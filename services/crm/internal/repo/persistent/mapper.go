package persistent

import (
	"postdeck/services/crm/internal/entity"
	"postdeck/services/crm/internal/model"
)

func ToConnectionEntity(m *model.CRMConnectionModel) *entity.CRMConnection {
	return &entity.CRMConnection{
		ID:           m.ID,
		OrgID:        m.OrgID,
		Provider:     m.Provider,
		BaseURL:      m.BaseURL,
		SecretRef:    m.SecretRef,
		Status:       entity.ConnectionStatus(m.Status),
		LastError:    m.LastError,
		LastSyncedAt: m.LastSyncedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func ToConnectionModel(e *entity.CRMConnection) *model.CRMConnectionModel {
	return &model.CRMConnectionModel{
		ID:           e.ID,
		OrgID:        e.OrgID,
		Provider:     e.Provider,
		BaseURL:      e.BaseURL,
		SecretRef:    e.SecretRef,
		Status:       string(e.Status),
		LastError:    e.LastError,
		LastSyncedAt: e.LastSyncedAt,
	}
}

package persistent

import (
	"errors"
	"time"

	"postdeck/pkg/middleware"
	"postdeck/pkg/roles"
	"postdeck/services/crm/internal/entity"
	"postdeck/services/crm/internal/model"

	"gorm.io/gorm"
)

type ConnectionRepository interface {
	CreateConnection(conn *entity.CRMConnection) error
	GetConnectionByID(id string) (*entity.CRMConnection, error)
	ListConnectionsByOrg(orgID string) ([]*entity.CRMConnection, error)
	UpdateConnection(id string, updates map[string]interface{}) error
	DeleteConnection(id string) error
	MarkSynced(id string, syncedAt time.Time) error
	MarkError(id string, message string) error

	EffectiveRole(orgID, userID string) (roles.Role, error)
}

type connectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

func (r *connectionRepository) CreateConnection(conn *entity.CRMConnection) error {
	connModel := ToConnectionModel(conn)
	if err := r.db.Create(connModel).Error; err != nil {
		return err
	}
	*conn = *ToConnectionEntity(connModel)
	return nil
}

func (r *connectionRepository) GetConnectionByID(id string) (*entity.CRMConnection, error) {
	var connModel model.CRMConnectionModel
	if err := r.db.Where("id = ?", id).First(&connModel).Error; err != nil {
		return nil, err
	}
	return ToConnectionEntity(&connModel), nil
}

func (r *connectionRepository) ListConnectionsByOrg(orgID string) ([]*entity.CRMConnection, error) {
	var connModels []model.CRMConnectionModel
	if err := r.db.Where("org_id = ?", orgID).Order("provider ASC").Find(&connModels).Error; err != nil {
		return nil, err
	}

	conns := make([]*entity.CRMConnection, len(connModels))
	for i := range connModels {
		conns[i] = ToConnectionEntity(&connModels[i])
	}
	return conns, nil
}

func (r *connectionRepository) UpdateConnection(id string, updates map[string]interface{}) error {
	result := r.db.Model(&model.CRMConnectionModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *connectionRepository) DeleteConnection(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.CRMConnectionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *connectionRepository) MarkSynced(id string, syncedAt time.Time) error {
	return r.UpdateConnection(id, map[string]interface{}{
		"status":         string(entity.ConnectionActive),
		"last_error":     "",
		"last_synced_at": syncedAt,
	})
}

func (r *connectionRepository) MarkError(id string, message string) error {
	return r.UpdateConnection(id, map[string]interface{}{
		"status":     string(entity.ConnectionError),
		"last_error": message,
	})
}

// EffectiveRole implements middleware.MembershipSource against the shared
// organizations tables. The owner always resolves to owner.
func (r *connectionRepository) EffectiveRole(orgID, userID string) (roles.Role, error) {
	var orgModel model.OrganizationModel
	if err := r.db.Where("id = ?", orgID).First(&orgModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", middleware.ErrNotMember
		}
		return "", err
	}

	if orgModel.OwnerID == userID {
		return roles.RoleOwner, nil
	}

	var memberModel model.MemberModel
	if err := r.db.Where("org_id = ? AND user_id = ?", orgID, userID).First(&memberModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", middleware.ErrNotMember
		}
		return "", err
	}

	return roles.Effective(orgModel.OwnerID, userID, roles.Role(memberModel.Role)), nil
}

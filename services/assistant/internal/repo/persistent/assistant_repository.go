package persistent

import (
	"errors"

	"postdeck/pkg/middleware"
	"postdeck/pkg/roles"
	"postdeck/services/assistant/internal/entity"
	"postdeck/services/assistant/internal/model"

	"gorm.io/gorm"
)

type AssistantRepository interface {
	CreateDocument(doc *entity.Document, chunks []*entity.DocumentChunk) error
	GetDocumentByID(id string) (*entity.Document, error)
	ListDocuments() ([]*entity.Document, error)
	DeleteDocument(id string) error
	ListChunks() ([]*entity.DocumentChunk, error)

	UsageCount(orgID, month string) (int, error)
	IncrementUsage(orgID, month string) error

	GetOrgPlan(orgID string) (*entity.PlanAIConfig, error)

	EffectiveRole(orgID, userID string) (roles.Role, error)
}

type assistantRepository struct {
	db *gorm.DB
}

func NewAssistantRepository(db *gorm.DB) AssistantRepository {
	return &assistantRepository{db: db}
}

// CreateDocument stores the document and all of its chunks in one
// transaction so a half-ingested document never becomes visible.
func (r *assistantRepository) CreateDocument(doc *entity.Document, chunks []*entity.DocumentChunk) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		docModel := ToDocumentModel(doc)
		docModel.ChunkCount = len(chunks)
		if err := tx.Create(docModel).Error; err != nil {
			return err
		}

		for _, chunk := range chunks {
			chunkModel := ToChunkModel(chunk)
			chunkModel.DocumentID = docModel.ID
			if err := tx.Create(chunkModel).Error; err != nil {
				return err
			}
			*chunk = *ToChunkEntity(chunkModel)
		}

		*doc = *ToDocumentEntity(docModel)
		return nil
	})
}

func (r *assistantRepository) GetDocumentByID(id string) (*entity.Document, error) {
	var docModel model.DocumentModel
	if err := r.db.Where("id = ?", id).First(&docModel).Error; err != nil {
		return nil, err
	}
	return ToDocumentEntity(&docModel), nil
}

func (r *assistantRepository) ListDocuments() ([]*entity.Document, error) {
	var docModels []model.DocumentModel
	if err := r.db.Order("created_at DESC").Find(&docModels).Error; err != nil {
		return nil, err
	}

	docs := make([]*entity.Document, len(docModels))
	for i := range docModels {
		docs[i] = ToDocumentEntity(&docModels[i])
	}
	return docs, nil
}

func (r *assistantRepository) DeleteDocument(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&model.DocumentModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("document_id = ?", id).Delete(&model.DocumentChunkModel{}).Error
	})
}

func (r *assistantRepository) ListChunks() ([]*entity.DocumentChunk, error) {
	var chunkModels []model.DocumentChunkModel
	if err := r.db.Order("document_id, chunk_index").Find(&chunkModels).Error; err != nil {
		return nil, err
	}

	chunks := make([]*entity.DocumentChunk, len(chunkModels))
	for i := range chunkModels {
		chunks[i] = ToChunkEntity(&chunkModels[i])
	}
	return chunks, nil
}

func (r *assistantRepository) UsageCount(orgID, month string) (int, error) {
	var usageModel model.AIUsageModel
	err := r.db.Where("org_id = ? AND month = ?", orgID, month).First(&usageModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return usageModel.Requests, nil
}

func (r *assistantRepository) IncrementUsage(orgID, month string) error {
	result := r.db.Model(&model.AIUsageModel{}).
		Where("org_id = ? AND month = ?", orgID, month).
		Update("requests", gorm.Expr("requests + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	return r.db.Create(&model.AIUsageModel{
		OrgID:    orgID,
		Month:    month,
		Requests: 1,
	}).Error
}

// GetOrgPlan resolves the org's plan to its AI settings. Orgs without a
// plan fall back to the free-tier defaults chosen by the caller.
func (r *assistantRepository) GetOrgPlan(orgID string) (*entity.PlanAIConfig, error) {
	var orgModel model.OrganizationModel
	if err := r.db.Where("id = ?", orgID).First(&orgModel).Error; err != nil {
		return nil, err
	}
	if orgModel.PlanID == "" {
		return nil, nil
	}

	var planModel model.PlanModel
	if err := r.db.Where("id = ?", orgModel.PlanID).First(&planModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &entity.PlanAIConfig{
		Tier:             planModel.Tier,
		AIModel:          planModel.AIModel,
		AIMaxTokens:      planModel.AIMaxTokens,
		AITemperature:    planModel.AITemperature,
		MonthlyAICredits: planModel.MonthlyAICredits,
	}, nil
}

// EffectiveRole implements middleware.MembershipSource against the shared
// organizations tables. The owner always resolves to owner.
func (r *assistantRepository) EffectiveRole(orgID, userID string) (roles.Role, error) {
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

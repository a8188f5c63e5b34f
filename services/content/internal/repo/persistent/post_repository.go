package persistent

import (
	"errors"
	"time"

	"postdeck/pkg/middleware"
	"postdeck/pkg/roles"
	"postdeck/services/content/internal/entity"
	"postdeck/services/content/internal/model"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *entity.Post) error
	GetByID(id string) (*entity.Post, error)
	List(orgID string, status, platform string, limit, offset int) ([]*entity.Post, error)
	Update(post *entity.Post) error
	Delete(id string) error
	CountScheduled(orgID string) (int64, error)

	ListDue(now time.Time, limit int) ([]*entity.Post, error)
	MarkPublished(id, platformPostID string, publishedAt time.Time) error
	MarkFailed(id, errorMessage string) error

	CreateMediaAsset(asset *entity.MediaAsset) error
	GetMediaAssetByID(id string) (*entity.MediaAsset, error)
	ListMediaAssets(orgID string) ([]*entity.MediaAsset, error)
	DeleteMediaAsset(id string) error

	GetOrgPlanLimit(orgID string) (int, error)

	EffectiveRole(orgID, userID string) (roles.Role, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(post *entity.Post) error {
	postModel := ToPostModel(post)
	if err := r.db.Create(postModel).Error; err != nil {
		return err
	}
	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(id string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) List(orgID string, status, platform string, limit, offset int) ([]*entity.Post, error) {
	query := r.db.Where("org_id = ?", orgID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if platform != "" {
		query = query.Where("platform = ?", platform)
	}

	var postModels []model.PostModel
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}

func (r *postRepository) Update(post *entity.Post) error {
	updates := map[string]interface{}{
		"body":            post.Body,
		"platform":        post.Platform,
		"hashtags":        ToPostModel(post).Hashtags,
		"media_asset_ids": ToPostModel(post).MediaAssetIDs,
		"status":          string(post.Status),
		"scheduled_for":   post.ScheduledFor,
	}
	return r.db.Model(&model.PostModel{}).Where("id = ?", post.ID).Updates(updates).Error
}

func (r *postRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.PostModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) CountScheduled(orgID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.PostModel{}).
		Where("org_id = ? AND status = ?", orgID, string(entity.StatusScheduled)).
		Count(&count).Error
	return count, err
}

// ListDue returns scheduled posts whose time has come, oldest first, capped
// at limit. The cron publish pass consumes this.
func (r *postRepository) ListDue(now time.Time, limit int) ([]*entity.Post, error) {
	var postModels []model.PostModel
	err := r.db.
		Where("status = ? AND scheduled_for <= ?", string(entity.StatusScheduled), now).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&postModels).Error
	if err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}

func (r *postRepository) MarkPublished(id, platformPostID string, publishedAt time.Time) error {
	updates := map[string]interface{}{
		"status":           string(entity.StatusPublished),
		"published_at":     publishedAt,
		"platform_post_id": platformPostID,
		"error_message":    "",
	}
	return r.db.Model(&model.PostModel{}).Where("id = ?", id).Updates(updates).Error
}

func (r *postRepository) MarkFailed(id, errorMessage string) error {
	updates := map[string]interface{}{
		"status":        string(entity.StatusFailed),
		"error_message": errorMessage,
	}
	return r.db.Model(&model.PostModel{}).Where("id = ?", id).Updates(updates).Error
}

func (r *postRepository) CreateMediaAsset(asset *entity.MediaAsset) error {
	assetModel := ToMediaAssetModel(asset)
	if err := r.db.Create(assetModel).Error; err != nil {
		return err
	}
	*asset = *ToMediaAssetEntity(assetModel)
	return nil
}

func (r *postRepository) GetMediaAssetByID(id string) (*entity.MediaAsset, error) {
	var assetModel model.MediaAssetModel
	if err := r.db.Where("id = ?", id).First(&assetModel).Error; err != nil {
		return nil, err
	}
	return ToMediaAssetEntity(&assetModel), nil
}

func (r *postRepository) ListMediaAssets(orgID string) ([]*entity.MediaAsset, error) {
	var assetModels []model.MediaAssetModel
	if err := r.db.Where("org_id = ?", orgID).Order("created_at DESC").Find(&assetModels).Error; err != nil {
		return nil, err
	}

	assets := make([]*entity.MediaAsset, len(assetModels))
	for i := range assetModels {
		assets[i] = ToMediaAssetEntity(&assetModels[i])
	}
	return assets, nil
}

func (r *postRepository) DeleteMediaAsset(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.MediaAssetModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetOrgPlanLimit resolves the org's plan to its scheduled-post cap.
// Zero means no cap (unplanned orgs, misconfigured plans).
func (r *postRepository) GetOrgPlanLimit(orgID string) (int, error) {
	var orgModel model.OrganizationModel
	if err := r.db.Where("id = ?", orgID).First(&orgModel).Error; err != nil {
		return 0, err
	}
	if orgModel.PlanID == "" {
		return 0, nil
	}

	var planModel model.PlanModel
	if err := r.db.Where("id = ?", orgModel.PlanID).First(&planModel).Error; err != nil {
		return 0, nil
	}
	return planModel.MaxScheduledPosts, nil
}

// EffectiveRole implements middleware.MembershipSource against the shared
// organizations tables. The owner always resolves to owner.
func (r *postRepository) EffectiveRole(orgID, userID string) (roles.Role, error) {
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

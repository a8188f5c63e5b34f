package persistent

import (
	"errors"

	"postdeck/pkg/middleware"
	"postdeck/pkg/roles"
	"postdeck/services/growth/internal/entity"
	"postdeck/services/growth/internal/model"

	"gorm.io/gorm"
)

type GrowthRepository interface {
	CreateTestimonial(testimonial *entity.TestimonialRequest) error
	GetTestimonialByID(id string) (*entity.TestimonialRequest, error)
	GetTestimonialByToken(token string) (*entity.TestimonialRequest, error)
	ListTestimonials(orgID string) ([]*entity.TestimonialRequest, error)
	UpdateTestimonial(id string, updates map[string]interface{}) error

	CreateReferral(referral *entity.ReferralRecord) error
	GetReferralByID(id string) (*entity.ReferralRecord, error)
	ListReferrals(orgID string) ([]*entity.ReferralRecord, error)
	UpdateReferral(id string, updates map[string]interface{}) error

	CreateRoadmapItem(item *entity.RoadmapItem) error
	GetRoadmapItemByID(id string) (*entity.RoadmapItem, error)
	ListRoadmapItems() ([]*entity.RoadmapItem, error)
	UpdateRoadmapItem(id string, updates map[string]interface{}) error

	HasVoted(itemID, userID string) (bool, error)
	CreateVote(itemID, userID string) error
	DeleteVote(itemID, userID string) error
	VoteCounts() (map[string]int, error)
	CountVotes(itemID string) (int, error)
	ListVotedItemIDs(userID string) ([]string, error)

	EffectiveRole(orgID, userID string) (roles.Role, error)
}

type growthRepository struct {
	db *gorm.DB
}

func NewGrowthRepository(db *gorm.DB) GrowthRepository {
	return &growthRepository{db: db}
}

func (r *growthRepository) CreateTestimonial(testimonial *entity.TestimonialRequest) error {
	testimonialModel := ToTestimonialModel(testimonial)
	if err := r.db.Create(testimonialModel).Error; err != nil {
		return err
	}
	*testimonial = *ToTestimonialEntity(testimonialModel)
	return nil
}

func (r *growthRepository) GetTestimonialByID(id string) (*entity.TestimonialRequest, error) {
	var testimonialModel model.TestimonialModel
	if err := r.db.Where("id = ?", id).First(&testimonialModel).Error; err != nil {
		return nil, err
	}
	return ToTestimonialEntity(&testimonialModel), nil
}

func (r *growthRepository) GetTestimonialByToken(token string) (*entity.TestimonialRequest, error) {
	var testimonialModel model.TestimonialModel
	if err := r.db.Where("share_token = ?", token).First(&testimonialModel).Error; err != nil {
		return nil, err
	}
	return ToTestimonialEntity(&testimonialModel), nil
}

func (r *growthRepository) ListTestimonials(orgID string) ([]*entity.TestimonialRequest, error) {
	var testimonialModels []model.TestimonialModel
	if err := r.db.Where("org_id = ?", orgID).Order("created_at DESC").Find(&testimonialModels).Error; err != nil {
		return nil, err
	}

	testimonials := make([]*entity.TestimonialRequest, len(testimonialModels))
	for i := range testimonialModels {
		testimonials[i] = ToTestimonialEntity(&testimonialModels[i])
	}
	return testimonials, nil
}

func (r *growthRepository) UpdateTestimonial(id string, updates map[string]interface{}) error {
	result := r.db.Model(&model.TestimonialModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *growthRepository) CreateReferral(referral *entity.ReferralRecord) error {
	referralModel := ToReferralModel(referral)
	if err := r.db.Create(referralModel).Error; err != nil {
		return err
	}
	*referral = *ToReferralEntity(referralModel)
	return nil
}

func (r *growthRepository) GetReferralByID(id string) (*entity.ReferralRecord, error) {
	var referralModel model.ReferralModel
	if err := r.db.Where("id = ?", id).First(&referralModel).Error; err != nil {
		return nil, err
	}
	return ToReferralEntity(&referralModel), nil
}

func (r *growthRepository) ListReferrals(orgID string) ([]*entity.ReferralRecord, error) {
	var referralModels []model.ReferralModel
	if err := r.db.Where("org_id = ?", orgID).Order("created_at DESC").Find(&referralModels).Error; err != nil {
		return nil, err
	}

	referrals := make([]*entity.ReferralRecord, len(referralModels))
	for i := range referralModels {
		referrals[i] = ToReferralEntity(&referralModels[i])
	}
	return referrals, nil
}

func (r *growthRepository) UpdateReferral(id string, updates map[string]interface{}) error {
	result := r.db.Model(&model.ReferralModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *growthRepository) CreateRoadmapItem(item *entity.RoadmapItem) error {
	itemModel := ToRoadmapItemModel(item)
	if err := r.db.Create(itemModel).Error; err != nil {
		return err
	}
	*item = *ToRoadmapItemEntity(itemModel)
	return nil
}

func (r *growthRepository) GetRoadmapItemByID(id string) (*entity.RoadmapItem, error) {
	var itemModel model.RoadmapItemModel
	if err := r.db.Where("id = ?", id).First(&itemModel).Error; err != nil {
		return nil, err
	}
	return ToRoadmapItemEntity(&itemModel), nil
}

func (r *growthRepository) ListRoadmapItems() ([]*entity.RoadmapItem, error) {
	var itemModels []model.RoadmapItemModel
	if err := r.db.Order("created_at DESC").Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]*entity.RoadmapItem, len(itemModels))
	for i := range itemModels {
		items[i] = ToRoadmapItemEntity(&itemModels[i])
	}
	return items, nil
}

func (r *growthRepository) UpdateRoadmapItem(id string, updates map[string]interface{}) error {
	result := r.db.Model(&model.RoadmapItemModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *growthRepository) HasVoted(itemID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.RoadmapVoteModel{}).
		Where("item_id = ? AND user_id = ?", itemID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *growthRepository) CreateVote(itemID, userID string) error {
	return r.db.Create(&model.RoadmapVoteModel{ItemID: itemID, UserID: userID}).Error
}

func (r *growthRepository) DeleteVote(itemID, userID string) error {
	return r.db.Where("item_id = ? AND user_id = ?", itemID, userID).
		Delete(&model.RoadmapVoteModel{}).Error
}

// VoteCounts returns vote totals for every item in one query.
func (r *growthRepository) VoteCounts() (map[string]int, error) {
	var rows []struct {
		ItemID string
		Total  int
	}
	err := r.db.Model(&model.RoadmapVoteModel{}).
		Select("item_id, count(*) as total").
		Group("item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ItemID] = row.Total
	}
	return counts, nil
}

func (r *growthRepository) CountVotes(itemID string) (int, error) {
	var count int64
	err := r.db.Model(&model.RoadmapVoteModel{}).
		Where("item_id = ?", itemID).
		Count(&count).Error
	return int(count), err
}

func (r *growthRepository) ListVotedItemIDs(userID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&model.RoadmapVoteModel{}).
		Where("user_id = ?", userID).
		Pluck("item_id", &ids).Error
	return ids, err
}

// EffectiveRole implements middleware.MembershipSource against the shared
// organizations tables. The owner always resolves to owner.
func (r *growthRepository) EffectiveRole(orgID, userID string) (roles.Role, error) {
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

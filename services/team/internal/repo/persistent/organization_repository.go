package persistent

import (
	"errors"

	"postdeck/pkg/middleware"
	"postdeck/pkg/roles"
	"postdeck/services/team/internal/entity"
	"postdeck/services/team/internal/model"

	"gorm.io/gorm"
)

type OrganizationRepository interface {
	CreateOrganization(org *entity.Organization, ownerRole string) error
	GetOrganizationByID(id string) (*entity.Organization, error)
	GetOrganizationBySlug(slug string) (*entity.Organization, error)
	ListOrganizationsForUser(userID string) ([]*entity.Organization, error)
	UpdateOrganization(org *entity.Organization) error
	TransferOwnership(orgID, oldOwnerID, newOwnerID string) error

	GetMember(orgID, userID string) (*entity.Member, error)
	ListMembers(orgID string) ([]*entity.Member, error)
	CreateMember(member *entity.Member) error
	UpdateMemberRole(orgID, userID, role string) error
	DeleteMember(orgID, userID string) error
	CountMembers(orgID string) (int64, error)

	CreateInvite(invite *entity.Invite) error
	GetInviteByID(id string) (*entity.Invite, error)
	GetInviteByToken(token string) (*entity.Invite, error)
	ListInvites(orgID string) ([]*entity.Invite, error)
	UpdateInvite(invite *entity.Invite) error

	GetPlanByID(id string) (*entity.Plan, error)

	EffectiveRole(orgID, userID string) (roles.Role, error)
}

type organizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &organizationRepository{db: db}
}

// CreateOrganization writes the organization and its owner membership row
// in one transaction so an org can never exist without its owner member.
func (r *organizationRepository) CreateOrganization(org *entity.Organization, ownerRole string) error {
	orgModel := ToOrganizationModel(org)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(orgModel).Error; err != nil {
			return err
		}

		memberModel := &model.MemberModel{
			OrgID:  orgModel.ID,
			UserID: orgModel.OwnerID,
			Role:   ownerRole,
		}
		return tx.Create(memberModel).Error
	})
	if err != nil {
		return err
	}

	*org = *ToOrganizationEntity(orgModel)
	return nil
}

func (r *organizationRepository) GetOrganizationByID(id string) (*entity.Organization, error) {
	var orgModel model.OrganizationModel
	if err := r.db.Where("id = ?", id).First(&orgModel).Error; err != nil {
		return nil, err
	}
	return ToOrganizationEntity(&orgModel), nil
}

func (r *organizationRepository) GetOrganizationBySlug(slug string) (*entity.Organization, error) {
	var orgModel model.OrganizationModel
	if err := r.db.Where("slug = ?", slug).First(&orgModel).Error; err != nil {
		return nil, err
	}
	return ToOrganizationEntity(&orgModel), nil
}

func (r *organizationRepository) ListOrganizationsForUser(userID string) ([]*entity.Organization, error) {
	var memberModels []model.MemberModel
	if err := r.db.Where("user_id = ?", userID).Find(&memberModels).Error; err != nil {
		return nil, err
	}

	if len(memberModels) == 0 {
		return []*entity.Organization{}, nil
	}

	orgIDs := make([]string, len(memberModels))
	for i := range memberModels {
		orgIDs[i] = memberModels[i].OrgID
	}

	var orgModels []model.OrganizationModel
	if err := r.db.Where("id IN ?", orgIDs).Order("created_at ASC").Find(&orgModels).Error; err != nil {
		return nil, err
	}

	orgs := make([]*entity.Organization, len(orgModels))
	for i := range orgModels {
		orgs[i] = ToOrganizationEntity(&orgModels[i])
	}
	return orgs, nil
}

func (r *organizationRepository) UpdateOrganization(org *entity.Organization) error {
	updates := map[string]interface{}{
		"name": org.Name,
		"slug": org.Slug,
	}
	return r.db.Model(&model.OrganizationModel{}).Where("id = ?", org.ID).Updates(updates).Error
}

// TransferOwnership swaps the owner column and keeps the membership rows
// consistent: the new owner's row becomes owner, the old owner's admin.
func (r *organizationRepository) TransferOwnership(orgID, oldOwnerID, newOwnerID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.OrganizationModel{}).Where("id = ?", orgID).Update("owner_id", newOwnerID).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.MemberModel{}).Where("org_id = ? AND user_id = ?", orgID, newOwnerID).Update("role", string(roles.RoleOwner)).Error; err != nil {
			return err
		}
		return tx.Model(&model.MemberModel{}).Where("org_id = ? AND user_id = ?", orgID, oldOwnerID).Update("role", string(roles.RoleAdmin)).Error
	})
}

func (r *organizationRepository) GetMember(orgID, userID string) (*entity.Member, error) {
	var memberModel model.MemberModel
	if err := r.db.Where("org_id = ? AND user_id = ?", orgID, userID).First(&memberModel).Error; err != nil {
		return nil, err
	}
	return ToMemberEntity(&memberModel), nil
}

func (r *organizationRepository) ListMembers(orgID string) ([]*entity.Member, error) {
	var memberModels []model.MemberModel
	if err := r.db.Where("org_id = ?", orgID).Order("created_at ASC").Find(&memberModels).Error; err != nil {
		return nil, err
	}

	members := make([]*entity.Member, len(memberModels))
	for i := range memberModels {
		members[i] = ToMemberEntity(&memberModels[i])
	}
	return members, nil
}

func (r *organizationRepository) CreateMember(member *entity.Member) error {
	memberModel := ToMemberModel(member)
	if err := r.db.Create(memberModel).Error; err != nil {
		return err
	}
	*member = *ToMemberEntity(memberModel)
	return nil
}

func (r *organizationRepository) UpdateMemberRole(orgID, userID, role string) error {
	result := r.db.Model(&model.MemberModel{}).Where("org_id = ? AND user_id = ?", orgID, userID).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *organizationRepository) DeleteMember(orgID, userID string) error {
	result := r.db.Where("org_id = ? AND user_id = ?", orgID, userID).Delete(&model.MemberModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *organizationRepository) CountMembers(orgID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.MemberModel{}).Where("org_id = ?", orgID).Count(&count).Error
	return count, err
}

func (r *organizationRepository) CreateInvite(invite *entity.Invite) error {
	inviteModel := ToInviteModel(invite)
	if err := r.db.Create(inviteModel).Error; err != nil {
		return err
	}
	*invite = *ToInviteEntity(inviteModel)
	return nil
}

func (r *organizationRepository) GetInviteByID(id string) (*entity.Invite, error) {
	var inviteModel model.InviteModel
	if err := r.db.Where("id = ?", id).First(&inviteModel).Error; err != nil {
		return nil, err
	}
	return ToInviteEntity(&inviteModel), nil
}

func (r *organizationRepository) GetInviteByToken(token string) (*entity.Invite, error) {
	var inviteModel model.InviteModel
	if err := r.db.Where("token = ?", token).First(&inviteModel).Error; err != nil {
		return nil, err
	}
	return ToInviteEntity(&inviteModel), nil
}

func (r *organizationRepository) ListInvites(orgID string) ([]*entity.Invite, error) {
	var inviteModels []model.InviteModel
	if err := r.db.Where("org_id = ?", orgID).Order("created_at DESC").Find(&inviteModels).Error; err != nil {
		return nil, err
	}

	invites := make([]*entity.Invite, len(inviteModels))
	for i := range inviteModels {
		invites[i] = ToInviteEntity(&inviteModels[i])
	}
	return invites, nil
}

func (r *organizationRepository) UpdateInvite(invite *entity.Invite) error {
	updates := map[string]interface{}{
		"status": string(invite.Status),
	}
	return r.db.Model(&model.InviteModel{}).Where("id = ?", invite.ID).Updates(updates).Error
}

func (r *organizationRepository) GetPlanByID(id string) (*entity.Plan, error) {
	var planModel model.PlanModel
	if err := r.db.Where("id = ?", id).First(&planModel).Error; err != nil {
		return nil, err
	}
	return ToPlanEntity(&planModel), nil
}

// EffectiveRole implements middleware.MembershipSource. The organization
// owner always resolves to owner, whatever the membership row says.
func (r *organizationRepository) EffectiveRole(orgID, userID string) (roles.Role, error) {
	org, err := r.GetOrganizationByID(orgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", middleware.ErrNotMember
		}
		return "", err
	}

	member, err := r.GetMember(orgID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if org.OwnerID == userID {
				return roles.RoleOwner, nil
			}
			return "", middleware.ErrNotMember
		}
		return "", err
	}

	return roles.Effective(org.OwnerID, userID, roles.Role(member.Role)), nil
}

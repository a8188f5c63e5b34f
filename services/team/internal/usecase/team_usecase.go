package usecase

import (
	"fmt"
	"time"

	"postdeck/pkg/logger"
	"postdeck/pkg/roles"
	"postdeck/services/team/internal/entity"
	"postdeck/services/team/internal/repo/persistent"

	"github.com/google/uuid"
)

const inviteTTL = 7 * 24 * time.Hour

type TeamUseCase interface {
	CreateOrganization(ownerID, name, slug string) (*entity.Organization, error)
	ListOrganizations(userID string) ([]*entity.Organization, error)
	GetOrganization(orgID string) (*entity.Organization, error)
	UpdateOrganization(orgID, name, slug string) (*entity.Organization, error)

	ListMembers(orgID string) ([]*entity.Member, error)
	UpdateMemberRole(orgID, userID, role string) error
	RemoveMember(orgID, userID string) error

	CreateInvite(orgID, email, role string) (*entity.Invite, error)
	ListInvites(orgID string) ([]*entity.Invite, error)
	AcceptInvite(token, userID string) (*entity.Member, error)
	RevokeInvite(orgID, inviteID string) error

	TransferOwnership(orgID, currentUserID, newOwnerID string) error
}

type teamUseCase struct {
	orgRepo persistent.OrganizationRepository
	logger  *logger.Logger
}

func NewTeamUseCase(orgRepo persistent.OrganizationRepository, logger *logger.Logger) TeamUseCase {
	return &teamUseCase{
		orgRepo: orgRepo,
		logger:  logger,
	}
}

func (uc *teamUseCase) CreateOrganization(ownerID, name, slug string) (*entity.Organization, error) {
	_, err := uc.orgRepo.GetOrganizationBySlug(slug)
	if err == nil {
		return nil, fmt.Errorf("organization slug already taken")
	}

	org := &entity.Organization{
		Name:               name,
		Slug:               slug,
		OwnerID:            ownerID,
		SubscriptionStatus: entity.SubscriptionTrialing,
	}

	if err := uc.orgRepo.CreateOrganization(org, string(roles.RoleOwner)); err != nil {
		uc.logger.Error("Failed to create organization: %v", err)
		return nil, fmt.Errorf("failed to create organization")
	}

	return org, nil
}

func (uc *teamUseCase) ListOrganizations(userID string) ([]*entity.Organization, error) {
	return uc.orgRepo.ListOrganizationsForUser(userID)
}

func (uc *teamUseCase) GetOrganization(orgID string) (*entity.Organization, error) {
	org, err := uc.orgRepo.GetOrganizationByID(orgID)
	if err != nil {
		return nil, fmt.Errorf("organization not found")
	}
	return org, nil
}

func (uc *teamUseCase) UpdateOrganization(orgID, name, slug string) (*entity.Organization, error) {
	org, err := uc.orgRepo.GetOrganizationByID(orgID)
	if err != nil {
		return nil, fmt.Errorf("organization not found")
	}

	if slug != org.Slug {
		_, err := uc.orgRepo.GetOrganizationBySlug(slug)
		if err == nil {
			return nil, fmt.Errorf("organization slug already taken")
		}
	}

	org.Name = name
	org.Slug = slug
	if err := uc.orgRepo.UpdateOrganization(org); err != nil {
		uc.logger.Error("Failed to update organization: %v", err)
		return nil, fmt.Errorf("failed to update organization")
	}

	return org, nil
}

func (uc *teamUseCase) ListMembers(orgID string) ([]*entity.Member, error) {
	return uc.orgRepo.ListMembers(orgID)
}

func (uc *teamUseCase) UpdateMemberRole(orgID, userID, role string) error {
	if !roles.Valid(roles.Role(role)) {
		return fmt.Errorf("invalid role")
	}
	if roles.Role(role) == roles.RoleOwner {
		return fmt.Errorf("use ownership transfer to assign the owner role")
	}

	org, err := uc.orgRepo.GetOrganizationByID(orgID)
	if err != nil {
		return fmt.Errorf("organization not found")
	}
	if org.OwnerID == userID {
		return fmt.Errorf("cannot change the organization owner's role")
	}

	if err := uc.orgRepo.UpdateMemberRole(orgID, userID, role); err != nil {
		return fmt.Errorf("member not found")
	}
	return nil
}

func (uc *teamUseCase) RemoveMember(orgID, userID string) error {
	org, err := uc.orgRepo.GetOrganizationByID(orgID)
	if err != nil {
		return fmt.Errorf("organization not found")
	}
	if org.OwnerID == userID {
		return fmt.Errorf("cannot remove the organization owner")
	}

	if err := uc.orgRepo.DeleteMember(orgID, userID); err != nil {
		return fmt.Errorf("member not found")
	}
	return nil
}

func (uc *teamUseCase) CreateInvite(orgID, email, role string) (*entity.Invite, error) {
	if !roles.Valid(roles.Role(role)) {
		return nil, fmt.Errorf("invalid role")
	}
	if roles.Role(role) == roles.RoleOwner {
		return nil, fmt.Errorf("cannot invite as owner")
	}

	// Email delivery is out of scope; the token is returned to the caller.
	invite := &entity.Invite{
		OrgID:     orgID,
		Email:     email,
		Role:      role,
		Token:     uuid.New().String(),
		Status:    entity.InvitePending,
		ExpiresAt: time.Now().Add(inviteTTL),
	}

	if err := uc.orgRepo.CreateInvite(invite); err != nil {
		uc.logger.Error("Failed to create invite: %v", err)
		return nil, fmt.Errorf("failed to create invite")
	}

	return invite, nil
}

func (uc *teamUseCase) ListInvites(orgID string) ([]*entity.Invite, error) {
	return uc.orgRepo.ListInvites(orgID)
}

func (uc *teamUseCase) AcceptInvite(token, userID string) (*entity.Member, error) {
	invite, err := uc.orgRepo.GetInviteByToken(token)
	if err != nil {
		return nil, fmt.Errorf("invite not found")
	}

	if invite.Status != entity.InvitePending {
		return nil, fmt.Errorf("invite is no longer valid")
	}
	if time.Now().After(invite.ExpiresAt) {
		return nil, fmt.Errorf("invite has expired")
	}

	_, err = uc.orgRepo.GetMember(invite.OrgID, userID)
	if err == nil {
		return nil, fmt.Errorf("already a member of this organization")
	}

	org, err := uc.orgRepo.GetOrganizationByID(invite.OrgID)
	if err != nil {
		return nil, fmt.Errorf("organization not found")
	}

	if org.PlanID != "" {
		plan, err := uc.orgRepo.GetPlanByID(org.PlanID)
		if err == nil && plan.MaxMembers > 0 {
			count, err := uc.orgRepo.CountMembers(invite.OrgID)
			if err == nil && count >= int64(plan.MaxMembers) {
				return nil, fmt.Errorf("organization member limit reached")
			}
		}
	}

	member := &entity.Member{
		OrgID:  invite.OrgID,
		UserID: userID,
		Role:   invite.Role,
	}
	if err := uc.orgRepo.CreateMember(member); err != nil {
		uc.logger.Error("Failed to create member: %v", err)
		return nil, fmt.Errorf("failed to join organization")
	}

	invite.Status = entity.InviteAccepted
	if err := uc.orgRepo.UpdateInvite(invite); err != nil {
		uc.logger.Error("Failed to mark invite accepted: %v", err)
	}

	return member, nil
}

func (uc *teamUseCase) RevokeInvite(orgID, inviteID string) error {
	invite, err := uc.orgRepo.GetInviteByID(inviteID)
	if err != nil || invite.OrgID != orgID {
		return fmt.Errorf("invite not found")
	}

	if invite.Status != entity.InvitePending {
		return fmt.Errorf("only pending invites can be revoked")
	}

	invite.Status = entity.InviteRevoked
	if err := uc.orgRepo.UpdateInvite(invite); err != nil {
		uc.logger.Error("Failed to revoke invite: %v", err)
		return fmt.Errorf("failed to revoke invite")
	}
	return nil
}

func (uc *teamUseCase) TransferOwnership(orgID, currentUserID, newOwnerID string) error {
	org, err := uc.orgRepo.GetOrganizationByID(orgID)
	if err != nil {
		return fmt.Errorf("organization not found")
	}
	if org.OwnerID != currentUserID {
		return fmt.Errorf("only the organization owner can transfer ownership")
	}
	if newOwnerID == currentUserID {
		return fmt.Errorf("new owner is already the owner")
	}

	_, err = uc.orgRepo.GetMember(orgID, newOwnerID)
	if err != nil {
		return fmt.Errorf("new owner must be an organization member")
	}

	if err := uc.orgRepo.TransferOwnership(orgID, currentUserID, newOwnerID); err != nil {
		uc.logger.Error("Failed to transfer ownership: %v", err)
		return fmt.Errorf("failed to transfer ownership")
	}
	return nil
}

package usecase

import (
	"errors"
	"testing"
	"time"

	"postdeck/pkg/logger"
	"postdeck/pkg/roles"
	"postdeck/services/team/internal/entity"
	"postdeck/services/team/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrganizationRepository is a mock implementation of OrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) CreateOrganization(org *entity.Organization, ownerRole string) error {
	args := m.Called(org, ownerRole)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetOrganizationByID(id string) (*entity.Organization, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) GetOrganizationBySlug(slug string) (*entity.Organization, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListOrganizationsForUser(userID string) ([]*entity.Organization, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) UpdateOrganization(org *entity.Organization) error {
	args := m.Called(org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) TransferOwnership(orgID, oldOwnerID, newOwnerID string) error {
	args := m.Called(orgID, oldOwnerID, newOwnerID)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetMember(orgID, userID string) (*entity.Member, error) {
	args := m.Called(orgID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Member), args.Error(1)
}

func (m *MockOrganizationRepository) ListMembers(orgID string) ([]*entity.Member, error) {
	args := m.Called(orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Member), args.Error(1)
}

func (m *MockOrganizationRepository) CreateMember(member *entity.Member) error {
	args := m.Called(member)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateMemberRole(orgID, userID, role string) error {
	args := m.Called(orgID, userID, role)
	return args.Error(0)
}

func (m *MockOrganizationRepository) DeleteMember(orgID, userID string) error {
	args := m.Called(orgID, userID)
	return args.Error(0)
}

func (m *MockOrganizationRepository) CountMembers(orgID string) (int64, error) {
	args := m.Called(orgID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrganizationRepository) CreateInvite(invite *entity.Invite) error {
	args := m.Called(invite)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetInviteByID(id string) (*entity.Invite, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Invite), args.Error(1)
}

func (m *MockOrganizationRepository) GetInviteByToken(token string) (*entity.Invite, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Invite), args.Error(1)
}

func (m *MockOrganizationRepository) ListInvites(orgID string) ([]*entity.Invite, error) {
	args := m.Called(orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Invite), args.Error(1)
}

func (m *MockOrganizationRepository) UpdateInvite(invite *entity.Invite) error {
	args := m.Called(invite)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetPlanByID(id string) (*entity.Plan, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Plan), args.Error(1)
}

func (m *MockOrganizationRepository) EffectiveRole(orgID, userID string) (roles.Role, error) {
	args := m.Called(orgID, userID)
	return args.Get(0).(roles.Role), args.Error(1)
}

var _ persistent.OrganizationRepository = (*MockOrganizationRepository)(nil)

func TestCreateOrganization_Success(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	mockRepo.On("GetOrganizationBySlug", "acme").Return(nil, errors.New("record not found"))
	mockRepo.On("CreateOrganization", mock.AnythingOfType("*entity.Organization"), "owner").Return(nil)

	org, err := uc.CreateOrganization("user-1", "Acme Inc", "acme")

	assert.NoError(t, err)
	assert.Equal(t, "user-1", org.OwnerID)
	assert.Equal(t, entity.SubscriptionTrialing, org.SubscriptionStatus)

	mockRepo.AssertExpectations(t)
}

func TestCreateOrganization_SlugTaken(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	existing := &entity.Organization{ID: "org-1", Slug: "acme"}
	mockRepo.On("GetOrganizationBySlug", "acme").Return(existing, nil)

	org, err := uc.CreateOrganization("user-1", "Acme Inc", "acme")

	assert.Nil(t, org)
	assert.EqualError(t, err, "organization slug already taken")

	mockRepo.AssertExpectations(t)
}

func TestUpdateMemberRole_InvalidRole(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	err := uc.UpdateMemberRole("org-1", "user-2", "superuser")

	assert.EqualError(t, err, "invalid role")
	mockRepo.AssertNotCalled(t, "UpdateMemberRole")
}

func TestUpdateMemberRole_OwnerRoleNotAssignable(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	err := uc.UpdateMemberRole("org-1", "user-2", "owner")

	assert.EqualError(t, err, "use ownership transfer to assign the owner role")
	mockRepo.AssertNotCalled(t, "UpdateMemberRole")
}

func TestUpdateMemberRole_CannotChangeOwner(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	org := &entity.Organization{ID: "org-1", OwnerID: "owner-1"}
	mockRepo.On("GetOrganizationByID", "org-1").Return(org, nil)

	err := uc.UpdateMemberRole("org-1", "owner-1", "viewer")

	assert.EqualError(t, err, "cannot change the organization owner's role")
	mockRepo.AssertNotCalled(t, "UpdateMemberRole")
}

func TestUpdateMemberRole_Success(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	org := &entity.Organization{ID: "org-1", OwnerID: "owner-1"}
	mockRepo.On("GetOrganizationByID", "org-1").Return(org, nil)
	mockRepo.On("UpdateMemberRole", "org-1", "user-2", "editor").Return(nil)

	err := uc.UpdateMemberRole("org-1", "user-2", "editor")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRemoveMember_CannotRemoveOwner(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	org := &entity.Organization{ID: "org-1", OwnerID: "owner-1"}
	mockRepo.On("GetOrganizationByID", "org-1").Return(org, nil)

	err := uc.RemoveMember("org-1", "owner-1")

	assert.EqualError(t, err, "cannot remove the organization owner")
	mockRepo.AssertNotCalled(t, "DeleteMember")
}

func TestCreateInvite_ReturnsToken(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	mockRepo.On("CreateInvite", mock.AnythingOfType("*entity.Invite")).Return(nil)

	invite, err := uc.CreateInvite("org-1", "new@example.com", "editor")

	assert.NoError(t, err)
	assert.NotEmpty(t, invite.Token)
	assert.Equal(t, entity.InvitePending, invite.Status)
	assert.True(t, invite.ExpiresAt.After(time.Now()))

	mockRepo.AssertExpectations(t)
}

func TestCreateInvite_OwnerRoleRejected(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	invite, err := uc.CreateInvite("org-1", "new@example.com", "owner")

	assert.Nil(t, invite)
	assert.EqualError(t, err, "cannot invite as owner")
	mockRepo.AssertNotCalled(t, "CreateInvite")
}

func TestAcceptInvite_Success(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	invite := &entity.Invite{
		ID:        "inv-1",
		OrgID:     "org-1",
		Role:      "editor",
		Token:     "tok-1",
		Status:    entity.InvitePending,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	org := &entity.Organization{ID: "org-1", OwnerID: "owner-1", PlanID: "plan-1"}
	plan := &entity.Plan{ID: "plan-1", MaxMembers: 10}

	mockRepo.On("GetInviteByToken", "tok-1").Return(invite, nil)
	mockRepo.On("GetMember", "org-1", "user-2").Return(nil, errors.New("record not found"))
	mockRepo.On("GetOrganizationByID", "org-1").Return(org, nil)
	mockRepo.On("GetPlanByID", "plan-1").Return(plan, nil)
	mockRepo.On("CountMembers", "org-1").Return(int64(3), nil)
	mockRepo.On("CreateMember", mock.AnythingOfType("*entity.Member")).Return(nil)
	mockRepo.On("UpdateInvite", mock.AnythingOfType("*entity.Invite")).Return(nil)

	member, err := uc.AcceptInvite("tok-1", "user-2")

	assert.NoError(t, err)
	assert.Equal(t, "org-1", member.OrgID)
	assert.Equal(t, "editor", member.Role)
	assert.Equal(t, entity.InviteAccepted, invite.Status)

	mockRepo.AssertExpectations(t)
}

func TestAcceptInvite_Expired(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	invite := &entity.Invite{
		ID:        "inv-1",
		OrgID:     "org-1",
		Token:     "tok-1",
		Status:    entity.InvitePending,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	mockRepo.On("GetInviteByToken", "tok-1").Return(invite, nil)

	member, err := uc.AcceptInvite("tok-1", "user-2")

	assert.Nil(t, member)
	assert.EqualError(t, err, "invite has expired")
	mockRepo.AssertNotCalled(t, "CreateMember")
}

func TestAcceptInvite_AlreadyMember(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	invite := &entity.Invite{
		ID:        "inv-1",
		OrgID:     "org-1",
		Token:     "tok-1",
		Status:    entity.InvitePending,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	existing := &entity.Member{ID: "m-1", OrgID: "org-1", UserID: "user-2"}
	mockRepo.On("GetInviteByToken", "tok-1").Return(invite, nil)
	mockRepo.On("GetMember", "org-1", "user-2").Return(existing, nil)

	member, err := uc.AcceptInvite("tok-1", "user-2")

	assert.Nil(t, member)
	assert.EqualError(t, err, "already a member of this organization")
	mockRepo.AssertNotCalled(t, "CreateMember")
}

func TestAcceptInvite_RevokedInvite(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	invite := &entity.Invite{
		ID:        "inv-1",
		OrgID:     "org-1",
		Token:     "tok-1",
		Status:    entity.InviteRevoked,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	mockRepo.On("GetInviteByToken", "tok-1").Return(invite, nil)

	member, err := uc.AcceptInvite("tok-1", "user-2")

	assert.Nil(t, member)
	assert.EqualError(t, err, "invite is no longer valid")
	mockRepo.AssertNotCalled(t, "CreateMember")
}

func TestAcceptInvite_MemberLimitReached(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	invite := &entity.Invite{
		ID:        "inv-1",
		OrgID:     "org-1",
		Role:      "viewer",
		Token:     "tok-1",
		Status:    entity.InvitePending,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	org := &entity.Organization{ID: "org-1", OwnerID: "owner-1", PlanID: "plan-1"}
	plan := &entity.Plan{ID: "plan-1", MaxMembers: 3}

	mockRepo.On("GetInviteByToken", "tok-1").Return(invite, nil)
	mockRepo.On("GetMember", "org-1", "user-2").Return(nil, errors.New("record not found"))
	mockRepo.On("GetOrganizationByID", "org-1").Return(org, nil)
	mockRepo.On("GetPlanByID", "plan-1").Return(plan, nil)
	mockRepo.On("CountMembers", "org-1").Return(int64(3), nil)

	member, err := uc.AcceptInvite("tok-1", "user-2")

	assert.Nil(t, member)
	assert.EqualError(t, err, "organization member limit reached")
	mockRepo.AssertNotCalled(t, "CreateMember")
}

func TestRevokeInvite_WrongOrganization(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	invite := &entity.Invite{ID: "inv-1", OrgID: "org-other", Status: entity.InvitePending}
	mockRepo.On("GetInviteByID", "inv-1").Return(invite, nil)

	err := uc.RevokeInvite("org-1", "inv-1")

	assert.EqualError(t, err, "invite not found")
	mockRepo.AssertNotCalled(t, "UpdateInvite")
}

func TestTransferOwnership_NotOwner(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	org := &entity.Organization{ID: "org-1", OwnerID: "owner-1"}
	mockRepo.On("GetOrganizationByID", "org-1").Return(org, nil)

	err := uc.TransferOwnership("org-1", "user-2", "user-3")

	assert.EqualError(t, err, "only the organization owner can transfer ownership")
	mockRepo.AssertNotCalled(t, "TransferOwnership")
}

func TestTransferOwnership_TargetNotMember(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	org := &entity.Organization{ID: "org-1", OwnerID: "owner-1"}
	mockRepo.On("GetOrganizationByID", "org-1").Return(org, nil)
	mockRepo.On("GetMember", "org-1", "user-3").Return(nil, errors.New("record not found"))

	err := uc.TransferOwnership("org-1", "owner-1", "user-3")

	assert.EqualError(t, err, "new owner must be an organization member")
	mockRepo.AssertNotCalled(t, "TransferOwnership")
}

func TestTransferOwnership_Success(t *testing.T) {
	mockRepo := new(MockOrganizationRepository)
	uc := NewTeamUseCase(mockRepo, logger.New())

	org := &entity.Organization{ID: "org-1", OwnerID: "owner-1"}
	member := &entity.Member{ID: "m-2", OrgID: "org-1", UserID: "user-3", Role: "admin"}
	mockRepo.On("GetOrganizationByID", "org-1").Return(org, nil)
	mockRepo.On("GetMember", "org-1", "user-3").Return(member, nil)
	mockRepo.On("TransferOwnership", "org-1", "owner-1", "user-3").Return(nil)

	err := uc.TransferOwnership("org-1", "owner-1", "user-3")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

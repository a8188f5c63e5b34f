package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"postdeck/pkg/logger"
	"postdeck/pkg/roles"
	"postdeck/services/crm/internal/connector"
	"postdeck/services/crm/internal/entity"
	"postdeck/services/crm/internal/repo/persistent"
)

type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) CreateConnection(conn *entity.CRMConnection) error {
	args := m.Called(conn)
	return args.Error(0)
}

func (m *MockConnectionRepository) GetConnectionByID(id string) (*entity.CRMConnection, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CRMConnection), args.Error(1)
}

func (m *MockConnectionRepository) ListConnectionsByOrg(orgID string) ([]*entity.CRMConnection, error) {
	args := m.Called(orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CRMConnection), args.Error(1)
}

func (m *MockConnectionRepository) UpdateConnection(id string, updates map[string]interface{}) error {
	args := m.Called(id, updates)
	return args.Error(0)
}

func (m *MockConnectionRepository) DeleteConnection(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockConnectionRepository) MarkSynced(id string, syncedAt time.Time) error {
	args := m.Called(id, syncedAt)
	return args.Error(0)
}

func (m *MockConnectionRepository) MarkError(id string, message string) error {
	args := m.Called(id, message)
	return args.Error(0)
}

func (m *MockConnectionRepository) EffectiveRole(orgID, userID string) (roles.Role, error) {
	args := m.Called(orgID, userID)
	return args.Get(0).(roles.Role), args.Error(1)
}

var _ persistent.ConnectionRepository = (*MockConnectionRepository)(nil)

type MockConnector struct {
	mock.Mock
	provider string
}

func (m *MockConnector) Provider() string {
	return m.provider
}

func (m *MockConnector) FetchContacts(ctx context.Context) ([]entity.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Contact), args.Error(1)
}

func (m *MockConnector) PushContact(ctx context.Context, contact entity.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

var _ connector.Connector = (*MockConnector)(nil)

// MockDialer hands out a fixed connector per provider name.
type MockDialer struct {
	mock.Mock
	connectors map[string]*MockConnector
}

func (m *MockDialer) Dial(conn *entity.CRMConnection) connector.Connector {
	m.Called(conn)
	return m.connectors[conn.Provider]
}

var _ connector.Dialer = (*MockDialer)(nil)

func newTestUseCase(repo *MockConnectionRepository, dialer *MockDialer) *crmUseCase {
	uc := NewCRMUseCase(repo, dialer, logger.New()).(*crmUseCase)
	uc.now = func() time.Time { return time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC) }
	return uc
}

func activeConn(id, provider string) *entity.CRMConnection {
	return &entity.CRMConnection{
		ID:        id,
		OrgID:     "org-1",
		Provider:  provider,
		BaseURL:   "https://" + provider + ".example.com/api",
		SecretRef: "CRM_SECRET_" + provider,
		Status:    entity.ConnectionActive,
	}
}

func TestSyncContacts_OneFailureDoesNotBlockOthers(t *testing.T) {
	hubspot := activeConn("c-1", "hubspot")
	pipedrive := activeConn("c-2", "pipedrive")

	repo := new(MockConnectionRepository)
	repo.On("ListConnectionsByOrg", "org-1").Return([]*entity.CRMConnection{hubspot, pipedrive}, nil)
	repo.On("MarkError", "c-1", mock.Anything).Return(nil)
	repo.On("MarkSynced", "c-2", mock.Anything).Return(nil)

	hubspotConn := &MockConnector{provider: "hubspot"}
	hubspotConn.On("FetchContacts", mock.Anything).Return(nil, errors.New("hubspot API error (503)"))
	pipedriveConn := &MockConnector{provider: "pipedrive"}
	pipedriveConn.On("FetchContacts", mock.Anything).Return([]entity.Contact{
		{ExternalID: "p-1", Email: "ada@example.com", Name: "Ada"},
		{ExternalID: "p-2", Email: "grace@example.com", Name: "Grace"},
	}, nil)

	dialer := &MockDialer{connectors: map[string]*MockConnector{
		"hubspot":   hubspotConn,
		"pipedrive": pipedriveConn,
	}}
	dialer.On("Dial", mock.Anything).Return()

	uc := newTestUseCase(repo, dialer)
	result, err := uc.SyncContacts(context.Background(), "org-1")

	assert.NoError(t, err)
	assert.Len(t, result.Contacts["pipedrive"], 2)
	assert.NotNil(t, result.Contacts["hubspot"])
	assert.Empty(t, result.Contacts["hubspot"])
	assert.Equal(t, "hubspot API error (503)", result.Errors["hubspot"])
	assert.NotContains(t, result.Errors, "pipedrive")
	assert.Equal(t, 1, result.Synced)
	repo.AssertExpectations(t)
}

func TestSyncContacts_SkipsDisabledConnections(t *testing.T) {
	disabled := activeConn("c-1", "hubspot")
	disabled.Status = entity.ConnectionDisabled

	repo := new(MockConnectionRepository)
	repo.On("ListConnectionsByOrg", "org-1").Return([]*entity.CRMConnection{disabled}, nil)

	dialer := &MockDialer{connectors: map[string]*MockConnector{}}

	uc := newTestUseCase(repo, dialer)
	result, err := uc.SyncContacts(context.Background(), "org-1")

	assert.NoError(t, err)
	assert.Empty(t, result.Contacts)
	assert.Equal(t, 0, result.Synced)
	dialer.AssertNotCalled(t, "Dial", mock.Anything)
}

func TestSyncContacts_ErroredConnectionHealsOnSuccess(t *testing.T) {
	flaky := activeConn("c-1", "hubspot")
	flaky.Status = entity.ConnectionError
	flaky.LastError = "hubspot API error (503)"

	repo := new(MockConnectionRepository)
	repo.On("ListConnectionsByOrg", "org-1").Return([]*entity.CRMConnection{flaky}, nil)
	repo.On("MarkSynced", "c-1", time.Date(2025, 4, 2, 9, 30, 0, 0, time.UTC)).Return(nil)

	conn := &MockConnector{provider: "hubspot"}
	conn.On("FetchContacts", mock.Anything).Return([]entity.Contact{{ExternalID: "h-1", Email: "ada@example.com"}}, nil)

	dialer := &MockDialer{connectors: map[string]*MockConnector{"hubspot": conn}}
	dialer.On("Dial", mock.Anything).Return()

	uc := newTestUseCase(repo, dialer)
	result, err := uc.SyncContacts(context.Background(), "org-1")

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	repo.AssertExpectations(t)
}

func TestPushContact_CollectsPerProviderOutcomes(t *testing.T) {
	hubspot := activeConn("c-1", "hubspot")
	pipedrive := activeConn("c-2", "pipedrive")
	contact := entity.Contact{Email: "ada@example.com", Name: "Ada", Company: "Analytical Engines"}

	repo := new(MockConnectionRepository)
	repo.On("ListConnectionsByOrg", "org-1").Return([]*entity.CRMConnection{hubspot, pipedrive}, nil)

	hubspotConn := &MockConnector{provider: "hubspot"}
	hubspotConn.On("PushContact", mock.Anything, contact).Return(errors.New("credential CRM_SECRET_hubspot is not set"))
	pipedriveConn := &MockConnector{provider: "pipedrive"}
	pipedriveConn.On("PushContact", mock.Anything, contact).Return(nil)

	dialer := &MockDialer{connectors: map[string]*MockConnector{
		"hubspot":   hubspotConn,
		"pipedrive": pipedriveConn,
	}}
	dialer.On("Dial", mock.Anything).Return()

	uc := newTestUseCase(repo, dialer)
	result, err := uc.PushContact(context.Background(), "org-1", contact)

	assert.NoError(t, err)
	assert.Equal(t, []string{"pipedrive"}, result.Delivered)
	assert.Contains(t, result.Errors["hubspot"], "credential")
}

func TestCreateConnection_NormalizesProvider(t *testing.T) {
	repo := new(MockConnectionRepository)
	repo.On("ListConnectionsByOrg", "org-1").Return([]*entity.CRMConnection{}, nil)
	repo.On("CreateConnection", mock.MatchedBy(func(conn *entity.CRMConnection) bool {
		return conn.Provider == "hubspot" && conn.Status == entity.ConnectionActive
	})).Return(nil)

	uc := newTestUseCase(repo, &MockDialer{})
	conn, err := uc.CreateConnection("org-1", "  HubSpot ", "https://api.hubspot.example.com", "CRM_SECRET_HUBSPOT")

	assert.NoError(t, err)
	assert.Equal(t, "hubspot", conn.Provider)
	repo.AssertExpectations(t)
}

func TestCreateConnection_DuplicateProvider(t *testing.T) {
	repo := new(MockConnectionRepository)
	repo.On("ListConnectionsByOrg", "org-1").Return([]*entity.CRMConnection{activeConn("c-1", "hubspot")}, nil)

	uc := newTestUseCase(repo, &MockDialer{})
	_, err := uc.CreateConnection("org-1", "hubspot", "https://api.hubspot.example.com", "CRM_SECRET_HUBSPOT")

	assert.EqualError(t, err, "provider already connected")
	repo.AssertNotCalled(t, "CreateConnection", mock.Anything)
}

func TestCreateConnection_RejectsBadBaseURL(t *testing.T) {
	repo := new(MockConnectionRepository)

	uc := newTestUseCase(repo, &MockDialer{})
	_, err := uc.CreateConnection("org-1", "hubspot", "ftp://files.example.com", "CRM_SECRET_HUBSPOT")

	assert.EqualError(t, err, "invalid base URL")
	repo.AssertNotCalled(t, "ListConnectionsByOrg", mock.Anything)
}

func TestUpdateConnection_WrongOrgHidden(t *testing.T) {
	repo := new(MockConnectionRepository)
	repo.On("GetConnectionByID", "c-1").Return(activeConn("c-1", "hubspot"), nil)

	uc := newTestUseCase(repo, &MockDialer{})
	_, err := uc.UpdateConnection("org-2", "c-1", "", "", string(entity.ConnectionDisabled))

	assert.EqualError(t, err, "connection not found")
	repo.AssertNotCalled(t, "UpdateConnection", mock.Anything, mock.Anything)
}

func TestUpdateConnection_ErrorStatusNotSettable(t *testing.T) {
	repo := new(MockConnectionRepository)
	repo.On("GetConnectionByID", "c-1").Return(activeConn("c-1", "hubspot"), nil)

	uc := newTestUseCase(repo, &MockDialer{})
	_, err := uc.UpdateConnection("org-1", "c-1", "", "", "error")

	assert.EqualError(t, err, "invalid status")
}

func TestUpdateConnection_ReactivatingClearsLastError(t *testing.T) {
	stored := activeConn("c-1", "hubspot")
	stored.Status = entity.ConnectionError
	stored.LastError = "hubspot API error (503)"

	repo := new(MockConnectionRepository)
	repo.On("GetConnectionByID", "c-1").Return(stored, nil).Once()
	repo.On("UpdateConnection", "c-1", mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["status"] == "active" && updates["last_error"] == ""
	})).Return(nil)
	repo.On("GetConnectionByID", "c-1").Return(activeConn("c-1", "hubspot"), nil).Once()

	uc := newTestUseCase(repo, &MockDialer{})
	conn, err := uc.UpdateConnection("org-1", "c-1", "", "", "active")

	assert.NoError(t, err)
	assert.Equal(t, entity.ConnectionActive, conn.Status)
	repo.AssertExpectations(t)
}

func TestDeleteConnection_NotFound(t *testing.T) {
	repo := new(MockConnectionRepository)
	repo.On("GetConnectionByID", "missing").Return(nil, gorm.ErrRecordNotFound)

	uc := newTestUseCase(repo, &MockDialer{})
	err := uc.DeleteConnection("org-1", "missing")

	assert.EqualError(t, err, "connection not found")
}

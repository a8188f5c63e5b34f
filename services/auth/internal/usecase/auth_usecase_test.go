package usecase

import (
	"errors"
	"testing"

	"postdeck/pkg/jwt"
	"postdeck/pkg/logger"
	"postdeck/services/auth/internal/entity"
	"postdeck/services/auth/internal/repo/persistent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

var _ persistent.UserRepository = (*MockUserRepository)(nil)

func newTestUseCase(repo persistent.UserRepository) AuthUseCase {
	return NewAuthUseCase(repo, jwt.NewService("test-secret"), nil, logger.New())
}

func TestRegister_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo)

	mockRepo.On("GetByEmail", "new@example.com").Return(nil, errors.New("record not found"))
	mockRepo.On("GetByUsername", "newuser").Return(nil, errors.New("record not found"))
	mockRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(nil)

	user, token, err := uc.Register("new@example.com", "newuser", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, entity.RoleMember, user.Role)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.Password)

	mockRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo)

	existing := &entity.User{ID: "user-1", Email: "taken@example.com"}
	mockRepo.On("GetByEmail", "taken@example.com").Return(existing, nil)

	user, token, err := uc.Register("taken@example.com", "someone", "password123")

	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.EqualError(t, err, "user with this email already exists")

	mockRepo.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo)

	existing := &entity.User{ID: "user-1", Username: "taken"}
	mockRepo.On("GetByEmail", "new@example.com").Return(nil, errors.New("record not found"))
	mockRepo.On("GetByUsername", "taken").Return(existing, nil)

	user, token, err := uc.Register("new@example.com", "taken", "password123")

	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.EqualError(t, err, "username already taken")

	mockRepo.AssertExpectations(t)
}

func TestLogin_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	stored := &entity.User{
		ID:       "user-1",
		Email:    "user@example.com",
		Username: "user",
		Password: string(hashed),
		Role:     entity.RoleMember,
		IsActive: true,
	}
	mockRepo.On("GetByEmail", "user@example.com").Return(stored, nil)
	// The login time is persisted before the password hash is scrubbed.
	mockRepo.On("Update", mock.MatchedBy(func(u *entity.User) bool {
		return u.LastLoginAt != nil && u.Password != ""
	})).Return(nil)

	user, token, err := uc.Login("user@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user-1", user.ID)
	assert.Empty(t, user.Password)
	assert.NotNil(t, user.LastLoginAt)

	mockRepo.AssertExpectations(t)
}

func TestLogin_LoginTimeWriteFailureIsNonFatal(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	stored := &entity.User{
		ID:       "user-1",
		Email:    "user@example.com",
		Password: string(hashed),
		IsActive: true,
	}
	mockRepo.On("GetByEmail", "user@example.com").Return(stored, nil)
	mockRepo.On("Update", mock.Anything).Return(errors.New("connection reset"))

	user, token, err := uc.Login("user@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user-1", user.ID)

	mockRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	stored := &entity.User{
		ID:       "user-1",
		Email:    "user@example.com",
		Password: string(hashed),
		IsActive: true,
	}
	mockRepo.On("GetByEmail", "user@example.com").Return(stored, nil)

	user, token, err := uc.Login("user@example.com", "wrong-password")

	assert.Nil(t, user)
	assert.Empty(t, token)
	assert.EqualError(t, err, "invalid credentials")

	mockRepo.AssertExpectations(t)
}

func TestLogin_UnknownEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo)

	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, errors.New("record not found"))

	_, _, err := uc.Login("nobody@example.com", "password123")

	// Unknown email and wrong password produce the same error
	assert.EqualError(t, err, "invalid credentials")

	mockRepo.AssertExpectations(t)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	stored := &entity.User{
		ID:       "user-1",
		Email:    "user@example.com",
		Password: string(hashed),
		IsActive: false,
	}
	mockRepo.On("GetByEmail", "user@example.com").Return(stored, nil)

	_, _, err := uc.Login("user@example.com", "password123")

	assert.EqualError(t, err, "account is deactivated")

	mockRepo.AssertExpectations(t)
}

func TestGetUser_ScrubsPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo)

	stored := &entity.User{ID: "user-1", Email: "user@example.com", Password: "hash"}
	mockRepo.On("GetByID", "user-1").Return(stored, nil)

	user, err := uc.GetUser("user-1")

	assert.NoError(t, err)
	assert.Empty(t, user.Password)

	mockRepo.AssertExpectations(t)
}

func TestUpdateProfile_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo)

	stored := &entity.User{ID: "user-1", Username: "oldname", IsActive: true}
	mockRepo.On("GetByID", "user-1").Return(stored, nil)
	mockRepo.On("GetByUsername", "newname").Return(nil, errors.New("record not found"))
	mockRepo.On("Update", mock.AnythingOfType("*entity.User")).Return(nil)

	user, err := uc.UpdateProfile("user-1", "newname")

	assert.NoError(t, err)
	assert.Equal(t, "newname", user.Username)

	mockRepo.AssertExpectations(t)
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo)

	stored := &entity.User{ID: "user-1", Username: "oldname"}
	other := &entity.User{ID: "user-2", Username: "newname"}
	mockRepo.On("GetByID", "user-1").Return(stored, nil)
	mockRepo.On("GetByUsername", "newname").Return(other, nil)

	user, err := uc.UpdateProfile("user-1", "newname")

	assert.Nil(t, user)
	assert.EqualError(t, err, "username already taken")

	mockRepo.AssertExpectations(t)
}

func TestUpdateProfile_SameUsernameSkipsLookup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	uc := newTestUseCase(mockRepo)

	stored := &entity.User{ID: "user-1", Username: "samename"}
	mockRepo.On("GetByID", "user-1").Return(stored, nil)
	mockRepo.On("Update", mock.AnythingOfType("*entity.User")).Return(nil)

	user, err := uc.UpdateProfile("user-1", "samename")

	assert.NoError(t, err)
	assert.Equal(t, "samename", user.Username)

	mockRepo.AssertExpectations(t)
}

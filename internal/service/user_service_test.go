package service

import (
	"testing"

	"social-blog-backend/internal/errors"
	"social-blog-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(userID int, passwordHash string) error {
	args := m.Called(userID, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) CreatePasswordReset(reset *model.PasswordReset) error {
	args := m.Called(reset)
	return args.Error(0)
}

func (m *MockUserRepository) FindPasswordReset(token string) (*model.PasswordReset, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PasswordReset), args.Error(1)
}

func (m *MockUserRepository) DeletePasswordReset(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

// TestRegister 测试用户注册
func TestRegister(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo, nil)

	mockRepo.On("FindByUsername", "alice").Return(nil, nil)
	mockRepo.On("FindByEmail", "alice@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

	user := &model.User{Username: "alice", Email: "alice@example.com"}
	err := service.Register(user, "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "password123", user.PasswordHash)
	mockRepo.AssertExpectations(t)
}

// TestRegisterDuplicateUsername 用户名已存在时注册失败
func TestRegisterDuplicateUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo, nil)

	mockRepo.On("FindByUsername", "taken").Return(&model.User{ID: 1}, nil)

	err := service.Register(&model.User{Username: "taken", Email: "x@example.com"}, "pw")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserExists))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

// TestAuthenticate 正确密码通过，错误密码拒绝
func TestAuthenticate(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo, nil)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	mockRepo.On("FindByUsername", "bob").Return(&model.User{
		ID: 2, Username: "bob", PasswordHash: string(hash),
	}, nil)

	user, err := service.Authenticate("bob", "secret")
	assert.NoError(t, err)
	assert.Equal(t, 2, user.ID)

	_, err = service.Authenticate("bob", "wrong")
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

// TestAuthenticateUnknownUser 未知用户名不区分具体原因
func TestAuthenticateUnknownUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo, nil)

	mockRepo.On("FindByUsername", "ghost").Return(nil, nil)

	_, err := service.Authenticate("ghost", "whatever")
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

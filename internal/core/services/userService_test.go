package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id int64, lastLogin time.Time) error {
	args := m.Called(ctx, id, lastLogin)
	return args.Error(0)
}

// memoryCache is a map-backed stand-in for the redis adapter.
type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(key string) ([]byte, error) {
	data, ok := c.entries[key]
	if !ok {
		return nil, errors.New("cache miss")
	}
	return data, nil
}

func (c *memoryCache) Set(key string, value []byte, expiration time.Duration) error {
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(key string) error {
	delete(c.entries, key)
	return nil
}

func newTestUserService(repo *MockUserRepository) *UserService {
	return NewUserService(repo, noopLogger{}, validator.New(), newMemoryCache())
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("should register a user and hash the password", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestUserService(repo)

		user := &domain.User{
			PhoneNumber: "+919876543210",
			FirstName:   "Asha",
			LastName:    "Rao",
			IsActive:    true,
		}
		repo.On("GetUserByPhoneNumber", ctx, user.PhoneNumber).Return(nil, domain.ErrUserNotFound).Once()
		repo.On("CreateUser", ctx, user).Return(user, nil).Once()

		created, err := service.Register(ctx, user, "s3cret-pass")

		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("s3cret-pass")))
		repo.AssertExpectations(t)
	})

	t.Run("should reject a malformed phone number", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestUserService(repo)

		user := &domain.User{
			PhoneNumber: "not-a-phone",
			FirstName:   "Asha",
			LastName:    "Rao",
		}

		created, err := service.Register(ctx, user, "s3cret-pass")

		assert.Nil(t, created)
		assert.ErrorIs(t, err, domain.ErrInvalidPhoneNumber)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("should reject an already registered phone number", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestUserService(repo)

		user := &domain.User{
			PhoneNumber: "+919876543210",
			FirstName:   "Asha",
			LastName:    "Rao",
		}
		repo.On("GetUserByPhoneNumber", ctx, user.PhoneNumber).Return(&domain.User{ID: 2}, nil).Once()

		created, err := service.Register(ctx, user, "s3cret-pass")

		assert.Nil(t, created)
		assert.ErrorIs(t, err, domain.ErrPhoneNumberExists)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("should reject an already registered email", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestUserService(repo)

		email := "asha@example.com"
		user := &domain.User{
			PhoneNumber: "+919876543210",
			FirstName:   "Asha",
			LastName:    "Rao",
			Email:       &email,
		}
		repo.On("GetUserByPhoneNumber", ctx, user.PhoneNumber).Return(nil, domain.ErrUserNotFound).Once()
		repo.On("GetUserByEmail", ctx, email).Return(&domain.User{ID: 2}, nil).Once()

		created, err := service.Register(ctx, user, "s3cret-pass")

		assert.Nil(t, created)
		assert.ErrorIs(t, err, domain.ErrEmailExists)
	})
}

func TestUserService_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("should authenticate with correct credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestUserService(repo)

		user := &domain.User{
			ID:           1,
			PhoneNumber:  "+919876543210",
			PasswordHash: hashPassword(t, "s3cret-pass"),
			FirstName:    "Asha",
			LastName:     "Rao",
			IsActive:     true,
		}
		repo.On("GetUserByPhoneNumber", ctx, user.PhoneNumber).Return(user, nil).Once()
		repo.On("UpdateLastLogin", ctx, user.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

		authed, err := service.Authenticate(ctx, user.PhoneNumber, "s3cret-pass")

		assert.NoError(t, err)
		assert.Equal(t, user.ID, authed.ID)
		assert.NotNil(t, authed.LastLogin)
		repo.AssertExpectations(t)
	})

	t.Run("should reject a wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestUserService(repo)

		user := &domain.User{
			ID:           1,
			PhoneNumber:  "+919876543210",
			PasswordHash: hashPassword(t, "s3cret-pass"),
			IsActive:     true,
		}
		repo.On("GetUserByPhoneNumber", ctx, user.PhoneNumber).Return(user, nil).Once()

		authed, err := service.Authenticate(ctx, user.PhoneNumber, "wrong-pass")

		assert.Nil(t, authed)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("should not reveal whether the account exists", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestUserService(repo)

		repo.On("GetUserByPhoneNumber", ctx, "+910000000000").Return(nil, domain.ErrUserNotFound).Once()

		authed, err := service.Authenticate(ctx, "+910000000000", "whatever")

		assert.Nil(t, authed)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("should reject a disabled account", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestUserService(repo)

		user := &domain.User{
			ID:           1,
			PhoneNumber:  "+919876543210",
			PasswordHash: hashPassword(t, "s3cret-pass"),
			IsActive:     false,
		}
		repo.On("GetUserByPhoneNumber", ctx, user.PhoneNumber).Return(user, nil).Once()

		authed, err := service.Authenticate(ctx, user.PhoneNumber, "s3cret-pass")

		assert.Nil(t, authed)
		assert.ErrorIs(t, err, domain.ErrUserDisabled)
	})
}

func TestUserService_GetUserByID(t *testing.T) {
	ctx := context.Background()

	t.Run("should serve repeated lookups from cache", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestUserService(repo)

		user := &domain.User{ID: 1, PhoneNumber: "+919876543210", FirstName: "Asha", LastName: "Rao"}
		repo.On("GetUserByID", ctx, int64(1)).Return(user, nil).Once()

		first, err := service.GetUserByID(ctx, 1)
		assert.NoError(t, err)

		second, err := service.GetUserByID(ctx, 1)
		assert.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		repo.AssertExpectations(t)
	})

	t.Run("should propagate not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestUserService(repo)

		repo.On("GetUserByID", ctx, int64(99)).Return(nil, domain.ErrUserNotFound).Once()

		user, err := service.GetUserByID(ctx, 99)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("should change the password when the old one matches", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestUserService(repo)

		user := &domain.User{ID: 1, PasswordHash: hashPassword(t, "old-pass")}
		repo.On("GetUserByID", ctx, int64(1)).Return(user, nil).Once()
		repo.On("UpdatePassword", ctx, int64(1), mock.AnythingOfType("string")).Return(nil).Once()

		err := service.ChangePassword(ctx, 1, "old-pass", "new-pass-123")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("should reject a wrong old password", func(t *testing.T) {
		repo := new(MockUserRepository)
		service := newTestUserService(repo)

		user := &domain.User{ID: 1, PasswordHash: hashPassword(t, "old-pass")}
		repo.On("GetUserByID", ctx, int64(1)).Return(user, nil).Once()

		err := service.ChangePassword(ctx, 1, "wrong-pass", "new-pass-123")

		assert.ErrorIs(t, err, domain.ErrInvalidOldPassword)
		repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})
}

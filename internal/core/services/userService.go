package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/kpa-erp/kpa_forms_microservice/internal/core/domain"
	"github.com/kpa-erp/kpa_forms_microservice/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Phone numbers are the login identifier: optional +, 9-15 digits.
var phoneNumberRx = regexp.MustCompile(`^\+?1?\d{9,15}$`)

const userCacheTTL = 15 * time.Minute

type UserService struct {
	userRepo ports.UserRepository
	logger   ports.LoggerPort
	validate *validator.Validate
	cache    ports.CachePort
}

func NewUserService(
	userRepo ports.UserRepository,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
		validate: validate,
		cache:    cache,
	}
}

func (s *UserService) Register(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	if !phoneNumberRx.MatchString(user.PhoneNumber) {
		return nil, domain.ErrInvalidPhoneNumber
	}

	if err := s.validate.Struct(user); err != nil {
		s.logger.Error("User validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if _, err := s.userRepo.GetUserByPhoneNumber(ctx, user.PhoneNumber); err == nil {
		return nil, domain.ErrPhoneNumberExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if user.Email != nil && *user.Email != "" {
		if _, err := s.userRepo.GetUserByEmail(ctx, *user.Email); err == nil {
			return nil, domain.ErrEmailExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	createdUser, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error":        err.Error(),
			"phone_number": user.PhoneNumber,
		})
		return nil, err
	}

	s.logger.Info("User registered successfully", map[string]interface{}{
		"user_id":      createdUser.ID,
		"phone_number": createdUser.PhoneNumber,
	})

	return createdUser, nil
}

func (s *UserService) Authenticate(ctx context.Context, phoneNumber, password string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Failed login attempt", map[string]interface{}{
			"phone_number": phoneNumber,
		})
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrUserDisabled
	}

	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("Failed to update last login", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID,
		})
	} else {
		user.LastLogin = &now
	}

	return user, nil
}

// GetUserByID resolves a user identity, serving repeated lookups from cache.
// The forms handlers use it to validate submitter/inspector references.
func (s *UserService) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	cacheKey := fmt.Sprintf("user:%d", userID)
	cachedData, err := s.cache.Get(cacheKey)
	if err == nil {
		var cachedUser domain.User
		if err := json.Unmarshal(cachedData, &cachedUser); err == nil {
			return &cachedUser, nil
		}
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	userData, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn("Failed to marshal user for cache", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
	} else {
		if err := s.cache.Set(cacheKey, userData, userCacheTTL); err != nil {
			s.logger.Warn("Failed to cache user", map[string]interface{}{
				"error":   err.Error(),
				"user_id": userID,
			})
		}
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return users, nil
}

func (s *UserService) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := s.validate.Struct(user); err != nil {
		s.logger.Error("User validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}

	updatedUser, err := s.userRepo.UpdateUser(ctx, user)
	if err != nil {
		s.logger.Error("Failed to update user", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID,
		})
		return nil, err
	}

	s.invalidateUserCache(user.ID)

	s.logger.Info("User updated successfully", map[string]interface{}{
		"user_id": user.ID,
	})

	return updatedUser, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.ErrInvalidOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		s.logger.Error("Failed to change password", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
		return err
	}

	s.invalidateUserCache(userID)

	s.logger.Info("Password changed successfully", map[string]interface{}{
		"user_id": userID,
	})

	return nil
}

func (s *UserService) invalidateUserCache(userID int64) {
	cacheKey := fmt.Sprintf("user:%d", userID)
	if err := s.cache.Delete(cacheKey); err != nil {
		s.logger.Warn("Failed to invalidate user cache", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID,
		})
	}
}

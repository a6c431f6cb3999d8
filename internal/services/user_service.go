package services

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/pkg/storage"
)

// UserService handles business logic for the user profile.
type UserService struct {
	userRepo repositories.UserRepository
	storage  storage.ObjectStorage
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, store storage.ObjectStorage) *UserService {
	return &UserService{
		userRepo: userRepo,
		storage:  store,
	}
}

// UpdateAvatar uploads the avatar image to object storage and persists the
// resulting URL on the user.
func (s *UserService) UpdateAvatar(ctx context.Context, user *models.User, filename, contentType string, data []byte) (*models.User, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}

	key := fmt.Sprintf("avatars/%s%s", uuid.New().String(), path.Ext(filename))
	url, err := s.storage.Put(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	updated, err := s.userRepo.UpdateAvatar(user.Email, url)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}

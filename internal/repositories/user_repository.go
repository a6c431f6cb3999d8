package repositories

import "contactbook/internal/models"

// UserRepository defines the interface for user data access.
// Lookup methods return (nil, nil) when no user matches; errors are
// reserved for unexpected database failures.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	ConfirmEmail(email string) error
	UpdatePassword(email, hashedPassword string) error
	UpdateAvatar(email, avatarURL string) (*models.User, error)
}

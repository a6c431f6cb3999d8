package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"contactbook/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a new user.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by primary key.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	return r.firstUser("id = ?", id)
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.firstUser("username = ?", username)
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.firstUser("email = ?", email)
}

func (r *GORMUserRepository) firstUser(query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// ConfirmEmail flips the confirmed flag for the user with the given email.
func (r *GORMUserRepository) ConfirmEmail(email string) error {
	res := r.db.Model(&models.User{}).Where("email = ?", email).Update("confirmed", true)
	if res.Error != nil {
		return fmt.Errorf("failed to confirm email %s: %w", email, res.Error)
	}
	return nil
}

// UpdatePassword overwrites the stored password hash for the given email.
func (r *GORMUserRepository) UpdatePassword(email, hashedPassword string) error {
	res := r.db.Model(&models.User{}).Where("email = ?", email).Update("hashed_password", hashedPassword)
	if res.Error != nil {
		return fmt.Errorf("failed to update password for %s: %w", email, res.Error)
	}
	return nil
}

// UpdateAvatar stores a new avatar URL and returns the updated user.
func (r *GORMUserRepository) UpdateAvatar(email, avatarURL string) (*models.User, error) {
	res := r.db.Model(&models.User{}).Where("email = ?", email).Update("avatar", avatarURL)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update avatar for %s: %w", email, res.Error)
	}
	return r.GetByEmail(email)
}

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
)

func TestUserRepository_CreateAndLookups(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMUserRepository(db)

	user := &models.User{
		Username:       "agent007",
		Email:          "agent007@gmail.com",
		HashedPassword: "hashed",
		Role:           models.RoleUser,
	}
	assert.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)
	assert.False(t, user.Confirmed)

	byID, err := repo.GetByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "agent007", byID.Username)

	byUsername, err := repo.GetByUsername("agent007")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, byUsername.ID)

	byEmail, err := repo.GetByEmail("agent007@gmail.com")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	// Absence is (nil, nil), not an error.
	missing, err := repo.GetByUsername("nobody")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_ConfirmEmail(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMUserRepository(db)

	user := &models.User{Username: "agent007", Email: "agent007@gmail.com"}
	assert.NoError(t, repo.Create(user))

	assert.NoError(t, repo.ConfirmEmail("agent007@gmail.com"))

	confirmed, err := repo.GetByEmail("agent007@gmail.com")
	assert.NoError(t, err)
	assert.True(t, confirmed.Confirmed)
}

func TestUserRepository_UpdatePasswordAndAvatar(t *testing.T) {
	db := setupDB(t)
	repo := repositories.NewGORMUserRepository(db)

	user := &models.User{Username: "agent007", Email: "agent007@gmail.com", HashedPassword: "old"}
	assert.NoError(t, repo.Create(user))

	assert.NoError(t, repo.UpdatePassword("agent007@gmail.com", "new"))
	updated, err := repo.GetByEmail("agent007@gmail.com")
	assert.NoError(t, err)
	assert.Equal(t, "new", updated.HashedPassword)

	withAvatar, err := repo.UpdateAvatar("agent007@gmail.com", "https://example.com/avatar.png")
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/avatar.png", withAvatar.Avatar)
}

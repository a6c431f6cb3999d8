package services

import (
	"time"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
)

// ContactService delegates contact operations to the repository, always
// threading the authenticated user through so ownership scoping is
// enforced at the store layer.
type ContactService struct {
	repo repositories.ContactRepository
}

// NewContactService creates a new ContactService.
func NewContactService(repo repositories.ContactRepository) *ContactService {
	return &ContactService{
		repo: repo,
	}
}

// List retrieves a page of the user's contacts.
func (s *ContactService) List(user *models.User, skip, limit int) ([]models.Contact, error) {
	return s.repo.List(user.ID, skip, limit)
}

// Get retrieves one of the user's contacts, or (nil, nil) when absent.
func (s *ContactService) Get(user *models.User, contactID uint) (*models.Contact, error) {
	return s.repo.GetByID(user.ID, contactID)
}

// Create stores a new contact owned by the user.
func (s *ContactService) Create(user *models.User, contact *models.Contact) error {
	contact.UserID = user.ID
	return s.repo.Create(contact)
}

// Update applies a partial update to one of the user's contacts.
func (s *ContactService) Update(user *models.User, contactID uint, update *models.ContactUpdate) (*models.Contact, error) {
	return s.repo.Update(user.ID, contactID, update)
}

// UpdateStatus sets the done flag on one of the user's contacts.
func (s *ContactService) UpdateStatus(user *models.User, contactID uint, done bool) (*models.Contact, error) {
	return s.repo.UpdateStatus(user.ID, contactID, done)
}

// Delete removes one of the user's contacts, returning the removed record.
func (s *ContactService) Delete(user *models.User, contactID uint) (*models.Contact, error) {
	return s.repo.Delete(user.ID, contactID)
}

// Search retrieves the user's contacts matching the given filters.
func (s *ContactService) Search(user *models.User, filter repositories.SearchFilter) ([]models.Contact, error) {
	return s.repo.Search(user.ID, filter)
}

// UpcomingBirthdays retrieves the user's contacts with a birthday in the
// next 7 days.
func (s *ContactService) UpcomingBirthdays(user *models.User, now time.Time) ([]models.Contact, error) {
	return s.repo.UpcomingBirthdays(user.ID, now)
}

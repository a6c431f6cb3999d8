package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"contactbook/internal/models"
)

// GORMContactRepository is a GORM implementation of ContactRepository.
type GORMContactRepository struct {
	db *gorm.DB
}

// NewGORMContactRepository creates a new instance of GORMContactRepository.
func NewGORMContactRepository(db *gorm.DB) *GORMContactRepository {
	return &GORMContactRepository{
		db: db,
	}
}

func (r *GORMContactRepository) owned(userID uint) *gorm.DB {
	return r.db.Where("user_id = ?", userID)
}

// List retrieves a page of the user's contacts.
func (r *GORMContactRepository) List(userID uint, skip, limit int) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.owned(userID).Offset(skip).Limit(limit).Order("id").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

// GetByID retrieves one of the user's contacts by id.
func (r *GORMContactRepository) GetByID(userID, contactID uint) (*models.Contact, error) {
	var contact models.Contact
	if err := r.owned(userID).First(&contact, "id = ?", contactID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact %d: %w", contactID, err)
	}
	return &contact, nil
}

// Create inserts a new contact. The UserID field must already be set by
// the caller.
func (r *GORMContactRepository) Create(contact *models.Contact) error {
	if err := r.db.Create(contact).Error; err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// Update applies a partial update to one of the user's contacts. Unset
// fields are left untouched; the updated_at timestamp always refreshes.
func (r *GORMContactRepository) Update(userID, contactID uint, update *models.ContactUpdate) (*models.Contact, error) {
	contact, err := r.GetByID(userID, contactID)
	if err != nil || contact == nil {
		return nil, err
	}

	fields := update.Fields()
	if len(fields) > 0 {
		if err := r.db.Model(contact).Updates(fields).Error; err != nil {
			return nil, fmt.Errorf("failed to update contact %d: %w", contactID, err)
		}
	}
	return r.GetByID(userID, contactID)
}

// UpdateStatus sets the done flag of one of the user's contacts.
func (r *GORMContactRepository) UpdateStatus(userID, contactID uint, done bool) (*models.Contact, error) {
	contact, err := r.GetByID(userID, contactID)
	if err != nil || contact == nil {
		return nil, err
	}
	if err := r.db.Model(contact).Update("done", done).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact status %d: %w", contactID, err)
	}
	return r.GetByID(userID, contactID)
}

// Delete permanently removes one of the user's contacts, returning the
// removed record, or (nil, nil) when it did not exist.
func (r *GORMContactRepository) Delete(userID, contactID uint) (*models.Contact, error) {
	contact, err := r.GetByID(userID, contactID)
	if err != nil || contact == nil {
		return nil, err
	}
	if err := r.db.Delete(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to delete contact %d: %w", contactID, err)
	}
	return contact, nil
}

// Search retrieves the user's contacts matching every non-empty filter as
// a case-insensitive substring.
func (r *GORMContactRepository) Search(userID uint, filter SearchFilter) ([]models.Contact, error) {
	query := r.owned(userID)
	if filter.FirstName != "" {
		query = query.Where("LOWER(first_name) LIKE ?", "%"+strings.ToLower(filter.FirstName)+"%")
	}
	if filter.LastName != "" {
		query = query.Where("LOWER(last_name) LIKE ?", "%"+strings.ToLower(filter.LastName)+"%")
	}
	if filter.Email != "" {
		query = query.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(filter.Email)+"%")
	}

	var contacts []models.Contact
	if err := query.Order("id").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	return contacts, nil
}

// UpcomingBirthdays retrieves the user's contacts whose birthday (month and
// day, regardless of birth year) falls within the next 7 calendar days from
// now, inclusive. The window wraps year boundaries.
func (r *GORMContactRepository) UpcomingBirthdays(userID uint, now time.Time) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := r.owned(userID).Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to load contacts for birthday check: %w", err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	upcoming := make([]models.Contact, 0)
	for _, contact := range contacts {
		if contact.Birthday.IsZero() {
			continue
		}
		if birthdayWithinDays(contact.Birthday, today, 7) {
			upcoming = append(upcoming, contact)
		}
	}
	return upcoming, nil
}

// birthdayWithinDays reports whether the next occurrence of the birthday's
// month and day lands within [today, today+days].
func birthdayWithinDays(birthday, today time.Time, days int) bool {
	next := time.Date(today.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, today.Location())
	if next.Before(today) {
		next = time.Date(today.Year()+1, birthday.Month(), birthday.Day(), 0, 0, 0, 0, today.Location())
	}
	return !next.After(today.AddDate(0, 0, days))
}

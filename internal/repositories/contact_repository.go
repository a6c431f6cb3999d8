package repositories

import (
	"time"

	"contactbook/internal/models"
)

// SearchFilter holds the optional substring filters for contact search.
// Empty fields are ignored; the remaining filters are AND-combined.
type SearchFilter struct {
	FirstName string
	LastName  string
	Email     string
}

// ContactRepository defines the interface for contact data access.
// Every method is scoped to the owning user: a contact is invisible to
// any other user. Lookups return (nil, nil) when nothing matches.
type ContactRepository interface {
	List(userID uint, skip, limit int) ([]models.Contact, error)
	GetByID(userID, contactID uint) (*models.Contact, error)
	Create(contact *models.Contact) error
	Update(userID, contactID uint, update *models.ContactUpdate) (*models.Contact, error)
	UpdateStatus(userID, contactID uint, done bool) (*models.Contact, error)
	Delete(userID, contactID uint) (*models.Contact, error)
	Search(userID uint, filter SearchFilter) ([]models.Contact, error)
	UpcomingBirthdays(userID uint, now time.Time) ([]models.Contact, error)
}

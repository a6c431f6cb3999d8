package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
	"contactbook/internal/services"
)

// MockContactRepository is a mock implementation of repositories.ContactRepository.
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) List(userID uint, skip, limit int) ([]models.Contact, error) {
	args := m.Called(userID, skip, limit)
	return args.Get(0).([]models.Contact), args.Error(1)
}

func (m *MockContactRepository) GetByID(userID, contactID uint) (*models.Contact, error) {
	args := m.Called(userID, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contact), args.Error(1)
}

func (m *MockContactRepository) Create(contact *models.Contact) error {
	args := m.Called(contact)
	return args.Error(0)
}

func (m *MockContactRepository) Update(userID, contactID uint, update *models.ContactUpdate) (*models.Contact, error) {
	args := m.Called(userID, contactID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contact), args.Error(1)
}

func (m *MockContactRepository) UpdateStatus(userID, contactID uint, done bool) (*models.Contact, error) {
	args := m.Called(userID, contactID, done)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contact), args.Error(1)
}

func (m *MockContactRepository) Delete(userID, contactID uint) (*models.Contact, error) {
	args := m.Called(userID, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contact), args.Error(1)
}

func (m *MockContactRepository) Search(userID uint, filter repositories.SearchFilter) ([]models.Contact, error) {
	args := m.Called(userID, filter)
	return args.Get(0).([]models.Contact), args.Error(1)
}

func (m *MockContactRepository) UpcomingBirthdays(userID uint, now time.Time) ([]models.Contact, error) {
	args := m.Called(userID, now)
	return args.Get(0).([]models.Contact), args.Error(1)
}

func TestContactService_CreateBindsOwner(t *testing.T) {
	mockRepo := new(MockContactRepository)
	service := services.NewContactService(mockRepo)
	user := &models.User{ID: 42}

	mockRepo.On("Create", mock.MatchedBy(func(contact *models.Contact) bool {
		return contact.UserID == 42
	})).Return(nil).Once()

	contact := &models.Contact{FirstName: "James", LastName: "Bond"}
	err := service.Create(user, contact)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), contact.UserID)
	mockRepo.AssertExpectations(t)
}

func TestContactService_ThreadsUserThroughEveryCall(t *testing.T) {
	mockRepo := new(MockContactRepository)
	service := services.NewContactService(mockRepo)
	user := &models.User{ID: 7}
	expected := []models.Contact{{ID: 1, UserID: 7}}

	mockRepo.On("List", uint(7), 0, 100).Return(expected, nil).Once()
	contacts, err := service.List(user, 0, 100)
	assert.NoError(t, err)
	assert.Equal(t, expected, contacts)

	mockRepo.On("GetByID", uint(7), uint(1)).Return(&expected[0], nil).Once()
	contact, err := service.Get(user, 1)
	assert.NoError(t, err)
	assert.Equal(t, &expected[0], contact)

	filter := repositories.SearchFilter{FirstName: "ja"}
	mockRepo.On("Search", uint(7), filter).Return(expected, nil).Once()
	contacts, err = service.Search(user, filter)
	assert.NoError(t, err)
	assert.Equal(t, expected, contacts)

	now := time.Now()
	mockRepo.On("UpcomingBirthdays", uint(7), now).Return(expected, nil).Once()
	contacts, err = service.UpcomingBirthdays(user, now)
	assert.NoError(t, err)
	assert.Equal(t, expected, contacts)

	mockRepo.AssertExpectations(t)
}

func TestContactService_AbsenceIsNotAnError(t *testing.T) {
	mockRepo := new(MockContactRepository)
	service := services.NewContactService(mockRepo)
	user := &models.User{ID: 7}

	mockRepo.On("GetByID", uint(7), uint(99)).Return(nil, nil).Once()
	contact, err := service.Get(user, 99)
	assert.NoError(t, err)
	assert.Nil(t, contact)

	mockRepo.On("Delete", uint(7), uint(99)).Return(nil, nil).Once()
	contact, err = service.Delete(user, 99)
	assert.NoError(t, err)
	assert.Nil(t, contact)

	mockRepo.AssertExpectations(t)
}

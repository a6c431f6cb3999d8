package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"contactbook/internal/models"
	"contactbook/internal/repositories"
)

// setupDB opens a fresh in-memory SQLite database named after the test so
// state never leaks between tests.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.User{}, &models.Contact{}))
	return db
}

func seedUsers(t *testing.T, db *gorm.DB) (alice, bob *models.User) {
	t.Helper()
	alice = &models.User{Username: "alice", Email: "alice@example.com", Confirmed: true, Role: models.RoleUser}
	bob = &models.User{Username: "bob", Email: "bob@example.com", Confirmed: true, Role: models.RoleUser}
	assert.NoError(t, db.Create(alice).Error)
	assert.NoError(t, db.Create(bob).Error)
	return alice, bob
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestContactRepository_OwnershipIsolation(t *testing.T) {
	db := setupDB(t)
	alice, bob := seedUsers(t, db)
	repo := repositories.NewGORMContactRepository(db)

	contact := &models.Contact{
		FirstName: "James", LastName: "Bond", Email: "bond@mi6.gov",
		Phone: "007", Birthday: date(1953, time.April, 13), UserID: alice.ID,
	}
	assert.NoError(t, repo.Create(contact))

	// The owner sees the contact everywhere.
	got, err := repo.GetByID(alice.ID, contact.ID)
	assert.NoError(t, err)
	assert.NotNil(t, got)

	listed, err := repo.List(alice.ID, 0, 100)
	assert.NoError(t, err)
	assert.Len(t, listed, 1)

	// Another user sees nothing of it.
	got, err = repo.GetByID(bob.ID, contact.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)

	listed, err = repo.List(bob.ID, 0, 100)
	assert.NoError(t, err)
	assert.Empty(t, listed)

	found, err := repo.Search(bob.ID, repositories.SearchFilter{FirstName: "james"})
	assert.NoError(t, err)
	assert.Empty(t, found)

	// Nor can they update or delete it.
	deleted, err := repo.Delete(bob.ID, contact.ID)
	assert.NoError(t, err)
	assert.Nil(t, deleted)

	done := true
	updated, err := repo.UpdateStatus(bob.ID, contact.ID, done)
	assert.NoError(t, err)
	assert.Nil(t, updated)

	// The contact is still there for the owner.
	got, err = repo.GetByID(alice.ID, contact.ID)
	assert.NoError(t, err)
	assert.NotNil(t, got)
}

func TestContactRepository_RoundTrip(t *testing.T) {
	db := setupDB(t)
	alice, _ := seedUsers(t, db)
	repo := repositories.NewGORMContactRepository(db)

	contact := &models.Contact{
		FirstName: "Mary", LastName: "Poppins", Email: "mary@example.com",
		Phone: "+441234567", Birthday: date(1964, time.August, 27),
		AdditionalInfo: "umbrella", Done: false, UserID: alice.ID,
	}
	assert.NoError(t, repo.Create(contact))
	assert.NotZero(t, contact.ID)

	got, err := repo.GetByID(alice.ID, contact.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Mary", got.FirstName)
	assert.Equal(t, "Poppins", got.LastName)
	assert.Equal(t, "mary@example.com", got.Email)
	assert.Equal(t, "+441234567", got.Phone)
	assert.Equal(t, "umbrella", got.AdditionalInfo)
	assert.False(t, got.Done)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestContactRepository_PartialUpdate(t *testing.T) {
	db := setupDB(t)
	alice, _ := seedUsers(t, db)
	repo := repositories.NewGORMContactRepository(db)

	contact := &models.Contact{
		FirstName: "James", LastName: "Bond", Email: "bond@mi6.gov",
		Phone: "007", Birthday: date(1953, time.April, 13), UserID: alice.ID,
	}
	assert.NoError(t, repo.Create(contact))
	before, err := repo.GetByID(alice.ID, contact.ID)
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	phone := "008"
	updated, err := repo.Update(alice.ID, contact.ID, &models.ContactUpdate{Phone: &phone})
	assert.NoError(t, err)
	assert.NotNil(t, updated)

	// Only the phone changed; everything else is untouched.
	assert.Equal(t, "008", updated.Phone)
	assert.Equal(t, before.FirstName, updated.FirstName)
	assert.Equal(t, before.LastName, updated.LastName)
	assert.Equal(t, before.Email, updated.Email)
	assert.Equal(t, before.AdditionalInfo, updated.AdditionalInfo)
	assert.Equal(t, before.Done, updated.Done)

	// The modification timestamp refreshed.
	assert.True(t, updated.UpdatedAt.After(before.UpdatedAt))

	// Updating a missing contact is an absent result, not an error.
	missing, err := repo.Update(alice.ID, 9999, &models.ContactUpdate{Phone: &phone})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContactRepository_UpdateStatus(t *testing.T) {
	db := setupDB(t)
	alice, _ := seedUsers(t, db)
	repo := repositories.NewGORMContactRepository(db)

	contact := &models.Contact{
		FirstName: "James", LastName: "Bond", Email: "bond@mi6.gov",
		Phone: "007", Birthday: date(1953, time.April, 13), UserID: alice.ID,
	}
	assert.NoError(t, repo.Create(contact))

	updated, err := repo.UpdateStatus(alice.ID, contact.ID, true)
	assert.NoError(t, err)
	assert.True(t, updated.Done)
	assert.Equal(t, "James", updated.FirstName)

	updated, err = repo.UpdateStatus(alice.ID, contact.ID, false)
	assert.NoError(t, err)
	assert.False(t, updated.Done)
}

func TestContactRepository_Delete(t *testing.T) {
	db := setupDB(t)
	alice, _ := seedUsers(t, db)
	repo := repositories.NewGORMContactRepository(db)

	contact := &models.Contact{
		FirstName: "James", LastName: "Bond", Email: "bond@mi6.gov",
		Phone: "007", Birthday: date(1953, time.April, 13), UserID: alice.ID,
	}
	assert.NoError(t, repo.Create(contact))

	deleted, err := repo.Delete(alice.ID, contact.ID)
	assert.NoError(t, err)
	assert.NotNil(t, deleted)
	assert.Equal(t, contact.ID, deleted.ID)

	got, err := repo.GetByID(alice.ID, contact.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestContactRepository_List_Pagination(t *testing.T) {
	db := setupDB(t)
	alice, _ := seedUsers(t, db)
	repo := repositories.NewGORMContactRepository(db)

	for i := 0; i < 5; i++ {
		contact := &models.Contact{
			FirstName: fmt.Sprintf("First%d", i), LastName: "Last",
			Email: fmt.Sprintf("c%d@example.com", i), Phone: "1",
			Birthday: date(1990, time.January, 1), UserID: alice.ID,
		}
		assert.NoError(t, repo.Create(contact))
	}

	page, err := repo.List(alice.ID, 0, 2)
	assert.NoError(t, err)
	assert.Len(t, page, 2)

	page, err = repo.List(alice.ID, 4, 2)
	assert.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestContactRepository_Search(t *testing.T) {
	db := setupDB(t)
	alice, _ := seedUsers(t, db)
	repo := repositories.NewGORMContactRepository(db)

	seed := []models.Contact{
		{FirstName: "James", LastName: "Bond", Email: "bond@mi6.gov", Phone: "1", Birthday: date(1953, time.April, 13), UserID: alice.ID},
		{FirstName: "Jason", LastName: "Bourne", Email: "bourne@cia.gov", Phone: "2", Birthday: date(1970, time.September, 13), UserID: alice.ID},
		{FirstName: "Mary", LastName: "Poppins", Email: "mary@example.com", Phone: "3", Birthday: date(1964, time.August, 27), UserID: alice.ID},
	}
	for i := range seed {
		assert.NoError(t, repo.Create(&seed[i]))
	}

	// Case-insensitive substring on one field.
	found, err := repo.Search(alice.ID, repositories.SearchFilter{FirstName: "JA"})
	assert.NoError(t, err)
	assert.Len(t, found, 2)

	// Filters are AND-combined.
	found, err = repo.Search(alice.ID, repositories.SearchFilter{FirstName: "ja", LastName: "bond"})
	assert.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, "James", found[0].FirstName)

	// Email substring.
	found, err = repo.Search(alice.ID, repositories.SearchFilter{Email: "MI6"})
	assert.NoError(t, err)
	assert.Len(t, found, 1)

	// No filters returns everything the user owns.
	found, err = repo.Search(alice.ID, repositories.SearchFilter{})
	assert.NoError(t, err)
	assert.Len(t, found, 3)

	// No match.
	found, err = repo.Search(alice.ID, repositories.SearchFilter{FirstName: "nonexistent"})
	assert.NoError(t, err)
	assert.Empty(t, found)
}

func TestContactRepository_UpcomingBirthdays(t *testing.T) {
	db := setupDB(t)
	alice, _ := seedUsers(t, db)
	repo := repositories.NewGORMContactRepository(db)

	now := date(2026, time.June, 10)
	seed := []models.Contact{
		// Birth year must not matter; only month and day do.
		{FirstName: "Today", LastName: "T", Email: "t0@example.com", Phone: "1", Birthday: date(1980, time.June, 10), UserID: alice.ID},
		{FirstName: "DaySeven", LastName: "T", Email: "t7@example.com", Phone: "2", Birthday: date(1995, time.June, 17), UserID: alice.ID},
		{FirstName: "DayEight", LastName: "T", Email: "t8@example.com", Phone: "3", Birthday: date(1995, time.June, 18), UserID: alice.ID},
		{FirstName: "Yesterday", LastName: "T", Email: "ty@example.com", Phone: "4", Birthday: date(1990, time.June, 9), UserID: alice.ID},
	}
	for i := range seed {
		assert.NoError(t, repo.Create(&seed[i]))
	}

	upcoming, err := repo.UpcomingBirthdays(alice.ID, now)
	assert.NoError(t, err)

	names := make([]string, 0, len(upcoming))
	for _, c := range upcoming {
		names = append(names, c.FirstName)
	}
	// Boundary: day 7 is inside the window, day 8 is not.
	assert.ElementsMatch(t, []string{"Today", "DaySeven"}, names)
}

func TestContactRepository_UpcomingBirthdays_YearWrap(t *testing.T) {
	db := setupDB(t)
	alice, _ := seedUsers(t, db)
	repo := repositories.NewGORMContactRepository(db)

	// Window Dec 29 .. Jan 5 spans the year boundary.
	now := date(2026, time.December, 29)
	seed := []models.Contact{
		{FirstName: "NewYear", LastName: "T", Email: "ny@example.com", Phone: "1", Birthday: date(1988, time.January, 2), UserID: alice.ID},
		{FirstName: "JanSixth", LastName: "T", Email: "j6@example.com", Phone: "2", Birthday: date(1988, time.January, 6), UserID: alice.ID},
		{FirstName: "DecTwentyNine", LastName: "T", Email: "d29@example.com", Phone: "3", Birthday: date(1975, time.December, 29), UserID: alice.ID},
		{FirstName: "DecTwentyEight", LastName: "T", Email: "d28@example.com", Phone: "4", Birthday: date(1975, time.December, 28), UserID: alice.ID},
	}
	for i := range seed {
		assert.NoError(t, repo.Create(&seed[i]))
	}

	upcoming, err := repo.UpcomingBirthdays(alice.ID, now)
	assert.NoError(t, err)

	names := make([]string, 0, len(upcoming))
	for _, c := range upcoming {
		names = append(names, c.FirstName)
	}
	assert.ElementsMatch(t, []string{"NewYear", "DecTwentyNine"}, names)
}

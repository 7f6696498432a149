package book_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contacts/internal/book"
	"github.com/tartampluch/go-contacts/internal/contact"
	"github.com/tartampluch/go-contacts/internal/engine"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockLogger records activity messages using `testify/mock`.
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Log(message string) {
	m.Called(message)
}

// MockStore simulates the persistence adapter.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(name string) ([]contact.Contact, error) {
	args := m.Called(name)
	if c := args.Get(0); c != nil {
		return c.([]contact.Contact), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStore) Save(name string, contacts []contact.Contact) error {
	return m.Called(name, contacts).Error(0)
}

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// Monday June 16th, 2025.
var now = time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

func newBook(t *testing.T) (*book.Book, *MockLogger) {
	t.Helper()
	log := new(MockLogger)
	log.On("Log", mock.Anything).Return()

	b := book.New(log, new(MockStore), &engine.Digest{Clock: MockClock{CurrentTime: now}})
	b.Clock = MockClock{CurrentTime: now}
	return b, log
}

func seed(t *testing.T, b *book.Book) {
	t.Helper()
	for _, c := range []contact.Contact{
		{Name: "Ann Lee", Phones: []string{"5551234567"}, Email: "ann@example.com", Status: "work"},
		{Name: "Bob", Phones: []string{"4445551234", "5559876543"}, Birthday: time.Date(1990, 6, 18, 0, 0, 0, 0, time.UTC)},
		{Name: "Carol", Phones: []string{"1235550000"}, Note: "Met in Paris"},
	} {
		require.NoError(t, b.Add(c))
	}
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestAdd(t *testing.T) {
	b, log := newBook(t)

	require.NoError(t, b.Add(contact.Contact{Name: "Ann", Phones: []string{"5551234567"}}))
	require.NoError(t, b.Add(contact.Contact{Name: "Ann"}))

	assert.Equal(t, 2, b.Len(), "Duplicate names are permitted")
	log.AssertCalled(t, "Log", "Contact Ann has been added.")
	log.AssertNumberOfCalls(t, "Log", 2)

	err := b.Add(contact.Contact{Name: "   "})
	assert.ErrorIs(t, err, contact.ErrInvalidFormat)
	assert.Equal(t, 2, b.Len())
}

func TestAdd_ThenSearchByName(t *testing.T) {
	b, _ := newBook(t)
	seed(t, b)

	added := contact.Contact{Name: "Dave", Phones: []string{"7775551234"}}
	require.NoError(t, b.Add(added))

	got, err := b.Search("Dave", "name")
	require.NoError(t, err)
	assert.Equal(t, []contact.Contact{added}, got)
}

func TestAdd_CopiesInput(t *testing.T) {
	b, _ := newBook(t)
	phones := []string{"5551234567"}
	require.NoError(t, b.Add(contact.Contact{Name: "Ann", Phones: phones}))

	phones[0] = "0000000000"
	assert.Equal(t, "5551234567", b.Contacts()[0].Phones[0])
}

func TestSearch(t *testing.T) {
	b, _ := newBook(t)
	seed(t, b)

	tests := []struct {
		name     string
		pattern  string
		category string
		want     []string
	}{
		{"Name is normalized", "  ann LEE ", "name", []string{"Ann Lee"}},
		{"Name must match whole field", "Ann", "name", nil},
		{"Category is normalized", "bob", " Na me ", []string{"Bob"}},
		{"Phone prefix", "555", "phones", []string{"Ann Lee", "Bob"}},
		{"Phone prefix with spaces", " 5 55 ", "Phones", []string{"Ann Lee", "Bob"}},
		{"Phone infix does not match", "5550000", "phones", nil},
		{"Email", "ANN@example.com", "email", []string{"Ann Lee"}},
		{"Status", "work", "status", []string{"Ann Lee"}},
		{"Birthday", "18/06/1990", "birthday", []string{"Bob"}},
		{"Note ignores spaces", "met in paris", "note", []string{"Carol"}},
		{"No match", "zed", "name", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Search(tt.pattern, tt.category)
			require.NoError(t, err)

			var names []string
			for _, c := range got {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestSearch_PhoneMatchedOnce(t *testing.T) {
	b, _ := newBook(t)
	require.NoError(t, b.Add(contact.Contact{Name: "Twice", Phones: []string{"5551234567", "5559876543"}}))

	got, err := b.Search("555", "phones")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearch_UnknownCategory(t *testing.T) {
	b, _ := newBook(t)
	seed(t, b)

	got, err := b.Search("x", "address")
	assert.ErrorIs(t, err, contact.ErrUnknownField)
	assert.Nil(t, got)
}

func TestEdit(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		check func(t *testing.T, c contact.Contact)
	}{
		{"phones list", "phones", "5550001111 442071234567", func(t *testing.T, c contact.Contact) {
			assert.Equal(t, []string{"5550001111", "442071234567"}, c.Phones)
		}},
		{"birthday", "birthday", "01/02/1985", func(t *testing.T, c contact.Contact) {
			assert.Equal(t, time.Date(1985, 2, 1, 0, 0, 0, 0, time.UTC), c.Birthday)
		}},
		{"email", "email", "Bob@Example.com", func(t *testing.T, c contact.Contact) {
			assert.Equal(t, "bob@example.com", c.Email)
		}},
		{"status", "status", "Family", func(t *testing.T, c contact.Contact) {
			assert.Equal(t, "family", c.Status)
		}},
		{"note", "note", " call back ", func(t *testing.T, c contact.Contact) {
			assert.Equal(t, "call back", c.Note)
		}},
		{"clear birthday", "birthday", "", func(t *testing.T, c contact.Contact) {
			assert.False(t, c.HasBirthday())
		}},
		{"clear phones", "phones", " ", func(t *testing.T, c contact.Contact) {
			assert.Empty(t, c.Phones)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, log := newBook(t)
			seed(t, b)

			require.NoError(t, b.Edit("Bob", tt.field, tt.value))
			log.AssertCalled(t, "Log", "Contact Bob has been edited!")

			got, err := b.Search("bob", "name")
			require.NoError(t, err)
			require.Len(t, got, 1)
			tt.check(t, got[0])
		})
	}
}

func TestEdit_Rename(t *testing.T) {
	b, _ := newBook(t)
	seed(t, b)

	require.NoError(t, b.Edit("Bob", "name", "Robert"))
	got, err := b.Search("robert", "name")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	assert.ErrorIs(t, b.Edit("Robert", "name", "  "), contact.ErrInvalidFormat)
}

func TestEdit_AppliesToAllDuplicates(t *testing.T) {
	b, _ := newBook(t)
	require.NoError(t, b.Add(contact.Contact{Name: "Sam"}))
	require.NoError(t, b.Add(contact.Contact{Name: "Sam"}))
	require.NoError(t, b.Add(contact.Contact{Name: "sam"}))

	require.NoError(t, b.Edit("Sam", "note", "twin"))

	contacts := b.Contacts()
	assert.Equal(t, "twin", contacts[0].Note)
	assert.Equal(t, "twin", contacts[1].Note)
	assert.Empty(t, contacts[2].Note, "Edit matches names case-sensitively")
}

func TestEdit_FailuresLeaveBookUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		field   string
		value   string
		wantErr error
	}{
		{"unknown field", "Bob", "address", "Main St", contact.ErrUnknownField},
		{"unknown contact", "Nobody", "note", "x", contact.ErrContactNotFound},
		{"case-sensitive name", "bob", "note", "x", contact.ErrContactNotFound},
		{"bad phone", "Bob", "phones", "5550001111 12", contact.ErrInvalidFormat},
		{"bad email", "Bob", "email", "bob", contact.ErrInvalidFormat},
		{"bad status", "Bob", "status", "enemy", contact.ErrInvalidValue},
		{"bad birthday", "Bob", "birthday", "1990-01-01", contact.ErrInvalidFormat},
		{"future birthday", "Bob", "birthday", "01/01/2030", contact.ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, log := newBook(t)
			seed(t, b)
			before := b.String()

			err := b.Edit(tt.target, tt.field, tt.value)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, b.String())
			log.AssertNotCalled(t, "Log", "Contact "+tt.target+" has been edited!")
		})
	}
}

func TestRemove(t *testing.T) {
	b, log := newBook(t)
	seed(t, b)
	require.NoError(t, b.Add(contact.Contact{Name: "Bob", Note: "second"}))

	assert.True(t, b.Remove("Bob"))
	log.AssertNumberOfCalls(t, "Log", 4+2) // four adds, two removals
	log.AssertCalled(t, "Log", "Contact Bob has been removed!")

	got, err := b.Search("Bob", "name")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 2, b.Len())

	names := []string{}
	for _, c := range b.All() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Ann Lee", "Carol"}, names, "Order of the remaining contacts is preserved")

	assert.False(t, b.Remove("Bob"))
	assert.False(t, b.Remove("carol"), "Remove matches names case-sensitively")
}

func TestRemove_AdjacentDuplicates(t *testing.T) {
	b, _ := newBook(t)
	for _, n := range []string{"X", "X", "Y", "X"} {
		require.NoError(t, b.Add(contact.Contact{Name: n}))
	}

	assert.True(t, b.Remove("X"))
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, "Y", b.Contacts()[0].Name)
}

func TestString(t *testing.T) {
	b, _ := newBook(t)
	assert.Equal(t, "", b.String())

	require.NoError(t, b.Add(contact.Contact{Name: "Ann", Phones: []string{"5551234567", "5559876543"}}))
	require.NoError(t, b.Add(contact.Contact{
		Name:     "Bob",
		Birthday: time.Date(1990, 6, 18, 0, 0, 0, 0, time.UTC),
		Email:    "bob@example.com",
		Status:   "friend",
		Note:     "n",
	}))

	sep := strings.Repeat("_", 50)
	want := sep + "\nName: Ann\nPhones: 5551234567, 5559876543\nBirthday: \nEmail: \nStatus: \nNote: \n" + sep +
		"\n\n" +
		sep + "\nName: Bob\nPhones: \nBirthday: 18/06/1990\nEmail: bob@example.com\nStatus: friend\nNote: n\n" + sep
	assert.Equal(t, want, b.String())
	assert.Equal(t, b.String(), b.String(), "Rendering is idempotent")
}

func TestBlocks_Restartable(t *testing.T) {
	b, _ := newBook(t)
	seed(t, b)

	collect := func() []string {
		var out []string
		for block := range b.Blocks() {
			out = append(out, block)
		}
		return out
	}

	first := collect()
	second := collect()
	assert.Len(t, first, 3)
	assert.Equal(t, first, second, "Each traversal starts from the first contact")
	assert.Equal(t, strings.Join(first, "\n\n"), b.String())

	// Early exit does not disturb later traversals.
	for range b.Blocks() {
		break
	}
	assert.Equal(t, first, collect())
}

func TestCongratulateBirthday(t *testing.T) {
	b, _ := newBook(t)
	assert.Equal(t, "", b.CongratulateBirthday())

	seed(t, b)
	assert.Equal(t, "Wednesday: Bob", b.CongratulateBirthday())
}

func TestLoadSave(t *testing.T) {
	log := new(MockLogger)
	log.On("Log", mock.Anything).Return()
	store := new(MockStore)
	b := book.New(log, store, engine.NewDigest())

	persisted := []contact.Contact{{Name: "Ann"}, {Name: "Bob"}}
	store.On("Load", "friends").Return(persisted, nil)
	store.On("Save", "friends", append(persisted, contact.Contact{Name: "Carol"})).Return(nil)

	require.NoError(t, b.Load("friends"))
	assert.Equal(t, 2, b.Len())

	require.NoError(t, b.Add(contact.Contact{Name: "Carol"}))
	require.NoError(t, b.Save("friends"))

	store.AssertExpectations(t)
}

func TestLoad_DoesNotShareStoreSlice(t *testing.T) {
	store := new(MockStore)
	persisted := []contact.Contact{
		{Name: "Ann", Phones: []string{"5551234567"}},
		{Name: "Bob"},
		{Name: "Ann"},
	}
	snapshot := []contact.Contact{persisted[0].Clone(), persisted[1].Clone(), persisted[2].Clone()}
	store.On("Load", "friends").Return(persisted, nil)

	b := book.New(nil, store, nil)
	require.NoError(t, b.Load("friends"))

	assert.True(t, b.Remove("Ann"))
	require.NoError(t, b.Edit("Bob", "note", "edited"))

	assert.Equal(t, snapshot, persisted, "The adapter's slice must stay untouched")
	assert.Equal(t, []contact.Contact{{Name: "Bob", Note: "edited"}}, b.Contacts())
}

func TestLoad_ErrorKeepsContents(t *testing.T) {
	store := new(MockStore)
	store.On("Load", "broken").Return(nil, errors.New("disk on fire"))

	b := book.New(nil, store, nil)
	require.NoError(t, b.Add(contact.Contact{Name: "Ann"}))

	assert.Error(t, b.Load("broken"))
	assert.Equal(t, 1, b.Len())
}

// Package book holds the in-memory address book: an ordered list of contacts
// with search, edit and removal semantics. Persistence, activity logging and
// the birthday digest are delegated to injected collaborators.
package book

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/go-contacts/internal/activity"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contact"
	"github.com/tartampluch/go-contacts/internal/engine"
)

// Persister loads and saves whole address books by name.
type Persister interface {
	Load(name string) ([]contact.Contact, error)
	Save(name string, contacts []contact.Contact) error
}

// DigestCalculator renders the weekly birthday reminder.
type DigestCalculator interface {
	Compute(contacts []contact.Contact) string
}

// Book is an ordered collection of contacts. Insertion order is display order.
// Names are not unique; Edit and Remove act on every contact with the name.
// A Book is not safe for concurrent use.
type Book struct {
	// Clock decides "today" when validating edited birthdays.
	Clock engine.Clock

	contacts []contact.Contact

	log    activity.Logger
	store  Persister
	digest DigestCalculator
}

// New returns an empty Book wired to its collaborators.
func New(log activity.Logger, store Persister, digest DigestCalculator) *Book {
	if log == nil {
		log = activity.Nop{}
	}
	return &Book{Clock: engine.RealClock{}, log: log, store: store, digest: digest}
}

// Load replaces the contents of b with the persisted book name.
// b keeps its own copy; the slice returned by the Persister is never mutated.
func (b *Book) Load(name string) error {
	contacts, err := b.store.Load(name)
	if err != nil {
		return err
	}
	b.contacts = make([]contact.Contact, len(contacts))
	for i, c := range contacts {
		b.contacts[i] = c.Clone()
	}
	return nil
}

// Save persists the contents of b as book name.
func (b *Book) Save(name string) error {
	return b.store.Save(name, b.Contacts())
}

// Len returns the number of contacts.
func (b *Book) Len() int {
	return len(b.contacts)
}

// Contacts returns a copy of every contact in order.
func (b *Book) Contacts() []contact.Contact {
	out := make([]contact.Contact, len(b.contacts))
	for i, c := range b.contacts {
		out[i] = c.Clone()
	}
	return out
}

// Add appends c. Duplicate names are allowed.
func (b *Book) Add(c contact.Contact) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("%w: %s", contact.ErrInvalidFormat, config.ErrEmptyName)
	}

	b.contacts = append(b.contacts, c.Clone())
	b.log.Log(fmt.Sprintf(config.ActContactAdded, c.Name))
	return nil
}

// Search returns the contacts matching pattern in category.
// Pattern and category are compared in normalized form (trimmed, lowercased,
// spaces removed). For phones a contact matches when any number starts with
// the pattern; other categories must match the whole field.
// An empty result is not an error.
func (b *Book) Search(pattern, category string) ([]contact.Contact, error) {
	category = contact.Normalize(category)
	pattern = contact.Normalize(pattern)
	if !contact.IsField(category) {
		return nil, fmt.Errorf("%w: %q", contact.ErrUnknownField, category)
	}

	var result []contact.Contact
	for _, c := range b.contacts {
		if matches(c, pattern, category) {
			result = append(result, c.Clone())
		}
	}

	if len(result) == 0 {
		slog.Debug(config.MsgNoMatch,
			config.LogKeyComponent, config.CompBook,
			config.LogKeyPattern, pattern,
			config.LogKeyCategory, category,
		)
	}
	return result, nil
}

func matches(c contact.Contact, pattern, category string) bool {
	if category == config.FieldPhones {
		return slices.ContainsFunc(c.Phones, func(p string) bool {
			return strings.HasPrefix(contact.Normalize(p), pattern)
		})
	}
	value, _ := c.Value(category)
	return contact.Normalize(value) == pattern
}

// Edit sets field to value on every contact named exactly name.
// The value is validated once, before anything changes: on error the book is
// untouched. An empty value clears an optional field.
func (b *Book) Edit(name, field, value string) error {
	field = contact.Normalize(field)
	if !contact.IsField(field) {
		return b.rejectEdit(name, field, fmt.Errorf("%w: %q", contact.ErrUnknownField, field))
	}

	apply, err := setter(field, value, b.Clock.Now())
	if err != nil {
		return b.rejectEdit(name, field, err)
	}

	edited := 0
	for i := range b.contacts {
		if b.contacts[i].Name == name {
			apply(&b.contacts[i])
			edited++
		}
	}
	if edited == 0 {
		return b.rejectEdit(name, field, fmt.Errorf("%w: %q", contact.ErrContactNotFound, name))
	}

	b.log.Log(fmt.Sprintf(config.ActContactEdited, name))
	return nil
}

func (b *Book) rejectEdit(name, field string, err error) error {
	slog.Debug(config.MsgEditRejected,
		config.LogKeyComponent, config.CompBook,
		config.LogKeyName, name,
		config.LogKeyField, field,
		config.LogKeyError, err,
	)
	return err
}

// setter validates value for field and returns the mutation to apply.
func setter(field, value string, today time.Time) (func(*contact.Contact), error) {
	trimmed := strings.TrimSpace(value)

	switch field {
	case config.FieldName:
		if trimmed == "" {
			return nil, fmt.Errorf("%w: %s", contact.ErrInvalidFormat, config.ErrEmptyName)
		}
		return func(c *contact.Contact) { c.Name = trimmed }, nil

	case config.FieldPhones:
		phones, err := contact.ParsePhones(value)
		if err != nil {
			return nil, err
		}
		return func(c *contact.Contact) { c.Phones = slices.Clone(phones) }, nil

	case config.FieldBirthday:
		if trimmed == "" {
			return func(c *contact.Contact) { c.Birthday = time.Time{} }, nil
		}
		bday, err := contact.ParseBirthdayAt(trimmed, today)
		if err != nil {
			return nil, err
		}
		return func(c *contact.Contact) { c.Birthday = bday }, nil

	case config.FieldEmail:
		email := ""
		if trimmed != "" {
			var err error
			if email, err = contact.ParseEmail(trimmed); err != nil {
				return nil, err
			}
		}
		return func(c *contact.Contact) { c.Email = email }, nil

	case config.FieldStatus:
		status := ""
		if trimmed != "" {
			var err error
			if status, err = contact.ParseStatus(trimmed); err != nil {
				return nil, err
			}
		}
		return func(c *contact.Contact) { c.Status = status }, nil

	case config.FieldNote:
		return func(c *contact.Contact) { c.Note = trimmed }, nil
	}
	return nil, fmt.Errorf("%w: %q", contact.ErrUnknownField, field)
}

// Remove deletes every contact named exactly name and reports whether any was removed.
func (b *Book) Remove(name string) bool {
	kept := b.contacts[:0]
	removed := 0
	for _, c := range b.contacts {
		if c.Name == name {
			removed++
			b.log.Log(fmt.Sprintf(config.ActContactRemoved, c.Name))
			continue
		}
		kept = append(kept, c)
	}
	clear(b.contacts[len(kept):])
	b.contacts = kept
	return removed > 0
}

// CongratulateBirthday returns the digest of birthdays in the current week.
func (b *Book) CongratulateBirthday() string {
	return b.digest.Compute(b.contacts)
}

// String renders every contact block separated by a blank line.
func (b *Book) String() string {
	blocks := make([]string, 0, len(b.contacts))
	for block := range b.Blocks() {
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

// Blocks yields the rendered block of each contact in order.
// Each call starts a fresh traversal.
func (b *Book) Blocks() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, c := range b.contacts {
			if !yield(c.Block()) {
				return
			}
		}
	}
}

// All yields each contact with its position.
func (b *Book) All() iter.Seq2[int, contact.Contact] {
	return func(yield func(int, contact.Contact) bool) {
		for i, c := range b.contacts {
			if !yield(i, c.Clone()) {
				return
			}
		}
	}
}

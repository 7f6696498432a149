package contact

import (
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/go-contacts/internal/config"
)

// Contact is a single address book record.
// Every field is always present; optional ones are simply empty.
type Contact struct {
	Name   string
	Phones []string

	// Birthday is the zero time when unknown. Only month and day matter for
	// recurring events but the stored year is retained. A birthday recorded
	// without a year carries config.YearUnknown.
	Birthday time.Time

	Email  string
	Status string
	Note   string
}

// HasBirthday reports whether a birthday is set.
func (c Contact) HasBirthday() bool {
	return !c.Birthday.IsZero()
}

// BirthYearKnown reports whether the birthday carries a real year.
func (c Contact) BirthYearKnown() bool {
	return c.HasBirthday() && YearKnown(c.Birthday)
}

// YearKnown reports whether t is not a year-less date.
func YearKnown(t time.Time) bool {
	return t.Year() != config.YearUnknown
}

// NoYear returns the year-less date of month m, day d.
func NoYear(m time.Month, d int) time.Time {
	return time.Date(config.YearUnknown, m, d, 0, 0, 0, 0, time.UTC)
}

// Clone returns a copy that shares no slices with c.
func (c Contact) Clone() Contact {
	c.Phones = slices.Clone(c.Phones)
	return c
}

// Value returns the display form of a field, as used by search.
func (c Contact) Value(field string) (string, bool) {
	switch field {
	case config.FieldName:
		return c.Name, true
	case config.FieldPhones:
		return strings.Join(c.Phones, config.PhoneJoiner), true
	case config.FieldBirthday:
		return FormatBirthday(c.Birthday), true
	case config.FieldEmail:
		return c.Email, true
	case config.FieldStatus:
		return c.Status, true
	case config.FieldNote:
		return c.Note, true
	}
	return "", false
}

// IsField reports whether name is a contact attribute.
func IsField(name string) bool {
	return slices.Contains(config.Fields, name)
}

// Normalize trims, lowercases and removes inner spaces. It is the
// comparison form used by search for both patterns and field values.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
}

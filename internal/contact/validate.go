package contact

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/tartampluch/go-contacts/internal/config"
)

// Input carries raw, user supplied field values.
type Input struct {
	Name     string
	Phones   []string
	Birthday string
	Email    string
	Status   string
	Note     string
}

// Parse validates every field of in and builds a Contact.
// Empty optional fields stay empty.
func Parse(in Input, today time.Time) (Contact, error) {
	c := Contact{
		Name: strings.TrimSpace(in.Name),
		Note: strings.TrimSpace(in.Note),
	}
	if c.Name == "" {
		return Contact{}, fmt.Errorf("%w: %s", ErrInvalidFormat, config.ErrEmptyName)
	}

	for _, raw := range in.Phones {
		phone, err := ParsePhone(raw)
		if err != nil {
			return Contact{}, err
		}
		c.Phones = append(c.Phones, phone)
	}

	var err error
	if strings.TrimSpace(in.Birthday) != "" {
		if c.Birthday, err = ParseBirthdayAt(in.Birthday, today); err != nil {
			return Contact{}, err
		}
	}
	if strings.TrimSpace(in.Email) != "" {
		if c.Email, err = ParseEmail(in.Email); err != nil {
			return Contact{}, err
		}
	}
	if strings.TrimSpace(in.Status) != "" {
		if c.Status, err = ParseStatus(in.Status); err != nil {
			return Contact{}, err
		}
	}
	return c, nil
}

// ParsePhone strips common separators and an optional leading "+" and
// returns the remaining digits.
func ParsePhone(raw string) (string, error) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), config.PhonePlus)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(config.PhoneSeparators, r) {
			return -1
		}
		return r
	}, s)

	if len(s) < config.PhoneMinDigits || len(s) > config.PhoneMaxDigits {
		return "", fmt.Errorf("%w: %q: %s", ErrInvalidFormat, raw, config.ErrPhoneDigits)
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return "", fmt.Errorf("%w: %q: %s", ErrInvalidFormat, raw, config.ErrPhoneDigits)
		}
	}
	return s, nil
}

// ParsePhones splits raw on whitespace and validates each number.
func ParsePhones(raw string) ([]string, error) {
	var phones []string
	for _, token := range strings.Fields(raw) {
		phone, err := ParsePhone(token)
		if err != nil {
			return nil, err
		}
		phones = append(phones, phone)
	}
	return phones, nil
}

// ParseEmail accepts a bare local@domain.tld address and lowercases it.
func ParseEmail(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return "", fmt.Errorf("%w: %q: %s", ErrInvalidFormat, raw, config.ErrEmailShape)
	}

	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 || dot == len(domain)-1 {
		return "", fmt.Errorf("%w: %q: %s", ErrInvalidFormat, raw, config.ErrEmailShape)
	}
	return s, nil
}

// ParseStatus accepts one of config.Statuses, case-insensitively.
func ParseStatus(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if !slices.Contains(config.Statuses, s) {
		return "", fmt.Errorf("%w: status %q (want one of %s)",
			ErrInvalidValue, raw, strings.Join(config.Statuses, ", "))
	}
	return s, nil
}

// ParseBirthday parses a DD/MM/YYYY date relative to the current day.
func ParseBirthday(raw string) (time.Time, error) {
	return ParseBirthdayAt(raw, time.Now())
}

// ParseBirthdayAt parses a DD/MM/YYYY date, or DD/MM when the year is
// unknown. Dates after today are rejected.
func ParseBirthdayAt(raw string, today time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	t, err := time.Parse(config.DateFormatBirthday, s)
	if err != nil {
		noYear, errNoYear := time.Parse(config.DateFormatBirthdayNoYear, s)
		if errNoYear != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %s", ErrInvalidFormat, raw, config.ErrDateParse)
		}
		return NoYear(noYear.Month(), noYear.Day()), nil
	}

	y, m, d := today.Date()
	if t.After(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
		return time.Time{}, fmt.Errorf("%w: %q: %s", ErrInvalidValue, raw, config.ErrFutureBirthday)
	}
	return t, nil
}

// FormatBirthday renders t as DD/MM/YYYY, DD/MM without a year, or "" for
// the zero time.
func FormatBirthday(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if !YearKnown(t) {
		return t.Format(config.DateFormatBirthdayNoYear)
	}
	return t.Format(config.DateFormatBirthday)
}

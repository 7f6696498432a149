package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contact"
)

// ImportStats summarizes a vCard import.
type ImportStats struct {
	Processed int
	Imported  int
	Skipped   int
}

// ImportVCard decodes every card of r into a Contact.
// Malformed cards and field values are skipped and logged, the rest is kept.
func ImportVCard(r io.Reader, today time.Time) ([]contact.Contact, ImportStats, error) {
	decoder := vcard.NewDecoder(r)
	var (
		stats    ImportStats
		contacts []contact.Contact
	)

	for {
		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A broken line leaves the decoder out of sync; stop here but keep what we have.
			if stats.Processed == 0 {
				return nil, stats, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
			}
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			stats.Skipped++
			break
		}
		stats.Processed++

		c, ok := cardToContact(card, today)
		if !ok {
			stats.Skipped++
			continue
		}
		contacts = append(contacts, c)
		stats.Imported++
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Processed),
			slog.Int(config.LogKeyImported, stats.Imported),
			slog.Int(config.LogKeySkipped, stats.Skipped),
		),
	)
	return contacts, stats, nil
}

// cardToContact maps the supported vCard properties onto a Contact.
// Name strategy: FN (Formatted) > N (Structured). A card without a name is rejected.
func cardToContact(card vcard.Card, today time.Time) (contact.Contact, bool) {
	var c contact.Contact
	if fn := card.Get(vcard.FieldFormattedName); fn != nil {
		c.Name = strings.TrimSpace(fn.Value)
	}
	if c.Name == "" {
		if n := card.Name(); n != nil {
			c.Name = strings.TrimSpace(strings.Join(strings.Fields(n.GivenName+" "+n.FamilyName), " "))
		}
	}
	if c.Name == "" {
		slog.Warn(config.MsgSkippedCard,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyError, config.ErrEmptyName)
		return contact.Contact{}, false
	}

	for _, raw := range card.Values(vcard.FieldTelephone) {
		phone, err := contact.ParsePhone(strings.TrimPrefix(raw, "tel:"))
		if err != nil {
			slog.Debug(config.MsgSkippedPhone,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, c.Name,
				config.LogKeyValue, raw)
			continue
		}
		c.Phones = append(c.Phones, phone)
	}

	if bday := card.Get(vcard.FieldBirthday); bday != nil && bday.Value != "" {
		if t, err := parseDate(bday.Value); err == nil && !t.After(today) {
			c.Birthday = t
		} else {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, c.Name,
				config.LogKeyValue, bday.Value)
		}
	}

	if email, err := contact.ParseEmail(card.PreferredValue(vcard.FieldEmail)); err == nil {
		c.Email = email
	}
	for _, cat := range card.Values(vcard.FieldCategories) {
		if status, err := contact.ParseStatus(cat); err == nil {
			c.Status = status
			break
		}
	}
	c.Note = strings.TrimSpace(card.Value(vcard.FieldNote))
	return c, true
}

// ExportVCard writes one vCard 4.0 per contact.
func ExportVCard(w io.Writer, contacts []contact.Contact) error {
	enc := vcard.NewEncoder(w)
	for _, c := range contacts {
		card := make(vcard.Card)
		card.SetValue(vcard.FieldFormattedName, c.Name)
		for _, p := range c.Phones {
			card.AddValue(vcard.FieldTelephone, p)
		}
		switch {
		case c.BirthYearKnown():
			card.SetValue(vcard.FieldBirthday, c.Birthday.Format(config.DateFormatFullDash))
		case c.HasBirthday():
			card.SetValue(vcard.FieldBirthday, c.Birthday.Format(config.DateFormatNoYearB))
		}
		if c.Email != "" {
			card.SetValue(vcard.FieldEmail, c.Email)
		}
		if c.Status != "" {
			card.SetValue(vcard.FieldCategories, c.Status)
		}
		if c.Note != "" {
			card.SetValue(vcard.FieldNote, c.Note)
		}
		vcard.ToV4(card)

		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}
	return nil
}

// parseDate handles the vCard date formats seen in the wild.
func parseDate(value string) (time.Time, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}

	// Truncated dates (Year unknown).
	for _, f := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if t, err := time.Parse(f, value); err == nil {
			return contact.NoYear(t.Month(), t.Day()), nil
		}
	}
	return time.Time{}, errors.New(config.ErrDateParse)
}

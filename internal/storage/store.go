package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tartampluch/go-contacts/internal/activity"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/contact"
)

var (
	// ErrUnsupportedSchema is returned for snapshots written by an unknown format version.
	ErrUnsupportedSchema = errors.New(config.ErrSchema)

	// ErrSealedSnapshot is returned when a sealed snapshot is read without a SecretSource.
	ErrSealedSnapshot = errors.New(config.ErrSealed)

	// ErrBookName is returned for book names that would resolve outside Dir.
	ErrBookName = errors.New(config.ErrBookName)
)

// Store persists whole address books as one JSON snapshot per book.
type Store struct {
	Dir      string
	Activity activity.Logger

	// Secrets enables sealed snapshots when set.
	Secrets SecretSource
}

// New returns a Store writing plain snapshots under dir.
func New(dir string, log activity.Logger) *Store {
	if log == nil {
		log = activity.Nop{}
	}
	return &Store{Dir: dir, Activity: log}
}

type snapshot struct {
	Schema   string      `json:"schema"`
	Contacts []record    `json:"contacts,omitempty"`
	Sealed   *SealedData `json:"sealed,omitempty"`
}

// record is the on-disk form of a contact. Birthdays use YYYY-MM-DD, or
// --MM-DD when the year is unknown.
type record struct {
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Birthday string   `json:"birthday"`
	Email    string   `json:"email"`
	Status   string   `json:"status"`
	Note     string   `json:"note"`
}

// Path returns the snapshot file of book name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.Dir, name+config.ExtSnapshot)
}

// Load reads book name. A missing book is created empty and persisted.
func (s *Store) Load(name string) ([]contact.Contact, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.write(name, nil); err != nil {
			return nil, err
		}
		s.Activity.Log(config.ActBookCreated)
		return []contact.Contact{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSnapshotRead, err)
	}

	contacts, err := s.decode(name, data)
	if err != nil {
		return nil, err
	}

	slog.Debug(config.MsgSnapshotLoaded,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyBook, name,
		config.LogKeyCount, len(contacts),
	)
	s.Activity.Log(config.ActBookLoaded)
	return contacts, nil
}

// Save replaces book name with contacts.
func (s *Store) Save(name string, contacts []contact.Contact) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := s.write(name, contacts); err != nil {
		return err
	}

	slog.Debug(config.MsgSnapshotSaved,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyBook, name,
		config.LogKeyCount, len(contacts),
		config.LogKeySealed, s.Secrets != nil,
	)
	s.Activity.Log(config.ActBookSaved)
	return nil
}

func (s *Store) decode(name string, data []byte) ([]contact.Contact, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSnapshotDecode, err)
	}

	switch snap.Schema {
	case config.SchemaSnapshot:
	case config.SchemaSealed:
		if s.Secrets == nil {
			return nil, ErrSealedSnapshot
		}
		pass, err := s.Secrets.Passphrase(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrSecret, err)
		}
		plain, err := Open(snap.Sealed, pass)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(plain, &snap.Contacts); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrSnapshotDecode, err)
		}
	default:
		slog.Warn(config.ErrSchema,
			config.LogKeyComponent, config.CompStorage,
			config.LogKeyBook, name,
			config.LogKeySchema, snap.Schema,
		)
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSchema, snap.Schema)
	}

	contacts := make([]contact.Contact, 0, len(snap.Contacts))
	for _, r := range snap.Contacts {
		c, err := r.contact()
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, nil
}

func (s *Store) encode(name string, contacts []contact.Contact) ([]byte, error) {
	records := make([]record, 0, len(contacts))
	for _, c := range contacts {
		records = append(records, newRecord(c))
	}

	snap := snapshot{Schema: config.SchemaSnapshot, Contacts: records}
	if s.Secrets != nil {
		pass, err := s.Secrets.Passphrase(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrSecret, err)
		}
		plain, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrSnapshotEncode, err)
		}
		sealed, err := Seal(plain, pass)
		if err != nil {
			return nil, err
		}
		snap = snapshot{Schema: config.SchemaSealed, Sealed: sealed}
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSnapshotEncode, err)
	}
	return data, nil
}

// write replaces the snapshot atomically through a temp file in the same directory.
func (s *Store) write(name string, contacts []contact.Contact) error {
	data, err := s.encode(name, contacts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.Dir, config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, err)
	}
	tmp, err := os.CreateTemp(s.Dir, name+config.TempPattern)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, err)
	}
	// Best effort cleanup; after a successful rename the temp name no longer exists.
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSnapshotWrite, err)
	}
	return nil
}

// checkName rejects names that are not a single path element.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrBookName, name)
	}
	return nil
}

func newRecord(c contact.Contact) record {
	r := record{
		Name:   c.Name,
		Phones: c.Phones,
		Email:  c.Email,
		Status: c.Status,
		Note:   c.Note,
	}
	switch {
	case c.BirthYearKnown():
		r.Birthday = c.Birthday.Format(config.DateFormatFullDash)
	case c.HasBirthday():
		r.Birthday = c.Birthday.Format(config.DateFormatNoYearD)
	}
	return r
}

func (r record) contact() (contact.Contact, error) {
	c := contact.Contact{
		Name:   r.Name,
		Phones: r.Phones,
		Email:  r.Email,
		Status: r.Status,
		Note:   r.Note,
	}
	if r.Birthday != "" {
		t, err := time.Parse(config.DateFormatFullDash, r.Birthday)
		if err != nil {
			noYear, errNoYear := time.Parse(config.DateFormatNoYearD, r.Birthday)
			if errNoYear != nil {
				return contact.Contact{}, fmt.Errorf("%s: %s: %w", config.ErrSnapshotDecode, r.Name, err)
			}
			t = contact.NoYear(noYear.Month(), noYear.Day())
		}
		c.Birthday = t
	}
	return c, nil
}

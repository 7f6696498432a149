package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings holds the runtime options read from the environment.
// Every field can be overridden by the matching CLI flag.
// Keys are derived from field names only: an explicit envconfig tag would also
// match the unprefixed variable (LANG, DEBUG) of the user's shell.
type Settings struct {
	Dir         string
	Book        string
	Lang        string
	ActivityLog string `split_words:"true"`
	Debug       bool
	Seal        bool
}

// LoadSettings reads an optional .env file and then the CONTACTS_* variables.
// Unset or empty values fall back to the package defaults.
func LoadSettings() (*Settings, error) {
	// load default .env file, ignore the error
	_ = godotenv.Load()

	s := new(Settings)
	if err := envconfig.Process(EnvPrefix, s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettings, err)
	}
	s.applyDefaults()
	return s, nil
}

func (s *Settings) applyDefaults() {
	if s.Dir == "" {
		s.Dir = DefaultDataDir
	}
	if s.Book == "" {
		s.Book = DefaultBookName
	}
	if s.Lang == "" {
		s.Lang = DefaultLanguage
	}
	if s.ActivityLog == "" {
		s.ActivityLog = ActivityLogFile
	}
}

package storage

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/zalando/go-keyring"
)

// SecretSource provides the passphrase that seals a book.
type SecretSource interface {
	Passphrase(book string) (string, error)
}

// KeyringSecrets keeps one passphrase per book in the OS keyring.
// A random passphrase is generated and stored the first time a book is sealed.
type KeyringSecrets struct {
	Service string
}

// NewKeyringSecrets returns a KeyringSecrets bound to the application service name.
func NewKeyringSecrets() KeyringSecrets {
	return KeyringSecrets{Service: config.KeyringService}
}

// Passphrase implements SecretSource.
func (k KeyringSecrets) Passphrase(book string) (string, error) {
	pass, err := keyring.Get(k.Service, book)
	if err == nil {
		return pass, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return "", err
	}

	raw := make([]byte, config.SealPassphraseLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrSecret, err)
	}
	pass = base64.RawStdEncoding.EncodeToString(raw)

	if err := keyring.Set(k.Service, book, pass); err != nil {
		return "", err
	}
	slog.Info(config.MsgSecretCreated,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyBook, book,
	)
	return pass, nil
}

// StaticSecret uses the same passphrase for every book.
type StaticSecret string

// Passphrase implements SecretSource.
func (s StaticSecret) Passphrase(string) (string, error) {
	return string(s), nil
}

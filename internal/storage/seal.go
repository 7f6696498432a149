package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/tartampluch/go-contacts/internal/config"
	"golang.org/x/crypto/pbkdf2"
)

// ErrUnseal is returned when a sealed snapshot cannot be opened.
var ErrUnseal = errors.New(config.ErrUnseal)

// SealedData is an AES-256-GCM payload keyed by PBKDF2-SHA256.
type SealedData struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Seal encrypts data with a key derived from passphrase and a fresh salt.
func Seal(data []byte, passphrase string) (*SealedData, error) {
	salt := make([]byte, config.SealSaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSeal, err)
	}

	aead, err := newAEAD(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSeal, err)
	}

	nonce := make([]byte, config.SealNonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSeal, err)
	}

	return &SealedData{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: aead.Seal(nil, nonce, data, nil),
	}, nil
}

// Open decrypts a payload produced by Seal.
func Open(sealed *SealedData, passphrase string) ([]byte, error) {
	if sealed == nil {
		return nil, ErrUnseal
	}

	aead, err := newAEAD(passphrase, sealed.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnseal, err)
	}
	if len(sealed.Nonce) != aead.NonceSize() {
		return nil, ErrUnseal
	}

	plain, err := aead.Open(nil, sealed.Nonce, sealed.Ciphertext, nil)
	if err != nil {
		return nil, ErrUnseal
	}
	return plain, nil
}

func newAEAD(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, config.SealIterations, config.SealKeyLength, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

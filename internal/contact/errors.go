package contact

import (
	"errors"

	"github.com/tartampluch/go-contacts/internal/config"
)

// Error kinds returned by the validators and the collection.
// Callers match them with errors.Is; the wrapped message carries the detail.
var (
	ErrInvalidFormat   = errors.New(config.ErrInvalidFormat)
	ErrInvalidValue    = errors.New(config.ErrInvalidValue)
	ErrUnknownField    = errors.New(config.ErrUnknownField)
	ErrContactNotFound = errors.New(config.ErrContactNotFound)
)

// Package storage provides the data persistence layer for the duplicate ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrInvalidHash  = errors.New("invalid content hash")
	ErrInvalidRange = errors.New("invalid duplicate window")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateHash ensures hash looks like a lowercase hex SHA-256 digest.
func validateHash(hash string) error {
	if len(hash) != 64 {
		return fmt.Errorf("%w: expected 64 hex characters, got %d", ErrInvalidHash, len(hash))
	}
	for _, r := range hash {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return fmt.Errorf("%w: non-hex character %q", ErrInvalidHash, r)
		}
	}
	return nil
}

// Package extract obtains recognized text for documents from external tools.
package extract

import (
	"context"
	"errors"
)

var (
	// ErrUnreadable means the tool ran and rejected the document.
	ErrUnreadable = errors.New("document unreadable")
	// ErrUnavailable means no text could be obtained for reasons unrelated
	// to the document itself, such as a missing tool.
	ErrUnavailable = errors.New("text extraction unavailable")
)

// Extractor returns the recognized text of the document at path.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Func adapts a function to the Extractor interface.
type Func func(ctx context.Context, path string) (string, error)

// Extract implements Extractor.
func (f Func) Extract(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// None is an extractor that never yields text.
var None Extractor = Func(func(context.Context, string) (string, error) {
	return "", ErrUnavailable
})

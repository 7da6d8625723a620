// Package service defines the interfaces shared between the routing components.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/docsort/internal/model"
)

// Ledger is the persistent hash history used for windowed duplicate detection.
type Ledger interface {
	// SeenRecently reports whether hash was last seen within window of now.
	SeenRecently(ctx context.Context, hash string, window time.Duration) (bool, error)
	// Record inserts or refreshes the entry for hash, keeping first-seen intact.
	Record(ctx context.Context, hash, path string, size int64) error
}

// LedgerStore is the full ledger surface used by the CLI.
type LedgerStore interface {
	Ledger
	GetEntry(ctx context.Context, hash string) (*model.LedgerEntry, error)
	ListEntries(ctx context.Context, limit int) ([]model.LedgerEntry, error)
	CountEntries(ctx context.Context) (int, error)
	Migrate(ctx context.Context) error
	Close() error
}

// RowSource supplies raw tabular rows, header first, for registry loading.
type RowSource interface {
	Rows(ctx context.Context) ([][]string, error)
	// Describe names the source for logs.
	Describe() string
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

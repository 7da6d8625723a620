// Package testutil provides test helpers shared by the docsort packages: an
// isolated ledger database with a controllable clock and filesystem fixtures.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/docsort/internal/storage"
)

// Clock is a manually advanced time source.
type Clock struct {
	now time.Time
	mu  sync.Mutex
}

// NewClock creates a clock starting at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// TestLedger is a migrated in-memory ledger with a fake clock.
type TestLedger struct {
	Storage *storage.SQLiteStorage
	Clock   *Clock
	t       *testing.T
}

// SetupLedger creates a new in-memory ledger database. It automatically
// handles migrations and cleanup.
//
// Example:
//
//	ledger := testutil.SetupLedger(t)
//	ledger.Seed(testutil.Hash("content"), "/dest/invoice.pdf")
//	ledger.Clock.Advance(24 * time.Hour)
func SetupLedger(t *testing.T) *TestLedger {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	clock := NewClock(time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC))
	store.SetClock(clock.Now)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestLedger{Storage: store, Clock: clock, t: t}
}

// Seed records hash at path as if it had been routed at the current fake time.
func (l *TestLedger) Seed(hash, path string) {
	l.t.Helper()
	if err := l.Storage.Record(context.Background(), hash, path, -1); err != nil {
		l.t.Fatalf("failed to seed ledger: %v", err)
	}
}

// Count returns the number of ledger entries or fails the test.
func (l *TestLedger) Count() int {
	l.t.Helper()
	n, err := l.Storage.CountEntries(context.Background())
	if err != nil {
		l.t.Fatalf("failed to count ledger entries: %v", err)
	}
	return n
}

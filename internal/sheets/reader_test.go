package sheets

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/docsort/internal/common"
)

// fakeValues returns canned values, failing the first failures calls.
type fakeValues struct {
	err      error
	values   [][]any
	ranges   []string
	failures int
	calls    int
}

func (f *fakeValues) Get(_ context.Context, spreadsheetID, readRange string) ([][]any, error) {
	f.calls++
	f.ranges = append(f.ranges, spreadsheetID+"!"+readRange)
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.values, nil
}

func newTestReader(values valuesGetter, attempts int) *Reader {
	return &Reader{
		values: values,
		logger: slog.Default(),
		config: Config{RetryAttempts: attempts},
	}
}

func TestRangeSource_Rows(t *testing.T) {
	fake := &fakeValues{values: [][]any{
		{"Vendor", "FolderType"},
		{"Streamline Co", float64(1)},
		{"Sparse Row"},
		{nil, "3"},
	}}

	src := newTestReader(fake, 0).Range("sheet-id", "Vendors!A:B")
	rows, err := src.Rows(context.Background())
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"Vendor", "FolderType"},
		{"Streamline Co", "1"},
		{"Sparse Row"},
		{"", "3"},
	}, rows)
	assert.Equal(t, []string{"sheet-id!Vendors!A:B"}, fake.ranges)
	assert.Equal(t, "sheets:sheet-id!Vendors!A:B", src.Describe())
}

func TestRangeSource_RetriesTransientFailures(t *testing.T) {
	fake := &fakeValues{
		err:      errors.New("503 backend error"),
		failures: 2,
		values:   [][]any{{"Client Code"}},
	}

	rows, err := newTestReader(fake, 2).Range("sheet-id", "").Rows(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 3, fake.calls)
	assert.Equal(t, "sheet-id!A:Z", fake.ranges[0])
}

func TestRangeSource_GivesUp(t *testing.T) {
	fake := &fakeValues{err: errors.New("403 forbidden"), failures: 10}

	_, err := newTestReader(fake, 1).Range("sheet-id", "A:D").Rows(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, 2, fake.calls)
}

package settle

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedDetector returns a detector that observes the given sizes in order
// and never actually sleeps.
func scriptedDetector(samples int, sizes ...int64) (*Detector, *int) {
	calls := 0
	d := NewDetector(samples, time.Millisecond)
	d.stat = func(string) (int64, error) {
		if calls >= len(sizes) {
			return sizes[len(sizes)-1], nil
		}
		size := sizes[calls]
		calls++
		return size, nil
	}
	d.sleep = func(context.Context, time.Duration) error { return nil }
	return d, &calls
}

func TestIsSettled(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int64
		want  bool
	}{
		{name: "stable from the start", sizes: []int64{10, 10, 10, 10}, want: true},
		{name: "three readings are not enough", sizes: []int64{10, 10, 10, 11, 12, 13, 14, 15, 16}, want: false},
		{name: "grows then settles", sizes: []int64{1, 5, 9, 9, 9, 9}, want: true},
		{name: "keeps growing", sizes: []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, want: false},
		{name: "shrinks and settles", sizes: []int64{9, 3, 3, 3, 3}, want: true},
		{name: "change resets the count", sizes: []int64{4, 4, 4, 7, 7, 7, 7}, want: true},
		{name: "empty file settles", sizes: []int64{0, 0, 0, 0}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := scriptedDetector(3, tt.sizes...)
			assert.Equal(t, tt.want, d.IsSettled(context.Background(), "ignored"))
		})
	}
}

func TestIsSettled_NeedsSamplesPlusOneReadings(t *testing.T) {
	d, calls := scriptedDetector(3, 10, 10, 10, 10)

	assert.True(t, d.IsSettled(context.Background(), "ignored"))
	assert.Equal(t, 4, *calls)
}

func TestIsSettled_BoundedRounds(t *testing.T) {
	sizes := make([]int64, 100)
	for i := range sizes {
		sizes[i] = int64(i)
	}
	d, calls := scriptedDetector(3, sizes...)

	assert.False(t, d.IsSettled(context.Background(), "ignored"))
	assert.Equal(t, 9, *calls)
}

func TestIsSettled_VanishedFile(t *testing.T) {
	d := NewDetector(3, time.Millisecond)
	assert.False(t, d.IsSettled(context.Background(), filepath.Join(t.TempDir(), "missing.pdf")))

	calls := 0
	d.stat = func(string) (int64, error) {
		calls++
		if calls == 2 {
			return 0, os.ErrNotExist
		}
		return 42, nil
	}
	d.sleep = func(context.Context, time.Duration) error { return nil }
	assert.False(t, d.IsSettled(context.Background(), "ignored"))
}

func TestIsSettled_ContextCancelled(t *testing.T) {
	d, _ := scriptedDetector(3, 5, 5, 5)
	d.sleep = func(context.Context, time.Duration) error { return context.Canceled }

	assert.False(t, d.IsSettled(context.Background(), "ignored"))
}

func TestIsSettled_RealFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	d := NewDetector(2, 5*time.Millisecond)
	assert.True(t, d.IsSettled(context.Background(), path))
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sleepContext(ctx, time.Hour)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))
}

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Veraticus/docsort/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingRunner struct {
	err    error
	onCall func(n int)
	calls  []time.Time
	mu     sync.Mutex
}

func (r *countingRunner) RunAll(_ context.Context, sources []model.Source) ([]*model.PassReport, error) {
	r.mu.Lock()
	r.calls = append(r.calls, time.Now())
	n := len(r.calls)
	r.mu.Unlock()
	if r.onCall != nil {
		r.onCall(n)
	}
	reports := make([]*model.PassReport, 0, len(sources))
	for _, src := range sources {
		reports = append(reports, &model.PassReport{Source: src})
	}
	return reports, r.err
}

func (r *countingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestLoop_RepeatsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := &countingRunner{onCall: func(n int) {
		if n == 3 {
			cancel()
		}
	}}
	loop := New(runner, []model.Source{{Dir: t.TempDir()}}, 10*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
	assert.Equal(t, 3, runner.count())
}

func TestLoop_FailedPassIsRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var passErrs []error
	runner := &countingRunner{err: errors.New("share offline")}
	loop := New(runner, nil, 5*time.Millisecond)
	loop.OnPass = func(_ []*model.PassReport, err error) {
		passErrs = append(passErrs, err)
		if len(passErrs) == 2 {
			cancel()
		}
	}

	require.NoError(t, loop.Run(ctx))
	require.Len(t, passErrs, 2)
	for _, err := range passErrs {
		assert.EqualError(t, err, "share offline")
	}
}

func TestLoop_OnPassReceivesReports(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sources := []model.Source{{Dir: "/in/a"}, {Dir: "/in/b"}}
	var got []*model.PassReport
	loop := New(&countingRunner{}, sources, time.Hour)
	loop.newWatcher = func() (*fsnotify.Watcher, error) { return nil, errors.New("no inotify") }
	loop.OnPass = func(reports []*model.PassReport, _ error) {
		got = reports
		cancel()
	}

	require.NoError(t, loop.Run(ctx))
	require.Len(t, got, 2)
	assert.Equal(t, "/in/b", got[1].Source.Dir)
}

func TestLoop_DefaultInterval(t *testing.T) {
	loop := New(&countingRunner{}, nil, 0)
	assert.Equal(t, DefaultInterval, loop.Interval)
	assert.Equal(t, DefaultDebounce, loop.Debounce)
}

func TestLoop_FileEventWakesEarly(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := &countingRunner{}
	runner.onCall = func(n int) {
		switch n {
		case 1:
			// Drop a file after the first pass; the hour-long interval means
			// only the watcher can trigger the second pass.
			go func() {
				time.Sleep(50 * time.Millisecond)
				_ = os.WriteFile(filepath.Join(dir, "invoice.pdf"), []byte("x"), 0o600)
			}()
		case 2:
			cancel()
		}
	}
	loop := New(runner, []model.Source{{Dir: dir}}, time.Hour)
	loop.Debounce = 10 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		cancel()
		<-done
		t.Skip("filesystem notifications not delivered in this environment")
	}
	assert.Equal(t, 2, runner.count())
}

func TestLoop_UnwatchableSourceStillPolls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := &countingRunner{onCall: func(n int) {
		if n == 2 {
			cancel()
		}
	}}
	missing := filepath.Join(t.TempDir(), "not-there")
	loop := New(runner, []model.Source{{Dir: missing}}, 5*time.Millisecond)

	require.NoError(t, loop.Run(ctx))
	assert.Equal(t, 2, runner.count())
}

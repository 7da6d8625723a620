// Package mover moves files into place without overwriting, retrying
// transient failures and quarantining files that cannot be moved.
package mover

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/model"
	"github.com/Veraticus/docsort/internal/service"
)

const (
	// DefaultRetries is the number of retries after the first failed attempt.
	DefaultRetries = 3
	// DefaultDelay is the fixed wait between attempts.
	DefaultDelay = 2 * time.Second
	// QuarantinePrefix is prepended to the names of quarantined files.
	QuarantinePrefix = "unmoved_"
)

// Result is the outcome of one Move.
type Result struct {
	Err       error
	FinalPath string
	State     model.FileState
	Attempts  int
}

// Mover relocates files. It is not safe for concurrent use on the same paths.
type Mover struct {
	rename        func(src, dst string) error
	QuarantineDir string
	Retries       int
	Delay         time.Duration
}

// New creates a mover that quarantines into quarantineDir. A negative retry
// count or delay takes the default.
func New(quarantineDir string, retries int, delay time.Duration) *Mover {
	if retries < 0 {
		retries = DefaultRetries
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Mover{
		QuarantineDir: quarantineDir,
		Retries:       retries,
		Delay:         delay,
		rename:        os.Rename,
	}
}

// Move relocates src to dest. An existing dest is never overwritten; the
// file is saved as "name (n).ext" instead. When every attempt fails the file
// is moved into the quarantine folder as "unmoved_<name>". If even that
// fails the file stays where it is and the result is StateDeferred.
func (m *Mover) Move(ctx context.Context, src, dest string) Result {
	if !exists(src) {
		slog.Warn("File not found", "path", src)
		return Result{State: model.StateSkippedNotFound, Err: fmt.Errorf("%w: %s", common.ErrSourceMissing, src)}
	}

	var res Result
	err := common.WithRetry(ctx, func() error {
		res.Attempts++
		if err := os.MkdirAll(filepath.Dir(dest), 0o750); err != nil {
			return fmt.Errorf("failed to create destination directory: %w", err)
		}

		target := dest
		if exists(target) {
			target = UniquePath(dest)
		}
		if err := m.moveFile(src, target); err != nil {
			if !exists(src) {
				return common.Permanent(fmt.Errorf("%w: %s", common.ErrSourceMissing, src))
			}
			return err
		}

		res.FinalPath = target
		return nil
	}, service.RetryOptions{
		MaxAttempts:  m.Retries + 1,
		InitialDelay: m.Delay,
		MaxDelay:     m.Delay,
		Multiplier:   1,
	})

	switch {
	case err == nil:
		res.State = model.StateMoved
		if res.FinalPath != dest {
			slog.Info("Name collision, saved with counter", "src", src, "dest", res.FinalPath)
		} else {
			slog.Info("Moved file", "src", src, "dest", res.FinalPath)
		}
		return res
	case errors.Is(err, common.ErrSourceMissing):
		res.State = model.StateSkippedNotFound
		res.Err = err
		return res
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		res.State = model.StateDeferred
		res.Err = err
		return res
	}

	slog.Error("Move failed, quarantining", "src", src, "dest", dest, "attempts", res.Attempts, "error", err)
	return m.quarantine(src, res.Attempts, err)
}

func (m *Mover) quarantine(src string, attempts int, moveErr error) Result {
	res := Result{Attempts: attempts, Err: moveErr}

	if m.QuarantineDir == "" {
		res.State = model.StateDeferred
		return res
	}

	if err := os.MkdirAll(m.QuarantineDir, 0o750); err != nil {
		slog.Error("Failed to quarantine", "src", src, "error", err)
		res.State = model.StateDeferred
		res.Err = errors.Join(moveErr, fmt.Errorf("failed to create quarantine directory: %w", err))
		return res
	}

	target := UniquePath(filepath.Join(m.QuarantineDir, QuarantinePrefix+filepath.Base(src)))
	if err := m.moveFile(src, target); err != nil {
		slog.Error("Failed to quarantine", "src", src, "error", err)
		res.State = model.StateDeferred
		res.Err = errors.Join(moveErr, fmt.Errorf("failed to quarantine: %w", err))
		return res
	}

	slog.Warn("Quarantined file that could not be moved", "src", src, "dest", target)
	res.State = model.StateQuarantined
	res.FinalPath = target
	return res
}

// UniquePath returns path if nothing exists there, otherwise the first free
// "base (n).ext" for n = 1, 2, ...
func UniquePath(path string) string {
	if !exists(path) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if !exists(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

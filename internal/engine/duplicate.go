package engine

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/docsort/internal/mover"
)

// markDuplicate applies the two-factor duplicate policy: a file is renamed
// with the duplicate prefix only when the ledger saw its hash within the
// window AND another file in the same folder has the same name, ignoring
// case, and the same hash. It returns the possibly new path and name.
func (r *Router) markDuplicate(ctx context.Context, logger *slog.Logger, dir, path, name, hash string) (string, string, bool) {
	if r.ledger == nil || hash == "" {
		return path, name, false
	}

	seen, err := r.ledger.SeenRecently(ctx, hash, r.config.DedupWindow)
	if err != nil {
		logger.Warn("Ledger lookup failed, skipping duplicate check", "path", path, "error", err)
		return path, name, false
	}
	if !seen {
		return path, name, false
	}

	twin := r.findTwin(dir, path, name, hash)
	if twin == "" {
		return path, name, false
	}

	marked := mover.UniquePath(filepath.Join(dir, r.config.DuplicatePrefix+name))
	if err := os.Rename(path, marked); err != nil {
		logger.Warn("Failed to mark duplicate", "path", path, "error", err)
		return path, name, false
	}

	logger.Info("Duplicate present in source",
		"path", path,
		"matched", twin,
		"renamed", filepath.Base(marked))
	return marked, filepath.Base(marked), true
}

// findTwin returns another regular file in dir whose name equals name
// ignoring case and whose content hash equals hash.
func (r *Router) findTwin(dir, path, name, hash string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.EqualFold(e.Name(), name) {
			continue
		}
		candidate := filepath.Join(dir, e.Name())
		if candidate == path {
			continue
		}
		if h, hashErr := r.hash(candidate); hashErr == nil && h == hash {
			return candidate
		}
	}
	return ""
}

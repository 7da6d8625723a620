package engine

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// sentinelNames are files that sync clients and desktop shells create in
// every folder. They are never routed.
var sentinelNames = map[string]bool{
	"desktop.ini": true,
	"thumbs.db":   true,
	".ds_store":   true,
}

// isSentinel reports whether name should be ignored by the router.
func isSentinel(name string) bool {
	lower := strings.ToLower(name)
	return sentinelNames[lower] || strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".")
}

// ignored reports whether name matches one of the configured ignore patterns.
func (r *Router) ignored(name string) bool {
	for _, pattern := range r.config.IgnorePatterns {
		matched, err := doublestar.Match(pattern, strings.ToLower(name))
		if err != nil {
			slog.Debug("Error matching ignore pattern", "pattern", pattern, "name", name, "error", err)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// listFiles returns the routable regular files in dir, sorted by name.
func (r *Router) listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list source directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || isSentinel(e.Name()) || r.ignored(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Sidecar reads text that an upstream tool wrote next to the document,
// at the document path plus Suffix.
type Sidecar struct {
	Suffix string
}

// Extract implements Extractor.
func (s Sidecar) Extract(_ context.Context, path string) (string, error) {
	suffix := s.Suffix
	if suffix == "" {
		suffix = ".txt"
	}
	data, err := os.ReadFile(path + suffix) // #nosec G304
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: no sidecar for %s", ErrUnavailable, path)
		}
		return "", fmt.Errorf("failed to read sidecar: %w", err)
	}
	return string(data), nil
}

// Package fingerprint computes content hashes used for duplicate detection.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// BlockSize is the read buffer size used when streaming a file.
const BlockSize = 1 << 20

// File returns the lowercase hex SHA-256 of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from a watched source folder
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Reader(f)
}

// Reader returns the lowercase hex SHA-256 of everything read from r.
func Reader(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, BlockSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("failed to hash content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

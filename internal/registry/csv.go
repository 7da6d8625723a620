// Package registry loads the vendor rule table and the client registry from
// tabular sources and answers lookups against them.
package registry

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/service"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVSource reads rows from a CSV file on disk.
type CSVSource struct {
	Path  string
	Retry service.RetryOptions
}

// NewCSVSource creates a CSV row source. Reads are retried because the file
// may be held open by a spreadsheet application or a sync client.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{
		Path: path,
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// Describe implements service.RowSource.
func (s *CSVSource) Describe() string {
	return "csv:" + s.Path
}

// Rows implements service.RowSource. A missing file is reported as
// common.ErrSourceMissing without retrying.
func (s *CSVSource) Rows(ctx context.Context) ([][]string, error) {
	var raw []byte
	err := common.WithRetry(ctx, func() error {
		data, readErr := os.ReadFile(s.Path)
		if readErr != nil {
			if errors.Is(readErr, fs.ErrNotExist) {
				return common.Permanent(fmt.Errorf("%w: %s", common.ErrSourceMissing, s.Path))
			}
			return readErr
		}
		raw = data
		return nil
	}, s.Retry)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}

	return ParseCSV(raw)
}

// ParseCSV decodes CSV content, accepting UTF-8 (with or without a BOM) and
// falling back to ISO-8859-1 when the bytes are not valid UTF-8.
func ParseCSV(raw []byte) ([][]string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode latin-1 content: %w", err)
		}
		raw = decoded
	}

	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}

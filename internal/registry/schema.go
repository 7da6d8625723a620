package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumn is returned when a required field cannot be located in a header.
var ErrMissingColumn = errors.New("missing column")

// Field is one named column of a schema.
type Field struct {
	Name     string
	Required bool
}

// Schema is an ordered list of fields. Header names are matched first; a
// field whose name is absent falls back to its position in the list.
type Schema []Field

// Columns maps each field name to its column index in header, or -1 when an
// optional field is absent.
func (s Schema) Columns(header []string) (map[string]int, error) {
	trimmed := make([]string, len(header))
	byName := make(map[string]int, len(header))
	for i, h := range header {
		trimmed[i] = strings.TrimSpace(h)
		if _, dup := byName[trimmed[i]]; !dup {
			byName[trimmed[i]] = i
		}
	}

	claimed := make(map[int]bool, len(s))
	columns := make(map[string]int, len(s))
	for _, f := range s {
		if idx, ok := byName[f.Name]; ok {
			columns[f.Name] = idx
			claimed[idx] = true
		}
	}

	for pos, f := range s {
		if _, ok := columns[f.Name]; ok {
			continue
		}
		if pos < len(header) && !claimed[pos] {
			columns[f.Name] = pos
			claimed[pos] = true
			continue
		}
		if f.Required {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, f.Name)
		}
		columns[f.Name] = -1
	}

	return columns, nil
}

// cell returns the trimmed value of column idx in row, or "" when absent.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

package registry

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/model"
	"github.com/Veraticus/docsort/internal/service"
)

// Vendor table column names.
const (
	ColumnVendor     = "Vendor"
	ColumnFolderType = "FolderType"
)

// VendorSchema is the expected layout of the vendor table.
var VendorSchema = Schema{
	{Name: ColumnVendor, Required: true},
	{Name: ColumnFolderType, Required: true},
}

var filenameSeparators = regexp.MustCompile(`[\s\x{00A0}._-]+`)

// VendorTable is the ordered vendor rule table. Earlier rules win.
type VendorTable struct {
	rules []model.VendorRule
}

// NewVendorTable builds a table from rules, deriving each rule's key.
// Rules with an empty key are dropped.
func NewVendorTable(rules []model.VendorRule) *VendorTable {
	t := &VendorTable{rules: make([]model.VendorRule, 0, len(rules))}
	for _, r := range rules {
		r.Name = strings.TrimSpace(r.Name)
		r.Key = common.Squash(r.Name)
		if r.Key == "" {
			continue
		}
		t.rules = append(t.rules, r)
	}
	return t
}

// LoadVendors reads the vendor table from src. Rows with a blank vendor or a
// folder type that is not an integer are skipped with a warning.
func LoadVendors(ctx context.Context, src service.RowSource) (*VendorTable, error) {
	rows, err := src.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendors: %w", err)
	}
	if len(rows) == 0 {
		return NewVendorTable(nil), nil
	}

	cols, err := VendorSchema.Columns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("vendor table %s: %w", src.Describe(), err)
	}

	rules := make([]model.VendorRule, 0, len(rows)-1)
	for i, row := range rows[1:] {
		name := cell(row, cols[ColumnVendor])
		rawType := cell(row, cols[ColumnFolderType])
		if name == "" {
			continue
		}
		folderType, convErr := parseFolderType(rawType)
		if convErr != nil {
			slog.Warn("Skipping vendor row with invalid folder type",
				"source", src.Describe(),
				"row", i+2,
				"vendor", name,
				"folder_type", rawType)
			continue
		}
		rules = append(rules, model.VendorRule{Name: name, FolderType: folderType})
	}

	table := NewVendorTable(rules)
	slog.Debug("Loaded vendor table", "source", src.Describe(), "rules", table.Len())
	return table, nil
}

// parseFolderType accepts integers, including spreadsheet exports like "2.0".
func parseFolderType(s string) (model.FolderType, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return model.FolderType(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid folder type %q", s)
	}
	return model.FolderType(int(f)), nil
}

// Len returns the number of rules.
func (t *VendorTable) Len() int {
	return len(t.rules)
}

// Rules returns a copy of the rules in table order.
func (t *VendorTable) Rules() []model.VendorRule {
	out := make([]model.VendorRule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Match returns the first rule whose key is contained in squashed, which
// must already have whitespace removed and be case folded.
func (t *VendorTable) Match(squashed string) (model.VendorRule, bool) {
	if squashed == "" {
		return model.VendorRule{}, false
	}
	for _, r := range t.rules {
		if strings.Contains(squashed, r.Key) {
			return r, true
		}
	}
	return model.VendorRule{}, false
}

// MatchFilename matches rules against the stem of filename with separators removed.
func (t *VendorTable) MatchFilename(filename string) (model.VendorRule, bool) {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	return t.Match(common.Squash(filenameSeparators.ReplaceAllString(stem, "")))
}

package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/model"
	"github.com/Veraticus/docsort/internal/service"
)

// Client registry column names.
const (
	ColumnClientCode  = "Client Code"
	ColumnKnownNames  = "All Known Names"
	ColumnNDISNumber  = "NDIS Number"
	ColumnPlanManager = "Assigned Plan Manager"
)

// ClientSchema is the expected layout of the client registry.
var ClientSchema = Schema{
	{Name: ColumnClientCode, Required: true},
	{Name: ColumnKnownNames},
	{Name: ColumnNDISNumber},
	{Name: ColumnPlanManager, Required: true},
}

// ClientRegistry resolves client codes in filenames to plan managers.
type ClientRegistry struct {
	byCode  map[string]int
	records []model.ClientRecord
}

// NewClientRegistry builds a registry from records in load order. Records
// with an empty code are excluded.
func NewClientRegistry(records []model.ClientRecord) *ClientRegistry {
	r := &ClientRegistry{
		records: make([]model.ClientRecord, 0, len(records)),
		byCode:  make(map[string]int, len(records)),
	}
	for _, rec := range records {
		rec.Code = strings.TrimSpace(rec.Code)
		if rec.Code == "" {
			continue
		}
		rec.NormalizedCode = common.Alnum(rec.Code)
		rec.PlanManager = strings.TrimSpace(rec.PlanManager)
		key := strings.ToLower(rec.Code)
		if _, exists := r.byCode[key]; !exists {
			r.byCode[key] = len(r.records)
		}
		r.records = append(r.records, rec)
	}
	return r
}

// LoadClients reads the client registry from src. A missing source yields an
// empty registry, so every file resolves to the unassigned plan manager.
func LoadClients(ctx context.Context, src service.RowSource) (*ClientRegistry, error) {
	rows, err := src.Rows(ctx)
	if err != nil {
		if errors.Is(err, common.ErrSourceMissing) {
			slog.Warn("Client registry source missing, continuing with no clients", "source", src.Describe())
			return NewClientRegistry(nil), nil
		}
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	if len(rows) == 0 {
		return NewClientRegistry(nil), nil
	}

	cols, err := ClientSchema.Columns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("client registry %s: %w", src.Describe(), err)
	}

	records := make([]model.ClientRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, model.ClientRecord{
			Code:        cell(row, cols[ColumnClientCode]),
			Aliases:     splitAliases(cell(row, cols[ColumnKnownNames])),
			NDISNumber:  cell(row, cols[ColumnNDISNumber]),
			PlanManager: cell(row, cols[ColumnPlanManager]),
		})
	}

	registry := NewClientRegistry(records)
	slog.Debug("Loaded client registry", "source", src.Describe(), "clients", registry.Len())
	return registry, nil
}

func splitAliases(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ',' || r == '|'
	})
	aliases := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			aliases = append(aliases, p)
		}
	}
	return aliases
}

// Len returns the number of client records.
func (r *ClientRegistry) Len() int {
	return len(r.records)
}

// Records returns a copy of the records in load order.
func (r *ClientRegistry) Records() []model.ClientRecord {
	out := make([]model.ClientRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Lookup finds a record by exact client code, ignoring case.
func (r *ClientRegistry) Lookup(code string) (model.ClientRecord, bool) {
	idx, ok := r.byCode[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return model.ClientRecord{}, false
	}
	return r.records[idx], true
}

// ResolvePlanManager returns the plan manager of the first client whose code
// prefixes the filename stem, either literally or after both are reduced to
// lowercase alphanumerics. It returns "" when no client matches.
func (r *ClientRegistry) ResolvePlanManager(filename string) string {
	rec, ok := r.Match(filename)
	if !ok {
		return ""
	}
	return rec.PlanManager
}

// Match returns the first client whose code prefixes the filename stem.
func (r *ClientRegistry) Match(filename string) (model.ClientRecord, bool) {
	base := filepath.Base(filename)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	normalized := common.Alnum(stem)

	for _, rec := range r.records {
		if strings.HasPrefix(stem, strings.ToLower(rec.Code)) {
			return rec, true
		}
		if rec.NormalizedCode != "" && strings.HasPrefix(normalized, rec.NormalizedCode) {
			return rec, true
		}
	}
	return model.ClientRecord{}, false
}

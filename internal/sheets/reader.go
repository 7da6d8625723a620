package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/service"
)

// valuesGetter fetches the raw cell values of a range.
type valuesGetter interface {
	Get(ctx context.Context, spreadsheetID, readRange string) ([][]any, error)
}

// apiValues fetches values through the Sheets API.
type apiValues struct {
	service *sheets.Service
}

func (a apiValues) Get(ctx context.Context, spreadsheetID, readRange string) ([][]any, error) {
	resp, err := a.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// Reader reads ranges from Google Sheets.
type Reader struct {
	values valuesGetter
	logger *slog.Logger
	config Config
}

// NewReader creates a Google Sheets reader.
func NewReader(ctx context.Context, config Config, logger *slog.Logger) (*Reader, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create token source: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Reader{
		values: apiValues{service: srv},
		logger: logger,
		config: config,
	}, nil
}

// Range returns a row source for readRange of the given spreadsheet.
func (r *Reader) Range(spreadsheetID, readRange string) *RangeSource {
	return &RangeSource{reader: r, spreadsheetID: spreadsheetID, readRange: normalizeRange(readRange)}
}

// RangeSource is a service.RowSource backed by a spreadsheet range.
type RangeSource struct {
	reader        *Reader
	spreadsheetID string
	readRange     string
}

// Describe implements service.RowSource.
func (s *RangeSource) Describe() string {
	return fmt.Sprintf("sheets:%s!%s", s.spreadsheetID, s.readRange)
}

// Rows implements service.RowSource.
func (s *RangeSource) Rows(ctx context.Context) ([][]string, error) {
	retryOpts := service.RetryOptions{
		MaxAttempts:  s.reader.config.RetryAttempts + 1,
		InitialDelay: s.reader.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var values [][]any
	err := common.WithRetry(ctx, func() error {
		var getErr error
		values, getErr = s.reader.values.Get(ctx, s.spreadsheetID, s.readRange)
		return getErr
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Describe(), err)
	}

	s.reader.logger.Debug("read sheet range", "range", s.Describe(), "rows", len(values))
	return toStrings(values), nil
}

func toStrings(values [][]any) [][]string {
	rows := make([][]string, 0, len(values))
	for _, raw := range values {
		row := make([]string, len(raw))
		for i, v := range raw {
			switch val := v.(type) {
			case nil:
			case string:
				row[i] = val
			default:
				row[i] = fmt.Sprint(val)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

var _ service.RowSource = (*RangeSource)(nil)

// normalizeRange defaults an empty range to the first 26 columns of the first sheet.
func normalizeRange(readRange string) string {
	if strings.TrimSpace(readRange) == "" {
		return "A:Z"
	}
	return readRange
}

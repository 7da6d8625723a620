package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/model"
	"github.com/Veraticus/docsort/internal/routing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("DOCSORT_TEST_DIR", "/srv/scans")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde prefix", "~/docs/ledger.db", filepath.Join(home, "docs", "ledger.db")},
		{"env var", "$DOCSORT_TEST_DIR/in", "/srv/scans/in"},
		{"plain", "/tmp/x", "/tmp/x"},
		{"tilde inside", "/tmp/~x", "/tmp/~x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func loadYAML(t *testing.T, doc string) (*Settings, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	return Load(v)
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, routing.DefaultLayout(), s.Layout)
	assert.Equal(t, 3, s.Settle.Samples)
	assert.Equal(t, 800*time.Millisecond, s.Settle.Interval)
	assert.Equal(t, 3, s.Mover.Retries)
	assert.Equal(t, 2*time.Second, s.Mover.Delay)
	assert.Equal(t, 90*24*time.Hour, s.Dedup.Window)
	assert.Equal(t, 5*time.Second, s.Watch.Interval)
	assert.Equal(t, []string{".pdf"}, s.Extract.Extensions)
	assert.Equal(t, "double_", s.Routing.DuplicatePrefix)
	assert.Equal(t, "receipt", s.Routing.ReceiptKeyword)
	assert.NotContains(t, s.Database.Path, "$HOME")
	assert.Empty(t, s.Sources)
	assert.Equal(t, "pdftoppm -r 300 -png {file} {out}", s.Extract.Render)
	assert.Equal(t, []int{1}, s.Extract.UnreadableCodes)
	assert.Empty(t, s.QuarantineRoot())
}

func TestSettings_QuarantineRoot(t *testing.T) {
	s, err := loadYAML(t, `
sources:
  - {dir: "/share/Attempt Code", dest: /share/Invoices, mode: passthrough}
  - {dir: /share/Inbox, dest: "/share/Invoice Program"}
  - {dir: /share/Failed, dest: /share/Elsewhere, mode: failed}
`)
	require.NoError(t, err)
	assert.Equal(t, "/share/Invoice Program", s.QuarantineRoot())

	t.Setenv("DOCSORT_TEST_HOLD", "/srv/hold")
	s, err = loadYAML(t, "mover:\n  quarantine_root: $DOCSORT_TEST_HOLD/docs\nsources:\n  - {dir: /a, dest: /b, mode: passthrough}\n")
	require.NoError(t, err)
	assert.Equal(t, "/srv/hold/docs", s.QuarantineRoot())

	s, err = loadYAML(t, "sources:\n  - {dir: /a, dest: /b, mode: passthrough}\n")
	require.NoError(t, err)
	assert.Empty(t, s.QuarantineRoot())
}

func TestLoad_FromYAML(t *testing.T) {
	t.Setenv("DOCSORT_TEST_SHARE", "/mnt/share")

	s, err := loadYAML(t, `
database:
  path: /var/lib/docsort/ledger.db
sources:
  - dir: $DOCSORT_TEST_SHARE/Attempt Code
    dest: /mnt/dest
    mode: passthrough
  - dir: /mnt/in
    dest: /mnt/dest
layout:
  sta: Respite
vendors:
  csv: /etc/docsort/vendors.csv
clients:
  sheet_id: abc123
settle:
  samples: 5
  interval: 250ms
mover:
  retries: 1
  delay: 1s
dedup:
  window: 720h
extract:
  ocr: ""
  extensions: [PDF, tiff]
`)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/docsort/ledger.db", s.Database.Path)
	require.Len(t, s.Sources, 2)
	assert.Equal(t, "/mnt/share/Attempt Code", s.Sources[0].Dir)
	assert.Equal(t, "Respite", s.Layout.STA)
	assert.Equal(t, routing.DefaultLayout().Streamline, s.Layout.Streamline)
	assert.False(t, s.Vendors.UsesSheets())
	assert.True(t, s.Clients.UsesSheets())
	assert.Equal(t, "Clients!A:D", s.Clients.SheetRange)
	assert.Equal(t, 5, s.Settle.Samples)
	assert.Equal(t, 250*time.Millisecond, s.Settle.Interval)
	assert.Equal(t, 30*24*time.Hour, s.Dedup.Window)
	assert.Empty(t, s.Extract.OCR)
	assert.Equal(t, []string{".pdf", ".tiff"}, s.Extract.Extensions)

	sources := s.ModelSources()
	require.Len(t, sources, 2)
	assert.Equal(t, model.ModePassthrough, sources[0].Mode)
	assert.Equal(t, model.ModeStandard, sources[1].Mode)
	assert.Equal(t, "/mnt/dest", sources[1].DestRoot)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{"bad mode", "sources:\n  - {dir: /a, dest: /b, mode: sideways}\n", "unknown source mode"},
		{"missing dest", "sources:\n  - {dir: /a}\n", "needs dir and dest"},
		{"zero samples", "settle:\n  samples: 0\n", "settle.samples"},
		{"negative retries", "mover:\n  retries: -1\n", "mover.retries"},
		{"zero window", "dedup:\n  window: 0s\n", "dedup.window"},
		{"bad level", "logging:\n  level: loud\n", "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadYAML(t, tt.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestTableSettings(t *testing.T) {
	assert.False(t, TableSettings{}.Configured())
	assert.True(t, TableSettings{CSV: "v.csv"}.Configured())
	assert.True(t, TableSettings{SheetID: "id"}.UsesSheets())
}

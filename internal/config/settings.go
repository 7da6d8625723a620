package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/model"
	"github.com/Veraticus/docsort/internal/routing"
)

// DefaultDatabasePath is where the duplicate ledger lives unless configured.
const DefaultDatabasePath = "$HOME/.local/share/docsort/ledger.db"

// SourceSettings configures one drained directory.
type SourceSettings struct {
	Dir  string `mapstructure:"dir"`
	Dest string `mapstructure:"dest"`
	Mode string `mapstructure:"mode"`
}

// TableSettings locates a registry table: a CSV file or a Sheets range.
type TableSettings struct {
	CSV        string `mapstructure:"csv"`
	SheetID    string `mapstructure:"sheet_id"`
	SheetRange string `mapstructure:"sheet_range"`
}

// UsesSheets reports whether the table is read from Google Sheets.
func (t TableSettings) UsesSheets() bool {
	return t.SheetID != ""
}

// Configured reports whether any location is set.
func (t TableSettings) Configured() bool {
	return t.CSV != "" || t.SheetID != ""
}

// Settings is the full docsort configuration.
type Settings struct {
	Layout   routing.Layout   `mapstructure:"layout"`
	Vendors  TableSettings    `mapstructure:"vendors"`
	Clients  TableSettings    `mapstructure:"clients"`
	Logging  LoggingSettings  `mapstructure:"logging"`
	Database DatabaseSettings `mapstructure:"database"`
	Routing  RoutingSettings  `mapstructure:"routing"`
	Extract  ExtractSettings  `mapstructure:"extract"`
	Sources  []SourceSettings `mapstructure:"sources"`
	Settle   SettleSettings   `mapstructure:"settle"`
	Mover    MoverSettings    `mapstructure:"mover"`
	Dedup    DedupSettings    `mapstructure:"dedup"`
	Watch    WatchSettings    `mapstructure:"watch"`
}

// DatabaseSettings locates the ledger database.
type DatabaseSettings struct {
	Path string `mapstructure:"path"`
}

// RoutingSettings holds the filename conventions of the router. Ignore
// lists glob patterns for files that are left in the source folder.
type RoutingSettings struct {
	DuplicatePrefix string   `mapstructure:"duplicate_prefix"`
	CorruptPrefix   string   `mapstructure:"corrupt_prefix"`
	ReceiptKeyword  string   `mapstructure:"receipt_keyword"`
	Ignore          []string `mapstructure:"ignore"`
}

// SettleSettings controls the size-stability check.
type SettleSettings struct {
	Samples  int           `mapstructure:"samples"`
	Interval time.Duration `mapstructure:"interval"`
}

// MoverSettings controls move retries. QuarantineRoot is the destination
// root whose failed folder receives files that could not be moved.
type MoverSettings struct {
	QuarantineRoot string        `mapstructure:"quarantine_root"`
	Retries        int           `mapstructure:"retries"`
	Delay          time.Duration `mapstructure:"delay"`
}

// DedupSettings controls the duplicate ledger.
type DedupSettings struct {
	Window time.Duration `mapstructure:"window"`
}

// ExtractSettings configures text extraction. Text, Render and OCR are
// command lines where {file} is replaced by the input path; an empty command
// disables that step. Render writes page images to the {out} prefix and OCR
// then runs once per page. UnreadableCodes are the exit codes of Text and
// Render that mark a document corrupt.
type ExtractSettings struct {
	Text            string        `mapstructure:"text"`
	Render          string        `mapstructure:"render"`
	OCR             string        `mapstructure:"ocr"`
	Sidecar         string        `mapstructure:"sidecar"`
	Extensions      []string      `mapstructure:"extensions"`
	UnreadableCodes []int         `mapstructure:"unreadable_codes"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// WatchSettings controls the polling loop.
type WatchSettings struct {
	Interval time.Duration `mapstructure:"interval"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// LoggingSettings configures the global logger.
type LoggingSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	layout := routing.DefaultLayout()
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("layout.unassigned", layout.Unassigned)
	v.SetDefault("layout.sta", layout.STA)
	v.SetDefault("layout.streamline", layout.Streamline)
	v.SetDefault("layout.manual_lodgement", layout.ManualLodgement)
	v.SetDefault("layout.at_consumables", layout.ATConsumables)
	v.SetDefault("layout.new_provider", layout.NewProvider)
	v.SetDefault("layout.ndis_statements", layout.NDISStatements)
	v.SetDefault("layout.receipts", layout.Receipts)
	v.SetDefault("layout.failed_root", layout.FailedRoot)
	v.SetDefault("layout.failed_streamline", layout.FailedStreamline)
	v.SetDefault("layout.failed_manual", layout.FailedManual)
	v.SetDefault("layout.failed_at", layout.FailedAT)
	v.SetDefault("layout.quarantine", layout.Quarantine)

	v.SetDefault("vendors.sheet_range", "Vendors!A:B")
	v.SetDefault("clients.sheet_range", "Clients!A:D")

	v.SetDefault("routing.duplicate_prefix", "double_")
	v.SetDefault("routing.corrupt_prefix", "corrupt_")
	v.SetDefault("routing.receipt_keyword", "receipt")

	v.SetDefault("settle.samples", 3)
	v.SetDefault("settle.interval", 800*time.Millisecond)
	v.SetDefault("mover.retries", 3)
	v.SetDefault("mover.delay", 2*time.Second)
	v.SetDefault("dedup.window", 90*24*time.Hour)

	v.SetDefault("extract.text", "pdftotext -layout {file} -")
	v.SetDefault("extract.render", "pdftoppm -r 300 -png {file} {out}")
	v.SetDefault("extract.ocr", "tesseract {file} stdout")
	v.SetDefault("extract.unreadable_codes", []int{1})
	v.SetDefault("extract.extensions", []string{".pdf"})
	v.SetDefault("extract.timeout", 2*time.Minute)

	v.SetDefault("watch.interval", 5*time.Second)
	v.SetDefault("watch.debounce", 500*time.Millisecond)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load applies defaults, decodes v into Settings, expands paths and
// validates the result.
func Load(v *viper.Viper) (*Settings, error) {
	SetDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	s.expand()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Settings) expand() {
	s.Database.Path = ExpandPath(s.Database.Path)
	s.Vendors.CSV = ExpandPath(s.Vendors.CSV)
	s.Clients.CSV = ExpandPath(s.Clients.CSV)
	s.Mover.QuarantineRoot = ExpandPath(s.Mover.QuarantineRoot)
	for i := range s.Sources {
		s.Sources[i].Dir = ExpandPath(s.Sources[i].Dir)
		s.Sources[i].Dest = ExpandPath(s.Sources[i].Dest)
	}
	for i, ext := range s.Extract.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.Extract.Extensions[i] = ext
	}
}

// Validate checks the settings for values the router cannot work with.
// Sources are optional here because commands may supply their own.
func (s *Settings) Validate() error {
	var problems []string

	if s.Database.Path == "" {
		problems = append(problems, "database.path is empty")
	}
	for i, src := range s.Sources {
		if src.Dir == "" || src.Dest == "" {
			problems = append(problems, fmt.Sprintf("sources[%d] needs dir and dest", i))
		}
		if _, err := model.ParseSourceMode(src.Mode); err != nil {
			problems = append(problems, fmt.Sprintf("sources[%d]: %v", i, err))
		}
	}
	if s.Settle.Samples < 1 {
		problems = append(problems, "settle.samples must be at least 1")
	}
	if s.Settle.Interval < 0 {
		problems = append(problems, "settle.interval cannot be negative")
	}
	if s.Mover.Retries < 0 {
		problems = append(problems, "mover.retries cannot be negative")
	}
	if s.Mover.Delay < 0 {
		problems = append(problems, "mover.delay cannot be negative")
	}
	if s.Dedup.Window <= 0 {
		problems = append(problems, "dedup.window must be positive")
	}
	if s.Routing.DuplicatePrefix == "" || s.Routing.CorruptPrefix == "" {
		problems = append(problems, "routing prefixes cannot be empty")
	}
	if s.Watch.Interval < 0 {
		problems = append(problems, "watch.interval cannot be negative")
	}
	if _, err := common.ParseLevel(s.Logging.Level); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// QuarantineRoot returns the destination root shared by every source for
// files that could not be moved: mover.quarantine_root when set, otherwise
// the destination of the first source that sorts documents. Passthrough
// destinations are skipped because they are not document trees.
func (s *Settings) QuarantineRoot() string {
	if s.Mover.QuarantineRoot != "" {
		return s.Mover.QuarantineRoot
	}
	for _, src := range s.Sources {
		if mode, err := model.ParseSourceMode(src.Mode); err == nil && mode != model.ModePassthrough {
			return src.Dest
		}
	}
	return ""
}

// ModelSources converts the configured sources.
func (s *Settings) ModelSources() []model.Source {
	out := make([]model.Source, 0, len(s.Sources))
	for _, src := range s.Sources {
		mode, err := model.ParseSourceMode(src.Mode)
		if err != nil {
			continue
		}
		out = append(out, model.Source{Dir: src.Dir, DestRoot: src.Dest, Mode: mode})
	}
	return out
}

// Package engine routes every file of a source directory to exactly one
// terminal location: settle, fingerprint, duplicate marking, classification,
// destination resolution, and the move itself.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/extract"
	"github.com/Veraticus/docsort/internal/fingerprint"
	"github.com/Veraticus/docsort/internal/model"
	"github.com/Veraticus/docsort/internal/mover"
	"github.com/Veraticus/docsort/internal/routing"
	"github.com/Veraticus/docsort/internal/service"
	"github.com/Veraticus/docsort/internal/settle"
)

// Config holds the routing options for the router.
type Config struct {
	Layout             routing.Layout
	DuplicatePrefix    string
	CorruptPrefix      string
	ReceiptKeyword     string
	DocumentExtensions []string
	DedupWindow        time.Duration
	MoveRetries        int
	MoveDelay          time.Duration
	// QuarantineRoot, when set, replaces each source's destination root as
	// the base of the quarantine folder.
	QuarantineRoot string
	// IgnorePatterns are doublestar globs matched against lowercased file
	// names; matching files stay in the source folder.
	IgnorePatterns []string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Layout:             routing.DefaultLayout(),
		DuplicatePrefix:    "double_",
		CorruptPrefix:      "corrupt_",
		ReceiptKeyword:     "receipt",
		DocumentExtensions: []string{".pdf"},
		DedupWindow:        90 * 24 * time.Hour,
		MoveRetries:        mover.DefaultRetries,
		MoveDelay:          mover.DefaultDelay,
	}
}

// Deps are the collaborators of a router. Ledger, Extractor, Settle, Hash,
// NewMover and Observer are optional.
type Deps struct {
	Ledger     service.Ledger
	Classifier Classifier
	Clients    PlanManagerResolver
	Extractor  extract.Extractor
	Settle     SettleChecker
	Observer   Observer
	Hash       func(path string) (string, error)
	NewMover   func(quarantineDir string) FileMover
	Now        func() time.Time
}

// Router drains source directories. Passes run sequentially; a router must
// not be used by two goroutines at once.
type Router struct {
	ledger     service.Ledger
	classifier Classifier
	clients    PlanManagerResolver
	extractor  extract.Extractor
	settle     SettleChecker
	observer   Observer
	hash       func(string) (string, error)
	newMover   func(string) FileMover
	now        func() time.Time
	docExts    map[string]bool
	config     Config
}

// New creates a router with the given configuration and collaborators.
func New(config Config, deps Deps) (*Router, error) {
	if deps.Classifier == nil {
		return nil, fmt.Errorf("%w: classifier is required", common.ErrInvalidConfig)
	}
	if deps.Clients == nil {
		return nil, fmt.Errorf("%w: client registry is required", common.ErrInvalidConfig)
	}

	patterns := make([]string, 0, len(config.IgnorePatterns))
	for _, pattern := range config.IgnorePatterns {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: bad ignore pattern %q", common.ErrInvalidConfig, pattern)
		}
		patterns = append(patterns, pattern)
	}
	config.IgnorePatterns = patterns

	defaults := DefaultConfig()
	if config.DuplicatePrefix == "" {
		config.DuplicatePrefix = defaults.DuplicatePrefix
	}
	if config.CorruptPrefix == "" {
		config.CorruptPrefix = defaults.CorruptPrefix
	}
	if config.ReceiptKeyword == "" {
		config.ReceiptKeyword = defaults.ReceiptKeyword
	}
	if config.DedupWindow <= 0 {
		config.DedupWindow = defaults.DedupWindow
	}

	r := &Router{
		ledger:     deps.Ledger,
		classifier: deps.Classifier,
		clients:    deps.Clients,
		extractor:  deps.Extractor,
		settle:     deps.Settle,
		observer:   deps.Observer,
		hash:       deps.Hash,
		newMover:   deps.NewMover,
		now:        deps.Now,
		config:     config,
		docExts:    make(map[string]bool, len(config.DocumentExtensions)),
	}
	for _, ext := range config.DocumentExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		r.docExts[ext] = true
	}
	if r.extractor == nil {
		r.extractor = extract.None
	}
	if r.settle == nil {
		r.settle = settle.NewDetector(settle.DefaultSamples, settle.DefaultInterval)
	}
	if r.observer == nil {
		r.observer = NopObserver{}
	}
	if r.hash == nil {
		r.hash = fingerprint.File
	}
	if r.newMover == nil {
		r.newMover = func(quarantineDir string) FileMover {
			return mover.New(quarantineDir, config.MoveRetries, config.MoveDelay)
		}
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// RouteDirectory routes every file in sourceDir under destRoot in standard mode.
func (r *Router) RouteDirectory(ctx context.Context, sourceDir, destRoot string) (*model.PassReport, error) {
	return r.Run(ctx, model.Source{Dir: sourceDir, DestRoot: destRoot, Mode: model.ModeStandard})
}

// RunAll runs one pass per source in order. A failing source does not stop
// the remaining ones; cancellation does.
func (r *Router) RunAll(ctx context.Context, sources []model.Source) ([]*model.PassReport, error) {
	reports := make([]*model.PassReport, 0, len(sources))
	var errs []error
	for _, src := range sources {
		report, err := r.Run(ctx, src)
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil {
			if ctx.Err() != nil {
				return reports, ctx.Err()
			}
			slog.Error("Pass failed", "source", src.Dir, "error", err)
			errs = append(errs, err)
		}
	}
	return reports, errors.Join(errs...)
}

// Run performs one pass over src. Per-file failures are recorded in the
// report and never abort the pass; cancellation is honored between files.
func (r *Router) Run(ctx context.Context, src model.Source) (*model.PassReport, error) {
	mode, err := model.ParseSourceMode(string(src.Mode))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	src.Mode = mode
	report := &model.PassReport{
		PassID:  uuid.NewString(),
		Source:  src,
		Started: r.now(),
	}
	logger := slog.With("pass_id", report.PassID, "source", src.Dir, "mode", string(src.Mode))

	names, err := r.listFiles(src.Dir)
	if err != nil {
		logger.Error("Source folder not readable", "error", err)
		report.Finished = r.now()
		return report, err
	}

	resolver := routing.NewResolver(src.DestRoot, r.config.Layout)
	mv := r.newMover(r.quarantineDir(resolver))

	logger.Info("Starting pass", "files", len(names))
	r.observer.OnPassStart(report, len(names))

	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		result := r.processFile(ctx, logger, src, resolver, mv, name)
		report.Results = append(report.Results, result)
		r.observer.OnFileDone(result)
	}

	report.Finished = r.now()
	logger.Info("Pass finished",
		"files", len(report.Results),
		"moved", report.Count(model.StateMoved),
		"quarantined", report.Count(model.StateQuarantined),
		"deferred", report.Count(model.StateDeferred),
		"not_found", report.Count(model.StateSkippedNotFound),
		"duplicates", report.Duplicates(),
		"duration", report.Finished.Sub(report.Started))

	return report, ctx.Err()
}

func (r *Router) quarantineDir(resolver *routing.Resolver) string {
	if r.config.QuarantineRoot == "" {
		return resolver.Quarantine()
	}
	return routing.NewResolver(r.config.QuarantineRoot, r.config.Layout).Quarantine()
}

// processFile takes one file to a terminal state, or leaves it deferred.
func (r *Router) processFile(ctx context.Context, logger *slog.Logger, src model.Source, resolver *routing.Resolver, mv FileMover, name string) (res model.FileResult) {
	start := time.Now()
	path := filepath.Join(src.Dir, name)
	res = model.FileResult{OriginalName: name, SourcePath: path, State: model.StateDiscovered}

	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic while routing %s: %v", name, p)
			if !res.State.IsTerminal() {
				res.State = model.StateDeferred
			}
			logger.Error("Recovered from panic", "path", path, "panic", p)
		}
		res.Duration = time.Since(start)
	}()

	info, err := os.Stat(path)
	if err != nil {
		res.State = model.StateSkippedNotFound
		res.Err = fmt.Errorf("%w: %s", common.ErrSourceMissing, path)
		logger.Warn("File not found", "path", path)
		return res
	}

	res.State = model.StateSettling
	if !r.settle.IsSettled(ctx, path) {
		if _, statErr := os.Stat(path); statErr != nil {
			res.State = model.StateSkippedNotFound
			res.Err = fmt.Errorf("%w: %s", common.ErrSourceMissing, path)
			return res
		}
		res.State = model.StateDeferred
		res.Err = common.ErrNotSettled
		logger.Info("Skipping file that has not settled", "path", path)
		return res
	}

	res.Size = info.Size()
	hash, err := r.hash(path)
	if err != nil {
		logger.Warn("Failed to hash file, continuing without duplicate detection", "path", path, "error", err)
	}
	res.Hash = hash
	res.State = model.StateFingerprinted

	path, name, res.Duplicate = r.markDuplicate(ctx, logger, src.Dir, path, name, hash)
	res.SourcePath = path

	decision, dest, err := r.decide(ctx, logger, src, resolver, path, name)
	if err != nil {
		res.State = model.StateDeferred
		res.Err = err
		return res
	}
	res.Decision = decision
	res.State = model.StateClassified
	logger.Debug("Classified file",
		"file", name,
		"category", decision.Category.String(),
		"plan_manager", decision.PlanManager)

	res.State = model.StateRouted
	moved := mv.Move(ctx, path, dest)
	res.State = moved.State
	res.FinalPath = moved.FinalPath
	res.Attempts = moved.Attempts
	res.Err = moved.Err

	if moved.State == model.StateMoved && hash != "" && r.ledger != nil {
		if err := r.ledger.Record(ctx, hash, moved.FinalPath, res.Size); err != nil {
			logger.Warn("Failed to record file history", "path", moved.FinalPath, "hash", hash, "error", err)
		}
	}

	logger.Debug("Routed file",
		"file", res.OriginalName,
		"state", string(res.State),
		"dest", res.FinalPath,
		"reason", decision.Reason)
	return res
}

// Decide returns the routing decision and destination path for a single file
// without moving it.
func (r *Router) Decide(ctx context.Context, src model.Source, path string) (*model.RoutingDecision, string, error) {
	if src.Mode == "" {
		src.Mode = model.ModeStandard
	}
	resolver := routing.NewResolver(src.DestRoot, r.config.Layout)
	return r.decide(ctx, slog.Default(), src, resolver, path, filepath.Base(path))
}

func (r *Router) decide(ctx context.Context, logger *slog.Logger, src model.Source, resolver *routing.Resolver, path, name string) (*model.RoutingDecision, string, error) {
	if src.Mode == model.ModePassthrough {
		d := &model.RoutingDecision{
			DestinationDir: resolver.Root(),
			PlanManager:    routing.UnassignedLabel,
			Reason:         "passthrough",
		}
		return d, filepath.Join(d.DestinationDir, name), nil
	}

	if src.Mode == model.ModeStandard && strings.Contains(strings.ToLower(name), r.config.ReceiptKeyword) {
		d := &model.RoutingDecision{
			DestinationDir: resolver.Receipts(),
			PlanManager:    routing.UnassignedLabel,
			Reason:         "receipt",
		}
		return d, filepath.Join(d.DestinationDir, name), nil
	}

	var text string
	if r.docExts[strings.ToLower(filepath.Ext(name))] {
		extracted, err := r.extractor.Extract(ctx, path)
		switch {
		case errors.Is(err, extract.ErrUnreadable):
			logger.Warn("Document unreadable, moving to corrupt", "path", path, "error", err)
			d := &model.RoutingDecision{
				DestinationDir: resolver.Corrupt(),
				PlanManager:    routing.UnassignedLabel,
				Reason:         "corrupt",
			}
			return d, filepath.Join(d.DestinationDir, r.config.CorruptPrefix+name), nil
		case ctx.Err() != nil:
			return nil, "", ctx.Err()
		case err != nil:
			logger.Warn("Text extraction failed, classifying on filename", "path", path, "error", err)
		default:
			text = extracted
		}
	}

	cat := r.classifier.Classify(name, text)

	var d model.RoutingDecision
	switch src.Mode {
	case model.ModeFailed:
		d = resolver.ResolveFailed(cat)
	case model.ModeStandard:
		d = resolver.Resolve(cat, r.clients.ResolvePlanManager(name))
	default:
		return nil, "", fmt.Errorf("%w: unknown source mode %q", common.ErrInvalidConfig, src.Mode)
	}

	logger.Debug("Classified document",
		"path", path,
		"category", cat.String(),
		"plan_manager", d.PlanManager,
		"dest", d.DestinationDir)
	return &d, filepath.Join(d.DestinationDir, name), nil
}

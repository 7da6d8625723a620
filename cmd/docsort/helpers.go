package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Veraticus/docsort/internal/classification"
	"github.com/Veraticus/docsort/internal/common"
	"github.com/Veraticus/docsort/internal/config"
	"github.com/Veraticus/docsort/internal/engine"
	"github.com/Veraticus/docsort/internal/extract"
	"github.com/Veraticus/docsort/internal/model"
	"github.com/Veraticus/docsort/internal/registry"
	"github.com/Veraticus/docsort/internal/service"
	"github.com/Veraticus/docsort/internal/settle"
	"github.com/Veraticus/docsort/internal/sheets"
	"github.com/Veraticus/docsort/internal/storage"
)

func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("invalid configuration", err)
	}
	return settings, nil
}

// openLedger opens the ledger database and brings its schema up to date.
func openLedger(ctx context.Context, settings *config.Settings) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(settings.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// tableSources resolves registry locations to row sources, sharing one
// Sheets reader between tables.
type tableSources struct {
	reader *sheets.Reader
}

func (t *tableSources) source(ctx context.Context, table config.TableSettings) (service.RowSource, error) {
	if !table.UsesSheets() {
		return registry.NewCSVSource(table.CSV), nil
	}
	if t.reader == nil {
		cfg, err := config.LoadSheetsConfig(viper.GetViper())
		if err != nil {
			return nil, common.NewUserError("Google Sheets credentials are not configured", err)
		}
		reader, err := sheets.NewReader(ctx, *cfg, slog.Default())
		if err != nil {
			return nil, err
		}
		t.reader = reader
	}
	return t.reader.Range(table.SheetID, table.SheetRange), nil
}

func loadVendors(ctx context.Context, settings *config.Settings, tables *tableSources) (*registry.VendorTable, error) {
	if !settings.Vendors.Configured() {
		return nil, common.NewUserError("no vendor table configured (set vendors.csv or vendors.sheet_id)", common.ErrMissingConfig)
	}
	src, err := tables.source(ctx, settings.Vendors)
	if err != nil {
		return nil, err
	}
	return registry.LoadVendors(ctx, src)
}

func loadClients(ctx context.Context, settings *config.Settings, tables *tableSources) (*registry.ClientRegistry, error) {
	if !settings.Clients.Configured() {
		slog.Warn("No client registry configured, every document goes to the unassigned plan manager")
		return registry.NewClientRegistry(nil), nil
	}
	src, err := tables.source(ctx, settings.Clients)
	if err != nil {
		return nil, err
	}
	return registry.LoadClients(ctx, src)
}

// buildExtractor layers the configured collaborators: sidecar text first,
// then embedded text, then OCR of rendered pages for documents the
// classifier cannot place.
func buildExtractor(settings *config.Settings, classifier *classification.Classifier) (extract.Extractor, error) {
	conclusive := func(path, text string) bool {
		return text != "" && !classification.Inconclusive(classifier.Classify(filepath.Base(path), text))
	}
	command := func(line string, judges bool) (*extract.Command, error) {
		c, err := extract.ParseCommand(line, settings.Extract.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
		}
		if judges {
			c.UnreadableCodes = settings.Extract.UnreadableCodes
		}
		return c, nil
	}

	var layers []extract.Extractor
	if settings.Extract.Sidecar != "" {
		layers = append(layers, extract.Sidecar{Suffix: settings.Extract.Sidecar})
	}
	if settings.Extract.Text != "" {
		c, err := command(settings.Extract.Text, true)
		if err != nil {
			return nil, err
		}
		layers = append(layers, c)
	}
	if settings.Extract.OCR != "" {
		ocr, err := command(settings.Extract.OCR, false)
		if err != nil {
			return nil, err
		}
		if settings.Extract.Render == "" {
			layers = append(layers, ocr)
		} else {
			render, err := command(settings.Extract.Render, true)
			if err != nil {
				return nil, err
			}
			layers = append(layers, &extract.Pages{Render: render, OCR: ocr})
		}
	}

	if len(layers) == 0 {
		return extract.None, nil
	}
	out := layers[len(layers)-1]
	for i := len(layers) - 2; i >= 0; i-- {
		out = &extract.Layered{Primary: layers[i], Fallback: out, Conclusive: conclusive}
	}
	return out, nil
}

func engineConfig(settings *config.Settings) engine.Config {
	return engine.Config{
		Layout:             settings.Layout,
		DuplicatePrefix:    settings.Routing.DuplicatePrefix,
		CorruptPrefix:      settings.Routing.CorruptPrefix,
		ReceiptKeyword:     settings.Routing.ReceiptKeyword,
		DocumentExtensions: settings.Extract.Extensions,
		DedupWindow:        settings.Dedup.Window,
		MoveRetries:        settings.Mover.Retries,
		MoveDelay:          settings.Mover.Delay,
		IgnorePatterns:     settings.Routing.Ignore,
		QuarantineRoot:     settings.QuarantineRoot(),
	}
}

// buildRouter wires a router from settings. A nil ledger disables
// duplicate history, which dry runs rely on.
func buildRouter(ctx context.Context, settings *config.Settings, ledger service.Ledger, observer engine.Observer) (*engine.Router, error) {
	tables := &tableSources{}
	vendors, err := loadVendors(ctx, settings, tables)
	if err != nil {
		return nil, err
	}
	clients, err := loadClients(ctx, settings, tables)
	if err != nil {
		return nil, err
	}

	classifier := classification.New(vendors)
	extractor, err := buildExtractor(settings, classifier)
	if err != nil {
		return nil, err
	}

	slog.Debug("Registries loaded", "vendors", vendors.Len(), "clients", clients.Len())

	return engine.New(engineConfig(settings), engine.Deps{
		Ledger:     ledger,
		Classifier: classifier,
		Clients:    clients,
		Extractor:  extractor,
		Settle:     settle.NewDetector(settings.Settle.Samples, settings.Settle.Interval),
		Observer:   observer,
	})
}

// resolveSources returns the flag-given source when --source is set and the
// configured sources otherwise.
func resolveSources(settings *config.Settings, dir, dest, mode string) ([]model.Source, error) {
	if dir == "" {
		sources := settings.ModelSources()
		if len(sources) == 0 {
			return nil, common.NewUserError("no sources configured (set sources in the config file or pass --source and --dest)", common.ErrMissingConfig)
		}
		return sources, nil
	}
	if dest == "" {
		return nil, common.NewUserError("--dest is required with --source", common.ErrMissingConfig)
	}
	m, err := model.ParseSourceMode(mode)
	if err != nil {
		return nil, common.NewUserError("invalid --mode", err)
	}
	return []model.Source{{Dir: config.ExpandPath(dir), DestRoot: config.ExpandPath(dest), Mode: m}}, nil
}

package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// OutputPlaceholder is replaced by the page image prefix in render arguments.
const OutputPlaceholder = "{out}"

// Pages renders a document to page images and recognizes each page with OCR.
// Image-only PDFs need this step because OCR tools do not read PDF input.
type Pages struct {
	Render *Command
	OCR    Extractor
}

// Extract implements Extractor. A render failure is returned as is; a page
// that OCR cannot read is skipped.
func (p *Pages) Extract(ctx context.Context, path string) (string, error) {
	dir, err := os.MkdirTemp("", "docsort-pages-")
	if err != nil {
		return "", fmt.Errorf("%w: failed to create page directory: %w", ErrUnavailable, err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			slog.Debug("Failed to remove page directory", "dir", dir, "error", rmErr)
		}
	}()

	render := *p.Render
	render.Args = p.Render.expand(OutputPlaceholder, filepath.Join(dir, "page"))
	if _, err := render.Extract(ctx, path); err != nil {
		return "", err
	}

	// pdftoppm zero-pads page numbers to a common width, so names sort in page order.
	pages, err := filepath.Glob(filepath.Join(dir, "page*"))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if len(pages) == 0 {
		return "", fmt.Errorf("%w: %s rendered no pages", ErrUnavailable, p.Render.Path)
	}
	sort.Strings(pages)

	texts := make([]string, 0, len(pages))
	for _, page := range pages {
		text, err := p.OCR.Extract(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			slog.Debug("Page recognition failed", "page", filepath.Base(page), "error", err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n"), nil
}

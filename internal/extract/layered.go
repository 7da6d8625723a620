package extract

import (
	"context"
	"errors"
	"log/slog"
)

// Layered tries Primary first and consults Fallback only when Conclusive
// rejects the primary text. A nil Conclusive accepts any non-empty text.
type Layered struct {
	Primary    Extractor
	Fallback   Extractor
	Conclusive func(path, text string) bool
}

// Extract implements Extractor. ErrUnreadable from Primary is returned as is
// so that the caller can treat the document as corrupt. Once Primary has read
// the document, Fallback errors only mean there is no extra text; Fallback
// speaks for the document only when Primary was unavailable.
func (l *Layered) Extract(ctx context.Context, path string) (string, error) {
	text, err := l.Primary.Extract(ctx, path)
	unavailable := false
	switch {
	case errors.Is(err, ErrUnreadable):
		return "", err
	case errors.Is(err, ErrUnavailable):
		slog.Debug("Primary text extraction unavailable", "path", path, "error", err)
		text = ""
		unavailable = true
	case err != nil:
		return "", err
	}

	if l.conclusive(path, text) || l.Fallback == nil {
		return text, nil
	}

	fallback, err := l.Fallback.Extract(ctx, path)
	if err != nil {
		slog.Debug("Fallback text extraction failed", "path", path, "error", err)
		if unavailable && errors.Is(err, ErrUnreadable) {
			return "", err
		}
		return text, nil
	}
	if fallback == "" {
		return text, nil
	}
	if text == "" {
		return fallback, nil
	}
	return text + "\n" + fallback, nil
}

func (l *Layered) conclusive(path, text string) bool {
	if l.Conclusive == nil {
		return text != ""
	}
	return l.Conclusive(path, text)
}

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/docsort/internal/model"
)

// ProgressObserver draws a progress bar per pass.
type ProgressObserver struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
}

// NewProgressObserver creates an observer writing to w.
func NewProgressObserver(w io.Writer) *ProgressObserver {
	return &ProgressObserver{writer: w}
}

// OnPassStart starts a new bar sized to the files found in the source.
func (p *ProgressObserver) OnPassStart(report *model.PassReport, files int) {
	p.bar = nil
	if files == 0 {
		return
	}
	desc := fmt.Sprintf("[cyan][bold]Routing %s[reset]", filepath.Base(report.Source.Dir))
	p.bar = progressbar.NewOptions(files,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// OnFileDone advances the bar by one file.
func (p *ProgressObserver) OnFileDone(model.FileResult) {
	if p.bar == nil {
		return
	}
	if err := p.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

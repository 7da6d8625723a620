package engine

import (
	"context"

	"github.com/Veraticus/docsort/internal/model"
	"github.com/Veraticus/docsort/internal/mover"
)

// Classifier defines the contract for document categorization.
type Classifier interface {
	Classify(filename, text string) model.Category
}

// PlanManagerResolver maps a filename to its client's plan manager.
type PlanManagerResolver interface {
	ResolvePlanManager(filename string) string
}

// SettleChecker decides whether a file has stopped changing.
type SettleChecker interface {
	IsSettled(ctx context.Context, path string) bool
}

// FileMover relocates a file with collision handling and quarantine.
type FileMover interface {
	Move(ctx context.Context, src, dest string) mover.Result
}

// Observer receives progress notifications during a pass.
type Observer interface {
	OnPassStart(report *model.PassReport, files int)
	OnFileDone(result model.FileResult)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

// OnPassStart implements Observer.
func (NopObserver) OnPassStart(*model.PassReport, int) {}

// OnFileDone implements Observer.
func (NopObserver) OnFileDone(model.FileResult) {}

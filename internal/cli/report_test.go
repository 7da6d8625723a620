package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/docsort/internal/model"
)

func sampleReport() *model.PassReport {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	return &model.PassReport{
		PassID:   "pass-1",
		Source:   model.Source{Dir: "/in/main", DestRoot: "/out", Mode: model.ModeStandard},
		Started:  start,
		Finished: start.Add(1500 * time.Millisecond),
		Results: []model.FileResult{
			{OriginalName: "a.pdf", State: model.StateMoved, FinalPath: "/out/Acme/a.pdf"},
			{OriginalName: "b.pdf", State: model.StateMoved, FinalPath: "/out/Acme/double_b.pdf", Duplicate: true},
			{OriginalName: "c.pdf", State: model.StateDeferred, Err: errors.New("file not settled")},
			{OriginalName: "d.pdf", State: model.StateQuarantined, FinalPath: "/out/Failed to Code/Could not move/unmoved_d.pdf", Err: errors.New("permission denied")},
		},
	}
}

func TestRenderPassReport_Counts(t *testing.T) {
	out := RenderPassReport(sampleReport(), false)

	assert.Contains(t, out, "2 moved")
	assert.Contains(t, out, "1 quarantined")
	assert.Contains(t, out, "1 deferred")
	assert.Contains(t, out, "1 duplicates")
	assert.Contains(t, out, "/in/main")
	assert.Contains(t, out, "c.pdf")
	assert.Contains(t, out, "file not settled")
	assert.Contains(t, out, "permission denied")
	assert.NotContains(t, out, "a.pdf")
}

func TestRenderPassReport_Verbose(t *testing.T) {
	out := RenderPassReport(sampleReport(), true)
	assert.Contains(t, out, "a.pdf")
	assert.Contains(t, out, "b.pdf (duplicate)")
}

func TestRenderPassReport_Empty(t *testing.T) {
	report := &model.PassReport{Source: model.Source{Dir: "/in", DestRoot: "/out", Mode: model.ModeFailed}}
	out := RenderPassReport(report, false)
	assert.Contains(t, out, "No files waiting")
	assert.Empty(t, RenderPassReport(nil, false))
}

func TestRenderDecision(t *testing.T) {
	decision := &model.RoutingDecision{
		Category: model.Category{
			Kind:        model.KindVendor,
			Vendor:      &model.VendorRule{Name: "Gear Co", FolderType: model.FolderATConsumables},
			VendorMatch: model.MatchText,
			FoundSTA:    true,
		},
		PlanManager:    "Acme Plans",
		DestinationDir: "/out/Acme Plans/AT&Consumables",
		Reason:         "vendor type 3",
	}
	out := RenderDecision("/in/ABC123 invoice.pdf", decision, "/out/Acme Plans/AT&Consumables/ABC123 invoice.pdf")

	assert.Contains(t, out, "ABC123 invoice.pdf")
	assert.Contains(t, out, "vendor:Gear Co")
	assert.Contains(t, out, "STA")
	assert.Contains(t, out, "Acme Plans")
	assert.Contains(t, out, "vendor type 3")
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{{"long value", "x"}, {"s", "y"}})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Index(lines[1], "x"), strings.Index(lines[2], "y"))
}

func TestRenderLedger(t *testing.T) {
	assert.Contains(t, RenderLedger(nil), "Ledger is empty")

	now := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	out := RenderLedger([]model.LedgerEntry{{
		Hash:      strings.Repeat("ab", 32),
		FirstSeen: now,
		LastSeen:  now,
		LastPath:  "/out/x.pdf",
	}})
	assert.Contains(t, out, "abababababab")
	assert.NotContains(t, out, strings.Repeat("ab", 32))
	assert.Contains(t, out, "/out/x.pdf")
}

func TestRenderVendorsAndClients(t *testing.T) {
	vendors := RenderVendors([]model.VendorRule{{Name: "Gear Co", Key: "gearco", FolderType: 3}})
	assert.Contains(t, vendors, "Gear Co")
	assert.Contains(t, vendors, "3")

	clients := RenderClients([]model.ClientRecord{{Code: "ABC123", PlanManager: "Acme Plans", Aliases: []string{"Jo", "Joanne"}}})
	assert.Contains(t, clients, "Acme Plans")
	assert.Contains(t, clients, "Jo; Joanne")
}

func TestProgressObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewProgressObserver(&buf)

	obs.OnPassStart(&model.PassReport{Source: model.Source{Dir: "/in/empty"}}, 0)
	obs.OnFileDone(model.FileResult{})
	assert.Nil(t, obs.bar)

	obs.OnPassStart(&model.PassReport{Source: model.Source{Dir: "/in/main"}}, 2)
	require.NotNil(t, obs.bar)
	obs.OnFileDone(model.FileResult{State: model.StateMoved})
	obs.OnFileDone(model.FileResult{State: model.StateMoved})
	assert.True(t, obs.bar.IsFinished())
	assert.Contains(t, buf.String(), "Routing main")
}

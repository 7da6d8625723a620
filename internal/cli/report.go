package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/docsort/internal/model"
)

// RenderPassReport summarizes a pass. Moved files are listed only when
// verbose is set; every other outcome is always listed.
func RenderPassReport(report *model.PassReport, verbose bool) string {
	if report == nil {
		return ""
	}

	title := fmt.Sprintf("%s  →  %s  (%s)", report.Source.Dir, report.Source.DestRoot, report.Source.Mode)
	duration := report.Finished.Sub(report.Started).Round(time.Millisecond)

	summary := strings.Join([]string{
		SuccessStyle.Render(fmt.Sprintf("%d moved", report.Count(model.StateMoved))),
		ErrorStyle.Render(fmt.Sprintf("%d quarantined", report.Count(model.StateQuarantined))),
		WarningStyle.Render(fmt.Sprintf("%d deferred", report.Count(model.StateDeferred))),
		SubtleStyle.Render(fmt.Sprintf("%d vanished", report.Count(model.StateSkippedNotFound))),
		WarningStyle.Render(fmt.Sprintf("%d duplicates", report.Duplicates())),
	}, "  ")
	summary += SubtleStyle.Render(fmt.Sprintf("   in %s", duration))

	var rows [][]string
	for _, res := range report.Results {
		if res.State == model.StateMoved && !verbose {
			continue
		}
		rows = append(rows, resultRow(res))
	}

	content := summary
	if len(rows) > 0 {
		content += "\n\n" + RenderTable([]string{"State", "File", "Outcome"}, rows)
	}
	if len(report.Results) == 0 {
		content += "\n" + FormatInfo("No files waiting")
	}
	return RenderBox(title, content)
}

func resultRow(res model.FileResult) []string {
	name := res.OriginalName
	if res.Duplicate {
		name += " (duplicate)"
	}

	var outcome string
	switch {
	case res.Err != nil && res.State != model.StateMoved:
		outcome = res.Err.Error()
	case res.FinalPath != "":
		outcome = res.FinalPath
	case res.Decision != nil:
		outcome = res.Decision.DestinationDir
	}

	return []string{
		StateStyle(res.State).Render(string(res.State)),
		name,
		outcome,
	}
}

// RenderDecision describes where a file would be routed.
func RenderDecision(path string, decision *model.RoutingDecision, destPath string) string {
	rows := [][]string{
		{"File", filepath.Base(path)},
		{"Category", decision.Category.String()},
	}
	if decision.Category.VendorMatch != model.MatchNone {
		rows = append(rows, []string{"Vendor match", string(decision.Category.VendorMatch)})
	}
	var markers []string
	if decision.Category.FoundSTA {
		markers = append(markers, "STA")
	}
	if decision.Category.FoundRespite {
		markers = append(markers, "respite")
	}
	if len(markers) > 0 {
		rows = append(rows, []string{"Markers", strings.Join(markers, ", ")})
	}
	if decision.PlanManager != "" {
		rows = append(rows, []string{"Plan manager", decision.PlanManager})
	}
	rows = append(rows,
		[]string{"Reason", decision.Reason},
		[]string{"Destination", destPath},
	)
	return RenderBox("Routing decision", RenderTable(nil, rows))
}

// RenderLedger lists ledger entries, newest first.
func RenderLedger(entries []model.LedgerEntry) string {
	if len(entries) == 0 {
		return FormatInfo("Ledger is empty")
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			shortHash(e.Hash),
			e.LastSeen.Local().Format("2006-01-02 15:04"),
			e.FirstSeen.Local().Format("2006-01-02"),
			SubtleStyle.Render(e.LastPath),
		})
	}
	return RenderTable([]string{"Hash", "Last seen", "First seen", "Last path"}, rows)
}

// RenderLedgerEntry shows one entry in full.
func RenderLedgerEntry(e *model.LedgerEntry) string {
	rows := [][]string{
		{"Hash", e.Hash},
		{"Size", fmt.Sprintf("%d bytes", e.Size)},
		{"First seen", e.FirstSeen.Local().Format(time.RFC3339)},
		{"Last seen", e.LastSeen.Local().Format(time.RFC3339)},
		{"Last path", e.LastPath},
	}
	return RenderTable(nil, rows)
}

// RenderVendors lists vendor rules.
func RenderVendors(rules []model.VendorRule) string {
	if len(rules) == 0 {
		return FormatInfo("No vendors loaded")
	}
	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		rows = append(rows, []string{r.Name, fmt.Sprint(int(r.FolderType)), SubtleStyle.Render(r.Key)})
	}
	return RenderTable([]string{"Vendor", "Type", "Key"}, rows)
}

// RenderClients lists client records.
func RenderClients(records []model.ClientRecord) string {
	if len(records) == 0 {
		return FormatInfo("No clients loaded")
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Code, r.PlanManager, r.NDISNumber, strings.Join(r.Aliases, "; ")})
	}
	return RenderTable([]string{"Code", "Plan manager", "NDIS", "Known names"}, rows)
}

// RenderTable lays out rows in aligned columns. A nil header omits the
// header line.
func RenderTable(header []string, rows [][]string) string {
	cols := len(header)
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	line := func(row []string, style lipgloss.Style) string {
		cells := make([]string, cols)
		for i := range cols {
			c := ""
			if i < len(row) {
				c = row[i]
			}
			if i == cols-1 {
				cells[i] = style.UnsetPaddingRight().Render(c)
				continue
			}
			cells[i] = style.Width(widths[i] + 2).Render(c)
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, cells...), " ")
	}

	var b strings.Builder
	if header != nil {
		b.WriteString(line(header, TableHeaderStyle))
		b.WriteByte('\n')
	}
	for i, row := range rows {
		b.WriteString(line(row, TableCellStyle))
		if i < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// Package cli renders docsort output for the terminal using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/docsort/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#5FA8D3")
	// SuccessColor marks moved files.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor marks deferred and duplicate files.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor marks quarantined files and failures.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor is used for paths and secondary text.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// BoxStyle is used for bordered summaries.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				PaddingRight(2)

	// TableCellStyle pads table cells.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "!"
	InfoIcon    = "i"
	FolderIcon  = "🗂"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return SubtleStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title.
func FormatTitle(title string) string {
	return TitleStyle.Render(FolderIcon + " " + title)
}

// RenderBox renders content in a box under a bold title.
func RenderBox(title, content string) string {
	return BoxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		BoldStyle.Foreground(PrimaryColor).Render(title),
		content,
	))
}

// StateStyle picks the style for a file state.
func StateStyle(state model.FileState) lipgloss.Style {
	switch state {
	case model.StateMoved:
		return SuccessStyle
	case model.StateQuarantined:
		return ErrorStyle
	case model.StateDeferred:
		return WarningStyle
	default:
		return SubtleStyle
	}
}

package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the dashboard.
type Styles struct {
	App          lipgloss.Style
	Column       lipgloss.Style
	ColumnActive lipgloss.Style
	Title        lipgloss.Style
	Tab          lipgloss.Style
	TabActive    lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Marked       lipgloss.Style // picked-up bookmark or note
	Match        lipgloss.Style // fuzzy match highlight
	Subtle       lipgloss.Style // URLs, dates, sources
	Breadcrumb   lipgloss.Style
	Error        lipgloss.Style
	Status       lipgloss.Style
	Empty        lipgloss.Style
	Modal        lipgloss.Style
	HintKey      lipgloss.Style
	HintDesc     lipgloss.Style
}

// DefaultStyles returns the default style configuration.
// Grayscale with a single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}
	border := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}
	alert := lipgloss.AdaptiveColor{Light: "#9A4A4A", Dark: "#C07070"}

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(1).
			PaddingRight(1),

		Column: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(border).
			Padding(0, 1),

		ColumnActive: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Tab: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingRight(1),

		TabActive: lipgloss.NewStyle().
			Foreground(accent).
			Underline(true).
			PaddingRight(1),

		Item: lipgloss.NewStyle().
			Foreground(primary),

		ItemSelected: lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		Marked: lipgloss.NewStyle().
			Foreground(accent).
			Italic(true),

		Match: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),

		Subtle: lipgloss.NewStyle().
			Foreground(subtle),

		Breadcrumb: lipgloss.NewStyle().
			Foreground(subtle),

		Error: lipgloss.NewStyle().
			Foreground(alert),

		Status: lipgloss.NewStyle().
			Foreground(subtle),

		Empty: lipgloss.NewStyle().
			Foreground(subtle).
			Italic(true),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2),

		HintKey: lipgloss.NewStyle().
			Foreground(accent),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}

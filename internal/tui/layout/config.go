package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Dashboard DashboardConfig
	Modal     ModalConfig
	Input     InputConfig
	Text      TextConfig
}

// DashboardConfig holds the column layout of the dashboard.
type DashboardConfig struct {
	// HeightReduction is subtracted from terminal height for column content.
	// Accounts for: app padding (1) + apps bar (1) + column borders (2) + status line (1) + help bar (1) = 6
	HeightReduction int

	// MinHeight is the minimum column height.
	MinHeight int

	// ColumnOffset is subtracted from the width before splitting it.
	// Accounts for app padding and the borders of three columns.
	ColumnOffset int

	// BookmarksPercent and NotesPercent split the width; feeds get the rest.
	BookmarksPercent int
	NotesPercent     int

	// MinColumnWidth is the narrowest usable column.
	MinColumnWidth int

	// ContentPadding is subtracted from column width for item rendering.
	ContentPadding int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// WidthPercent is the modal width as percentage of terminal width.
	WidthPercent int

	MinWidth int
	MaxWidth int

	// SearchMaxVisible: max results shown in the search modal.
	SearchMaxVisible int

	// HelpKeyColumnWidth: width of the key column in the help overlay.
	HelpKeyColumnWidth int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	TitleCharLimit   int
	URLCharLimit     int
	ContentCharLimit int
	SearchCharLimit  int
	FilterCharLimit  int

	StandardWidth int // title, URL, content, search
	FilterWidth   int // notes filter (narrower)
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Dashboard: DashboardConfig{
			HeightReduction:  6,
			MinHeight:        5,
			ColumnOffset:     10,
			BookmarksPercent: 40,
			NotesPercent:     30,
			MinColumnWidth:   18,
			ContentPadding:   4,
		},
		Modal: ModalConfig{
			WidthPercent:       50,
			MinWidth:           40,
			MaxWidth:           80,
			SearchMaxVisible:   5,
			HelpKeyColumnWidth: 12,
		},
		Input: InputConfig{
			TitleCharLimit:   100,
			URLCharLimit:     500,
			ContentCharLimit: 2000,
			SearchCharLimit:  100,
			FilterCharLimit:  50,
			StandardWidth:    40,
			FilterWidth:      24,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}

package layout

// Columns holds the calculated column widths of the dashboard.
type Columns struct {
	Bookmarks int
	Notes     int
	Feeds     int
}

// CalculateColumnHeight computes the content height for columns.
// Returns at least MinHeight.
func CalculateColumnHeight(terminalHeight int, cfg DashboardConfig) int {
	height := terminalHeight - cfg.HeightReduction
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// CalculateColumns splits the terminal width into bookmarks, notes and
// feeds columns. Each column is at least MinColumnWidth wide.
func CalculateColumns(terminalWidth int, cfg DashboardConfig) Columns {
	avail := terminalWidth - cfg.ColumnOffset
	if avail < 0 {
		avail = 0
	}

	cols := Columns{
		Bookmarks: avail * cfg.BookmarksPercent / 100,
		Notes:     avail * cfg.NotesPercent / 100,
	}
	cols.Feeds = avail - cols.Bookmarks - cols.Notes

	cols.Bookmarks = atLeast(cols.Bookmarks, cfg.MinColumnWidth)
	cols.Notes = atLeast(cols.Notes, cfg.MinColumnWidth)
	cols.Feeds = atLeast(cols.Feeds, cfg.MinColumnWidth)
	return cols
}

func atLeast(v, min int) int {
	if v < min {
		return min
	}
	return v
}

// CalculateItemWidth computes the width available for item content.
func CalculateItemWidth(columnWidth int, cfg DashboardConfig) int {
	return columnWidth - cfg.ContentPadding
}

// CalculateVisibleHeight computes the visible item count in a column.
func CalculateVisibleHeight(columnHeight, headerLines int) int {
	height := columnHeight - headerLines
	if height < 1 {
		return 1
	}
	return height
}

// CalculateViewportOffset calculates the scroll offset needed to keep the
// selected item visible within the viewport.
func CalculateViewportOffset(selected, total, viewportHeight int) int {
	if total <= viewportHeight {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - viewportHeight/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - viewportHeight
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}

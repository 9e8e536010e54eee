package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/nt/internal/feeds"
	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/navigator"
	"github.com/nikbrunner/nt/internal/search"
	"github.com/nikbrunner/nt/internal/tui/layout"
)

// View implements tea.Model.
func (a App) View() string {
	// Modals replace the dashboard; the notes filter stays inline.
	if a.mode != ModeNormal && a.mode != ModeFilter {
		return a.renderModal()
	}

	height := layout.CalculateColumnHeight(a.height, a.layoutCfg.Dashboard)
	cols := layout.CalculateColumns(a.width, a.layoutCfg.Dashboard)

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.renderBookmarksColumn(cols.Bookmarks, height),
		a.renderNotesColumn(cols.Notes, height),
		a.renderFeedsColumn(cols.Feeds, height),
	)

	content := a.styles.App.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		a.renderAppsBar(),
		columns,
		a.renderStatusLine(),
		a.renderHints(a.contextualHints()),
	))

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

// column renders content in a bordered column, highlighted when focused.
func (a App) column(section Section, width, height int, content string) string {
	style := a.styles.Column
	if a.section == section {
		style = a.styles.ColumnActive
	}
	return style.Width(width).Height(height).Render(strings.TrimRight(content, "\n"))
}

// renderList writes the visible window of n lines around cursor.
func renderList(b *strings.Builder, n, cursor, height int, line func(i int, selected bool) string) {
	offset := layout.CalculateViewportOffset(cursor, n, height)
	for i := offset; i < n && i < offset+height; i++ {
		b.WriteString(line(i, i == cursor) + "\n")
	}
}

// row styles one list entry and truncates it to width.
func (a App) row(text string, selected, focused bool, width int) string {
	text, _ = layout.TruncateText(text, width, a.layoutCfg.Text)
	if selected && focused {
		return a.styles.ItemSelected.Render(text)
	}
	return a.styles.Item.Render(text)
}

func (a App) renderAppsBar() string {
	focused := a.section == SectionApps
	parts := []string{a.styles.Title.Render("Apps")}
	for i, app := range a.apps.All() {
		if focused && i == a.appCursor {
			parts = append(parts, a.styles.ItemSelected.Render(app.Name))
			continue
		}
		parts = append(parts, a.styles.Subtle.Render(app.Name))
	}
	bar := strings.Join(parts, " ")
	return layout.TruncateANSIAware(bar, a.width-2, a.layoutCfg.Text)
}

// renderBreadcrumb renders the folder path; while an item is picked up the
// crumbs are numbered as drop targets.
func (a App) renderBreadcrumb(width int) string {
	crumbs, err := navigator.Breadcrumbs(a.coord.Tree(), a.nav.Path())
	if err != nil {
		crumbs = []*model.Node{a.coord.Tree()}
	}

	names := make([]string, len(crumbs))
	for i, c := range crumbs {
		names[i] = c.Name
		if a.cut != nil {
			names[i] = strconv.Itoa(i) + ":" + c.Name
		}
	}

	path, _ := layout.TruncateText(strings.Join(names, " > "), width, a.layoutCfg.Text)
	return a.styles.Breadcrumb.Render(path)
}

func (a App) renderBookmarksColumn(width, height int) string {
	var content strings.Builder
	itemWidth := layout.CalculateItemWidth(width, a.layoutCfg.Dashboard)
	focused := a.section == SectionBookmarks

	content.WriteString(a.styles.Title.Render("Bookmarks") + "\n")
	content.WriteString(a.renderBreadcrumb(itemWidth) + "\n")
	visible := layout.CalculateVisibleHeight(height, 2)

	items := a.Items()
	switch {
	case !a.treeLoaded:
		content.WriteString(a.styles.Empty.Render("Loading..."))
	case len(items) == 0:
		content.WriteString(a.styles.Empty.Render("(empty)"))
	default:
		renderList(&content, len(items), a.cursor, visible, func(i int, selected bool) string {
			return a.renderNode(items[i], selected && focused, itemWidth)
		})
	}

	return a.column(SectionBookmarks, width, height, content.String())
}

func (a App) renderNode(n *model.Node, selected bool, width int) string {
	prefix := "  "
	if a.cut != nil && a.cut.id == n.ID {
		prefix = "~ "
	}

	var text string
	if n.IsFolder() {
		text = layout.TruncateLabel(n.Name, width, prefix, "/", a.layoutCfg.Text)
	} else {
		text = layout.TruncateLabel(n.Name, width, prefix, "", a.layoutCfg.Text)
	}

	switch {
	case selected:
		return a.styles.ItemSelected.Render(text)
	case prefix == "~ ":
		return a.styles.Marked.Render(text)
	}
	return a.styles.Item.Render(text)
}

func (a App) renderNotesColumn(width, height int) string {
	var content strings.Builder
	itemWidth := layout.CalculateItemWidth(width, a.layoutCfg.Dashboard)
	focused := a.section == SectionNotes

	content.WriteString(a.styles.Title.Render("Notes") + "\n")
	header := 1

	if a.board == nil {
		content.WriteString(a.styles.Empty.Render("Notes service not configured"))
		return a.column(SectionNotes, width, height, content.String())
	}

	if a.mode == ModeFilter {
		content.WriteString("/" + a.noteFilter.View() + "\n")
		header++
	} else if a.filterQuery != "" {
		content.WriteString(a.styles.Subtle.Render("/"+a.filterQuery) + "\n")
		header++
	}

	list := a.Notes()
	preview := a.notePreview(itemWidth)
	visible := layout.CalculateVisibleHeight(height, header+len(preview)+1)

	if len(list) == 0 {
		if a.filterQuery != "" {
			content.WriteString(a.styles.Empty.Render("(no matches)") + "\n")
		} else {
			content.WriteString(a.styles.Empty.Render("(no notes)") + "\n")
		}
	} else {
		renderList(&content, len(list), a.noteCursor, visible, func(i int, selected bool) string {
			n := list[i]
			if n.ID == a.markedNote && !(selected && focused) {
				t, _ := layout.TruncateText("~ "+n.Title, itemWidth, a.layoutCfg.Text)
				return a.styles.Marked.Render(t)
			}
			return a.row("  "+n.Title, selected, focused, itemWidth)
		})
		if a.board.HasMore() {
			content.WriteString(a.styles.Subtle.Render("  more...") + "\n")
		}
	}

	if len(preview) > 0 {
		content.WriteString("\n" + strings.Join(preview, "\n"))
	}

	return a.column(SectionNotes, width, height, content.String())
}

// notePreview returns a few lines of the selected note's content.
func (a App) notePreview(width int) []string {
	note := a.selectedNote()
	if note == nil || strings.TrimSpace(note.Content) == "" {
		return nil
	}

	var lines []string
	for _, l := range strings.Split(note.Content, "\n") {
		if len(lines) == 3 {
			break
		}
		t, _ := layout.TruncateText(l, width, a.layoutCfg.Text)
		lines = append(lines, a.styles.Subtle.Render(t))
	}
	return lines
}

func (a App) renderFeedsColumn(width, height int) string {
	var content strings.Builder
	itemWidth := layout.CalculateItemWidth(width, a.layoutCfg.Dashboard)
	focused := a.section == SectionFeeds

	tabs := make([]string, feedTabCount)
	for t := FeedTab(0); t < feedTabCount; t++ {
		if t == a.feedTab {
			tabs[t] = a.styles.TabActive.Render(t.String())
		} else {
			tabs[t] = a.styles.Tab.Render(t.String())
		}
	}
	content.WriteString(layout.TruncateANSIAware(strings.Join(tabs, ""), itemWidth, a.layoutCfg.Text) + "\n")

	visible := layout.CalculateVisibleHeight(height, 1)
	cursor := a.feedCursor[a.feedTab]

	switch {
	case a.feeds == nil:
		content.WriteString(a.styles.Empty.Render("Feeds not configured"))
	case a.feedErr[a.feedTab] != nil:
		content.WriteString(a.styles.Error.Render(a.feedErr[a.feedTab].Error()))
	case !a.feedLoaded[a.feedTab]:
		content.WriteString(a.styles.Empty.Render("Loading..."))
	case a.feedLen() == 0:
		content.WriteString(a.styles.Empty.Render("(nothing upcoming)"))
	default:
		renderList(&content, a.feedLen(), cursor, visible, func(i int, selected bool) string {
			return a.row(a.feedLine(i), selected, focused, itemWidth)
		})
	}

	return a.column(SectionFeeds, width, height, content.String())
}

// feedLine is the one-line summary of feed item i in the current tab.
func (a App) feedLine(i int) string {
	switch a.feedTab {
	case TabContests:
		return contestLine(a.contests[i])
	case TabNews:
		n := a.news[i]
		if n.Source != "" {
			return n.Title + " · " + n.Source
		}
		return n.Title
	default:
		h := a.hackathons[i]
		line := h.Title + " · " + h.Prize
		if h.TimeLeftToSubmission != "" {
			line += " · " + h.TimeLeftToSubmission
		}
		return line
	}
}

func contestLine(c feeds.Contest) string {
	line := c.Name
	if c.Platform != "" {
		line += " · " + c.Platform
	}
	if !c.StartTime.IsZero() {
		line += " · " + c.StartTime.Local().Format("Jan 2 15:04")
	}
	if c.Duration > 0 {
		line += " · " + formatDuration(c.Duration)
	}
	return line
}

// formatDuration renders contest lengths as "2h", "1h30m" or "3d".
func formatDuration(d time.Duration) string {
	switch {
	case d >= 48*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

func (a App) renderStatusLine() string {
	switch {
	case a.err != nil:
		return a.styles.Error.Render("Error: " + a.err.Error())
	case a.board != nil && a.board.Err() != nil:
		return a.styles.Error.Render("Notes: " + a.board.Err().Error())
	case a.status != "":
		return a.styles.Status.Render(a.status)
	}
	return ""
}

func (a App) renderModal() string {
	var content strings.Builder
	width := layout.CalculateModalWidth(a.width, a.layoutCfg.Modal)

	switch a.mode {
	case ModeSearch:
		content.WriteString(a.styles.Title.Render("Search bookmarks") + "\n\n")
		content.WriteString(a.search.Input.View() + "\n\n")
		a.renderSearchResults(&content, width-6)

	case ModeForm:
		content.WriteString(a.styles.Title.Render(a.form.Kind.title()) + "\n\n")
		content.WriteString("Title:\n" + a.form.Title.View())
		if a.form.HasBody() {
			label := "URL:"
			if a.form.Kind != FormBookmark {
				label = "Content:"
			}
			content.WriteString("\n\n" + label + "\n" + a.form.Body.View())
		}
		if a.err != nil {
			content.WriteString("\n\n" + a.styles.Error.Render(a.err.Error()))
		}

	case ModeConfirmDelete:
		if a.pending != nil {
			content.WriteString(a.styles.Title.Render("Delete") + "\n\n")
			what := "note"
			if a.pending.section == SectionBookmarks {
				what = a.pending.kind.String()
				if a.pending.kind == model.KindFolder {
					what += " and everything in it"
				}
			}
			fmt.Fprintf(&content, "Delete %s %q?", what, a.pending.name)
		}

	case ModeHelp:
		content.WriteString(a.styles.Title.Render("Keys") + "\n\n")
		col := a.layoutCfg.Modal.HelpKeyColumnWidth
		for _, b := range a.keys.HelpBindings() {
			h := b.Help()
			fmt.Fprintf(&content, "%-*s %s\n", col, a.styles.HintKey.Render(h.Key), a.styles.HintDesc.Render(h.Desc))
		}
	}

	content.WriteString("\n\n" + a.renderHints(a.contextualHints()))

	modal := a.styles.Modal.Width(width).Render(strings.TrimRight(content.String(), "\n"))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func (a App) renderSearchResults(b *strings.Builder, width int) {
	results := a.search.Results
	if strings.TrimSpace(a.search.Input.Value()) == "" {
		return
	}
	if len(results) == 0 {
		b.WriteString(a.styles.Empty.Render("(no matches)"))
		return
	}

	start, end := layout.CalculateVisibleListItems(a.layoutCfg.Modal.SearchMaxVisible, a.search.Cursor, len(results))
	for i := start; i < end; i++ {
		b.WriteString(a.renderSearchResult(results[i], i == a.search.Cursor, width) + "\n")
	}
}

// renderSearchResult renders the name with matched runes highlighted and
// the URL or folder path below it.
func (a App) renderSearchResult(r search.Result, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}

	match := func(s string) string { return a.styles.Match.Render(s) }

	name := r.Name
	if r.MatchedKey == search.KeyName {
		name = layout.Highlight(r.Name, r.MatchedIndexes, match)
	}
	if r.Kind == model.KindFolder {
		name += "/"
	}

	detail := r.URL
	if r.MatchedKey == search.KeyURL {
		detail = layout.Highlight(r.URL, r.MatchedIndexes, match)
	}
	if r.Kind == model.KindFolder {
		detail = strings.Join(append([]string{model.RootName}, r.Path...), " > ")
	}

	first := layout.TruncateANSIAware(cursor+name, width, a.layoutCfg.Text)
	if selected {
		first = a.styles.Title.Render(cursor) + layout.TruncateANSIAware(name, width-2, a.layoutCfg.Text)
	}
	second := "    " + layout.TruncateANSIAware(a.styles.Subtle.Render(detail), width-4, a.layoutCfg.Text)
	return first + "\n" + second
}

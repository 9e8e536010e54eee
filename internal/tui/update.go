package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/navigator"
)

var (
	errNoFolderName = errors.New("folder name is required")
	errNoURL        = errors.New("bookmark URL is required")
	errNoTitle      = errors.New("note title is required")
)

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case treeLoadedMsg:
		a.treeLoaded = true
		if msg.err != nil {
			a.setErr("load bookmarks", msg.err)
		}
		a.syncTree()
		return a, nil

	case storeChangedMsg:
		return a, tea.Batch(a.refreshTree(), a.waitForChange())

	case bookmarkDoneMsg:
		a.handleBookmarkDone(msg)
		return a, nil

	case notesLoadedMsg:
		if msg.err != nil {
			a.setErr("load notes", msg.err)
		}
		a.noteCursor = clamp(a.noteCursor, len(a.Notes()))
		return a, nil

	case noteDoneMsg:
		if msg.err != nil {
			a.setErr(msg.op+" note", msg.err)
		} else {
			a.setStatus("Note " + pastTense(msg.op))
			if msg.op == "create" {
				a.noteCursor = 0
			}
		}
		a.noteCursor = clamp(a.noteCursor, len(a.Notes()))
		return a, nil

	case noteDropMsg:
		// The board keeps the optimistic order either way.
		if msg.err != nil {
			a.setErr("reorder notes", msg.err)
		}
		return a, nil

	case hackathonsMsg:
		a.feedLoaded[TabHackathons] = true
		a.feedErr[TabHackathons] = msg.err
		if msg.err == nil {
			a.hackathons = msg.items
		}
		a.feedCursor[TabHackathons] = clamp(a.feedCursor[TabHackathons], len(a.hackathons))
		return a, nil

	case contestsMsg:
		a.feedLoaded[TabContests] = true
		a.feedErr[TabContests] = msg.err
		if msg.err == nil {
			a.contests = msg.items
		}
		a.feedCursor[TabContests] = clamp(a.feedCursor[TabContests], len(a.contests))
		return a, nil

	case newsMsg:
		a.feedLoaded[TabNews] = true
		a.feedErr[TabNews] = msg.err
		if msg.err == nil {
			a.news = msg.items
		}
		a.feedCursor[TabNews] = clamp(a.feedCursor[TabNews], len(a.news))
		return a, nil

	case contestsTickMsg:
		return a, tea.Batch(a.loadContests(false), a.tickContests())

	case statusMsg:
		if msg.err != nil {
			a.setErr("launch", msg.err)
		} else {
			a.setStatus(msg.text)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// syncTree keeps navigation and cursor valid after the tree changed.
func (a *App) syncTree() {
	if _, reset := a.nav.Current(a.coord.Tree()); reset {
		a.setStatus("Folder no longer exists, back at " + model.RootName)
	}
	a.cursor = clamp(a.cursor, len(a.Items()))
}

func (a *App) handleBookmarkDone(msg bookmarkDoneMsg) {
	if msg.err != nil {
		a.setErr(msg.op+" bookmark", msg.err)
		return
	}

	if msg.leaveFolder {
		a.nav.Reset()
		a.cursor = 0
	}
	if msg.path != nil {
		a.nav.SetPath(msg.path)
		a.cursor = 0
	}
	a.setStatus(capitalize(pastTense(msg.op)))
	a.syncTree()
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case ModeSearch:
		return a.handleSearchKey(msg)
	case ModeFilter:
		return a.handleFilterKey(msg)
	case ModeForm:
		return a.handleFormKey(msg)
	case ModeConfirmDelete:
		return a.handleConfirmKey(msg)
	case ModeHelp:
		a.mode = ModeNormal
		return a, nil
	}

	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.lastKeyWasG = false
			a.moveCursor(-1 << 30)
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.cancel()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
		return a, nil

	case key.Matches(msg, a.keys.NextSection):
		a.section = (a.section + 1) % sectionCount
		return a, nil

	case key.Matches(msg, a.keys.PrevSection):
		a.section = (a.section + sectionCount - 1) % sectionCount
		return a, nil

	case key.Matches(msg, a.keys.Search):
		a.section = SectionBookmarks
		a.mode = ModeSearch
		a.search.Reset(a.coord.Tree())
		return a, nil

	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
		return a, nil

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
		return a, nil

	case key.Matches(msg, a.keys.Bottom):
		a.moveCursor(1 << 30)
		return a, nil
	}

	switch a.section {
	case SectionNotes:
		return a.handleNotesKey(msg)
	case SectionFeeds:
		return a.handleFeedsKey(msg)
	case SectionApps:
		return a.handleAppsKey(msg)
	default:
		return a.handleBookmarksKey(msg)
	}
}

// moveCursor moves the focused section's cursor by delta, clamped.
func (a *App) moveCursor(delta int) {
	switch a.section {
	case SectionNotes:
		a.noteCursor = clamp(a.noteCursor+delta, len(a.Notes()))
	case SectionFeeds:
		a.feedCursor[a.feedTab] = clamp(a.feedCursor[a.feedTab]+delta, a.feedLen())
	case SectionApps:
		a.appCursor = clamp(a.appCursor+delta, len(a.apps.All()))
	default:
		a.cursor = clamp(a.cursor+delta, len(a.Items()))
	}
}

func (a App) handleBookmarksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	node := a.selectedNode()
	folder := a.currentFolder()

	switch {
	case key.Matches(msg, a.keys.Left):
		a.nav.Back()
		a.cursor = 0

	case key.Matches(msg, a.keys.Right), key.Matches(msg, a.keys.Open):
		if node == nil {
			break
		}
		if node.IsFolder() {
			a.nav.Enter(node.Key)
			a.cursor = 0
			break
		}
		if key.Matches(msg, a.keys.Open) {
			return a, a.openURL(node.URL)
		}

	case key.Matches(msg, a.keys.YankURL):
		if node != nil && !node.IsFolder() {
			return a, a.copyURL(node.URL)
		}

	case key.Matches(msg, a.keys.Add):
		a.form.Open(FormBookmark, folder.ID, a.layoutCfg)
		a.mode = ModeForm

	case key.Matches(msg, a.keys.AddFolder):
		a.form.Open(FormFolder, folder.ID, a.layoutCfg)
		a.mode = ModeForm

	case key.Matches(msg, a.keys.Delete):
		if node != nil {
			a.pending = &pendingDelete{section: SectionBookmarks, id: node.ID, name: node.Name, kind: node.Kind}
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.Cut):
		if node != nil {
			a.cut = &cutItem{id: node.ID, name: node.Name}
			a.setStatus(fmt.Sprintf("Picked up %q: p drops here, 0-%d drops on a breadcrumb", node.Name, a.nav.Depth()))
		}

	case key.Matches(msg, a.keys.Paste):
		if a.cut != nil {
			id := a.cut.id
			a.cut = nil
			return a, a.moveNode(id, folder.ID)
		}

	case key.Matches(msg, a.keys.Drop):
		if a.cut == nil {
			break
		}
		index, _ := strconv.Atoi(msg.String())
		if index > a.nav.Depth() {
			a.setErr("move bookmark", fmt.Errorf("%w: %d", navigator.ErrIndexOutOfRange, index))
			break
		}
		id := a.cut.id
		a.cut = nil
		return a, a.dropOnBreadcrumb(id, a.nav.Path(), index)

	case key.Matches(msg, a.keys.Cancel):
		a.cut = nil
		a.err = nil

	case key.Matches(msg, a.keys.Refresh):
		return a, a.refreshTree()
	}

	return a, nil
}

func (a App) handleNotesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.board == nil {
		return a, nil
	}
	note := a.selectedNote()

	switch {
	case key.Matches(msg, a.keys.Add):
		a.form.Open(FormNewNote, "", a.layoutCfg)
		a.mode = ModeForm

	case key.Matches(msg, a.keys.Edit):
		if note != nil {
			a.form.Open(FormEditNote, note.ID, a.layoutCfg)
			a.form.Title.SetValue(note.Title)
			a.form.Body.SetValue(note.Content)
			a.mode = ModeForm
		}

	case key.Matches(msg, a.keys.Delete):
		if note != nil {
			a.pending = &pendingDelete{section: SectionNotes, id: note.ID, name: note.Title}
			a.mode = ModeConfirmDelete
		}

	case key.Matches(msg, a.keys.Cut):
		if note != nil {
			a.markedNote = note.ID
			a.setStatus(fmt.Sprintf("Picked up %q: p drops it on the selected note", note.Title))
		}

	case key.Matches(msg, a.keys.Paste):
		if a.markedNote == "" || note == nil {
			break
		}
		// A filtered list hides neighbours, so the drop position would be ambiguous.
		if a.filterQuery != "" {
			a.setStatus("Clear the filter before dropping a note")
			break
		}
		source := a.markedNote
		a.markedNote = ""
		_, done := a.board.Drop(a.ctx, source, note.ID)
		a.noteCursor = clamp(a.noteCursor, len(a.Notes()))
		return a, awaitDrop(done)

	case key.Matches(msg, a.keys.Filter):
		a.mode = ModeFilter
		a.noteFilter.SetValue(a.filterQuery)
		a.noteFilter.Focus()

	case key.Matches(msg, a.keys.LoadMore):
		if a.board.HasMore() {
			return a, a.loadMoreNotes()
		}

	case key.Matches(msg, a.keys.Refresh):
		return a, a.loadNotes()

	case key.Matches(msg, a.keys.Cancel):
		a.markedNote = ""
		a.filterQuery = ""
		a.err = nil
		a.board.ClearErr()
	}

	return a, nil
}

func (a App) handleFeedsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Right):
		a.feedTab = (a.feedTab + 1) % feedTabCount
	case key.Matches(msg, a.keys.Left):
		a.feedTab = (a.feedTab + feedTabCount - 1) % feedTabCount
	case key.Matches(msg, a.keys.Open):
		if url := a.feedURL(); url != "" {
			return a, a.openURL(url)
		}
	case key.Matches(msg, a.keys.YankURL):
		if url := a.feedURL(); url != "" {
			return a, a.copyURL(url)
		}
	case key.Matches(msg, a.keys.Refresh):
		switch a.feedTab {
		case TabContests:
			return a, a.loadContests(true)
		case TabNews:
			return a, a.loadNews()
		default:
			return a, a.loadHackathons()
		}
	}
	return a, nil
}

func (a App) handleAppsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	apps := a.apps.All()
	switch {
	case key.Matches(msg, a.keys.Right):
		a.appCursor = clamp(a.appCursor+1, len(apps))
	case key.Matches(msg, a.keys.Left):
		a.appCursor = clamp(a.appCursor-1, len(apps))
	case key.Matches(msg, a.keys.Open):
		if a.appCursor < len(apps) {
			return a, a.openURL(apps[a.appCursor].URL)
		}
	case key.Matches(msg, a.keys.YankURL):
		if a.appCursor < len(apps) {
			return a, a.copyURL(apps[a.appCursor].URL)
		}
	}
	return a, nil
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = ModeNormal
		a.search.Input.Blur()
		return a, nil

	case "up", "ctrl+p", "ctrl+k":
		a.search.Cursor = clamp(a.search.Cursor-1, len(a.search.Results))
		return a, nil

	case "down", "ctrl+n", "ctrl+j":
		a.search.Cursor = clamp(a.search.Cursor+1, len(a.search.Results))
		return a, nil

	case "enter":
		r := a.search.Selected()
		a.mode = ModeNormal
		a.search.Input.Blur()
		if r == nil {
			return a, nil
		}

		tree := a.coord.Tree()
		if r.Kind == model.KindFolder {
			a.nav.SetPath(navigator.PathTo(tree, r.Path, r.Name))
			a.cursor = 0
			return a, nil
		}

		// Show the bookmark in its folder, then open it.
		a.nav.SetPath(navigator.PathTo(tree, r.Path, ""))
		a.cursor = 0
		for i, n := range a.Items() {
			if n.ID == r.ID {
				a.cursor = i
			}
		}
		return a, a.openURL(r.URL)
	}

	var cmd tea.Cmd
	a.search.Input, cmd = a.search.Input.Update(msg)
	a.search.Run()
	return a, cmd
}

func (a App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = ModeNormal
		a.noteFilter.Blur()
		a.filterQuery = ""
		a.noteCursor = 0
		return a, nil
	case "enter":
		a.mode = ModeNormal
		a.noteFilter.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.noteFilter, cmd = a.noteFilter.Update(msg)
	a.filterQuery = a.noteFilter.Value()
	a.noteCursor = 0
	return a, cmd
}

func (a App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = ModeNormal
		return a, nil
	case "tab", "shift+tab":
		a.form.ToggleFocus()
		return a, nil
	case "enter":
		return a.submitForm()
	}

	var cmd tea.Cmd
	if a.form.Focus == 0 {
		a.form.Title, cmd = a.form.Title.Update(msg)
	} else {
		a.form.Body, cmd = a.form.Body.Update(msg)
	}
	return a, cmd
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	title, body := a.form.Values()

	switch a.form.Kind {
	case FormFolder:
		if title == "" {
			a.setErr("create folder", errNoFolderName)
			return a, nil
		}
		a.mode = ModeNormal
		return a, a.createNode(a.form.TargetID, model.KindFolder, title, "")

	case FormBookmark:
		if body == "" {
			a.setErr("create bookmark", errNoURL)
			return a, nil
		}
		if title == "" {
			title = body
		}
		a.mode = ModeNormal
		return a, a.createNode(a.form.TargetID, model.KindBookmark, title, body)

	case FormNewNote, FormEditNote:
		if title == "" {
			a.setErr("save note", errNoTitle)
			return a, nil
		}
		a.mode = ModeNormal
		if a.form.Kind == FormEditNote {
			return a, a.updateNote(a.form.TargetID, title, body)
		}
		return a, a.createNote(title, body)
	}

	return a, nil
}

func (a App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := a.pending
	a.pending = nil
	a.mode = ModeNormal

	if p == nil || (msg.String() != "y" && msg.String() != "enter") {
		return a, nil
	}

	if p.section == SectionNotes {
		return a, a.deleteNote(p.id)
	}

	leave := p.kind == model.KindFolder && a.nav.Contains(a.coord.Tree(), p.id)
	return a, a.removeNode(p.id, p.kind, leave)
}

func pastTense(op string) string {
	switch op {
	case "create":
		return "created"
	case "update":
		return "updated"
	case "delete":
		return "deleted"
	case "move":
		return "moved"
	}
	return op
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

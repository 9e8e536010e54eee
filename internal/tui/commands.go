package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/nt/internal/feeds"
	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/navigator"
)

// Messages delivered by the commands below. Every I/O call runs in a
// tea.Cmd and reports back through one of these.
type (
	treeLoadedMsg   struct{ err error }
	storeChangedMsg struct{}

	bookmarkDoneMsg struct {
		op          string
		err         error
		path        navigator.Path // navigate here on success, if set
		leaveFolder bool           // the removed folder was on the path
	}

	notesLoadedMsg struct{ err error }
	noteDoneMsg    struct {
		op  string
		err error
	}
	noteDropMsg struct{ err error }

	hackathonsMsg struct {
		items []feeds.Hackathon
		err   error
	}
	contestsMsg struct {
		items []feeds.Contest
		err   error
	}
	newsMsg struct {
		items []feeds.NewsItem
		err   error
	}
	contestsTickMsg struct{}

	statusMsg struct {
		text string
		err  error
	}
)

func (a App) loadTree() tea.Cmd {
	return func() tea.Msg {
		return treeLoadedMsg{err: a.coord.Load(a.ctx)}
	}
}

func (a App) refreshTree() tea.Cmd {
	return func() tea.Msg {
		return treeLoadedMsg{err: a.coord.Refresh(a.ctx)}
	}
}

// waitForChange blocks until the store reports an outside change.
func (a App) waitForChange() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-a.changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (a App) createNode(parentID string, kind model.Kind, title, url string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.coord.Create(a.ctx, parentID, kind, title, url)
		return bookmarkDoneMsg{op: "create", err: err}
	}
}

func (a App) moveNode(itemID, targetID string) tea.Cmd {
	return func() tea.Msg {
		return bookmarkDoneMsg{op: "move", err: a.coord.Move(a.ctx, itemID, targetID)}
	}
}

func (a App) dropOnBreadcrumb(itemID string, path navigator.Path, index int) tea.Cmd {
	return func() tea.Msg {
		next, err := a.coord.MoveToAncestor(a.ctx, itemID, path, index)
		return bookmarkDoneMsg{op: "move", err: err, path: next}
	}
}

func (a App) removeNode(id string, kind model.Kind, leaveFolder bool) tea.Cmd {
	return func() tea.Msg {
		err := a.coord.Remove(a.ctx, id, kind)
		return bookmarkDoneMsg{op: "delete", err: err, leaveFolder: leaveFolder}
	}
}

func (a App) loadNotes() tea.Cmd {
	if a.board == nil {
		return nil
	}
	return func() tea.Msg {
		return notesLoadedMsg{err: a.board.Load(a.ctx)}
	}
}

func (a App) loadMoreNotes() tea.Cmd {
	return func() tea.Msg {
		return notesLoadedMsg{err: a.board.LoadMore(a.ctx)}
	}
}

func (a App) createNote(title, content string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.board.Create(a.ctx, title, content)
		return noteDoneMsg{op: "create", err: err}
	}
}

func (a App) updateNote(id, title, content string) tea.Cmd {
	return func() tea.Msg {
		_, err := a.board.Update(a.ctx, id, title, content)
		return noteDoneMsg{op: "update", err: err}
	}
}

func (a App) deleteNote(id string) tea.Cmd {
	return func() tea.Msg {
		return noteDoneMsg{op: "delete", err: a.board.Delete(a.ctx, id)}
	}
}

// awaitDrop waits for the background reorder started by Board.Drop.
func awaitDrop(done <-chan error) tea.Cmd {
	return func() tea.Msg {
		return noteDropMsg{err: <-done}
	}
}

func (a App) loadHackathons() tea.Cmd {
	if a.feeds == nil {
		return nil
	}
	return func() tea.Msg {
		items, err := a.feeds.Hackathons(a.ctx)
		return hackathonsMsg{items: items, err: err}
	}
}

// loadContests reads contests through the cache, or fetches them when force
// is set.
func (a App) loadContests(force bool) tea.Cmd {
	if a.feeds == nil {
		return nil
	}
	return func() tea.Msg {
		if force {
			items, err := a.feeds.RefreshContests(a.ctx)
			return contestsMsg{items: items, err: err}
		}
		items, err := a.feeds.Contests(a.ctx)
		return contestsMsg{items: items, err: err}
	}
}

func (a App) loadNews() tea.Cmd {
	if a.feeds == nil {
		return nil
	}
	return func() tea.Msg {
		items, err := a.feeds.News(a.ctx)
		return newsMsg{items: items, err: err}
	}
}

func (a App) tickContests() tea.Cmd {
	if a.feeds == nil || a.contestsEvery <= 0 {
		return nil
	}
	return tea.Tick(a.contestsEvery, func(time.Time) tea.Msg {
		return contestsTickMsg{}
	})
}

func (a App) openURL(url string) tea.Cmd {
	return func() tea.Msg {
		if err := a.opener.Open(url); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "Opened " + url}
	}
}

func (a App) copyURL(url string) tea.Cmd {
	return func() tea.Msg {
		if err := a.copy(url); err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{text: "Copied " + url}
	}
}

// Package tui is the dashboard: bookmark browser, notes board, developer
// feeds and web-app shortcuts in one bubbletea program.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/nt/internal/bookmarks"
	"github.com/nikbrunner/nt/internal/feeds"
	"github.com/nikbrunner/nt/internal/launch"
	"github.com/nikbrunner/nt/internal/logger"
	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/navigator"
	"github.com/nikbrunner/nt/internal/notes"
	"github.com/nikbrunner/nt/internal/tui/layout"
	"github.com/nikbrunner/nt/internal/webapps"
)

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Context   context.Context // optional, canceled on quit
	Bookmarks *bookmarks.Coordinator
	Notes     *notes.Board       // optional
	Feeds     *feeds.Service     // optional
	Apps      *webapps.Catalogue // optional, uses defaults if nil
	Opener    launch.Opener      // optional, uses the system browser
	Copy      func(string) error // optional, uses the system clipboard

	// Changes delivers a value whenever the bookmark store changes outside
	// this program. Optional.
	Changes <-chan struct{}

	// ContestsEvery re-reads contests periodically. Zero disables it.
	ContestsEvery time.Duration

	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
	Log          *slog.Logger         // optional, uses logger.L()
}

// cutItem is a bookmark or folder picked up for a move.
type cutItem struct {
	id   string
	name string
}

// App is the main bubbletea model of the dashboard.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    *slog.Logger

	coord         *bookmarks.Coordinator
	board         *notes.Board
	feeds         *feeds.Service
	apps          *webapps.Catalogue
	opener        launch.Opener
	copy          func(string) error
	changes       <-chan struct{}
	contestsEvery time.Duration

	keys      KeyMap
	styles    Styles
	layoutCfg layout.LayoutConfig

	section Section
	mode    Mode

	// Bookmarks
	nav        *navigator.Navigator
	cursor     int
	cut        *cutItem
	treeLoaded bool

	// Notes
	noteCursor  int
	noteFilter  textinput.Model
	filterQuery string
	markedNote  string

	// Feeds
	feedTab    FeedTab
	feedCursor [feedTabCount]int
	hackathons []feeds.Hackathon
	contests   []feeds.Contest
	news       []feeds.NewsItem
	feedErr    [feedTabCount]error
	feedLoaded [feedTabCount]bool

	// Apps
	appCursor int

	search  SearchState
	form    FormState
	pending *pendingDelete

	status string
	err    error

	// For gg command
	lastKeyWasG bool

	width  int
	height int
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	cfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		cfg = *params.LayoutConfig
	}

	parent := params.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	log := params.Log
	if log == nil {
		log = logger.L()
	}

	apps := params.Apps
	if apps == nil {
		apps = webapps.New(nil)
	}

	var opener launch.Opener = launch.Browser{}
	if params.Opener != nil {
		opener = params.Opener
	}

	copyFn := launch.Copy
	if params.Copy != nil {
		copyFn = params.Copy
	}

	filter := textinput.New()
	filter.Placeholder = "Filter notes..."
	filter.CharLimit = cfg.Input.FilterCharLimit
	filter.Width = cfg.Input.FilterWidth

	return App{
		ctx:           ctx,
		cancel:        cancel,
		log:           log,
		coord:         params.Bookmarks,
		board:         params.Notes,
		feeds:         params.Feeds,
		apps:          apps,
		opener:        opener,
		copy:          copyFn,
		changes:       params.Changes,
		contestsEvery: params.ContestsEvery,
		keys:          keys,
		styles:        styles,
		layoutCfg:     cfg,
		nav:           navigator.New(),
		noteFilter:    filter,
		search:        NewSearchState(cfg),
		form:          NewFormState(cfg),
		width:         80,
		height:        24,
	}
}

// Init implements tea.Model. It loads the bookmark tree, the first notes
// page and every feed concurrently.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadTree(),
		a.waitForChange(),
		a.loadNotes(),
		a.loadHackathons(),
		a.loadContests(false),
		a.loadNews(),
		a.tickContests(),
	)
}

// WithDimensions returns a copy of the app sized for rendering.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Section returns the focused section.
func (a App) Section() Section {
	return a.section
}

// Mode returns the current input mode.
func (a App) Mode() Mode {
	return a.mode
}

// Cursor returns the cursor of the bookmarks column.
func (a App) Cursor() int {
	return a.cursor
}

// Path returns the current bookmark folder path.
func (a App) Path() navigator.Path {
	return a.nav.Path()
}

// Items returns the children of the current bookmark folder.
func (a App) Items() []*model.Node {
	return a.currentFolder().Children()
}

// Notes returns the notes shown, after the filter.
func (a App) Notes() []model.Note {
	if a.board == nil {
		return nil
	}
	return a.board.Filter(a.filterQuery)
}

// NoteCursor returns the cursor of the notes column.
func (a App) NoteCursor() int {
	return a.noteCursor
}

// FeedTab returns the feed shown in the feeds column.
func (a App) FeedTab() FeedTab {
	return a.feedTab
}

// Err returns the error shown on the status line, or nil.
func (a App) Err() error {
	return a.err
}

// Status returns the informational status line.
func (a App) Status() string {
	return a.status
}

// currentFolder resolves the navigator against the current tree.
func (a App) currentFolder() *model.Node {
	folder, _ := a.nav.Current(a.coord.Tree())
	return folder
}

func (a App) selectedNode() *model.Node {
	items := a.Items()
	if a.cursor < len(items) {
		return items[a.cursor]
	}
	return nil
}

func (a App) selectedNote() *model.Note {
	list := a.Notes()
	if a.noteCursor < len(list) {
		return &list[a.noteCursor]
	}
	return nil
}

// feedLen returns the number of items in the current feed tab.
func (a App) feedLen() int {
	switch a.feedTab {
	case TabContests:
		return len(a.contests)
	case TabNews:
		return len(a.news)
	default:
		return len(a.hackathons)
	}
}

// feedURL returns the URL of the selected feed item.
func (a App) feedURL() string {
	i := a.feedCursor[a.feedTab]
	switch a.feedTab {
	case TabContests:
		if i < len(a.contests) {
			return a.contests[i].URL
		}
	case TabNews:
		if i < len(a.news) {
			return a.news[i].URL
		}
	default:
		if i < len(a.hackathons) {
			return a.hackathons[i].URL
		}
	}
	return ""
}

// setErr shows err on the status line and logs it.
func (a *App) setErr(op string, err error) {
	a.err = err
	a.status = ""
	a.log.Warn("operation failed", "op", op, "error", err)
}

func (a *App) setStatus(text string) {
	a.status = text
	a.err = nil
}

func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/search"
	"github.com/nikbrunner/nt/internal/tui/layout"
)

// Section is a dashboard area that receives keys.
type Section int

const (
	SectionBookmarks Section = iota
	SectionNotes
	SectionFeeds
	SectionApps
	sectionCount
)

func (s Section) String() string {
	switch s {
	case SectionNotes:
		return "Notes"
	case SectionFeeds:
		return "Feeds"
	case SectionApps:
		return "Apps"
	default:
		return "Bookmarks"
	}
}

// Mode represents the current input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeFilter
	ModeForm
	ModeConfirmDelete
	ModeHelp
)

// FeedTab selects the feed shown in the feeds column.
type FeedTab int

const (
	TabHackathons FeedTab = iota
	TabContests
	TabNews
	feedTabCount
)

func (t FeedTab) String() string {
	switch t {
	case TabContests:
		return "Contests"
	case TabNews:
		return "News"
	default:
		return "Hackathons"
	}
}

// FormKind is what a submitted form creates or changes.
type FormKind int

const (
	FormBookmark FormKind = iota
	FormFolder
	FormNewNote
	FormEditNote
)

func (k FormKind) title() string {
	switch k {
	case FormFolder:
		return "New folder"
	case FormNewNote:
		return "New note"
	case FormEditNote:
		return "Edit note"
	default:
		return "New bookmark"
	}
}

// FormState holds the title and URL/content inputs of the add and edit
// dialogs.
type FormState struct {
	Kind     FormKind
	Title    textinput.Model
	Body     textinput.Model // URL for bookmarks, content for notes
	Focus    int             // 0 title, 1 body
	TargetID string          // parent folder or edited note
}

// NewFormState creates a FormState with initialized inputs.
func NewFormState(cfg layout.LayoutConfig) FormState {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = cfg.Input.TitleCharLimit
	title.Width = cfg.Input.StandardWidth

	body := textinput.New()
	body.Width = cfg.Input.StandardWidth

	return FormState{Title: title, Body: body}
}

// Open resets the form for kind and focuses the title.
func (f *FormState) Open(kind FormKind, targetID string, cfg layout.LayoutConfig) {
	f.Kind = kind
	f.TargetID = targetID
	f.Title.Reset()
	f.Body.Reset()
	f.Focus = 0
	f.Title.Focus()
	f.Body.Blur()

	switch kind {
	case FormBookmark:
		f.Body.Placeholder = "https://..."
		f.Body.CharLimit = cfg.Input.URLCharLimit
	case FormNewNote, FormEditNote:
		f.Body.Placeholder = "Content"
		f.Body.CharLimit = cfg.Input.ContentCharLimit
	}
}

// HasBody reports whether the form shows a second input.
func (f FormState) HasBody() bool {
	return f.Kind != FormFolder
}

// ToggleFocus moves focus between title and body.
func (f *FormState) ToggleFocus() {
	if !f.HasBody() {
		return
	}
	if f.Focus == 0 {
		f.Focus = 1
		f.Title.Blur()
		f.Body.Focus()
		return
	}
	f.Focus = 0
	f.Body.Blur()
	f.Title.Focus()
}

// Values returns the trimmed title and body.
func (f FormState) Values() (title, body string) {
	return strings.TrimSpace(f.Title.Value()), strings.TrimSpace(f.Body.Value())
}

// SearchState holds the bookmark search modal.
type SearchState struct {
	Input   textinput.Model
	Records []search.Record // flattened when the modal opens
	Results []search.Result
	Cursor  int
}

// NewSearchState creates a SearchState with initialized input.
func NewSearchState(cfg layout.LayoutConfig) SearchState {
	input := textinput.New()
	input.Placeholder = "Search bookmarks..."
	input.CharLimit = cfg.Input.SearchCharLimit
	input.Width = cfg.Input.StandardWidth
	return SearchState{Input: input}
}

// Reset clears the search for root.
func (s *SearchState) Reset(root *model.Node) {
	s.Input.Reset()
	s.Input.Focus()
	s.Records = search.Flatten(root)
	s.Results = nil
	s.Cursor = 0
}

// Run re-ranks the records against the input.
func (s *SearchState) Run() {
	s.Results = search.Search(s.Input.Value(), s.Records)
	if s.Cursor >= len(s.Results) {
		s.Cursor = 0
	}
}

// Selected returns the highlighted result, or nil.
func (s SearchState) Selected() *search.Result {
	if s.Cursor < len(s.Results) {
		return &s.Results[s.Cursor]
	}
	return nil
}

// pendingDelete is the item waiting for delete confirmation.
type pendingDelete struct {
	section Section
	id      string
	name    string
	kind    model.Kind
}

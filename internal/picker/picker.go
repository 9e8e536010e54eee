// Package picker is a small TUI for choosing one quick-search result.
package picker

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)
)

// Action is what the user chose to do with the selection.
type Action int

const (
	ActionNone Action = iota
	ActionOpen        // Enter
	ActionCopy        // y
)

// Picker selects one search result.
type Picker struct {
	results []search.Result
	query   string
	cursor  int
	action  Action
	width   int
	height  int
}

// New creates a Picker over results.
func New(results []search.Result, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c", "q":
			p.action = ActionNone
			return p, tea.Quit
		case "enter":
			if len(p.results) > 0 {
				p.action = ActionOpen
			}
			return p, tea.Quit
		case "y":
			if p.current() != nil && p.current().Kind == model.KindBookmark {
				p.action = ActionCopy
				return p, tea.Quit
			}
		case "down", "j", "ctrl+n":
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
		case "up", "k", "ctrl+p":
			if p.cursor > 0 {
				p.cursor--
			}
		}
	}

	return p, nil
}

func (p Picker) current() *search.Result {
	if p.cursor < len(p.results) {
		return &p.results[p.cursor]
	}
	return nil
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	for i, r := range p.results {
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		fmt.Fprintf(&b, "%s%s\n", cursor, style.Render(Label(r)))
		fmt.Fprintf(&b, "   %s\n", detailStyle.Render(Detail(r)))
	}

	b.WriteString("\n")
	b.WriteString(detailStyle.Render("j/k: move  Enter: open  y: copy URL  q/Esc: cancel"))

	return b.String()
}

// Label is the result's display name; folders end with a slash.
func Label(r search.Result) string {
	if r.Kind == model.KindFolder {
		return r.Name + "/"
	}
	return r.Name
}

// Detail is the URL for bookmarks and the breadcrumb for folders.
func Detail(r search.Result) string {
	crumbs := append([]string{model.RootName}, r.Path...)
	if r.Kind == model.KindFolder {
		return strings.Join(crumbs, " > ")
	}
	return r.URL
}

// Selected returns the chosen result, or nil if cancelled.
func (p Picker) Selected() *search.Result {
	if p.action == ActionNone {
		return nil
	}
	return p.current()
}

// Action returns what the user chose.
func (p Picker) Action() Action {
	return p.action
}

// Cancelled returns true if the user left without choosing.
func (p Picker) Cancelled() bool {
	return p.action == ActionNone
}

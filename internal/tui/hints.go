package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "enter")
	Desc string // Short description (e.g., "move", "open")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint
	Action []Hint
	Edit   []Hint
	System []Hint
}

// All returns all hints flattened in display order: Nav + Action + Edit + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.Edit)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.Edit...)
	result = append(result, h.System...)
	return result
}

var systemHints = []Hint{{"tab", "section"}, {"?", "help"}, {"q", "quit"}}

// contextualHints returns the hints for the current mode and section.
func (a App) contextualHints() HintSet {
	switch a.mode {
	case ModeSearch:
		return HintSet{
			Nav:    []Hint{{"up/down", "select"}},
			Action: []Hint{{"enter", "go to / open"}},
			System: []Hint{{"esc", "close"}},
		}
	case ModeFilter:
		return HintSet{
			Action: []Hint{{"enter", "keep filter"}},
			System: []Hint{{"esc", "clear"}},
		}
	case ModeForm:
		return HintSet{
			Nav:    []Hint{{"tab", "next field"}},
			Action: []Hint{{"enter", "save"}},
			System: []Hint{{"esc", "cancel"}},
		}
	case ModeConfirmDelete:
		return HintSet{
			Action: []Hint{{"y", "delete"}},
			System: []Hint{{"any key", "cancel"}},
		}
	case ModeHelp:
		return HintSet{System: []Hint{{"any key", "close"}}}
	}

	switch a.section {
	case SectionNotes:
		h := HintSet{
			Nav:    []Hint{{"j/k", "move"}},
			Edit:   []Hint{{"a", "add"}, {"e", "edit"}, {"d", "delete"}, {"x", "pick up"}},
			Action: []Hint{{"/", "filter"}},
			System: systemHints,
		}
		if a.markedNote != "" {
			h.Edit = append(h.Edit, Hint{"p", "drop"})
		}
		if a.board != nil && a.board.HasMore() {
			h.Action = append(h.Action, Hint{"m", "more"})
		}
		return h

	case SectionFeeds:
		return HintSet{
			Nav:    []Hint{{"j/k", "move"}, {"h/l", "tab"}},
			Action: []Hint{{"enter", "open"}, {"y", "copy"}, {"r", "refresh"}},
			System: systemHints,
		}

	case SectionApps:
		return HintSet{
			Nav:    []Hint{{"h/l", "move"}},
			Action: []Hint{{"enter", "open"}, {"y", "copy"}},
			System: systemHints,
		}
	}

	h := HintSet{
		Nav:    []Hint{{"j/k", "move"}, {"h/l", "back/enter"}},
		Action: []Hint{{"enter", "open"}, {"s", "search"}, {"y", "copy"}},
		Edit:   []Hint{{"a/A", "add"}, {"d", "delete"}, {"x", "pick up"}},
		System: systemHints,
	}
	if a.cut != nil {
		h.Edit = append(h.Edit, Hint{"p", "drop here"}, Hint{"0-9", "drop on crumb"})
	}
	return h
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for the bottom bar.
func (a App) renderHints(hints HintSet) string {
	all := hints.All()
	parts := make([]string, len(all))
	for i, h := range all {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

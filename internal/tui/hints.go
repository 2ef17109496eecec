package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "enter", "tab")
	Desc string // Short description (e.g., "run", "edit")
}

// HintSet is an ordered collection of hints by group.
type HintSet struct {
	Nav    []Hint // Navigation hints (↑/↓)
	Action []Hint // Action hints (enter, tab, ctrl+e)
	System []Hint // System hints (esc)
}

// All returns all hints flattened in display order: Nav + Action + System.
func (h HintSet) All() []Hint {
	result := make([]Hint, 0, len(h.Nav)+len(h.Action)+len(h.System))
	result = append(result, h.Nav...)
	result = append(result, h.Action...)
	result = append(result, h.System...)
	return result
}

// renderHints renders hints in horizontal format for the bottom bar: "↑/↓:move enter:run"
func (a App) renderHints(hints HintSet) string {
	all := hints.All()
	parts := make([]string, len(all))
	for i, h := range all {
		parts[i] = a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, " ")
}

// contextualHints returns the hints for the current mode. Prompts carry
// their own hints, so they get none here.
func (a App) contextualHints() HintSet {
	switch a.mode {
	case ModeInput:
		hints := HintSet{
			Action: []Hint{{Key: "enter", Desc: "run"}},
			System: []Hint{{Key: "esc", Desc: "close"}},
		}
		if len(a.results) > 0 {
			hints.Nav = []Hint{{Key: "↑/↓", Desc: "move"}}
			hints.Action = append(hints.Action,
				Hint{Key: "tab", Desc: "complete"},
				Hint{Key: "ctrl+e", Desc: "edit"},
			)
		}
		return hints
	case ModeBusy:
		return HintSet{System: []Hint{{Key: "ctrl+c", Desc: "abort"}}}
	default:
		return HintSet{}
	}
}

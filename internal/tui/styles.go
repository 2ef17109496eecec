package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds all lipgloss styles for the popup.
type Styles struct {
	App          lipgloss.Style
	Prompt       lipgloss.Style // "›" in front of the input line
	Count        lipgloss.Style // shortlink count badge
	Rule         lipgloss.Style
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Match        lipgloss.Style // fuzzy-matched runes of a name
	URL          lipgloss.Style
	Empty        lipgloss.Style
	Modal        lipgloss.Style
	HintKey      lipgloss.Style // Key portion of hints (e.g., "enter", "tab")
	HintDesc     lipgloss.Style // Description portion of hints (e.g., "run", "complete")
}

// DefaultStyles returns the default style configuration.
// Industrial design: grayscale with single desaturated teal accent.
func DefaultStyles() Styles {
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"} // main text
	subtle := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"}  // secondary text
	accent := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}  // desaturated teal
	border := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#505050"}  // rules and borders

	return Styles{
		App: lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(2).
			PaddingRight(2),

		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Count: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(accent).
			Padding(0, 1),

		Rule: lipgloss.NewStyle().
			Foreground(border),

		Item: lipgloss.NewStyle().
			Foreground(primary).
			PaddingLeft(1),

		ItemSelected: lipgloss.NewStyle().
			PaddingLeft(1).
			Background(accent).
			Foreground(lipgloss.Color("#1A1A1A")),

		Match: lipgloss.NewStyle().
			Bold(true).
			Underline(true),

		URL: lipgloss.NewStyle().
			Foreground(subtle),

		Empty: lipgloss.NewStyle().
			Foreground(subtle).
			PaddingLeft(1),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		HintKey: lipgloss.NewStyle().
			Foreground(subtle),

		HintDesc: lipgloss.NewStyle().
			Foreground(subtle),
	}
}

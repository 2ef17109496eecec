package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nikbrunner/sl/internal/search"
	"github.com/nikbrunner/sl/internal/toast"
	"github.com/nikbrunner/sl/internal/tui/layout"
)

var toastStyles = toast.DefaultStyles()

// renderView renders the input line, the list (or the open prompt), the
// last notice and the hints.
func (a App) renderView() string {
	width := layout.CalculatePopupWidth(a.width, a.layout.Popup)
	rule := a.styles.Rule.Render(strings.Repeat("─", width))

	var b strings.Builder
	b.WriteString(a.renderInputLine(width))
	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("\n")

	switch a.mode {
	case ModeConfirm:
		b.WriteString(a.renderModal(a.confirm.View(), width))
	case ModePrompt:
		b.WriteString(a.renderModal(a.prompt.View(), width))
	default:
		b.WriteString(a.renderList(width))
	}

	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("\n")

	if a.notice != nil {
		b.WriteString(toastStyles.Render(*a.notice))
		b.WriteString("\n")
	}
	if hints := a.contextualHints(); len(hints.All()) > 0 {
		b.WriteString(a.renderHints(hints))
	}

	return a.styles.App.Render(b.String())
}

func (a App) renderInputLine(width int) string {
	count := fmt.Sprintf("%d", len(a.links))
	if len(a.results) != len(a.links) {
		count = fmt.Sprintf("%d/%d", len(a.results), len(a.links))
	}
	badge := a.styles.Count.Render(count)

	left := a.styles.Prompt.Render("› ") + a.input.View()
	return layout.PadRight(left, width-layout.VisibleLength(badge)) + badge
}

func (a App) renderModal(content string, width int) string {
	return a.styles.Modal.Width(max(width-4, 1)).Render(strings.TrimRight(content, "\n"))
}

func (a App) renderList(width int) string {
	if len(a.results) == 0 {
		if len(a.links) == 0 {
			return a.styles.Empty.Render("No shortlinks yet. Type a name and press enter to save the selected tabs.")
		}
		return a.styles.Empty.Render("No matching shortlinks")
	}

	height := layout.CalculateListHeight(a.height, a.layout.Popup)
	start, end := layout.CalculateVisibleListItems(height, a.cursor, len(a.results))

	longest := 0
	for _, r := range a.results {
		longest = max(longest, utf8.RuneCountInString(r.Link.Name))
	}
	nameWidth := layout.CalculateNameColumn(longest, width, a.layout.Popup)
	urlWidth := width - nameWidth - 5 // marker, item padding and gap

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, a.renderItem(a.results[i], i == a.cursor, nameWidth, urlWidth, width))
	}
	return strings.Join(lines, "\n")
}

func (a App) renderItem(r search.Result, selected bool, nameWidth, urlWidth, width int) string {
	name, _ := layout.TruncateText(r.Link.Name, nameWidth, a.layout.Text)
	urls, _ := layout.TruncateText(strings.Join(r.Link.URLs, "  "), urlWidth, a.layout.Text)

	if selected {
		line := "▸ " + layout.PadRight(name, nameWidth) + "  " + urls
		return a.styles.ItemSelected.Width(width).Render(line)
	}

	line := "  " + layout.PadRight(a.highlight(name, r.MatchedIndexes), nameWidth) + "  " + a.styles.URL.Render(urls)
	return a.styles.Item.Render(line)
}

// highlight marks the matched positions of name. fuzzy reports byte
// offsets, so the loop ranges over the string itself.
func (a App) highlight(name string, matched []int) string {
	if len(matched) == 0 {
		return name
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var b strings.Builder
	for i, r := range name {
		if hit[i] {
			b.WriteString(a.styles.Match.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

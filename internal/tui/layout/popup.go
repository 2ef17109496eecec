package layout

// CalculatePopupWidth computes the popup width as a percentage of the
// terminal width, clamped between MinWidth and MaxWidth and never wider
// than the terminal.
func CalculatePopupWidth(terminalWidth int, cfg PopupConfig) int {
	width := terminalWidth * cfg.WidthPercent / 100

	width = max(width, cfg.MinWidth)
	width = min(width, cfg.MaxWidth)
	width = min(width, terminalWidth)

	return max(width, 1)
}

// CalculateListHeight returns how many list rows fit. Returns at least
// MinListHeight.
func CalculateListHeight(terminalHeight int, cfg PopupConfig) int {
	return max(terminalHeight-cfg.ListReduction, cfg.MinListHeight)
}

// CalculateNameColumn returns the width of the name column: the longest
// name, capped at NameColumnMax and at half the popup width.
func CalculateNameColumn(longest, popupWidth int, cfg PopupConfig) int {
	return max(min(longest, cfg.NameColumnMax, popupWidth/2), 1)
}

// CalculateVisibleListItems computes the start and end indices for a scrollable list.
// Returns (start, end) where items[start:end] should be displayed.
func CalculateVisibleListItems(maxVisible, selectedIdx, totalItems int) (start, end int) {
	if totalItems <= maxVisible {
		return 0, totalItems
	}

	if selectedIdx >= maxVisible {
		start = selectedIdx - maxVisible + 1
	}

	return start, min(start+maxVisible, totalItems)
}

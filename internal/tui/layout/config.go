package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Popup PopupConfig
	Input InputConfig
	Text  TextConfig
}

// PopupConfig sizes the popup window.
type PopupConfig struct {
	// WidthPercent is the popup width as percentage of terminal width.
	WidthPercent int

	MinWidth int
	MaxWidth int

	// ListReduction is subtracted from terminal height for the list.
	// Accounts for: input (1) + rule (2) + notice (2) + hints (1) + padding (1) = 7
	ListReduction int

	MinListHeight int

	// NameColumnMax caps the name column; longer names are truncated.
	NameColumnMax int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	CharLimit int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Popup: PopupConfig{
			WidthPercent:  60,
			MinWidth:      40,
			MaxWidth:      100,
			ListReduction: 7,
			MinListHeight: 3,
			NameColumnMax: 24,
		},
		Input: InputConfig{
			CharLimit: 500,
		},
		Text: TextConfig{
			Ellipsis: "…",
		},
	}
}

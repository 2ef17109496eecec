package layout

import "testing"

func TestCalculatePopupWidth(t *testing.T) {
	cfg := DefaultConfig().Popup

	tests := []struct {
		name          string
		terminalWidth int
		want          int
	}{
		{"standard terminal", 100, 60},
		{"wide terminal clamps to max", 300, 100},
		{"narrow terminal clamps to min", 50, 40},
		{"tiny terminal uses full width", 30, 30},
		{"zero width clamps to 1", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculatePopupWidth(tt.terminalWidth, cfg)
			if got != tt.want {
				t.Errorf("CalculatePopupWidth(%d) = %d, want %d", tt.terminalWidth, got, tt.want)
			}
		})
	}
}

func TestCalculateListHeight(t *testing.T) {
	cfg := DefaultConfig().Popup

	tests := []struct {
		height int
		want   int
	}{
		{24, 17},
		{10, 3},
		{2, 3},
	}

	for _, tt := range tests {
		if got := CalculateListHeight(tt.height, cfg); got != tt.want {
			t.Errorf("CalculateListHeight(%d) = %d, want %d", tt.height, got, tt.want)
		}
	}
}

func TestCalculateNameColumn(t *testing.T) {
	cfg := DefaultConfig().Popup

	tests := []struct {
		name         string
		longest, pop int
		want         int
	}{
		{"short names", 8, 80, 8},
		{"capped by config", 40, 80, 24},
		{"capped by half the popup", 30, 40, 20},
		{"no names", 0, 80, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateNameColumn(tt.longest, tt.pop, cfg); got != tt.want {
				t.Errorf("CalculateNameColumn(%d, %d) = %d, want %d", tt.longest, tt.pop, got, tt.want)
			}
		})
	}
}

func TestCalculateVisibleListItems(t *testing.T) {
	tests := []struct {
		name                   string
		maxVisible, sel, total int
		wantStart, wantEnd     int
	}{
		{"all fit", 5, 2, 3, 0, 3},
		{"selection in first page", 3, 1, 10, 0, 3},
		{"selection scrolls", 3, 5, 10, 3, 6},
		{"selection at end", 3, 9, 10, 7, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := CalculateVisibleListItems(tt.maxVisible, tt.sel, tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("CalculateVisibleListItems(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.maxVisible, tt.sel, tt.total, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

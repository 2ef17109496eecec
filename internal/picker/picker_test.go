package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/sl/internal/model"
	"github.com/nikbrunner/sl/internal/search"
)

func testResults() []search.Result {
	return []search.Result{
		{Link: model.Shortlink{Name: "github", URLs: []string{"https://github.com"}}},
		{Link: model.Shortlink{Name: "gitlab", URLs: []string{"https://gitlab.com", "https://gitlab.com/explore"}}},
	}
}

func press(p Picker, msg tea.KeyMsg) (Picker, tea.Cmd) {
	m, cmd := p.Update(msg)
	return m.(Picker), cmd
}

func TestPicker_InitialState(t *testing.T) {
	p := New(testResults(), "git")

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
	if len(p.results) != 2 {
		t.Errorf("expected 2 results, got %d", len(p.results))
	}
}

func TestPicker_NavigateWithVimKeys(t *testing.T) {
	p := New(testResults(), "git")

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1, got %d", p.cursor)
	}

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
}

func TestPicker_BoundsCheck(t *testing.T) {
	p := New(testResults()[:1], "git")

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 (only 1 item), got %d", p.cursor)
	}
}

func TestPicker_ArrowKeys(t *testing.T) {
	p := New(testResults(), "git")

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyDown})
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1 after down arrow, got %d", p.cursor)
	}

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyUp})
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 after up arrow, got %d", p.cursor)
	}
}

func TestPicker_SelectItem(t *testing.T) {
	p := New(testResults(), "git")
	p.cursor = 1

	p, cmd := press(p, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("expected quit command after selection")
	}

	got, ok := p.Selected()
	if !ok {
		t.Fatal("expected a selection after Enter")
	}
	if got.Name != "gitlab" {
		t.Errorf("expected gitlab, got %q", got.Name)
	}
}

func TestPicker_EnterWithoutResultsCancels(t *testing.T) {
	p := New(nil, "zzz")

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyEnter})
	if !p.Cancelled() {
		t.Error("expected Enter on an empty list to cancel")
	}
	if _, ok := p.Selected(); ok {
		t.Error("expected no selection")
	}
}

func TestPicker_Cancel(t *testing.T) {
	p := New(testResults(), "git")

	p, cmd := press(p, tea.KeyMsg{Type: tea.KeyEsc})
	if !p.Cancelled() {
		t.Error("expected cancelled to be true after Esc")
	}
	if cmd == nil {
		t.Error("expected quit command after cancel")
	}
	if _, ok := p.Selected(); ok {
		t.Error("expected no selection when cancelled")
	}
}

func TestPicker_ViewListsURLs(t *testing.T) {
	links := []search.Result{{Link: model.Shortlink{
		Name: "many",
		URLs: []string{"https://1", "https://2", "https://3", "https://4", "https://5"},
	}}}
	view := New(links, "m").View()

	if !strings.Contains(view, "(1 results)") {
		t.Errorf("expected result count in header, got:\n%s", view)
	}
	if !strings.Contains(view, "https://3") || strings.Contains(view, "https://4") {
		t.Errorf("expected only the first three URLs, got:\n%s", view)
	}
	if !strings.Contains(view, "2 more") {
		t.Errorf("expected overflow marker, got:\n%s", view)
	}
}

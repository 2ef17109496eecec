// Package prompt implements the confirm and text prompts the shortlink
// service asks. Every prompt can be cancelled; cancelling is reported as
// ok=false, never as an error.
package prompt

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#606060"})
)

// Terminal runs each prompt as a small bubbletea program.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// NewTerminal prompts on the given terminal streams. Pass /dev/tty when
// stdin carries data.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Confirm asks a yes/no question. Enter or y answers yes; n, esc or
// ctrl+c answer no.
func (t *Terminal) Confirm(ctx context.Context, message string) bool {
	final, err := t.run(ctx, NewConfirm(message))
	if err != nil {
		return false
	}
	c, ok := final.(Confirm)
	return ok && c.Yes()
}

// Prompt asks for a line of text, pre-filled with def.
func (t *Terminal) Prompt(ctx context.Context, message, def string) (string, bool) {
	final, err := t.run(ctx, NewInput(message, def))
	if err != nil {
		return "", false
	}
	in, ok := final.(Input)
	if !ok || in.Cancelled() {
		return "", false
	}
	return in.Value(), true
}

func (t *Terminal) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	return p.Run()
}

// Confirm is a yes/no question model.
type Confirm struct {
	message string
	yes     bool
	done    bool
}

func NewConfirm(message string) Confirm {
	return Confirm{message: message}
}

// Yes reports whether the question was answered with yes.
func (c Confirm) Yes() bool {
	return c.done && c.yes
}

// Done reports whether the question was answered either way.
func (c Confirm) Done() bool {
	return c.done
}

// Init implements tea.Model.
func (c Confirm) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (c Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch key.String() {
	case "y", "Y", "enter":
		c.yes, c.done = true, true
		return c, tea.Quit
	case "n", "N", "esc", "ctrl+c", "q":
		c.yes, c.done = false, true
		return c, tea.Quit
	}
	return c, nil
}

// View implements tea.Model.
func (c Confirm) View() string {
	if c.done {
		return ""
	}
	return questionStyle.Render(c.message) + "\n" + hintStyle.Render("[Y/n]  enter confirm · esc cancel") + "\n"
}

// Input is a single-line text prompt model.
type Input struct {
	message   string
	input     textinput.Model
	submitted bool
	cancelled bool
}

func NewInput(message, def string) Input {
	ti := textinput.New()
	ti.SetValue(def)
	ti.CursorEnd()
	ti.Focus()
	ti.Width = 60
	return Input{message: message, input: ti}
}

// Value returns the entered text.
func (i Input) Value() string {
	return i.input.Value()
}

// Cancelled reports whether the prompt was dismissed without submitting.
func (i Input) Cancelled() bool {
	return i.cancelled || !i.submitted
}

// Done reports whether the prompt was submitted or cancelled.
func (i Input) Done() bool {
	return i.submitted || i.cancelled
}

// Init implements tea.Model.
func (i Input) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (i Input) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			i.submitted = true
			return i, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			i.cancelled = true
			return i, tea.Quit
		}
	}

	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return i, cmd
}

// View implements tea.Model.
func (i Input) View() string {
	if i.submitted || i.cancelled {
		return ""
	}
	return questionStyle.Render(i.message) + "\n" + i.input.View() + "\n" + hintStyle.Render("enter submit · esc cancel") + "\n"
}

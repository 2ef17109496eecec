package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/sl/internal/command"
	"github.com/nikbrunner/sl/internal/model"
	"github.com/nikbrunner/sl/internal/prompt"
	"github.com/nikbrunner/sl/internal/search"
	"github.com/nikbrunner/sl/internal/toast"
	"github.com/nikbrunner/sl/internal/tui/layout"
)

// Service is what the popup drives.
type Service interface {
	Dispatch(ctx context.Context, cmd command.Command) error
	Edit(ctx context.Context, name string) error
	Snapshot(ctx context.Context) ([]model.Shortlink, error)
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}

// Mode is what the popup is currently doing.
type Mode int

const (
	// ModeInput reads the command line.
	ModeInput Mode = iota
	// ModeBusy waits for an action to finish.
	ModeBusy
	// ModeConfirm shows a yes/no question from the running action.
	ModeConfirm
	// ModePrompt shows a text prompt from the running action.
	ModePrompt
)

type (
	snapshotMsg struct {
		links []model.Shortlink
		err   error
	}
	subscribedMsg struct {
		changes <-chan struct{}
		err     error
	}
	changedMsg   struct{}
	doneMsg      struct{ err error }
	autoCloseMsg struct{}
)

// App is the bubbletea model for the popup.
type App struct {
	ctx    context.Context
	svc    Service
	keys   KeyMap
	styles Styles
	layout layout.LayoutConfig

	input   textinput.Model
	links   []model.Shortlink // latest snapshot, sorted by the loader
	results []search.Result   // links matching the input
	cursor  int
	mode    Mode

	confirm      prompt.Confirm
	confirmReply chan<- bool
	prompt       prompt.Input
	promptReply  chan<- answer

	notice        *toast.Notice
	changes       <-chan struct{}
	closeWhenDone bool
	quitting      bool

	// Window dimensions
	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Context      context.Context
	Service      Service
	Links        []model.Shortlink    // initial snapshot, optional
	Keys         *KeyMap              // optional, uses default if nil
	Styles       *Styles              // optional, uses default if nil
	LayoutConfig *layout.LayoutConfig // optional, uses default if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	cfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		cfg = *params.LayoutConfig
	}

	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "name, go <names>, copy <names>, delete <names>, export, import"
	input.CharLimit = cfg.Input.CharLimit
	input.Focus()

	app := App{
		ctx:    ctx,
		svc:    params.Service,
		keys:   keys,
		styles: styles,
		layout: cfg,
		input:  input,
		links:  params.Links,
		width:  80,
		height: 24,
	}
	app.refilter()
	return app
}

// WithDimensions returns a copy of the app sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the current cursor position.
func (a App) Cursor() int {
	return a.cursor
}

// Mode returns the current mode.
func (a App) Mode() Mode {
	return a.mode
}

// Visible returns the shortlinks currently listed.
func (a App) Visible() []model.Shortlink {
	out := make([]model.Shortlink, len(a.results))
	for i, r := range a.results {
		out[i] = r.Link
	}
	return out
}

// Input returns the command line text.
func (a App) Input() string {
	return a.input.Value()
}

// Notice returns the notice on screen, if any.
func (a App) Notice() (toast.Notice, bool) {
	if a.notice == nil {
		return toast.Notice{}, false
	}
	return *a.notice, true
}

// Quitting reports whether the popup is closing.
func (a App) Quitting() bool {
	return a.quitting
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.loadSnapshot(), a.subscribe())
}

func (a App) loadSnapshot() tea.Cmd {
	return func() tea.Msg {
		links, err := a.svc.Snapshot(a.ctx)
		return snapshotMsg{links: links, err: err}
	}
}

func (a App) subscribe() tea.Cmd {
	return func() tea.Msg {
		ch, err := a.svc.Subscribe(a.ctx)
		return subscribedMsg{changes: ch, err: err}
	}
}

// waitForChange turns the next change hint into a changedMsg. A closed
// channel ends the watch.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (a App) run(action func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: action(a.ctx)}
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case snapshotMsg:
		if msg.err != nil {
			a.showError("Could not load shortlinks: " + msg.err.Error())
			return a, nil
		}
		a.links = msg.links
		a.refilter()
		return a, nil

	case subscribedMsg:
		if msg.err != nil {
			a.showError("Live updates unavailable: " + msg.err.Error())
			return a, nil
		}
		a.changes = msg.changes
		return a, waitForChange(a.changes)

	case changedMsg:
		return a, tea.Batch(a.loadSnapshot(), waitForChange(a.changes))

	case noticeMsg:
		n := msg.notice
		a.notice = &n
		switch n.Close {
		case toast.CloseNow:
			a.quitting = true
			return a, tea.Quit
		case toast.CloseAfterDelay:
			return a, tea.Tick(n.Delay, func(time.Time) tea.Msg { return autoCloseMsg{} })
		}
		return a, nil

	case autoCloseMsg:
		if a.mode != ModeInput {
			a.closeWhenDone = true
			return a, nil
		}
		return a.autoClose()

	case doneMsg:
		a.mode = ModeInput
		if msg.err == nil {
			a.input.Reset()
			a.refilter()
		}
		if a.closeWhenDone {
			a.closeWhenDone = false
			return a.autoClose()
		}
		return a, nil

	case confirmMsg:
		a.mode = ModeConfirm
		a.confirm = prompt.NewConfirm(msg.message)
		a.confirmReply = msg.reply
		return a, nil

	case promptMsg:
		a.mode = ModePrompt
		a.prompt = prompt.NewInput(msg.message, msg.def)
		a.promptReply = msg.reply
		return a, a.prompt.Init()

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if a.mode == ModePrompt {
		m, cmd := a.prompt.Update(msg)
		a.prompt = m.(prompt.Input)
		return a, cmd
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.mode {
	case ModeConfirm:
		m, _ := a.confirm.Update(msg)
		a.confirm = m.(prompt.Confirm)
		if a.confirm.Done() {
			a.confirmReply <- a.confirm.Yes()
			a.mode = ModeBusy
		}
		return a, nil

	case ModePrompt:
		m, cmd := a.prompt.Update(msg)
		a.prompt = m.(prompt.Input)
		if a.prompt.Done() {
			a.promptReply <- answer{value: a.prompt.Value(), ok: !a.prompt.Cancelled()}
			a.mode = ModeBusy
			return a, nil
		}
		return a, cmd

	case ModeBusy:
		if msg.Type == tea.KeyCtrlC {
			a.quitting = true
			return a, tea.Quit
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.results)-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, a.keys.Complete):
		if link, ok := a.selected(); ok {
			a.input.SetValue(complete(a.input.Value(), link.Name))
			a.input.CursorEnd()
			a.refilter()
		}
		return a, nil

	case key.Matches(msg, a.keys.Edit):
		link, ok := a.selected()
		if !ok {
			return a, nil
		}
		a.mode = ModeBusy
		a.notice = nil
		return a, a.run(func(ctx context.Context) error { return a.svc.Edit(ctx, link.Name) })

	case key.Matches(msg, a.keys.Submit):
		text := a.input.Value()
		if text == "" {
			link, ok := a.selected()
			if !ok {
				return a, nil
			}
			text = "go " + link.Name
		}
		cmd := command.Parse(text)
		if _, nothing := cmd.(command.Nothing); nothing {
			return a, nil
		}
		a.mode = ModeBusy
		a.notice = nil
		return a, a.run(func(ctx context.Context) error { return a.svc.Dispatch(ctx, cmd) })
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	a.refilter()
	return a, cmd
}

// autoClose quits unless the user has started typing again.
func (a App) autoClose() (tea.Model, tea.Cmd) {
	if a.input.Value() != "" {
		return a, nil
	}
	a.quitting = true
	return a, tea.Quit
}

func (a *App) showError(message string) {
	a.notice = &toast.Notice{Severity: toast.Error, Message: message}
}

func (a App) selected() (model.Shortlink, bool) {
	if a.cursor < 0 || a.cursor >= len(a.results) {
		return model.Shortlink{}, false
	}
	return a.results[a.cursor].Link, true
}

// refilter rebuilds the list from the snapshot and the name being typed.
func (a *App) refilter() {
	query := filterQuery(a.input.Value())
	if query == "" {
		a.results = make([]search.Result, len(a.links))
		for i, l := range a.links {
			a.results[i] = search.Result{Link: l}
		}
	} else {
		a.results = search.Shortlinks(a.links, query)
	}

	if a.cursor >= len(a.results) {
		a.cursor = max(len(a.results)-1, 0)
	}
}

// filterQuery returns the name being typed: the last name of a
// multi-name command, or the whole line for a save.
func filterQuery(text string) string {
	switch command.Parse(text).(type) {
	case command.Save, command.Go, command.CopyToClipboard, command.Delete:
		return lastToken(text)
	default:
		return ""
	}
}

func lastToken(text string) string {
	return strings.TrimSpace(text[strings.LastIndexAny(text, " ,;")+1:])
}

// complete replaces the name being typed with name.
func complete(text, name string) string {
	return text[:strings.LastIndexAny(text, " ,;")+1] + name
}

// View implements tea.Model.
func (a App) View() string {
	if a.quitting {
		return ""
	}
	return a.renderView()
}

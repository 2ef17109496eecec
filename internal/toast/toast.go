// Package toast renders short user-facing notices.
package toast

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
	Error   Severity = "error"
)

// Close says when a notice should dismiss the surface showing it.
type Close int

const (
	// CloseNever leaves the surface open.
	CloseNever Close = iota
	// CloseAfterDelay dismisses the surface once Delay has elapsed.
	CloseAfterDelay
	// CloseNow dismisses the surface immediately.
	CloseNow
)

type Notice struct {
	Severity Severity
	Message  string
	Delay    time.Duration
	Close    Close
}

func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s", n.Severity, n.Message)
}

// Styles for the severity badges.
type Styles struct {
	Success lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Message lipgloss.Style
}

func DefaultStyles() Styles {
	success := lipgloss.AdaptiveColor{Light: "#4A7050", Dark: "#5F875F"}
	info := lipgloss.AdaptiveColor{Light: "#4A7070", Dark: "#5F8787"}
	warning := lipgloss.AdaptiveColor{Light: "#8A6A20", Dark: "#AF8700"}
	danger := lipgloss.AdaptiveColor{Light: "#8A3030", Dark: "#AF5F5F"}
	primary := lipgloss.AdaptiveColor{Light: "#505050", Dark: "#A0A0A0"}

	badge := lipgloss.NewStyle().Bold(true).PaddingRight(1)

	return Styles{
		Success: badge.Foreground(success),
		Info:    badge.Foreground(info),
		Warning: badge.Foreground(warning),
		Error:   badge.Foreground(danger),
		Message: lipgloss.NewStyle().Foreground(primary),
	}
}

// Badge returns the styled severity marker.
func (s Styles) Badge(sev Severity) string {
	switch sev {
	case Success:
		return s.Success.Render("✓")
	case Warning:
		return s.Warning.Render("!")
	case Error:
		return s.Error.Render("✗")
	default:
		return s.Info.Render("i")
	}
}

// Render formats a notice on one line.
func (s Styles) Render(n Notice) string {
	return s.Badge(n.Severity) + s.Message.Render(n.Message)
}

// Printer writes each notice as a line to w. It suits one-shot commands,
// where closing a surface has no meaning.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	styles Styles
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, styles: DefaultStyles()}
}

func (p *Printer) Notify(n Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, p.styles.Render(n))
}

// Recorder keeps notices in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/sl/internal/toast"
)

type confirmMsg struct {
	message string
	reply   chan<- bool
}

type promptMsg struct {
	message string
	def     string
	reply   chan<- answer
}

type answer struct {
	value string
	ok    bool
}

type noticeMsg struct {
	notice toast.Notice
}

// Bridge lets the shortlink service ask and notify through the running
// popup. Questions block until the popup answers or ctx is done; before
// Attach every question is declined and notices are dropped.
type Bridge struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach routes messages into the program, usually (*tea.Program).Send.
func (b *Bridge) Attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.send = send
}

func (b *Bridge) sender() func(tea.Msg) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.send
}

func (b *Bridge) Confirm(ctx context.Context, message string) bool {
	send := b.sender()
	if send == nil {
		return false
	}

	reply := make(chan bool, 1)
	send(confirmMsg{message: message, reply: reply})

	select {
	case yes := <-reply:
		return yes
	case <-ctx.Done():
		return false
	}
}

func (b *Bridge) Prompt(ctx context.Context, message, def string) (string, bool) {
	send := b.sender()
	if send == nil {
		return "", false
	}

	reply := make(chan answer, 1)
	send(promptMsg{message: message, def: def, reply: reply})

	select {
	case a := <-reply:
		return a.value, a.ok
	case <-ctx.Done():
		return "", false
	}
}

func (b *Bridge) Notify(n toast.Notice) {
	if send := b.sender(); send != nil {
		send(noticeMsg{notice: n})
	}
}

// Package shortlink orchestrates the user-facing actions on shortlinks:
// save, open, copy, delete, edit, export, import and the debug helpers.
package shortlink

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/nikbrunner/sl/internal/command"
	"github.com/nikbrunner/sl/internal/loader"
	"github.com/nikbrunner/sl/internal/logger"
	"github.com/nikbrunner/sl/internal/model"
	"github.com/nikbrunner/sl/internal/provider"
	"github.com/nikbrunner/sl/internal/toast"
)

var (
	ErrNotFound        = errors.New("shortlink not found")
	ErrEmptyName       = errors.New("shortlink name is empty")
	ErrMalformedImport = errors.New("malformed import payload")
)

// Tabs reads the highlighted tabs and opens URLs.
type Tabs interface {
	Highlighted(ctx context.Context) ([]string, error)
	Open(ctx context.Context, urls []string) error
}

type Clipboard interface {
	WriteText(text string) error
	ReadText() (string, error)
}

// Prompter asks the user. ok=false means the prompt was cancelled.
type Prompter interface {
	Confirm(ctx context.Context, message string) bool
	Prompt(ctx context.Context, message, def string) (string, bool)
}

type Notifier interface {
	Notify(n toast.Notice)
}

// Pacing is the delay between two writes of a bulk action.
type Pacing struct {
	Import time.Duration
	Debug  time.Duration
}

// Params holds the collaborators of a Service.
type Params struct {
	Store     provider.Provider
	Tabs      Tabs
	Clipboard Clipboard
	Prompter  Prompter
	Notifier  Notifier
	Log       logger.Logger
	Now       func() time.Time
	Rand      *rand.Rand
	Pacing    Pacing

	// ToastDelay and AutoClose shape every notice.
	ToastDelay time.Duration
	AutoClose  bool
}

type Service struct {
	store     provider.Provider
	tabs      Tabs
	clipboard Clipboard
	prompter  Prompter
	notifier  Notifier
	log       logger.Logger
	now       func() time.Time
	rand      *rand.Rand
	pacing    Pacing

	toastDelay time.Duration
	autoClose  bool
}

func NewService(p Params) *Service {
	if p.Log == nil {
		p.Log = logger.NewNop()
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Rand == nil {
		p.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if p.Prompter == nil {
		p.Prompter = declineAll{}
	}
	if p.Notifier == nil {
		p.Notifier = discard{}
	}
	return &Service{
		store:      p.Store,
		tabs:       p.Tabs,
		clipboard:  p.Clipboard,
		prompter:   p.Prompter,
		notifier:   p.Notifier,
		log:        p.Log,
		now:        p.Now,
		rand:       p.Rand,
		pacing:     p.Pacing,
		toastDelay: p.ToastDelay,
		autoClose:  p.AutoClose,
	}
}

// Dispatch runs the action for a parsed command. Returned errors are
// failures the user has already been notified about.
func (s *Service) Dispatch(ctx context.Context, cmd command.Command) error {
	switch c := cmd.(type) {
	case command.Nothing:
		return nil
	case command.Save:
		return s.Save(ctx, c.Name)
	case command.Delete:
		return s.Delete(ctx, c.Names)
	case command.Go:
		return s.Go(ctx, c.Names)
	case command.CopyToClipboard:
		return s.Copy(ctx, c.Names)
	case command.Export:
		return s.Export(ctx, c.Path)
	case command.Import:
		_, err := s.Import(ctx, c.Path)
		return err
	case command.Debug:
		return s.Debug(ctx, c.Arg)
	default:
		return fmt.Errorf("unsupported command %T", cmd)
	}
}

// Snapshot returns the current sorted list of shortlinks.
func (s *Service) Snapshot(ctx context.Context) ([]model.Shortlink, error) {
	return s.store.GetAll(ctx)
}

// Subscribe forwards the store's change hints.
func (s *Service) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	return s.store.Subscribe(ctx)
}

func (s *Service) pause(ctx context.Context, d time.Duration) error {
	return loader.Pause(ctx, d)
}

func (s *Service) notice(sev toast.Severity, format string, args ...any) {
	closeMode := toast.CloseNever
	if s.autoClose {
		closeMode = toast.CloseAfterDelay
	}
	s.notifier.Notify(toast.Notice{
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Delay:    s.toastDelay,
		Close:    closeMode,
	})
}

// cancelled reports a user cancellation; it dismisses the surface at once.
func (s *Service) cancelled(message string) {
	s.notifier.Notify(toast.Notice{
		Severity: toast.Info,
		Message:  message,
		Close:    toast.CloseNow,
	})
}

type declineAll struct{}

func (declineAll) Confirm(context.Context, string) bool                  { return false }
func (declineAll) Prompt(context.Context, string, string) (string, bool) { return "", false }

type discard struct{}

func (discard) Notify(toast.Notice) {}

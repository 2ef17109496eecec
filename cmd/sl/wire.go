package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nikbrunner/sl/internal/browser"
	"github.com/nikbrunner/sl/internal/config"
	"github.com/nikbrunner/sl/internal/loader"
	"github.com/nikbrunner/sl/internal/logger"
	"github.com/nikbrunner/sl/internal/provider"
	"github.com/nikbrunner/sl/internal/shortlink"
	"github.com/nikbrunner/sl/internal/storage"
	"github.com/nikbrunner/sl/internal/toast"
)

// env is everything a subcommand needs.
type env struct {
	cfg     *config.Config
	log     logger.Logger
	backend storage.Backend
	svc     *shortlink.Service
}

type setupParams struct {
	stdin    io.Reader // tab source; nil when stdin is a terminal
	notifier shortlink.Notifier
	prompter shortlink.Prompter
	// logNotices sends notices to the log instead of notifier.
	logNotices bool
}

// setup loads the config and builds the service on the configured backend.
func setup(ctx context.Context, p setupParams) (*env, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	backend, err := storage.Open(ctx, cfg, log.Named("storage"))
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.Backend, err)
	}

	l := loader.New(backend, loader.Options{
		Pacing: cfg.Pacing.Migration,
		Log:    log.Named("loader"),
	})

	if p.logNotices {
		p.notifier = logNotifier{log: log.Named("notice")}
	}

	var store provider.Provider = provider.NewStore(backend, l, nil)
	if cfg.WriteQuota.PerMinute > 0 {
		store = provider.NewThrottled(store, provider.Quota{
			PerMinute: cfg.WriteQuota.PerMinute,
			Burst:     cfg.WriteQuota.Burst,
		}, nil)
	}

	svc := shortlink.NewService(shortlink.Params{
		Store: store,
		Tabs: browser.NewTabs(browser.TabsParams{
			Stdin:   p.stdin,
			Command: cfg.TabsCommand,
		}),
		Clipboard: browser.NewClipboard(os.Stdout),
		Prompter:  p.prompter,
		Notifier:  p.notifier,
		Log:       log.Named("shortlink"),
		Pacing: shortlink.Pacing{
			Import: cfg.Pacing.Import,
			Debug:  cfg.Pacing.Debug,
		},
		ToastDelay: cfg.Toast.Delay,
		AutoClose:  cfg.Toast.AutoClose,
	})

	return &env{cfg: cfg, log: log, backend: backend, svc: svc}, nil
}

func (e *env) Close() {
	if err := e.backend.Close(); err != nil {
		e.log.Warn("closing storage", logger.Error(err))
	}
	_ = e.log.Sync()
}

// logNotifier sends notices to the log instead of a terminal.
type logNotifier struct {
	log logger.Logger
}

func (n logNotifier) Notify(notice toast.Notice) {
	switch notice.Severity {
	case toast.Error:
		n.log.Error(notice.Message)
	case toast.Warning:
		n.log.Warn(notice.Message)
	default:
		n.log.Info(notice.Message)
	}
}

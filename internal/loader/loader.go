// Package loader reads the whole shortlink namespace, upgrading legacy
// values in place, and returns it ordered for display.
package loader

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/nikbrunner/sl/internal/logger"
	"github.com/nikbrunner/sl/internal/model"
	"github.com/nikbrunner/sl/internal/storage"
)

// Result is a loaded snapshot plus what happened while loading it.
type Result struct {
	Links []model.Shortlink
	// Migrated names legacy entries rewritten in the current shape.
	Migrated []string
	// Skipped names entries that could not be decoded.
	Skipped []string
}

type Options struct {
	// Pacing is the delay between two migration writes.
	Pacing time.Duration
	Now    func() time.Time
	Log    logger.Logger
}

type Loader struct {
	backend storage.Backend
	pacing  time.Duration
	now     func() time.Time
	log     logger.Logger
}

func New(backend storage.Backend, opts Options) *Loader {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logger.NewNop()
	}
	return &Loader{
		backend: backend,
		pacing:  opts.Pacing,
		now:     opts.Now,
		log:     opts.Log,
	}
}

// LoadAll returns every shortlink sorted by descending priority, then
// descending date.
func (l *Loader) LoadAll(ctx context.Context) ([]model.Shortlink, error) {
	res, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return res.Links, nil
}

// Load reads all entries, normalizes them and persists legacy ones in the
// current shape. Values already in the current shape are never rewritten,
// so loading migrated data performs no writes. Undecodable entries are
// skipped and a failed migration write keeps the in-memory upgrade.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	raw, err := l.backend.All(ctx)
	if err != nil {
		return Result{}, err
	}

	now := l.now()
	res := Result{Links: make([]model.Shortlink, 0, len(raw))}
	var legacy []model.Shortlink

	for _, name := range slices.Sorted(maps.Keys(raw)) {
		value, isLegacy, err := model.Normalize(raw[name], now)
		if err != nil {
			l.log.Warn("skipping undecodable entry",
				logger.String("name", name),
				logger.Error(err))
			res.Skipped = append(res.Skipped, name)
			continue
		}
		link := value.Shortlink(name)
		res.Links = append(res.Links, link)
		if isLegacy {
			legacy = append(legacy, link)
		}
	}

	res.Migrated = l.migrate(ctx, legacy)

	model.SortByPriority(res.Links)
	return res, nil
}

// migrate writes legacy entries back in the current shape, pausing between
// writes. It stops early when ctx is done.
func (l *Loader) migrate(ctx context.Context, legacy []model.Shortlink) []string {
	var migrated []string
	for i, link := range legacy {
		if i > 0 {
			if err := Pause(ctx, l.pacing); err != nil {
				l.log.Warn("migration interrupted",
					logger.Int("remaining", len(legacy)-i),
					logger.Error(err))
				break
			}
		}

		data, err := model.Encode(link.Value())
		if err == nil {
			err = l.backend.Set(ctx, link.Name, data)
		}
		if err != nil {
			l.log.Warn("failed to migrate legacy entry",
				logger.String("name", link.Name),
				logger.Error(err))
			continue
		}
		l.log.Debug("migrated legacy entry", logger.String("name", link.Name))
		migrated = append(migrated, link.Name)
	}
	return migrated
}

// Pause waits for d or until ctx is done, whichever comes first.
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package provider

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/nikbrunner/sl/internal/model"
	"github.com/nikbrunner/sl/internal/storage"
)

// Quota is a token bucket refilled at PerMinute tokens a minute and holding
// at most Burst tokens.
type Quota struct {
	PerMinute int
	Burst     int
}

// Throttled enforces a write quota on another Provider. Reads are free;
// SetOne, RemoveOne and Clear each take one token and fail with
// storage.ErrRateLimited when none is left.
type Throttled struct {
	Provider

	rate     float64 // tokens per second
	capacity float64
	now      func() time.Time

	mu      sync.Mutex
	tokens  float64
	lastRef time.Time
}

func NewThrottled(p Provider, q Quota, now func() time.Time) *Throttled {
	if now == nil {
		now = time.Now
	}
	if q.PerMinute < 1 {
		q.PerMinute = 1
	}
	if q.Burst < 1 {
		q.Burst = 1
	}
	return &Throttled{
		Provider: p,
		rate:     float64(q.PerMinute) / 60.0,
		capacity: float64(q.Burst),
		now:      now,
		tokens:   float64(q.Burst),
		lastRef:  now(),
	}
}

// take consumes a token or reports how long until one is available.
func (t *Throttled) take() (bool, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if elapsed := now.Sub(t.lastRef).Seconds(); elapsed > 0 {
		t.tokens = math.Min(t.capacity, t.tokens+elapsed*t.rate)
		t.lastRef = now
	}

	if t.tokens >= 1.0 {
		t.tokens -= 1.0
		return true, 0
	}

	needed := 1.0 - t.tokens
	return false, time.Duration(math.Ceil(needed/t.rate*1000)) * time.Millisecond
}

func (t *Throttled) allow(op, name string) error {
	ok, retry := t.take()
	if ok {
		return nil
	}
	if name == "" {
		return fmt.Errorf("%s: %w (retry in %s)", op, storage.ErrRateLimited, retry)
	}
	return fmt.Errorf("%s %q: %w (retry in %s)", op, name, storage.ErrRateLimited, retry)
}

// Remaining returns the number of whole tokens currently available.
func (t *Throttled) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	elapsed := t.now().Sub(t.lastRef).Seconds()
	return int(math.Floor(math.Min(t.capacity, t.tokens+max(elapsed, 0)*t.rate)))
}

func (t *Throttled) SetOne(ctx context.Context, name string, value model.StoredValue) error {
	if err := t.allow("set", name); err != nil {
		return err
	}
	return t.Provider.SetOne(ctx, name, value)
}

func (t *Throttled) RemoveOne(ctx context.Context, name string) error {
	if err := t.allow("remove", name); err != nil {
		return err
	}
	return t.Provider.RemoveOne(ctx, name)
}

func (t *Throttled) Clear(ctx context.Context) error {
	if err := t.allow("clear", ""); err != nil {
		return err
	}
	return t.Provider.Clear(ctx)
}

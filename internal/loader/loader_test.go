package loader_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nikbrunner/sl/internal/loader"
	"github.com/nikbrunner/sl/internal/model"
	"github.com/nikbrunner/sl/internal/storage"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

// countingBackend records writes made through it.
type countingBackend struct {
	*storage.Memory
	sets    []string
	failSet map[string]bool
	failAll error
}

func newCounting() *countingBackend {
	return &countingBackend{Memory: storage.NewMemory(), failSet: map[string]bool{}}
}

func (c *countingBackend) Set(ctx context.Context, name string, value []byte) error {
	if c.failSet[name] {
		return &storage.BackendError{Op: "set", Key: name, Err: errors.New("quota")}
	}
	c.sets = append(c.sets, name)
	return c.Memory.Set(ctx, name, value)
}

func (c *countingBackend) All(ctx context.Context) (map[string][]byte, error) {
	if c.failAll != nil {
		return nil, c.failAll
	}
	return c.Memory.All(ctx)
}

func seed(t *testing.T, b *countingBackend, entries map[string]string) {
	t.Helper()
	for name, raw := range entries {
		assert.NilError(t, b.Memory.Set(context.Background(), name, []byte(raw)))
	}
}

func newLoader(b storage.Backend) *loader.Loader {
	return loader.New(b, loader.Options{Now: func() time.Time { return fixedNow }})
}

func TestLoad_MigratesLegacyValues(t *testing.T) {
	b := newCounting()
	seed(t, b, map[string]string{
		"old": `["https://a","https://b"]`,
		"new": `{"urls":["https://c"],"date":5,"priority":2}`,
	})

	res, err := newLoader(b).Load(context.Background())
	assert.NilError(t, err)

	assert.DeepEqual(t, res.Migrated, []string{"old"})
	assert.DeepEqual(t, b.sets, []string{"old"})

	raw, err := b.Get(context.Background(), "old")
	assert.NilError(t, err)
	assert.Equal(t, string(raw), `{"urls":["https://a","https://b"],"date":1700000000000,"priority":0}`)

	assert.DeepEqual(t, res.Links, []model.Shortlink{
		{Name: "new", URLs: []string{"https://c"}, Date: 5, Priority: 2},
		{Name: "old", URLs: []string{"https://a", "https://b"}, Date: fixedNow.UnixMilli(), Priority: 0},
	})
}

func TestLoad_IsIdempotent(t *testing.T) {
	b := newCounting()
	seed(t, b, map[string]string{
		"a": `["https://a"]`,
		"b": `["https://b"]`,
		"c": `{"urls":["https://c"]}`,
	})
	l := newLoader(b)

	first, err := l.Load(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, len(b.sets), 2)

	b.sets = nil
	second, err := l.Load(context.Background())
	assert.NilError(t, err)
	assert.Check(t, is.Len(b.sets, 0), "second load must not write")
	assert.Check(t, is.Len(second.Migrated, 0))
	assert.DeepEqual(t, second.Links, first.Links)
}

func TestLoad_CurrentShapeDefaultsAreNotPersisted(t *testing.T) {
	b := newCounting()
	seed(t, b, map[string]string{"x": `{"urls":["https://x"]}`})

	links, err := newLoader(b).LoadAll(context.Background())
	assert.NilError(t, err)
	assert.Check(t, is.Len(b.sets, 0))

	assert.DeepEqual(t, links, []model.Shortlink{
		{Name: "x", URLs: []string{"https://x"}, Date: fixedNow.UnixMilli(), Priority: 0},
	})
}

func TestLoad_SortOrder(t *testing.T) {
	b := newCounting()
	seed(t, b, map[string]string{
		"low":   `{"urls":[],"date":300,"priority":1}`,
		"older": `{"urls":[],"date":100,"priority":3}`,
		"newer": `{"urls":[],"date":200,"priority":3}`,
	})

	links, err := newLoader(b).LoadAll(context.Background())
	assert.NilError(t, err)
	assert.DeepEqual(t, model.Names(links), []string{"newer", "older", "low"})
}

func TestLoad_SkipsUndecodable(t *testing.T) {
	b := newCounting()
	seed(t, b, map[string]string{
		"ok":  `["https://a"]`,
		"bad": `42`,
	})

	res, err := newLoader(b).Load(context.Background())
	assert.NilError(t, err)
	assert.DeepEqual(t, res.Skipped, []string{"bad"})
	assert.DeepEqual(t, model.Names(res.Links), []string{"ok"})
}

func TestLoad_MigrationWriteFailureKeepsEntry(t *testing.T) {
	b := newCounting()
	seed(t, b, map[string]string{
		"a": `["https://a"]`,
		"b": `["https://b"]`,
	})
	b.failSet["a"] = true

	res, err := newLoader(b).Load(context.Background())
	assert.NilError(t, err)
	assert.DeepEqual(t, res.Migrated, []string{"b"})
	assert.DeepEqual(t, model.Names(res.Links), []string{"a", "b"})

	// The failed entry is retried on the next load.
	b.failSet["a"] = false
	res, err = newLoader(b).Load(context.Background())
	assert.NilError(t, err)
	assert.DeepEqual(t, res.Migrated, []string{"a"})
}

func TestLoad_ReadFailure(t *testing.T) {
	b := newCounting()
	b.failAll = &storage.BackendError{Op: "read", Err: errors.New("offline")}

	_, err := newLoader(b).LoadAll(context.Background())
	assert.Assert(t, errors.Is(err, storage.ErrUnavailable))
}

func TestLoad_PacesMigrationWrites(t *testing.T) {
	b := newCounting()
	seed(t, b, map[string]string{
		"a": `["https://a"]`,
		"b": `["https://b"]`,
		"c": `["https://c"]`,
	})
	l := loader.New(b, loader.Options{Pacing: 20 * time.Millisecond})

	start := time.Now()
	res, err := l.Load(context.Background())
	assert.NilError(t, err)
	assert.Equal(t, len(res.Migrated), 3)
	assert.Assert(t, time.Since(start) >= 40*time.Millisecond, "expected two pauses between three writes")
}

func TestLoad_CancelledMigrationStops(t *testing.T) {
	b := newCounting()
	seed(t, b, map[string]string{
		"a": `["https://a"]`,
		"b": `["https://b"]`,
	})
	l := loader.New(b, loader.Options{Pacing: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(20*time.Millisecond, cancel)

	res, err := l.Load(ctx)
	assert.NilError(t, err)
	assert.DeepEqual(t, res.Migrated, []string{"a"})
	assert.Equal(t, len(res.Links), 2)
}

func TestPause(t *testing.T) {
	assert.NilError(t, loader.Pause(context.Background(), 0))
	assert.NilError(t, loader.Pause(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, loader.Pause(ctx, time.Hour), context.Canceled)
}

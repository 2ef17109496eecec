package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// lockRetry is how often a blocked writer retries the file lock.
const lockRetry = 5 * time.Millisecond

// JSONFile stores every entry in a single JSON object file.
// Returns an empty namespace while the file doesn't exist.
//
// Writes hold an flock on "<path>.lock" across read-modify-write and
// replace the file by renaming a temp file over it, so several processes
// can share one file and readers never see a partial write.
type JSONFile struct {
	path     string
	interval time.Duration
	lock     *flock.Flock

	mu        sync.Mutex
	lastWrite time.Time // mtime left behind by our own last write

	hub      *Hub
	pollOnce sync.Once
	pollCtx  context.Context
	stopPoll context.CancelFunc
}

// NewJSONFile creates a JSONFile backend. A positive interval enables
// polling the file for changes made by other processes.
func NewJSONFile(path string, interval time.Duration) *JSONFile {
	ctx, cancel := context.WithCancel(context.Background())
	return &JSONFile{
		path:     path,
		interval: interval,
		lock:     flock.New(path + ".lock"),
		hub:      NewHub(),
		pollCtx:  ctx,
		stopPoll: cancel,
	}
}

// Path returns the storage file path.
func (s *JSONFile) Path() string {
	return s.path
}

func (s *JSONFile) All(ctx context.Context) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, wrap("read", "", err)
	}

	out := make(map[string][]byte, len(entries))
	for k, v := range entries {
		out[k] = []byte(v)
	}
	return out, nil
}

func (s *JSONFile) Get(ctx context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return nil, wrap("get", name, err)
	}
	v, ok := entries[name]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (s *JSONFile) Set(ctx context.Context, name string, value []byte) error {
	if !json.Valid(value) {
		return wrap("set", name, errors.New("value is not valid JSON"))
	}
	return s.update(ctx, "set", name, func(entries map[string]json.RawMessage) bool {
		entries[name] = json.RawMessage(value)
		return true
	})
}

func (s *JSONFile) Delete(ctx context.Context, name string) error {
	return s.update(ctx, "delete", name, func(entries map[string]json.RawMessage) bool {
		if _, ok := entries[name]; !ok {
			return false
		}
		delete(entries, name)
		return true
	})
}

func (s *JSONFile) Clear(ctx context.Context) error {
	return s.update(ctx, "clear", "", func(entries map[string]json.RawMessage) bool {
		clear(entries)
		return true
	})
}

func (s *JSONFile) Watch(ctx context.Context) (<-chan struct{}, error) {
	if s.interval > 0 {
		s.pollOnce.Do(func() {
			last := s.modTime()
			go s.poll(s.pollCtx, last)
		})
	}
	return s.hub.Subscribe(ctx), nil
}

// Close stops the change poller.
func (s *JSONFile) Close() error {
	s.stopPoll()
	return nil
}

// update applies fn to the current entries and writes them back when fn
// reports a change.
func (s *JSONFile) update(ctx context.Context, op, key string, fn func(map[string]json.RawMessage) bool) error {
	s.mu.Lock()
	changed, err := s.locked(ctx, fn)
	s.mu.Unlock()

	if err != nil {
		return wrap(op, key, err)
	}
	if changed {
		s.hub.Notify()
	}
	return nil
}

// locked runs one read-modify-write under the file lock. s.mu must be held.
func (s *JSONFile) locked(ctx context.Context, fn func(map[string]json.RawMessage) bool) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return false, err
	}
	ok, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, errors.New("file lock not acquired")
	}
	defer s.lock.Unlock()

	entries, err := s.read()
	if err != nil {
		return false, err
	}
	if !fn(entries) {
		return false, nil
	}
	return true, s.write(entries)
}

func (s *JSONFile) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}

	entries := map[string]json.RawMessage{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// write replaces the file contents through a temp file in the same
// directory and a rename.
func (s *JSONFile) write(entries map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return err
	}

	if info, err := os.Stat(s.path); err == nil {
		s.lastWrite = info.ModTime()
	}
	return nil
}

// poll notifies subscribers when the file's modification time changes
// through a write that did not come from this process.
func (s *JSONFile) poll(ctx context.Context, last time.Time) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		mod := s.modTime()
		if mod.Equal(last) {
			continue
		}
		last = mod

		s.mu.Lock()
		own := mod.Equal(s.lastWrite)
		s.mu.Unlock()
		if !own {
			s.hub.Notify()
		}
	}
}

func (s *JSONFile) modTime() time.Time {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}

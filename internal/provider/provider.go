// Package provider is the storage capability the shortlink service works
// against: typed reads and writes over one flat namespace.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikbrunner/sl/internal/loader"
	"github.com/nikbrunner/sl/internal/model"
	"github.com/nikbrunner/sl/internal/storage"
)

// Provider is implemented by Store and the wrappers around it. Every
// method may fail with storage.ErrUnavailable or storage.ErrRateLimited.
type Provider interface {
	// GetAll returns the migrated, sorted snapshot.
	GetAll(ctx context.Context) ([]model.Shortlink, error)
	// GetOne reports ok=false when name is absent.
	GetOne(ctx context.Context, name string) (model.StoredValue, bool, error)
	SetOne(ctx context.Context, name string, value model.StoredValue) error
	RemoveOne(ctx context.Context, name string) error
	Clear(ctx context.Context) error
	// Subscribe delivers re-fetch hints until ctx is done.
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}

// Store implements Provider on a raw backend.
type Store struct {
	backend storage.Backend
	loader  *loader.Loader
	now     func() time.Time
}

func NewStore(backend storage.Backend, l *loader.Loader, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{backend: backend, loader: l, now: now}
}

func (s *Store) GetAll(ctx context.Context) ([]model.Shortlink, error) {
	return s.loader.LoadAll(ctx)
}

// GetOne decodes a single entry. Legacy values are upgraded in memory only;
// persisting them is left to the loader.
func (s *Store) GetOne(ctx context.Context, name string) (model.StoredValue, bool, error) {
	raw, err := s.backend.Get(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return model.StoredValue{}, false, nil
	}
	if err != nil {
		return model.StoredValue{}, false, err
	}

	value, _, err := model.Normalize(raw, s.now())
	if err != nil {
		return model.StoredValue{}, false, fmt.Errorf("decode %q: %w", name, err)
	}
	return value, true, nil
}

func (s *Store) SetOne(ctx context.Context, name string, value model.StoredValue) error {
	data, err := model.Encode(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", name, err)
	}
	return s.backend.Set(ctx, name, data)
}

func (s *Store) RemoveOne(ctx context.Context, name string) error {
	return s.backend.Delete(ctx, name)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.backend.Clear(ctx)
}

func (s *Store) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	return s.backend.Watch(ctx)
}

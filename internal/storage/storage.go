// Package storage holds the raw key-value backends shortlinks are persisted
// in. Values are opaque JSON documents; shaping them is the loader's job.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikbrunner/sl/internal/config"
	"github.com/nikbrunner/sl/internal/logger"
)

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("entry not found")
	// ErrUnavailable marks failures of the backing store itself.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrRateLimited is returned when a write quota is exhausted.
	ErrRateLimited = errors.New("storage write quota exceeded")
)

// Backend is a flat namespace of string keys mapping to JSON values.
type Backend interface {
	// All returns every entry keyed by name.
	All(ctx context.Context) (map[string][]byte, error)
	// Get returns ErrNotFound when name is absent.
	Get(ctx context.Context, name string) ([]byte, error)
	Set(ctx context.Context, name string, value []byte) error
	// Delete is a no-op for absent names.
	Delete(ctx context.Context, name string) error
	Clear(ctx context.Context) error
	// Watch returns a channel receiving a hint whenever the namespace may
	// have changed. The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
	Close() error
}

// BackendError wraps a failure of the underlying store.
type BackendError struct {
	Op  string
	Key string
	Err error
}

func (e *BackendError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUnavailable) match any backend failure.
func (e *BackendError) Is(target error) bool {
	return target == ErrUnavailable
}

func wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Key: key, Err: err}
}

// Open opens the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg *config.Config, log logger.Logger) (Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendJSON:
		return NewJSONFile(cfg.JSONPath, cfg.PollInterval), nil
	case config.BackendSQLite:
		return NewSQLite(cfg.SQLitePath, cfg.PollInterval)
	case config.BackendRedis:
		client, err := Connect(ctx, ConnectOptions{
			Addr:           cfg.Redis.Addr,
			User:           cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			DB:             cfg.Redis.DB,
			DialTimeout:    cfg.Redis.DialTimeout,
			ReadTimeout:    cfg.Redis.ReadTimeout,
			WriteTimeout:   cfg.Redis.WriteTimeout,
			PoolSize:       cfg.Redis.PoolSize,
			ConnectTimeout: cfg.Redis.ConnectTimeout,
			RetryInterval:  cfg.Redis.RetryInterval,
			MaxWait:        cfg.Redis.MaxWait,
			PingTimeout:    cfg.Redis.PingTimeout,
			WarnThreshold:  cfg.Redis.WarnThreshold,
		}, log)
		if err != nil {
			return nil, wrap("connect", "", err)
		}
		return NewRedis(client, cfg.Redis.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

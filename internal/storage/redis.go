package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis stores each entry under its own key and tracks names in a set.
// Every mutation publishes a hint on the changes channel so other
// processes sharing the database can refresh.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// EntryKey returns the Redis key holding the value for name.
func (r *Redis) EntryKey(name string) string {
	return r.prefix + "entry:" + name
}

// NamesKey returns the key of the set of all names.
func (r *Redis) NamesKey() string {
	return r.prefix + "names"
}

// ChangesChannel returns the pub/sub channel change hints are published on.
func (r *Redis) ChangesChannel() string {
	return r.prefix + "changes"
}

// NameFromKey extracts the entry name from an entry key.
func (r *Redis) NameFromKey(key string) (string, bool) {
	name, ok := strings.CutPrefix(key, r.prefix+"entry:")
	return name, ok && name != ""
}

func (r *Redis) All(ctx context.Context) (map[string][]byte, error) {
	names, err := r.client.SMembers(ctx, r.NamesKey()).Result()
	if err != nil {
		return nil, wrap("read", "", err)
	}

	out := make(map[string][]byte, len(names))
	if len(names) == 0 {
		return out, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = r.EntryKey(name)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, wrap("read", "", err)
	}

	for i, v := range values {
		// Set members whose key vanished are skipped.
		if s, ok := v.(string); ok {
			out[names[i]] = []byte(s)
		}
	}
	return out, nil
}

func (r *Redis) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.EntryKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("get", name, err)
	}
	return data, nil
}

func (r *Redis) Set(ctx context.Context, name string, value []byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.EntryKey(name), value, 0)
		pipe.SAdd(ctx, r.NamesKey(), name)
		pipe.Publish(ctx, r.ChangesChannel(), name)
		return nil
	})
	return wrap("set", name, err)
}

func (r *Redis) Delete(ctx context.Context, name string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.EntryKey(name))
		pipe.SRem(ctx, r.NamesKey(), name)
		pipe.Publish(ctx, r.ChangesChannel(), name)
		return nil
	})
	return wrap("delete", name, err)
}

func (r *Redis) Clear(ctx context.Context) error {
	names, err := r.client.SMembers(ctx, r.NamesKey()).Result()
	if err != nil {
		return wrap("clear", "", err)
	}

	keys := make([]string, 0, len(names)+1)
	for _, name := range names {
		keys = append(keys, r.EntryKey(name))
	}
	keys = append(keys, r.NamesKey())

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, keys...)
		pipe.Publish(ctx, r.ChangesChannel(), "")
		return nil
	})
	return wrap("clear", "", err)
}

// Watch subscribes to the changes channel. The subscription is closed when
// ctx is done.
func (r *Redis) Watch(ctx context.Context) (<-chan struct{}, error) {
	sub := r.client.Subscribe(ctx, r.ChangesChannel())
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, wrap("watch", "", err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

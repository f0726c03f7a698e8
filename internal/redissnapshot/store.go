// Package redissnapshot stores snapshots in Redis, one string key per
// snapshot plus a set of known keys.
package redissnapshot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/specialistvlad/tickgraph/internal/snapshotstore"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "tickgraph:snapshot:"

// Options configures the Redis connection.
type Options struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379/0").
	URL string
	// Prefix replaces DefaultPrefix when set.
	Prefix string
	// ConnectTimeout bounds the initial ping.
	ConnectTimeout time.Duration
}

// Store implements snapshotstore.Store using go-redis/v9.
type Store struct {
	client *redis.Client
	prefix string
}

// Open connects to Redis and checks the connection.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisOpts.DialTimeout = opts.ConnectTimeout
	client := redis.NewClient(redisOpts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Store{client: client, prefix: opts.Prefix}, nil
}

func (s *Store) dataKey(key string) string { return s.prefix + "data:" + key }

func (s *Store) indexKey() string { return s.prefix + "keys" }

func (s *Store) Save(ctx context.Context, key string, snap *snapshotstore.Snapshot) error {
	body, err := snapshotstore.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.dataKey(key), body, 0)
		pipe.SAdd(ctx, s.indexKey(), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving %q: %w", key, err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, key string) (*snapshotstore.Snapshot, error) {
	body, err := s.client.Get(ctx, s.dataKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, snapshotstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", key, err)
	}
	return snapshotstore.Unmarshal(body)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.dataKey(key))
		pipe.SRem(ctx, s.indexKey(), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	slices.Sort(keys)
	return keys, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

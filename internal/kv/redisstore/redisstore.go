package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/notehq/notehub/internal/kv"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Store is the redis-backed kv.Store.
type Store struct {
	redisdb *redis.Client
}

func New(cfg Config) *Store {
	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &Store{redisdb: redisdb}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.redisdb.Get(ctx, key).Bytes()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, kv.ErrKeyNotFound
		}

		return nil, err
	}

	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	// no TTL: entries live until deleted
	return s.redisdb.Set(ctx, key, value, 0).Err()
}

func (s *Store) Delete(ctx context.Context, key string) error {
	n, err := s.redisdb.Del(ctx, key).Result()

	if err != nil {
		return err
	}

	if n == 0 {
		return kv.ErrKeyNotFound
	}

	return nil
}

func (s *Store) Scan(ctx context.Context, prefix string) ([]kv.Entry, error) {
	var (
		entries []kv.Entry
		cursor  uint64
	)

	// SCAN may return a key on more than one page
	seen := make(map[string]struct{})

	for {
		keys, next, err := s.redisdb.Scan(ctx, cursor, prefix+"*", 100).Result()

		if err != nil {
			return nil, err
		}

		for _, key := range filterSeen(keys, seen) {
			val, err := s.redisdb.Get(ctx, key).Bytes()

			if err != nil {
				if errors.Is(err, redis.Nil) {
					// deleted between SCAN and GET; skip
					continue
				}

				return nil, err
			}

			entries = append(entries, kv.Entry{Key: key, Value: val})
		}

		cursor = next

		if cursor == 0 {
			break
		}
	}

	return entries, nil
}

// filterSeen keeps the keys not yet returned by an earlier page and marks
// them as seen.
func filterSeen(keys []string, seen map[string]struct{}) []string {
	out := keys[:0]

	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, key)
	}

	return out
}

// Ping checks redis connectivity, used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.redisdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.redisdb.Close()
}

package observability

import (
	"context"
	"errors"
	"time"

	"github.com/notehq/notehub/internal/kv"
)

// InstrumentedStore wraps a kv.Store and records per-op latency and errors.
// A missing key is not an error for metric purposes.
type InstrumentedStore struct {
	next kv.Store
	prom *Prom
}

func NewInstrumentedStore(next kv.Store, prom *Prom) *InstrumentedStore {
	return &InstrumentedStore{next: next, prom: prom}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte

	err := s.observe("get", func() error {
		var err error
		out, err = s.next.Get(ctx, key)
		return err
	})

	return out, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	return s.observe("set", func() error {
		return s.next.Set(ctx, key, value)
	})
}

func (s *InstrumentedStore) Delete(ctx context.Context, key string) error {
	return s.observe("delete", func() error {
		return s.next.Delete(ctx, key)
	})
}

func (s *InstrumentedStore) Scan(ctx context.Context, prefix string) ([]kv.Entry, error) {
	var out []kv.Entry

	err := s.observe("scan", func() error {
		var err error
		out, err = s.next.Scan(ctx, prefix)
		return err
	})

	return out, err
}

func (s *InstrumentedStore) observe(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		status = "error"
		s.prom.KvErrorsTotal.WithLabelValues(op).Inc()
	}
	s.prom.KvOpDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())

	return err
}

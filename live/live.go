// Package live turns one-shot queries into observable reads.
//
// A Subscription holds the snapshot taken when it was opened and delivers a
// fresh snapshot on Updates every time its topic is announced as changed.
// Change signals coalesce, so a slow reader skips intermediate states but
// always converges on the latest committed one, in write order.
package live

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aretw0/lifecycle"
)

// Source announces changes per topic. The returned func unsubscribes.
type Source interface {
	Subscribe(topic string) (<-chan struct{}, func())
}

// QueryFunc produces a snapshot.
type QueryFunc[T any] func(ctx context.Context) (T, error)

type options struct {
	logger *slog.Logger
}

type Option func(*options)

// WithLogger sets the logger used for re-query failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

type Subscription[T any] struct {
	topic   string
	current T
	updates chan T
	cancel  context.CancelFunc
	once    sync.Once
}

// Watch runs query once and keeps re-running it whenever topic changes.
// The subscription ends when ctx is done or Close is called; Updates is
// closed afterwards.
func Watch[T any](ctx context.Context, src Source, topic string, query QueryFunc[T], opts ...Option) (*Subscription[T], error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	// Subscribe before the first read so no write can slip in between.
	signals, unsubscribe := src.Subscribe(topic)

	current, err := query(ctx)
	if err != nil {
		unsubscribe()
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		topic:   topic,
		current: current,
		updates: make(chan T),
		cancel:  cancel,
	}

	lifecycle.Go(runCtx, func(ctx context.Context) error {
		defer close(s.updates)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-signals:
				snapshot, err := query(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					// The next change retries; the reader keeps its last snapshot.
					o.logger.Warn("live query failed", "topic", topic, "error", err)
					continue
				}
				select {
				case s.updates <- snapshot:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		o.logger.Error("live subscription stopped", "topic", topic, "error", err)
	}))

	return s, nil
}

// Current is the snapshot taken when the subscription was opened.
func (s *Subscription[T]) Current() T {
	return s.current
}

// Updates delivers every later snapshot. It is closed once the
// subscription ends.
func (s *Subscription[T]) Updates() <-chan T {
	return s.updates
}

func (s *Subscription[T]) Topic() string {
	return s.topic
}

// Close stops delivery. It is safe to call more than once.
func (s *Subscription[T]) Close() {
	s.once.Do(s.cancel)
}

package services

import (
	"catatin/metrics"
	"context"
	"fmt"
	"sync"
)

// Done is the result of a mutation that yields no value.
type Done = struct{}

// Job is a mutation running in the background. Its outcome is read with Wait.
type Job[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Wait blocks until the job finishes or ctx is done. Giving up on ctx does
// not stop the job; the write still lands.
func (j *Job[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-j.done:
		return j.value, j.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the job has finished.
func (j *Job[T]) Done() <-chan struct{} {
	return j.done
}

// Queue runs mutations one at a time, in the order they were submitted,
// without blocking the submitter. The zero value is ready to use.
type Queue struct {
	mu   sync.Mutex
	tail <-chan struct{}
}

func NewQueue() *Queue {
	return &Queue{}
}

// submit schedules fn after every previously submitted job. fn runs with a
// context that keeps the caller's values but not its cancellation.
func submit[T any](q *Queue, ctx context.Context, fn func(ctx context.Context) (T, error)) *Job[T] {
	j := &Job[T]{done: make(chan struct{})}

	q.mu.Lock()
	prev := q.tail
	q.tail = j.done
	q.mu.Unlock()

	ctx = context.WithoutCancel(ctx)

	go func() {
		defer close(j.done)
		defer func() {
			if r := recover(); r != nil {
				j.err = fmt.Errorf("mutation panicked: %v", r)
			}
		}()

		if prev != nil {
			<-prev
		}
		j.value, j.err = fn(ctx)
	}()

	return j
}

// mutate is submit plus a store metric for the outcome.
func mutate[T any](q *Queue, ctx context.Context, entity, op string, fn func(ctx context.Context) (T, error)) *Job[T] {
	return submit(q, ctx, func(ctx context.Context) (T, error) {
		v, err := fn(ctx)
		metrics.ObserveStore(entity, op, err)
		return v, err
	})
}

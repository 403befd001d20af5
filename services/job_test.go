package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob(t *testing.T) {
	t.Run("Wait returns the value", func(t *testing.T) {
		job := submit(NewQueue(), context.Background(), func(ctx context.Context) (int, error) {
			return 42, nil
		})

		v, err := job.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("Failures are surfaced verbatim", func(t *testing.T) {
		boom := errors.New("store unavailable")
		job := submit(NewQueue(), context.Background(), func(ctx context.Context) (int, error) {
			return 0, boom
		})

		_, err := job.Wait(context.Background())
		assert.Same(t, boom, err)
	})

	t.Run("Panic becomes an error", func(t *testing.T) {
		job := submit(NewQueue(), context.Background(), func(ctx context.Context) (int, error) {
			panic("bad row")
		})

		_, err := job.Wait(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad row")
	})

	t.Run("Submitting does not block", func(t *testing.T) {
		release := make(chan struct{})
		q := NewQueue()

		start := time.Now()
		job := submit(q, context.Background(), func(ctx context.Context) (Done, error) {
			<-release
			return Done{}, nil
		})
		assert.Less(t, time.Since(start), time.Second)

		select {
		case <-job.Done():
			t.Fatal("job finished before release")
		default:
		}

		close(release)
		_, err := job.Wait(context.Background())
		assert.NoError(t, err)
	})

	t.Run("Caller cancellation does not stop the write", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		release := make(chan struct{})
		var sawCancel bool

		job := submit(NewQueue(), ctx, func(ctx context.Context) (Done, error) {
			<-release
			sawCancel = ctx.Err() != nil
			return Done{}, nil
		})

		cancel()
		_, err := job.Wait(ctx)
		assert.ErrorIs(t, err, context.Canceled)

		close(release)
		_, err = job.Wait(context.Background())
		assert.NoError(t, err)
		assert.False(t, sawCancel)
	})

	t.Run("Jobs run one at a time in submission order", func(t *testing.T) {
		q := NewQueue()
		var mu sync.Mutex
		var order []int
		running := 0
		overlapped := false

		jobs := make([]*Job[Done], 0, 20)
		for i := 0; i < 20; i++ {
			jobs = append(jobs, submit(q, context.Background(), func(ctx context.Context) (Done, error) {
				mu.Lock()
				running++
				if running > 1 {
					overlapped = true
				}
				order = append(order, i)
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				running--
				mu.Unlock()
				return Done{}, nil
			}))
		}
		for _, job := range jobs {
			_, err := job.Wait(context.Background())
			require.NoError(t, err)
		}

		assert.False(t, overlapped)
		want := make([]int, 20)
		for i := range want {
			want[i] = i
		}
		assert.Equal(t, want, order)
	})
}

package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnce_ExecutesEveryJob(t *testing.T) {
	t.Parallel()

	s := NewScheduler()

	var calls []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		calls = append(calls, "first")
		return nil
	})
	s.AddJob("failing", time.Hour, func(ctx context.Context) error {
		calls = append(calls, "failing")
		return errors.New("boom")
	})
	s.AddJob("last", time.Hour, func(ctx context.Context) error {
		calls = append(calls, "last")
		return nil
	})

	s.RunOnce(context.Background())

	assert.Equal(t, []string{"first", "failing", "last"}, calls)
}

func TestRunOnce_PassesCallerContext(t *testing.T) {
	t.Parallel()

	s := NewScheduler()

	type ctxKey struct{}
	var seen any
	s.AddJob("ctx", time.Hour, func(ctx context.Context) error {
		seen = ctx.Value(ctxKey{})
		return nil
	})

	s.RunOnce(context.WithValue(context.Background(), ctxKey{}, "marker"))

	assert.Equal(t, "marker", seen)
}

func TestStartStop_RunsJobImmediatelyThenStops(t *testing.T) {
	t.Parallel()

	s := NewScheduler()

	ran := make(chan struct{})
	var once sync.Once
	s.AddJob("immediate", time.Hour, func(ctx context.Context) error {
		once.Do(func() { close(ran) })
		return nil
	})

	s.Start()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestStop_CancelsRunningJobContext(t *testing.T) {
	t.Parallel()

	s := NewScheduler()

	started := make(chan struct{})
	var startedOnce sync.Once
	cancelled := make(chan struct{})
	s.AddJob("blocking", time.Hour, func(ctx context.Context) error {
		startedOnce.Do(func() { close(started) })
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	})

	s.Start()
	require.Eventually(t, func() bool {
		select {
		case <-started:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	s.Stop()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("job context was not cancelled on stop")
	}
}

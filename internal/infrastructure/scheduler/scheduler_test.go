package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestScheduler(t *testing.T, cfg Config) *Scheduler {
	t.Helper()
	s, err := NewScheduler(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.JobTimeout = time.Second
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func TestJob_Lifecycle(t *testing.T) {
	job := NewJob("purge", func(context.Context) error { return nil }, 1)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start()
	assert.Equal(t, JobStatusRunning, job.Status)
	assert.NotNil(t, job.StartedAt)

	job.Fail("boom")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(time.Minute)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.Empty(t, job.Error)
	require.NotNil(t, job.NextRetryAt)

	job.Start()
	job.Fail("boom again")
	assert.False(t, job.ShouldRetry())

	job.Start()
	job.Complete()
	assert.Equal(t, JobStatusSuccess, job.Status)
}

func TestNewScheduler_InvalidConfig(t *testing.T) {
	_, err := NewScheduler(Config{Workers: 0, JobTimeout: time.Second}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewScheduler(Config{Workers: 1}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestScheduler_SubmitBeforeStart(t *testing.T) {
	s, err := NewScheduler(fastConfig(), nil)
	require.NoError(t, err)

	_, err = s.Submit("noop", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := newTestScheduler(t, fastConfig())

	done := make(chan struct{})
	_, err := s.Submit("noop", func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		close(done)
		return nil
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestScheduler_RetriesFailedJobs(t *testing.T) {
	s := newTestScheduler(t, fastConfig())

	var calls atomic.Int32
	_, err := s.Submit("flaky", func(context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("temporary failure")
		}
		return nil
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return calls.Load() == 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_GivesUpAfterRetries(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryAttempts = 1
	s := newTestScheduler(t, cfg)

	var calls atomic.Int32
	_, err := s.Submit("broken", func(context.Context) error {
		calls.Add(1)
		return errors.New("permanent failure")
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(2), calls.Load())
}

func TestScheduler_RecoversPanics(t *testing.T) {
	cfg := fastConfig()
	cfg.Workers = 1
	cfg.RetryAttempts = 0
	s := newTestScheduler(t, cfg)

	_, err := s.Submit("panics", func(context.Context) error { panic("bad state") })
	require.NoError(t, err)

	done := make(chan struct{})
	_, err = s.Submit("after", func(context.Context) error {
		close(done)
		return nil
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panic")
	}
}

func TestScheduler_QueueFull(t *testing.T) {
	cfg := fastConfig()
	cfg.Workers = 1
	cfg.QueueSize = 1
	s := newTestScheduler(t, cfg)

	release := make(chan struct{})
	started := make(chan struct{})
	_, err := s.Submit("blocking", func(context.Context) error {
		close(started)
		<-release
		return nil
	})
	require.NoError(t, err)
	<-started
	defer close(release)

	_, err = s.Submit("queued", func(context.Context) error { return nil })
	require.NoError(t, err)

	_, err = s.Submit("overflow", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrJobQueueFull)
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s, err := NewScheduler(fastConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))

	_, err = s.Submit("late", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestIntervalTrigger(t *testing.T) {
	s := newTestScheduler(t, fastConfig())
	trigger := NewIntervalTrigger(s, zaptest.NewLogger(t))

	assert.ErrorIs(t, trigger.Register(Task{Name: "bad"}), ErrInvalidConfig)

	var calls atomic.Int32
	require.NoError(t, trigger.Register(Task{
		Name:       "purge",
		Interval:   10 * time.Millisecond,
		RunOnStart: true,
		Run: func(context.Context) error {
			calls.Add(1)
			return nil
		},
	}))

	require.NoError(t, trigger.Start(context.Background()))
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, trigger.Stop(context.Background()))

	_, err := trigger.TriggerNow("missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	before := calls.Load()
	_, err = trigger.TriggerNow("purge")
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return calls.Load() > before }, 2*time.Second, 5*time.Millisecond)
}

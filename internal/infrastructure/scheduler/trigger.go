package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a unit of maintenance work that runs on a fixed interval
type Task struct {
	Name     string
	Interval time.Duration
	Run      RunFunc
	// RunOnStart submits the task once when the trigger starts
	RunOnStart bool
}

// IntervalTrigger submits registered tasks to a Scheduler on their interval
type IntervalTrigger struct {
	scheduler *Scheduler
	logger    *zap.Logger

	mu        sync.Mutex
	tasks     map[string]Task
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
}

// NewIntervalTrigger creates a trigger feeding the given scheduler
func NewIntervalTrigger(scheduler *Scheduler, logger *zap.Logger) *IntervalTrigger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntervalTrigger{
		scheduler: scheduler,
		logger:    logger,
		tasks:     make(map[string]Task),
	}
}

// Register adds a task. Tasks registered after Start run from the next Start.
func (t *IntervalTrigger) Register(task Task) error {
	if task.Name == "" || task.Interval <= 0 || task.Run == nil {
		return ErrInvalidConfig
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tasks[task.Name] = task
	return nil
}

// Start launches one ticker loop per registered task
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return nil
	}
	t.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	for _, task := range t.tasks {
		if task.RunOnStart {
			t.submit(task)
		}
		t.wg.Add(1)
		go t.runLoop(ctx, task)

		t.logger.Info("Scheduled task",
			zap.String("task", task.Name),
			zap.Duration("interval", task.Interval),
		)
	}
	return nil
}

// Stop stops the ticker loops. Jobs already queued are left to the scheduler.
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerNow submits a registered task immediately
func (t *IntervalTrigger) TriggerNow(name string) (*Job, error) {
	t.mu.Lock()
	task, ok := t.tasks[name]
	t.mu.Unlock()
	if !ok {
		return nil, ErrTaskNotFound
	}
	return t.scheduler.Submit(task.Name, task.Run)
}

func (t *IntervalTrigger) runLoop(ctx context.Context, task Task) {
	defer t.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.submit(task)
		}
	}
}

func (t *IntervalTrigger) submit(task Task) {
	if _, err := t.scheduler.Submit(task.Name, task.Run); err != nil {
		t.logger.Warn("Failed to submit scheduled task",
			zap.String("task", task.Name),
			zap.Error(err),
		)
	}
}

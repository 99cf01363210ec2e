package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrRunnerNotStarted is returned by Submit before Start or after Stop.
var ErrRunnerNotStarted = errors.New("task runner is not running")

// TaskRunnerConfig holds configuration for the task runner
type TaskRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// TaskTimeout bounds each task execution
	TaskTimeout time.Duration
}

// DefaultTaskRunnerConfig returns a TaskRunnerConfig with reasonable defaults
func DefaultTaskRunnerConfig() TaskRunnerConfig {
	return TaskRunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
		TaskTimeout: 30 * time.Second,
	}
}

// TaskRunner manages background task processing: a bounded queue feeding
// a worker pool.
type TaskRunner struct {
	mu      sync.Mutex
	running bool
	queue   *TaskQueue
	pool    *WorkerPool
	config  TaskRunnerConfig
	logger  *slog.Logger
}

// NewTaskRunner creates a new TaskRunner
func NewTaskRunner(config TaskRunnerConfig, logger *slog.Logger) *TaskRunner {
	if logger == nil {
		logger = slog.Default()
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultTaskRunnerConfig().QueueSize
	}
	logger = logger.With("component", "task_runner")

	queue := NewTaskQueue(config.QueueSize, logger)
	pool := NewWorkerPool(queue, WorkerPoolConfig{
		WorkerCount: config.WorkerCount,
		TaskTimeout: config.TaskTimeout,
	}, logger)

	return &TaskRunner{
		queue:  queue,
		pool:   pool,
		config: config,
		logger: logger,
	}
}

// Ensure TaskRunner implements Submitter
var _ Submitter = (*TaskRunner)(nil)

// SetErrorHandler allows setting a custom error handler function.
// It must be called before Start.
func (r *TaskRunner) SetErrorHandler(handler func(task Task, err error)) {
	r.pool.SetErrorHandler(handler)
}

// Start begins processing tasks.
func (r *TaskRunner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return fmt.Errorf("task runner already started")
	}
	r.pool.Start()
	r.running = true
	r.logger.Info("task runner started",
		"worker_count", r.config.WorkerCount,
		"queue_size", r.config.QueueSize)
	return nil
}

// Submit adds a new task to the queue without blocking.
func (r *TaskRunner) Submit(ctx context.Context, task Task) error {
	r.mu.Lock()
	running := r.running
	r.mu.Unlock()
	if !running {
		return ErrRunnerNotStarted
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return r.queue.Enqueue(task)
}

// Stop closes the queue, lets workers drain what is already queued, and
// returns once they exit or ctx expires. On expiry in-flight tasks are cancelled.
func (r *TaskRunner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	r.mu.Unlock()

	r.queue.Close()

	done := make(chan struct{})
	go func() {
		r.pool.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.pool.Stop()
		r.logger.Info("task runner stopped")
		return nil
	case <-ctx.Done():
		r.pool.Stop()
		r.logger.Warn("task runner stop timed out, cancelled in-flight tasks")
		return ctx.Err()
	}
}

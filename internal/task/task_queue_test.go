package task

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// funcTask is a Task backed by a function, for tests.
type funcTask struct {
	id uuid.UUID
	fn func(ctx context.Context) error
}

func newFuncTask(fn func(ctx context.Context) error) *funcTask {
	return &funcTask{id: uuid.New(), fn: fn}
}

func (t *funcTask) ID() uuid.UUID                     { return t.id }
func (t *funcTask) Type() string                      { return "test" }
func (t *funcTask) Execute(ctx context.Context) error { return t.fn(ctx) }

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func noop(context.Context) error { return nil }

func TestTaskQueue_Enqueue(t *testing.T) {
	queue := NewTaskQueue(2, setupTestLogger())

	first := newFuncTask(noop)
	require.NoError(t, queue.Enqueue(first))
	require.NoError(t, queue.Enqueue(newFuncTask(noop)))

	err := queue.Enqueue(newFuncTask(noop))
	assert.ErrorIs(t, err, ErrQueueFull)

	got := <-queue.GetChannel()
	assert.Equal(t, first.ID(), got.ID())
}

func TestTaskQueue_Close(t *testing.T) {
	queue := NewTaskQueue(2, setupTestLogger())
	require.NoError(t, queue.Enqueue(newFuncTask(noop)))

	queue.Close()
	queue.Close()

	assert.ErrorIs(t, queue.Enqueue(newFuncTask(noop)), ErrQueueClosed)

	// Tasks queued before Close are still delivered.
	_, ok := <-queue.GetChannel()
	assert.True(t, ok)
	_, ok = <-queue.GetChannel()
	assert.False(t, ok)
}

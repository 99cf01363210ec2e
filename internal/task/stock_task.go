package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arthurrguedes/backend-empresrimos/internal/platform/remote"
	"github.com/google/uuid"
)

// StockCatalog is the part of the catalog service a stock adjustment needs.
type StockCatalog interface {
	GetBook(ctx context.Context, id int64) (*remote.Book, error)
	SetStock(ctx context.Context, id int64, quantity int) error
}

// StockAdjustmentTask moves a book's stock by Delta. The catalog only offers
// an absolute write, so the task reads the current count first. A decrement
// never takes stock below zero: when it would, the write is skipped.
type StockAdjustmentTask struct {
	id      uuid.UUID
	BookID  int64
	Delta   int
	catalog StockCatalog
	logger  *slog.Logger
}

// NewStockAdjustmentTask creates a task that adjusts bookID's stock by delta.
func NewStockAdjustmentTask(catalog StockCatalog, bookID int64, delta int, logger *slog.Logger) *StockAdjustmentTask {
	if logger == nil {
		logger = slog.Default()
	}
	return &StockAdjustmentTask{
		id:      uuid.New(),
		BookID:  bookID,
		Delta:   delta,
		catalog: catalog,
		logger:  logger,
	}
}

// ID implements Task.
func (t *StockAdjustmentTask) ID() uuid.UUID {
	return t.id
}

// Type implements Task.
func (t *StockAdjustmentTask) Type() string {
	return TaskTypeStockAdjustment
}

// Execute implements Task.
func (t *StockAdjustmentTask) Execute(ctx context.Context) error {
	book, err := t.catalog.GetBook(ctx, t.BookID)
	if err != nil {
		return fmt.Errorf("read stock for book %d: %w", t.BookID, err)
	}

	next := book.Stock + t.Delta
	if next < 0 {
		t.logger.Warn("stock already exhausted, skipping decrement",
			"task_id", t.id,
			"book_id", t.BookID,
			"stock", book.Stock,
			"delta", t.Delta)
		return nil
	}

	if err := t.catalog.SetStock(ctx, t.BookID, next); err != nil {
		return fmt.Errorf("write stock %d for book %d: %w", next, t.BookID, err)
	}

	t.logger.Info("stock adjusted",
		"task_id", t.id,
		"book_id", t.BookID,
		"from", book.Stock,
		"to", next)
	return nil
}

package task

import (
	"context"
	"errors"
	"testing"

	"github.com/arthurrguedes/backend-empresrimos/internal/platform/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStockCatalog struct {
	mock.Mock
}

func (m *mockStockCatalog) GetBook(ctx context.Context, id int64) (*remote.Book, error) {
	args := m.Called(ctx, id)
	if book := args.Get(0); book != nil {
		return book.(*remote.Book), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStockCatalog) SetStock(ctx context.Context, id int64, quantity int) error {
	return m.Called(ctx, id, quantity).Error(0)
}

func TestStockAdjustmentTask(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		delta     int
		wantWrite bool
		want      int
	}{
		{name: "decrement available stock", stock: 3, delta: -1, wantWrite: true, want: 2},
		{name: "decrement last copy", stock: 1, delta: -1, wantWrite: true, want: 0},
		{name: "decrement exhausted stock", stock: 0, delta: -1, wantWrite: false},
		{name: "increment on return", stock: 0, delta: 1, wantWrite: true, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := new(mockStockCatalog)
			catalog.On("GetBook", mock.Anything, int64(42)).
				Return(&remote.Book{ID: 42, Title: "Dom Casmurro", Stock: tt.stock}, nil)
			if tt.wantWrite {
				catalog.On("SetStock", mock.Anything, int64(42), tt.want).Return(nil)
			}

			task := NewStockAdjustmentTask(catalog, 42, tt.delta, setupTestLogger())
			assert.Equal(t, TaskTypeStockAdjustment, task.Type())
			require.NoError(t, task.Execute(context.Background()))

			catalog.AssertExpectations(t)
			if !tt.wantWrite {
				catalog.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestStockAdjustmentTask_Errors(t *testing.T) {
	unavailable := remote.ErrUnavailable

	catalog := new(mockStockCatalog)
	catalog.On("GetBook", mock.Anything, int64(42)).Return(nil, unavailable)
	err := NewStockAdjustmentTask(catalog, 42, -1, nil).Execute(context.Background())
	assert.ErrorIs(t, err, unavailable)

	writeErr := errors.New("write refused")
	catalog = new(mockStockCatalog)
	catalog.On("GetBook", mock.Anything, int64(42)).Return(&remote.Book{Title: "x", Stock: 2}, nil)
	catalog.On("SetStock", mock.Anything, int64(42), 1).Return(writeErr)
	err = NewStockAdjustmentTask(catalog, 42, -1, nil).Execute(context.Background())
	assert.ErrorIs(t, err, writeErr)
}

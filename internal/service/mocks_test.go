package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/arthurrguedes/backend-empresrimos/internal/domain"
	"github.com/arthurrguedes/backend-empresrimos/internal/platform/remote"
	"github.com/arthurrguedes/backend-empresrimos/internal/task"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockLoanRepository mocks the LoanRepository interface. WithTx returns the
// same mock so expectations hold inside and outside transactions.
type MockLoanRepository struct {
	mock.Mock
	db *sql.DB
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	return m.Called(ctx, loan).Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) List(ctx context.Context) ([]*domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Loan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) MarkReturned(
	ctx context.Context,
	id uuid.UUID,
	returnDate time.Time,
	fine decimal.Decimal,
) error {
	return m.Called(ctx, id, returnDate, fine).Error(0)
}

func (m *MockLoanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLoanRepository) WithTx(tx *sql.Tx) LoanRepository {
	return m
}

func (m *MockLoanRepository) DB() *sql.DB {
	return m.db
}

// MockReservationClient mocks the ReservationClient interface
type MockReservationClient struct {
	mock.Mock
}

func (m *MockReservationClient) Get(ctx context.Context, id int64, credential string) (*remote.Reservation, error) {
	args := m.Called(ctx, id, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.Reservation), args.Error(1)
}

func (m *MockReservationClient) Update(
	ctx context.Context,
	id int64,
	credential string,
	update remote.ReservationUpdate,
) error {
	return m.Called(ctx, id, credential, update).Error(0)
}

// MockCatalog mocks task.StockCatalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetBook(ctx context.Context, id int64) (*remote.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*remote.Book), args.Error(1)
}

func (m *MockCatalog) SetStock(ctx context.Context, id int64, quantity int) error {
	return m.Called(ctx, id, quantity).Error(0)
}

// recordingSubmitter captures submitted tasks instead of running them.
type recordingSubmitter struct {
	mu    sync.Mutex
	tasks []task.Task
	err   error
}

func (r *recordingSubmitter) Submit(ctx context.Context, t task.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.tasks = append(r.tasks, t)
	return nil
}

func (r *recordingSubmitter) stockTasks() []*task.StockAdjustmentTask {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*task.StockAdjustmentTask, 0, len(r.tasks))
	for _, t := range r.tasks {
		if st, ok := t.(*task.StockAdjustmentTask); ok {
			out = append(out, st)
		}
	}
	return out
}

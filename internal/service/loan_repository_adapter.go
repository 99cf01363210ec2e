package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/arthurrguedes/backend-empresrimos/internal/domain"
	"github.com/arthurrguedes/backend-empresrimos/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewLoanRepositoryAdapter creates a new adapter that allows a store.LoanStore
// to be used where a LoanRepository is expected.
func NewLoanRepositoryAdapter(loanStore store.LoanStore, db *sql.DB) LoanRepository {
	return &loanRepositoryAdapter{
		loanStore: loanStore,
		db:        db,
	}
}

// loanRepositoryAdapter adapts a store.LoanStore to the LoanRepository interface
type loanRepositoryAdapter struct {
	loanStore store.LoanStore
	db        *sql.DB
}

// Create implements LoanRepository.Create
func (a *loanRepositoryAdapter) Create(ctx context.Context, loan *domain.Loan) error {
	return a.loanStore.Create(ctx, loan)
}

// GetByID implements LoanRepository.GetByID
func (a *loanRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	return a.loanStore.GetByID(ctx, id)
}

// GetByIDForUpdate implements LoanRepository.GetByIDForUpdate
func (a *loanRepositoryAdapter) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	return a.loanStore.GetByIDForUpdate(ctx, id)
}

// List implements LoanRepository.List
func (a *loanRepositoryAdapter) List(ctx context.Context) ([]*domain.Loan, error) {
	return a.loanStore.List(ctx)
}

// ListByUser implements LoanRepository.ListByUser
func (a *loanRepositoryAdapter) ListByUser(ctx context.Context, userID int64) ([]*domain.Loan, error) {
	return a.loanStore.ListByUser(ctx, userID)
}

// MarkReturned implements LoanRepository.MarkReturned
func (a *loanRepositoryAdapter) MarkReturned(
	ctx context.Context,
	id uuid.UUID,
	returnDate time.Time,
	fine decimal.Decimal,
) error {
	return a.loanStore.MarkReturned(ctx, id, returnDate, fine)
}

// Delete implements LoanRepository.Delete
func (a *loanRepositoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	return a.loanStore.Delete(ctx, id)
}

// WithTx implements LoanRepository.WithTx
func (a *loanRepositoryAdapter) WithTx(tx *sql.Tx) LoanRepository {
	return &loanRepositoryAdapter{
		loanStore: a.loanStore.WithTx(tx),
		db:        a.db,
	}
}

// DB implements LoanRepository.DB
func (a *loanRepositoryAdapter) DB() *sql.DB {
	return a.db
}

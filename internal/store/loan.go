package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/arthurrguedes/backend-empresrimos/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanStore defines the interface for loan data persistence.
type LoanStore interface {
	// Create saves a new loan to the store.
	// Returns ErrLoanExistsForReservation if the reservation already backs a loan.
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by its unique ID.
	// Returns ErrLoanNotFound if the loan does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetByIDForUpdate is GetByID with a row lock held until the enclosing
	// transaction ends. Only meaningful on a store bound with WithTx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// List returns every loan, most recent loan date first.
	List(ctx context.Context) ([]*domain.Loan, error)

	// ListByUser returns the loans of one borrower, most recent loan date first.
	// Returns an empty slice if the user has no loans.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Loan, error)

	// MarkReturned closes an active loan with the given return date and fine.
	// Returns ErrLoanNotFound if the loan does not exist and
	// ErrLoanAlreadyReturned if it is not active.
	MarkReturned(ctx context.Context, id uuid.UUID, returnDate time.Time, fine decimal.Decimal) error

	// Delete removes a loan unconditionally.
	// Returns ErrLoanNotFound if the loan does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new LoanStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) LoanStore
}

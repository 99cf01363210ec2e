package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arthurrguedes/backend-empresrimos/internal/domain"
	"github.com/arthurrguedes/backend-empresrimos/internal/platform/logger"
	"github.com/arthurrguedes/backend-empresrimos/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const loanColumns = `id, reservation_id, user_id, librarian_id, book_id,
	loan_date, due_date, return_date, status, fine`

// PostgresLoanStore implements the store.LoanStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLoanStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLoanStore creates a new PostgreSQL implementation of the LoanStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresLoanStore(db store.DBTX, logger *slog.Logger) *PostgresLoanStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLoanStore{
		db:     db,
		logger: logger.With(slog.String("component", "loan_store")),
	}
}

// Ensure PostgresLoanStore implements store.LoanStore interface
var _ store.LoanStore = (*PostgresLoanStore)(nil)

// WithTx implements store.LoanStore.WithTx
func (s *PostgresLoanStore) WithTx(tx *sql.Tx) store.LoanStore {
	return &PostgresLoanStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.LoanStore.Create
func (s *PostgresLoanStore) Create(ctx context.Context, loan *domain.Loan) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := loan.Validate(); err != nil {
		log.Warn("loan validation failed during create",
			slog.String("error", err.Error()),
			slog.String("loan_id", loan.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		loan.ID,
		loan.ReservationID,
		loan.UserID,
		loan.LibrarianID,
		loan.BookID,
		loan.LoanDate,
		loan.DueDate,
		loan.ReturnDate,
		string(loan.Status),
		loan.Fine,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("reservation already backs a loan",
				slog.Int64("reservation_id", loan.ReservationID))
			return MapUniqueViolation(err, store.ErrLoanExistsForReservation)
		}

		log.Error("failed to create loan",
			slog.String("error", err.Error()),
			slog.String("loan_id", loan.ID.String()),
			slog.Int64("reservation_id", loan.ReservationID))
		return store.NewStoreError("loan", "create", "failed to insert loan", MapError(err))
	}

	log.Info("loan created successfully",
		slog.String("loan_id", loan.ID.String()),
		slog.Int64("reservation_id", loan.ReservationID),
		slog.Int64("user_id", loan.UserID),
		slog.Int64("book_id", loan.BookID))
	return nil
}

// GetByID implements store.LoanStore.GetByID
func (s *PostgresLoanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	return s.get(ctx, id, false)
}

// GetByIDForUpdate implements store.LoanStore.GetByIDForUpdate
func (s *PostgresLoanStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	return s.get(ctx, id, true)
}

func (s *PostgresLoanStore) get(ctx context.Context, id uuid.UUID, lock bool) (*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	loan, err := scanLoan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("loan not found", slog.String("loan_id", id.String()))
			return nil, store.ErrLoanNotFound
		}
		log.Error("failed to get loan by ID",
			slog.String("error", err.Error()),
			slog.String("loan_id", id.String()))
		return nil, store.NewStoreError("loan", "get", "failed to read loan", MapError(err))
	}

	return loan, nil
}

// List implements store.LoanStore.List
func (s *PostgresLoanStore) List(ctx context.Context) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans ORDER BY loan_date DESC`
	return s.query(ctx, "list", query)
}

// ListByUser implements store.LoanStore.ListByUser
func (s *PostgresLoanStore) ListByUser(ctx context.Context, userID int64) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 ORDER BY loan_date DESC`
	return s.query(ctx, "list_by_user", query, userID)
}

func (s *PostgresLoanStore) query(ctx context.Context, op, query string, args ...any) ([]*domain.Loan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query loans", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, store.NewStoreError("loan", op, "failed to query loans", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	loans := make([]*domain.Loan, 0)
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			log.Error("failed to scan loan row", slog.String("operation", op), slog.String("error", err.Error()))
			return nil, store.NewStoreError("loan", op, "failed to scan loan", err)
		}
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating loan rows", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, store.NewStoreError("loan", op, "failed to iterate loans", MapError(err))
	}

	log.Debug("loans retrieved", slog.String("operation", op), slog.Int("count", len(loans)))
	return loans, nil
}

// MarkReturned implements store.LoanStore.MarkReturned
// The status guard in the UPDATE keeps a loan from being returned twice even
// when the caller did not hold a row lock.
func (s *PostgresLoanStore) MarkReturned(
	ctx context.Context,
	id uuid.UUID,
	returnDate time.Time,
	fine decimal.Decimal,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE loans
		SET status = 'returned', return_date = $2, fine = $3
		WHERE id = $1 AND status = 'active'
	`
	result, err := s.db.ExecContext(ctx, query, id, returnDate.UTC(), fine)
	if err != nil {
		log.Error("failed to mark loan returned",
			slog.String("error", err.Error()),
			slog.String("loan_id", id.String()))
		return store.NewStoreError("loan", "mark_returned", "failed to update loan", MapError(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("loan", "mark_returned", "failed to get rows affected", err)
	}
	if rows > 0 {
		log.Info("loan marked returned",
			slog.String("loan_id", id.String()),
			slog.String("fine", fine.StringFixed(2)))
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM loans WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return store.NewStoreError("loan", "mark_returned", "failed to check loan existence", MapError(err))
	}
	if !exists {
		return store.ErrLoanNotFound
	}

	log.Warn("loan already returned", slog.String("loan_id", id.String()))
	return store.ErrLoanAlreadyReturned
}

// Delete implements store.LoanStore.Delete
func (s *PostgresLoanStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete loan",
			slog.String("error", err.Error()),
			slog.String("loan_id", id.String()))
		return store.NewStoreError("loan", "delete", "failed to delete loan", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrLoanNotFound); err != nil {
		return err
	}

	log.Info("loan deleted", slog.String("loan_id", id.String()))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (*domain.Loan, error) {
	var (
		loan       domain.Loan
		returnDate sql.NullTime
		status     string
	)

	err := row.Scan(
		&loan.ID,
		&loan.ReservationID,
		&loan.UserID,
		&loan.LibrarianID,
		&loan.BookID,
		&loan.LoanDate,
		&loan.DueDate,
		&returnDate,
		&status,
		&loan.Fine,
	)
	if err != nil {
		return nil, err
	}

	loan.Status, err = domain.ParseLoanStatus(status)
	if err != nil {
		return nil, fmt.Errorf("loan %s: %w", loan.ID, err)
	}

	if returnDate.Valid {
		t := returnDate.Time.UTC()
		loan.ReturnDate = &t
	}
	loan.LoanDate = loan.LoanDate.UTC()
	loan.DueDate = loan.DueDate.UTC()

	return &loan, nil
}

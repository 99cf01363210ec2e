package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arthurrguedes/backend-empresrimos/internal/clock"
	"github.com/arthurrguedes/backend-empresrimos/internal/domain"
	"github.com/arthurrguedes/backend-empresrimos/internal/platform/logger"
	"github.com/arthurrguedes/backend-empresrimos/internal/platform/remote"
	"github.com/arthurrguedes/backend-empresrimos/internal/store"
	"github.com/arthurrguedes/backend-empresrimos/internal/task"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanRepository defines the repository interface for the service layer
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	List(ctx context.Context) ([]*domain.Loan, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Loan, error)
	MarkReturned(ctx context.Context, id uuid.UUID, returnDate time.Time, fine decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) LoanRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// ReservationClient is the reservation service as seen by the loan service.
type ReservationClient interface {
	Get(ctx context.Context, id int64, credential string) (*remote.Reservation, error)
	Update(ctx context.Context, id int64, credential string, update remote.ReservationUpdate) error
}

// CreateLoanInput carries what is needed to turn a reservation into a loan.
type CreateLoanInput struct {
	ReservationID int64
	// LibrarianID is the authenticated caller registering the pickup.
	LibrarianID int64
	// Credential is the caller's bearer token, forwarded to the reservation service.
	Credential string
}

// ReturnResult summarizes a completed return.
type ReturnResult struct {
	LoanID     uuid.UUID
	Fine       decimal.Decimal
	ReturnDate time.Time
}

// LoanService provides loan lifecycle operations
type LoanService interface {
	// CreateLoan turns an active reservation into a loan due in seven days.
	CreateLoan(ctx context.Context, in CreateLoanInput) (*domain.Loan, error)

	// ReturnLoan closes an active loan and computes its fine.
	ReturnLoan(ctx context.Context, loanID uuid.UUID) (*ReturnResult, error)

	// ListLoans returns every loan with its book title and borrower label.
	ListLoans(ctx context.Context) ([]LoanView, error)

	// ListUserLoans returns one borrower's loans with book title and publisher.
	ListUserLoans(ctx context.Context, userID int64) ([]LoanView, error)

	// GetLoan returns a single loan with book title and publisher.
	GetLoan(ctx context.Context, loanID uuid.UUID) (*LoanView, error)

	// DeleteLoan removes a loan record without touching other services.
	DeleteLoan(ctx context.Context, loanID uuid.UUID) error
}

// LoanServiceConfig tunes the read-side enrichment.
type LoanServiceConfig struct {
	// EnrichConcurrency bounds concurrent catalog lookups per request.
	EnrichConcurrency int
	// EnrichTimeout bounds each catalog lookup.
	EnrichTimeout time.Duration
}

// DefaultLoanServiceConfig returns a LoanServiceConfig with reasonable defaults
func DefaultLoanServiceConfig() LoanServiceConfig {
	return LoanServiceConfig{
		EnrichConcurrency: 8,
		EnrichTimeout:     3 * time.Second,
	}
}

// loanServiceImpl implements the LoanService interface
type loanServiceImpl struct {
	loanRepo     LoanRepository
	reservations ReservationClient
	catalog      task.StockCatalog
	tasks        task.Submitter
	clock        clock.Clock
	config       LoanServiceConfig
	logger       *slog.Logger
}

// NewLoanService creates a new LoanService
// It returns an error if any of the required dependencies are nil.
func NewLoanService(
	loanRepo LoanRepository,
	reservations ReservationClient,
	catalog task.StockCatalog,
	tasks task.Submitter,
	clk clock.Clock,
	config LoanServiceConfig,
	logger *slog.Logger,
) (LoanService, error) {
	if loanRepo == nil {
		return nil, domain.NewValidationError("loanRepo", "cannot be nil", domain.ErrValidation)
	}
	if reservations == nil {
		return nil, domain.NewValidationError("reservations", "cannot be nil", domain.ErrValidation)
	}
	if catalog == nil {
		return nil, domain.NewValidationError("catalog", "cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultLoanServiceConfig()
	if config.EnrichConcurrency <= 0 {
		config.EnrichConcurrency = defaults.EnrichConcurrency
	}
	if config.EnrichTimeout <= 0 {
		config.EnrichTimeout = defaults.EnrichTimeout
	}

	return &loanServiceImpl{
		loanRepo:     loanRepo,
		reservations: reservations,
		catalog:      catalog,
		tasks:        tasks,
		clock:        clk,
		config:       config,
		logger:       logger.With(slog.String("component", "loan_service")),
	}, nil
}

// CreateLoan implements LoanService.CreateLoan
func (s *loanServiceImpl) CreateLoan(ctx context.Context, in CreateLoanInput) (*domain.Loan, error) {
	if in.ReservationID <= 0 {
		return nil, domain.NewValidationError("reservationId", "must be a positive integer", nil)
	}
	if in.LibrarianID <= 0 {
		return nil, domain.NewValidationError("librarianId", "must be a positive integer", nil)
	}

	// Once the reservation is confirmed remotely the local commit must happen,
	// so a client disconnect must not cancel the rest of the operation.
	ctx = context.WithoutCancel(ctx)
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.Int64("reservation_id", in.ReservationID),
		slog.Int64("librarian_id", in.LibrarianID))

	reservation, err := s.reservations.Get(ctx, in.ReservationID, in.Credential)
	if err != nil {
		log.Warn("failed to fetch reservation", slog.String("error", err.Error()))
		return nil, NewLoanServiceError("create_loan", "failed to fetch reservation", mapReservationError(err))
	}

	if reservation.Status != remote.ReservationStatusActive {
		log.Info("reservation is not active", slog.String("status", reservation.Status))
		return nil, NewLoanServiceError(
			"create_loan",
			fmt.Sprintf("reservation status is %q", reservation.Status),
			ErrReservationNotActive,
		)
	}

	now := s.clock.Now()
	loan, err := domain.NewLoan(in.ReservationID, reservation.UserID, in.LibrarianID, reservation.BookID, now)
	if err != nil {
		log.Error("reservation cannot back a valid loan", slog.String("error", err.Error()))
		return nil, NewLoanServiceError("create_loan", "invalid loan data", err)
	}

	err = store.RunInTransaction(ctx, s.loanRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		if err := s.loanRepo.WithTx(tx).Create(ctx, loan); err != nil {
			log.Error("failed to save loan in transaction", slog.String("error", err.Error()))
			return NewLoanServiceError("create_loan", "failed to save loan", err)
		}

		pickup := now
		update := remote.ReservationUpdate{
			Status:     remote.ReservationStatusConcluded,
			PickupDate: &pickup,
		}
		if err := s.reservations.Update(ctx, in.ReservationID, in.Credential, update); err != nil {
			log.Error("failed to conclude reservation, rolling back loan",
				slog.String("loan_id", loan.ID.String()),
				slog.String("error", err.Error()))
			return NewLoanServiceError(
				"create_loan",
				"failed to conclude reservation",
				fmt.Errorf("%w: %w", ErrReservationUpdateFailed, err),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("loan created",
		slog.String("loan_id", loan.ID.String()),
		slog.Int64("user_id", loan.UserID),
		slog.Int64("book_id", loan.BookID),
		slog.Time("due_date", loan.DueDate))

	s.adjustStock(ctx, loan.BookID, -1)
	return loan, nil
}

// ReturnLoan implements LoanService.ReturnLoan
func (s *loanServiceImpl) ReturnLoan(ctx context.Context, loanID uuid.UUID) (*ReturnResult, error) {
	// A return the client has already sent must not be rolled back by its
	// disconnect; the book stock update depends on the commit.
	ctx = context.WithoutCancel(ctx)
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("loan_id", loanID.String()))

	var (
		result ReturnResult
		bookID int64
	)
	err := store.RunInTransaction(ctx, s.loanRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.loanRepo.WithTx(tx)

		loan, err := txRepo.GetByIDForUpdate(ctx, loanID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return NewLoanServiceError("return_loan", "loan not found", store.ErrLoanNotFound)
			}
			log.Error("failed to lock loan", slog.String("error", err.Error()))
			return NewLoanServiceError("return_loan", "failed to retrieve loan", err)
		}

		fine, err := loan.MarkReturned(s.clock.Now())
		if err != nil {
			log.Info("loan already returned")
			return NewLoanServiceError("return_loan", "loan cannot be returned", err)
		}

		if err := txRepo.MarkReturned(ctx, loan.ID, *loan.ReturnDate, fine); err != nil {
			log.Error("failed to mark loan returned", slog.String("error", err.Error()))
			return NewLoanServiceError("return_loan", "failed to save return", err)
		}

		result = ReturnResult{LoanID: loan.ID, Fine: fine, ReturnDate: *loan.ReturnDate}
		bookID = loan.BookID
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("loan returned",
		slog.String("fine", result.Fine.StringFixed(2)),
		slog.Time("return_date", result.ReturnDate))

	s.adjustStock(ctx, bookID, 1)
	return &result, nil
}

// ListLoans implements LoanService.ListLoans
func (s *loanServiceImpl) ListLoans(ctx context.Context) ([]LoanView, error) {
	loans, err := s.loanRepo.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list loans", slog.String("error", err.Error()))
		return nil, NewLoanServiceError("list_loans", "failed to list loans", err)
	}

	views := s.enrich(ctx, loans)
	for i := range views {
		views[i].UserInfo = userLabel(views[i].Loan.UserID)
	}
	return views, nil
}

// ListUserLoans implements LoanService.ListUserLoans
func (s *loanServiceImpl) ListUserLoans(ctx context.Context, userID int64) ([]LoanView, error) {
	if userID <= 0 {
		return nil, domain.NewValidationError("userId", "must be a positive integer", nil)
	}

	loans, err := s.loanRepo.ListByUser(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list user loans",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()))
		return nil, NewLoanServiceError("list_user_loans", "failed to list loans", err)
	}

	return s.enrich(ctx, loans), nil
}

// GetLoan implements LoanService.GetLoan
func (s *loanServiceImpl) GetLoan(ctx context.Context, loanID uuid.UUID) (*LoanView, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewLoanServiceError("get_loan", "loan not found", store.ErrLoanNotFound)
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve loan",
			slog.String("loan_id", loanID.String()),
			slog.String("error", err.Error()))
		return nil, NewLoanServiceError("get_loan", "failed to retrieve loan", err)
	}

	view := s.enrich(ctx, []*domain.Loan{loan})[0]
	view.UserInfo = userLabel(loan.UserID)
	return &view, nil
}

// DeleteLoan implements LoanService.DeleteLoan
func (s *loanServiceImpl) DeleteLoan(ctx context.Context, loanID uuid.UUID) error {
	ctx = context.WithoutCancel(ctx)
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.loanRepo.Delete(ctx, loanID); err != nil {
		if store.IsNotFoundError(err) {
			return NewLoanServiceError("delete_loan", "loan not found", store.ErrLoanNotFound)
		}
		log.Error("failed to delete loan",
			slog.String("loan_id", loanID.String()),
			slog.String("error", err.Error()))
		return NewLoanServiceError("delete_loan", "failed to delete loan", err)
	}

	log.Info("loan deleted", slog.String("loan_id", loanID.String()))
	return nil
}

// adjustStock submits a best-effort stock change. Failures are logged only.
func (s *loanServiceImpl) adjustStock(ctx context.Context, bookID int64, delta int) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	t := task.NewStockAdjustmentTask(s.catalog, bookID, delta, s.logger)
	if err := s.tasks.Submit(context.WithoutCancel(ctx), t); err != nil {
		log.Warn("failed to submit stock adjustment",
			slog.Int64("book_id", bookID),
			slog.Int("delta", delta),
			slog.String("error", err.Error()))
	}
}

func mapReservationError(err error) error {
	switch {
	case errors.Is(err, remote.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrReservationNotFound, err)
	case errors.Is(err, remote.ErrUnauthorized):
		return fmt.Errorf("%w: %w", ErrUpstreamUnauthorized, err)
	default:
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
}

package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoanStatus represents where a loan is in its lifecycle.
type LoanStatus string

// Possible loan status values. The only permitted transition is
// LoanStatusActive -> LoanStatusReturned.
const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
)

// Validation errors for Loan
var (
	ErrEmptyLoanID          = errors.New("loan ID cannot be empty")
	ErrInvalidReservationID = errors.New("reservation ID must be positive")
	ErrInvalidUserID        = errors.New("user ID must be positive")
	ErrInvalidLibrarianID   = errors.New("librarian ID must be positive")
	ErrInvalidBookID        = errors.New("book ID must be positive")
	ErrDueBeforeLoan        = errors.New("due date cannot precede loan date")
	ErrNegativeFine         = errors.New("fine cannot be negative")
	ErrFineOnActiveLoan     = errors.New("active loan cannot carry a fine or return date")
)

// Loan is a book checked out to a user, created from a reservation.
// UserID, LibrarianID, BookID and ReservationID reference records owned
// by other services.
type Loan struct {
	ID            uuid.UUID       `json:"id"`
	ReservationID int64           `json:"reservation_id"`
	UserID        int64           `json:"user_id"`
	LibrarianID   int64           `json:"librarian_id"`
	BookID        int64           `json:"book_id"`
	LoanDate      time.Time       `json:"loan_date"`
	DueDate       time.Time       `json:"due_date"`
	ReturnDate    *time.Time      `json:"return_date,omitempty"`
	Status        LoanStatus      `json:"status"`
	Fine          decimal.Decimal `json:"fine"`
}

// NewLoan creates an active loan starting at now. The due date is always
// now + LoanPeriod, regardless of any deadline proposed elsewhere.
func NewLoan(reservationID, userID, librarianID, bookID int64, now time.Time) (*Loan, error) {
	now = now.UTC()
	loan := &Loan{
		ID:            uuid.New(),
		ReservationID: reservationID,
		UserID:        userID,
		LibrarianID:   librarianID,
		BookID:        bookID,
		LoanDate:      now,
		DueDate:       now.Add(LoanPeriod),
		Status:        LoanStatusActive,
		Fine:          decimal.Zero,
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}

	return loan, nil
}

// Validate checks if the Loan has valid data.
func (l *Loan) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyLoanID
	}
	if l.ReservationID <= 0 {
		return ErrInvalidReservationID
	}
	if l.UserID <= 0 {
		return ErrInvalidUserID
	}
	if l.LibrarianID <= 0 {
		return ErrInvalidLibrarianID
	}
	if l.BookID <= 0 {
		return ErrInvalidBookID
	}
	if l.DueDate.Before(l.LoanDate) {
		return ErrDueBeforeLoan
	}
	if !isValidLoanStatus(l.Status) {
		return ErrInvalidLoanStatus
	}
	if l.Fine.IsNegative() {
		return ErrNegativeFine
	}
	if l.Status == LoanStatusActive && (!l.Fine.IsZero() || l.ReturnDate != nil) {
		return ErrFineOnActiveLoan
	}
	return nil
}

// IsReturned reports whether the loan has completed its lifecycle.
func (l *Loan) IsReturned() bool {
	return l.Status == LoanStatusReturned
}

// IsOverdue reports whether an active loan is past its due date at now.
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.Status == LoanStatusActive && now.After(l.DueDate)
}

// MarkReturned moves the loan to LoanStatusReturned at the given instant,
// computing its fine once. It returns ErrLoanAlreadyReturned, leaving the
// loan untouched, if the loan was already returned.
func (l *Loan) MarkReturned(at time.Time) (decimal.Decimal, error) {
	if l.IsReturned() {
		return decimal.Zero, ErrLoanAlreadyReturned
	}

	at = at.UTC()
	fine := CalculateFine(l.DueDate, at)

	l.Status = LoanStatusReturned
	l.ReturnDate = &at
	l.Fine = fine
	return fine, nil
}

// ParseLoanStatus converts a stored value into a LoanStatus.
func ParseLoanStatus(s string) (LoanStatus, error) {
	status := LoanStatus(s)
	if !isValidLoanStatus(status) {
		return "", ErrInvalidLoanStatus
	}
	return status, nil
}

func isValidLoanStatus(status LoanStatus) bool {
	switch status {
	case LoanStatusActive, LoanStatusReturned:
		return true
	default:
		return false
	}
}

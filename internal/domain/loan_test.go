package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoan(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 2, 15, 4, 5, 0, time.UTC)
	loan, err := NewLoan(10, 5, 2, 7, now)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, loan.ID)
	assert.Equal(t, int64(10), loan.ReservationID)
	assert.Equal(t, int64(5), loan.UserID)
	assert.Equal(t, int64(2), loan.LibrarianID)
	assert.Equal(t, int64(7), loan.BookID)
	assert.Equal(t, now, loan.LoanDate)
	assert.Equal(t, now.Add(7*24*time.Hour), loan.DueDate)
	assert.Equal(t, LoanStatusActive, loan.Status)
	assert.True(t, loan.Fine.IsZero())
	assert.Nil(t, loan.ReturnDate)
}

func TestNewLoanValidation(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tests := []struct {
		name                               string
		reservation, user, librarian, book int64
		want                               error
	}{
		{"missing reservation", 0, 5, 2, 7, ErrInvalidReservationID},
		{"missing user", 10, 0, 2, 7, ErrInvalidUserID},
		{"missing librarian", 10, 5, 0, 7, ErrInvalidLibrarianID},
		{"missing book", 10, 5, 2, -1, ErrInvalidBookID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			loan, err := NewLoan(tc.reservation, tc.user, tc.librarian, tc.book, now)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, loan)
		})
	}
}

func TestLoanValidateRejectsFineOnActiveLoan(t *testing.T) {
	t.Parallel()

	loan, err := NewLoan(1, 1, 1, 1, time.Now())
	require.NoError(t, err)

	loan.Fine = decimal.NewFromInt(1)
	assert.ErrorIs(t, loan.Validate(), ErrFineOnActiveLoan)

	loan.Fine = decimal.NewFromInt(-1)
	loan.Status = LoanStatusReturned
	assert.ErrorIs(t, loan.Validate(), ErrNegativeFine)

	loan.Fine = decimal.Zero
	loan.Status = LoanStatus("lost")
	assert.ErrorIs(t, loan.Validate(), ErrInvalidLoanStatus)
}

func TestLoanMarkReturned(t *testing.T) {
	t.Parallel()

	start := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)
	loan, err := NewLoan(3, 5, 2, 7, start)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), loan.DueDate)

	returnedAt := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	fine, err := loan.MarkReturned(returnedAt)
	require.NoError(t, err)

	assert.Equal(t, "7.50", fine.StringFixed(2))
	assert.Equal(t, LoanStatusReturned, loan.Status)
	require.NotNil(t, loan.ReturnDate)
	assert.Equal(t, returnedAt, *loan.ReturnDate)
	assert.True(t, fine.Equal(loan.Fine))
	assert.NoError(t, loan.Validate())

	// A second return is rejected and leaves the recorded values alone.
	_, err = loan.MarkReturned(returnedAt.Add(48 * time.Hour))
	assert.ErrorIs(t, err, ErrLoanAlreadyReturned)
	assert.Equal(t, returnedAt, *loan.ReturnDate)
	assert.Equal(t, "7.50", loan.Fine.StringFixed(2))
}

func TestLoanIsOverdue(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loan, err := NewLoan(1, 1, 1, 1, start)
	require.NoError(t, err)

	assert.False(t, loan.IsOverdue(start.Add(LoanPeriod)))
	assert.True(t, loan.IsOverdue(start.Add(LoanPeriod+time.Minute)))

	_, err = loan.MarkReturned(start.Add(LoanPeriod + time.Hour))
	require.NoError(t, err)
	assert.False(t, loan.IsOverdue(start.Add(30*24*time.Hour)))
}

func TestParseLoanStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseLoanStatus("returned")
	require.NoError(t, err)
	assert.Equal(t, LoanStatusReturned, status)

	_, err = ParseLoanStatus("Devolvido")
	assert.ErrorIs(t, err, ErrInvalidLoanStatus)
}

func TestNewValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("reservationId", "is required", nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "reservationId is required", err.Error())

	err = NewValidationError("id", "has invalid format", ErrInvalidID)
	assert.ErrorIs(t, err, ErrInvalidID)
}

package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/arthurrguedes/backend-empresrimos/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		notFound  bool
		duplicate bool
	}{
		{name: "nil error", err: nil},
		{name: "generic error", err: errors.New("some error")},
		{name: "not found", err: ErrNotFound, notFound: true},
		{name: "loan not found", err: ErrLoanNotFound, notFound: true},
		{name: "wrapped loan not found", err: fmt.Errorf("get: %w", ErrLoanNotFound), notFound: true},
		{name: "duplicate reservation", err: ErrLoanExistsForReservation, duplicate: true},
		{
			name:     "store error wrapping not found",
			err:      NewStoreError("loan", "delete", "no rows", ErrLoanNotFound),
			notFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.duplicate, IsDuplicateError(tt.err))
		})
	}
}

func TestErrLoanAlreadyReturnedIsDomainRule(t *testing.T) {
	assert.ErrorIs(t, ErrLoanAlreadyReturned, domain.ErrLoanAlreadyReturned)
}

func TestStoreError(t *testing.T) {
	inner := errors.New("boom")
	err := NewStoreError("loan", "create", "insert failed", inner)
	assert.Equal(t, "create operation on loan failed: insert failed: boom", err.Error())
	assert.ErrorIs(t, err, inner)

	bare := NewStoreError("loan", "list", "scan failed", nil)
	assert.Equal(t, "list operation on loan failed: scan failed", bare.Error())
}

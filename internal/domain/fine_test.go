package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateFine(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		returned time.Time
		want     string
	}{
		{"returned early", due.Add(-48 * time.Hour), "0"},
		{"returned exactly on due date", due, "0"},
		{"one second late counts as a full day", due.Add(time.Second), "2.5"},
		{"exactly one day late", due.Add(24 * time.Hour), "2.5"},
		{"one day and one hour late", due.Add(25 * time.Hour), "5"},
		{"three days late", time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), "7.5"},
		{"thirty days late", due.Add(30 * 24 * time.Hour), "75"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateFine(due, tc.returned)
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got),
				"expected fine %s, got %s", tc.want, got)
		})
	}
}

func TestCalculateFineMatchesCeilOfHours(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)
	for hours := 1; hours <= 24*10; hours += 7 {
		returned := due.Add(time.Duration(hours) * time.Hour)
		days := (hours + 23) / 24
		want := DailyFineRate.Mul(decimal.NewFromInt(int64(days)))
		assert.True(t, want.Equal(CalculateFine(due, returned)),
			"hours late %d: expected %s", hours, want)
	}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanPeriod is how long a book may be kept before a return becomes late.
const LoanPeriod = 7 * 24 * time.Hour

// DailyFineRate is charged for each started day a book is returned late.
var DailyFineRate = decimal.RequireFromString("2.50")

// CalculateFine returns the fine owed for returning a loan at returnDate
// when it was due at dueDate. A return on or before the due date is free;
// any fraction of a late day counts as a full day.
func CalculateFine(dueDate, returnDate time.Time) decimal.Decimal {
	if !returnDate.After(dueDate) {
		return decimal.Zero
	}

	const day = 24 * time.Hour
	late := returnDate.Sub(dueDate)
	days := int64(late / day)
	if late%day != 0 {
		days++
	}

	return DailyFineRate.Mul(decimal.NewFromInt(days))
}

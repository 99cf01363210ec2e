package api

import (
	"time"

	"github.com/arthurrguedes/backend-empresrimos/internal/domain"
	"github.com/arthurrguedes/backend-empresrimos/internal/service"
)

// CreateLoanRequest defines the payload for registering a pickup.
type CreateLoanRequest struct {
	ReservationID int64 `json:"reservationId" validate:"required,gt=0"`
}

// LoanResponse is a loan as returned to clients. Fine is a decimal string
// with two places so amounts are never subject to float rounding.
type LoanResponse struct {
	ID            string     `json:"id"`
	ReservationID int64      `json:"reservationId"`
	UserID        int64      `json:"userId"`
	LibrarianID   int64      `json:"librarianId"`
	BookID        int64      `json:"bookId"`
	LoanDate      time.Time  `json:"loanDate"`
	DueDate       time.Time  `json:"dueDate"`
	ReturnDate    *time.Time `json:"returnDate,omitempty"`
	Status        string     `json:"status"`
	Fine          string     `json:"fine"`
	Overdue       bool       `json:"overdue"`

	// Enrichment from other services; omitted when not looked up.
	Title     string `json:"title,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	UserInfo  string `json:"userInfo,omitempty"`
}

// ReturnLoanResponse reports the outcome of a return.
type ReturnLoanResponse struct {
	LoanID     string    `json:"loanId"`
	Fine       string    `json:"fine"`
	ReturnDate time.Time `json:"returnDate"`
}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status string `json:"status"`
}

func loanToResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		ID:            loan.ID.String(),
		ReservationID: loan.ReservationID,
		UserID:        loan.UserID,
		LibrarianID:   loan.LibrarianID,
		BookID:        loan.BookID,
		LoanDate:      loan.LoanDate,
		DueDate:       loan.DueDate,
		ReturnDate:    loan.ReturnDate,
		Status:        string(loan.Status),
		Fine:          loan.Fine.StringFixed(2),
	}
}

func viewToResponse(view service.LoanView) LoanResponse {
	resp := loanToResponse(&view.Loan)
	resp.Title = view.Title
	resp.Publisher = view.Publisher
	resp.UserInfo = view.UserInfo
	resp.Overdue = view.Overdue
	return resp
}

func viewsToResponse(views []service.LoanView) []LoanResponse {
	out := make([]LoanResponse, 0, len(views))
	for _, v := range views {
		out = append(out, viewToResponse(v))
	}
	return out
}

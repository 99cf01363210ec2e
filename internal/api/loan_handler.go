package api

import (
	"log/slog"
	"net/http"

	"github.com/arthurrguedes/backend-empresrimos/internal/api/shared"
	"github.com/arthurrguedes/backend-empresrimos/internal/domain"
	"github.com/arthurrguedes/backend-empresrimos/internal/platform/logger"
	"github.com/arthurrguedes/backend-empresrimos/internal/service"
)

// LoanHandler handles loan-related HTTP requests
type LoanHandler struct {
	loanService service.LoanService
	logger      *slog.Logger
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(loanService service.LoanService, logger *slog.Logger) *LoanHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for LoanHandler")
	}

	return &LoanHandler{
		loanService: loanService,
		logger:      logger.With(slog.String("component", "loan_handler")),
	}
}

// CreateLoan handles POST /loans requests.
// The authenticated caller is recorded as the librarian handing the book over.
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req CreateLoanRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid create loan body", slog.String("error", err.Error()))
		if MapErrorToStatusCode(err) == http.StatusBadRequest {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	loan, err := h.loanService.CreateLoan(r.Context(), service.CreateLoanInput{
		ReservationID: req.ReservationID,
		LibrarianID:   caller.UserID,
		Credential:    caller.Credential,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create loan")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, loanToResponse(loan))
}

// ListLoans handles GET /loans requests. Administrative route.
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	views, err := h.loanService.ListLoans(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list loans")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, viewsToResponse(views))
}

// ListMyLoans handles GET /loans/mine requests.
func (h *LoanHandler) ListMyLoans(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	views, err := h.loanService.ListUserLoans(r.Context(), caller.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list loans")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, viewsToResponse(views))
}

// GetLoan handles GET /loans/{id} requests.
// Borrowers may only read their own loans.
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	caller, loanID, ok := handleCallerAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	view, err := h.loanService.GetLoan(r.Context(), loanID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve loan")
		return
	}

	if view.Loan.UserID != caller.UserID && !caller.CanManageLoans() {
		log.Warn("caller attempted to read another user's loan",
			slog.String("loan_id", loanID.String()),
			slog.Int64("owner_id", view.Loan.UserID))
		HandleAPIError(w, r, domain.ErrForbidden, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, viewToResponse(*view))
}

// ReturnLoan handles PUT /loans/{id}/return requests.
func (h *LoanHandler) ReturnLoan(w http.ResponseWriter, r *http.Request) {
	_, loanID, ok := handleCallerAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.loanService.ReturnLoan(r.Context(), loanID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to return loan")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ReturnLoanResponse{
		LoanID:     result.LoanID.String(),
		Fine:       result.Fine.StringFixed(2),
		ReturnDate: result.ReturnDate,
	})
}

// DeleteLoan handles DELETE /loans/{id} requests. Administrative route.
func (h *LoanHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.loanService.DeleteLoan(r.Context(), loanID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete loan")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /health requests.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

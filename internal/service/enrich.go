package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/arthurrguedes/backend-empresrimos/internal/domain"
	"github.com/arthurrguedes/backend-empresrimos/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

// UnknownTitle stands in for a book title the catalog could not provide.
const UnknownTitle = "Unknown"

// LoanView is a loan decorated with data owned by other services.
type LoanView struct {
	Loan      domain.Loan
	Title     string
	Publisher string
	// UserInfo is a display label for the borrower; empty when not requested.
	UserInfo string
	// Overdue is set for active loans past their due date when the view was built.
	Overdue bool
}

func userLabel(userID int64) string {
	return fmt.Sprintf("User #%d", userID)
}

// enrich looks up each distinct book once, concurrently. A failed lookup
// leaves UnknownTitle on the affected loans and never fails the request.
func (s *loanServiceImpl) enrich(ctx context.Context, loans []*domain.Loan) []LoanView {
	log := logger.FromContextOrDefault(ctx, s.logger)

	type bookInfo struct {
		title     string
		publisher string
	}

	var (
		mu    sync.Mutex
		books = make(map[int64]bookInfo)
		g     errgroup.Group
		seen  = make(map[int64]struct{})
	)
	g.SetLimit(s.config.EnrichConcurrency)

	for _, loan := range loans {
		bookID := loan.BookID
		if _, ok := seen[bookID]; ok {
			continue
		}
		seen[bookID] = struct{}{}

		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, s.config.EnrichTimeout)
			defer cancel()

			book, err := s.catalog.GetBook(callCtx, bookID)
			if err != nil {
				log.Warn("book lookup failed, using placeholder",
					slog.Int64("book_id", bookID),
					slog.String("error", err.Error()))
				return nil
			}

			mu.Lock()
			books[bookID] = bookInfo{title: book.Title, publisher: book.Publisher}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	now := s.clock.Now()
	views := make([]LoanView, len(loans))
	for i, loan := range loans {
		views[i] = LoanView{Loan: *loan, Title: UnknownTitle, Overdue: loan.IsOverdue(now)}
		if info, ok := books[loan.BookID]; ok {
			views[i].Title = info.title
			views[i].Publisher = info.publisher
		}
	}
	return views
}

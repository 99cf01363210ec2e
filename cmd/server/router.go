package main

import (
	"log/slog"
	"net/http"

	"github.com/arthurrguedes/backend-empresrimos/internal/api"
	apiMiddleware "github.com/arthurrguedes/backend-empresrimos/internal/api/middleware"
	"github.com/arthurrguedes/backend-empresrimos/internal/service"
	"github.com/arthurrguedes/backend-empresrimos/internal/service/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	return newRouter(app.loanService, app.jwtService, app.config.Server.CORSAllowedOrigins, app.logger)
}

// newRouter registers the loan routes. Every /loans route requires a valid
// bearer token; listing all loans and deleting require a loan manager role.
// Preflight requests are answered before authentication.
func newRouter(loans service.LoanService, jwt auth.JWTService, allowedOrigins []string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.TraceMiddleware(logger))
	r.Use(middleware.Recoverer)

	loanHandler := api.NewLoanHandler(loans, logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(jwt)

	r.Get("/health", api.Health)

	r.Route("/loans", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/", loanHandler.CreateLoan)
		r.Get("/mine", loanHandler.ListMyLoans)
		r.Get("/{id}", loanHandler.GetLoan)
		r.Put("/{id}/return", loanHandler.ReturnLoan)

		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.RequireLoanManager)
			r.Get("/", loanHandler.ListLoans)
			r.Delete("/{id}", loanHandler.DeleteLoan)
		})
	})

	return r
}

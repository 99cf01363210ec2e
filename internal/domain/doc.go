// Package domain contains the core business entities of the loans service
// and the rules that govern them: the Loan record, its status transitions,
// and the late-return fine policy.
//
// Entities owned by other services (users, books, reservations) are only
// referenced here by their numeric identifiers; this package never checks
// that those identifiers exist.
//
// The package has no dependencies on infrastructure. Storage lives in
// internal/store and internal/platform/postgres, and orchestration across
// services lives in internal/service.
package domain

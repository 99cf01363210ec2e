// Package service contains the loan lifecycle use cases. It orchestrates the
// loan store (defined in internal/store) and the reservation and catalog
// services to create, return, list, and delete loans.
//
// Creating a loan is a small saga: the loan row is inserted inside a local
// transaction, the reservation is marked concluded remotely, and only then is
// the transaction committed. If the remote confirmation fails the insert is
// rolled back. Catalog stock adjustments happen afterwards as background
// tasks and are eventually consistent.
//
// The service depends on repository and client interfaces, never on specific
// infrastructure implementations.
package service

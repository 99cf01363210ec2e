// Package store defines interfaces for loan persistence and the transaction
// helper shared by every implementation. Business rules in the service layer
// depend on these interfaces, never on a concrete database.
package store

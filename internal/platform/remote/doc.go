// Package remote contains HTTP clients for the services this one collaborates
// with: the reservation service, which owns reservations and their status, and
// the catalog service, which owns books and their stock.
//
// Each collaborator has explicit request and response types. Responses missing
// required fields are rejected with ErrInvalidResponse. Reads are retried on
// transport failures and 5xx responses; writes are never retried.
package remote

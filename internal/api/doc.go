// Package api exposes the loan lifecycle over HTTP. Handlers decode and
// validate requests, call the loan service and translate its errors into
// status codes with client-safe messages.
package api

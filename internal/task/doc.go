// Package task manages background job queuing and processing.
// Work that must not hold up a request, such as adjusting catalog stock after
// a loan is created or returned, is submitted here and executed by a bounded
// pool of workers. Failures are logged; nothing is persisted or replayed.
package task

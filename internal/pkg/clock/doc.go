// Package clock wraps the wall clock behind a tiny interface.
//
// Usecases that stamp records (outbox tasks, relay cut-off times) depend on
// Clocker so tests can pin the time with Fixed.
package clock

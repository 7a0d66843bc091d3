// Package engine implements the seat inventory and booking concurrency
// core: availability resolution, schedule policy, the reservation
// commit protocol and booking lifecycle transitions.  Persistence is
// reached through the store interfaces declared in this package so the
// core carries no driver dependency.
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a layout, schedule, movie or booking
// does not exist.  Store implementations translate their driver's
// "no rows" condition into this sentinel.
var ErrNotFound = errors.New("not found")

// ErrLockTimeout is returned when per-occurrence exclusivity could not
// be acquired within the reserve timeout.  The failure is retryable;
// retry is the caller's responsibility, the engine never retries
// internally.
var ErrLockTimeout = errors.New("reservation lock timed out")

// ValidationError reports a malformed request: bad date or showtime,
// unknown or inactive seats, empty seat list.  Handlers translate it
// into HTTP 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

func validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError reports that one or more requested seats already belong
// to another confirmed booking for the same occurrence.  Seats lists
// exactly the offending canonical keys so the client can re-offer the
// remainder without forcing a full reselection.  Handlers translate it
// into HTTP 409.
type ConflictError struct {
	Seats []string
}

func (e *ConflictError) Error() string {
	return "seats already booked: " + strings.Join(e.Seats, ", ")
}

// PolicyError reports an operation outside an allowed window: a
// scheduling date beyond the permitted horizon, a cancellation after
// the cancellation window closed.  Handlers translate it into HTTP 422.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string { return "policy: " + e.Reason }

func policyf(format string, args ...any) error {
	return &PolicyError{Reason: fmt.Sprintf(format, args...)}
}

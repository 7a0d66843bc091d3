// Package repository implements the engine's store interfaces on
// MySQL.  Each aggregate gets its own repository with raw SQL; the
// booking repository additionally carries the atomic conditional
// commit that keeps the seat-disjointness invariant across instances.
package repository

import (
	"database/sql"
	"errors"

	"github.com/seatgrid/theatre-booking/internal/engine"
)

// mapNoRows converts the driver's empty-result sentinel into the
// engine's ErrNotFound so callers never see database/sql details.
func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return engine.ErrNotFound
	}
	return err
}

package engine

import (
	"context"

	"github.com/seatgrid/theatre-booking/internal/model"
)

// Resolve derives the live occupancy of a screen's seats for one show
// occurrence by reconciling the layout against the confirmed bookings
// in the ledger.  It is a read-only projection with no side effects:
// calling it arbitrarily often (polling) is safe, and it never touches
// the reservation lock table, so reads never wait behind commits.  The
// view reflects whatever the ledger had committed at read time; a
// client racing a concurrent commit re-syncs through the broadcaster
// or the next poll.
func (e *Engine) Resolve(ctx context.Context, screenID, date, showtime string) (*model.AvailabilityView, error) {
	occ, err := model.NewOccurrence(screenID, date, showtime)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	layout, err := e.layouts.GetLayout(ctx, occ.ScreenID)
	if err != nil {
		return nil, err
	}
	occupied, err := e.occupiedSeats(ctx, occ)
	if err != nil {
		return nil, err
	}
	view := &model.AvailabilityView{
		Occurrence: occ,
		Classes:    layout.Classes,
		Seats:      make([]model.SeatInfo, 0, len(layout.Seats)),
		ResolvedAt: e.now(),
	}
	for _, seat := range layout.Seats {
		if !seat.Active {
			continue
		}
		status := model.SeatAvailable
		if _, taken := occupied[seat.ID.Key()]; taken {
			status = model.SeatBooked
		}
		view.Seats = append(view.Seats, model.SeatInfo{Seat: seat, Status: status})
	}
	return view, nil
}

// occupiedSeats builds the set of canonical seat keys appearing in any
// confirmed booking for the occurrence.  Seat keys come out of the
// ledger already canonical, so membership tests are plain string
// comparisons.
func (e *Engine) occupiedSeats(ctx context.Context, occ model.Occurrence) (map[string]struct{}, error) {
	bookings, err := e.ledger.ListConfirmed(ctx, occ)
	if err != nil {
		return nil, err
	}
	occupied := make(map[string]struct{})
	for i := range bookings {
		for _, key := range bookings[i].SeatKeys() {
			occupied[key] = struct{}{}
		}
	}
	return occupied, nil
}

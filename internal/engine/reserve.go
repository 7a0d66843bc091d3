package engine

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/seatgrid/theatre-booking/internal/model"
)

// ReserveRequest is a reservation attempt for one show occurrence.
// Date and Showtime accept the external free-text forms; SeatKeys
// accept any recognized seat-key variant.  DiscountCents comes from the
// pricing collaborator and is trusted as already validated.
type ReserveRequest struct {
	ScreenID      string
	Date          string
	Showtime      string
	SeatKeys      []string
	Contact       model.Contact
	DiscountCents int64
}

// Reserve validates and commits a seat reservation as one atomic,
// conflict-free operation.  The call is serializable per occurrence:
// it behaves as if all concurrent Reserve calls against the same
// (screen, date, showtime) ran one at a time.  Among competing calls
// for overlapping seats exactly one succeeds and the rest observe the
// winner's seats in a ConflictError; which caller wins is not defined.
//
// Failure modes: ValidationError (unknown/inactive seats, bad
// date/time), ErrNotFound (no layout or no scheduled show),
// ConflictError (seats taken), ErrLockTimeout (exclusivity not
// acquired in time; caller may retry).  No partial booking ever
// persists.
func (e *Engine) Reserve(ctx context.Context, req ReserveRequest) (*model.Booking, error) {
	occ, err := model.NewOccurrence(req.ScreenID, req.Date, req.Showtime)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	seats, err := normalizeSeatKeys(req.SeatKeys)
	if err != nil {
		return nil, err
	}

	layout, err := e.layouts.GetLayout(ctx, occ.ScreenID)
	if err != nil {
		return nil, err
	}
	title, err := e.scheduledMovieTitle(ctx, occ)
	if err != nil {
		return nil, err
	}

	// Validate seats against the layout and snapshot prices before
	// taking the lock; only the occupancy check and the insert need
	// exclusivity.
	booked := make([]model.BookedSeat, 0, len(seats))
	var missing []string
	for _, id := range seats {
		seat := layout.SeatByKey(id.Key())
		if seat == nil || !seat.Active {
			missing = append(missing, id.Key())
			continue
		}
		booked = append(booked, model.BookedSeat{ID: seat.ID, Class: seat.Class, PriceCents: seat.PriceCents})
	}
	if len(missing) > 0 {
		return nil, validationf("seats not in layout or inactive: %s", strings.Join(missing, ", "))
	}

	lockCtx, cancel := context.WithTimeout(ctx, e.policy.ReserveTimeout)
	defer cancel()
	release, err := e.locks.Acquire(lockCtx, occ.Key())
	if err != nil {
		return nil, ErrLockTimeout
	}
	defer release()

	occupied, err := e.occupiedSeats(ctx, occ)
	if err != nil {
		return nil, err
	}
	var conflicts []string
	for _, s := range booked {
		if _, taken := occupied[s.ID.Key()]; taken {
			conflicts = append(conflicts, s.ID.Key())
		}
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Seats: conflicts}
	}

	now := e.now()
	booking := &model.Booking{
		Code:       newBookingCode(occ),
		Occurrence: occ,
		MovieTitle: title,
		Seats:      booked,
		Charges:    e.charges(booked, req.DiscountCents),
		Contact:    req.Contact,
		Status:     model.BookingConfirmed,
		Payment:    model.PaymentPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	// The ledger re-checks seat disjointness inside its own atomic
	// conditional write.  Under the keyed lock this never trips for a
	// single instance; with multiple instances sharing one datastore it
	// is the safeguard that still holds.
	storeConflicts, err := e.ledger.InsertConfirmed(ctx, booking)
	if err != nil {
		return nil, err
	}
	if len(storeConflicts) > 0 {
		return nil, &ConflictError{Seats: storeConflicts}
	}

	e.publish(occ, booking.Seats, model.SeatBooked, booking.Code)
	if e.events != nil {
		e.events.BookingConfirmed(ctx, booking)
	}
	return booking, nil
}

// scheduledMovieTitle verifies the occurrence is actually on the
// registry and returns the movie's display title.  ErrNotFound when no
// active schedule offers the showtime.
func (e *Engine) scheduledMovieTitle(ctx context.Context, occ model.Occurrence) (string, error) {
	schedules, err := e.schedules.ListActive(ctx, occ.ScreenID, occ.Date)
	if err != nil {
		return "", err
	}
	for i := range schedules {
		if !schedules[i].HasShowtime(occ.Showtime) {
			continue
		}
		movie, err := e.movies.GetMovie(ctx, schedules[i].MovieID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return "", nil // catalog gap is display-only, not fatal
			}
			return "", err
		}
		return movie.Title, nil
	}
	return "", ErrNotFound
}

// normalizeSeatKeys parses, canonicalizes, deduplicates and sorts the
// requested seat keys.
func normalizeSeatKeys(raw []string) ([]model.SeatID, error) {
	if len(raw) == 0 {
		return nil, validationf("at least one seat is required")
	}
	seen := make(map[string]struct{}, len(raw))
	seats := make([]model.SeatID, 0, len(raw))
	for _, r := range raw {
		id, err := model.ParseSeatKey(r)
		if err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
		if _, dup := seen[id.Key()]; dup {
			continue
		}
		seen[id.Key()] = struct{}{}
		seats = append(seats, id)
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Row != seats[j].Row {
			return seats[i].Row < seats[j].Row
		}
		return seats[i].Number < seats[j].Number
	})
	return seats, nil
}

// charges computes the pricing breakdown from the snapshotted seat
// prices and the policy's tax and fee schedule.
func (e *Engine) charges(seats []model.BookedSeat, discountCents int64) model.Charges {
	var subtotal int64
	for _, s := range seats {
		subtotal += int64(s.PriceCents)
	}
	tax := subtotal * int64(e.policy.TaxPercent) / 100
	fee := e.policy.ConvenienceFeeCents
	if discountCents < 0 {
		discountCents = 0
	}
	total := subtotal + tax + fee - discountCents
	if total < 0 {
		total = 0
	}
	return model.Charges{
		SeatSubtotalCents: subtotal,
		TaxCents:          tax,
		FeeCents:          fee,
		DiscountCents:     discountCents,
		TotalCents:        total,
	}
}

// newBookingCode synthesizes a unique booking code, e.g.
// "BK-20250501-7C9E4A21".  The date part aids operator lookup; the
// random part guarantees uniqueness.
func newBookingCode(occ model.Occurrence) string {
	u := uuid.New()
	rand := strings.ToUpper(strings.ReplaceAll(u.String(), "-", ""))[:8]
	return "BK-" + strings.ReplaceAll(occ.Date, "-", "") + "-" + rand
}

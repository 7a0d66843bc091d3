package engine

import (
	"context"

	"github.com/seatgrid/theatre-booking/internal/model"
)

// GetBooking returns one booking by code.
func (e *Engine) GetBooking(ctx context.Context, code string) (*model.Booking, error) {
	if code == "" {
		return nil, validationf("booking code is required")
	}
	return e.ledger.GetByCode(ctx, code)
}

// ListBookings returns every booking for one occurrence regardless of
// status, newest first per the ledger's ordering.  Operator surface.
func (e *Engine) ListBookings(ctx context.Context, screenID, date, showtime string) ([]model.Booking, error) {
	occ, err := model.NewOccurrence(screenID, date, showtime)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	return e.ledger.ListByOccurrence(ctx, occ)
}

// Cancel transitions a confirmed booking to cancelled, subject to the
// cancellation window: the booking is cancellable only while more than
// CancelWindow remains before showtime.  At exactly the window boundary
// cancellation is no longer allowed.  The cancellation fee (a policy
// fraction of the total) and the refund amount are recorded on the
// booking for audit.  The freed seats return to the available pool
// implicitly because availability counts only confirmed bookings.
func (e *Engine) Cancel(ctx context.Context, code string) (*model.Booking, error) {
	b, err := e.ledger.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b.Status != model.BookingConfirmed {
		return nil, policyf("booking %s is %s, only confirmed bookings can be cancelled", code, b.Status)
	}
	startsAt, err := b.Occurrence.StartsAt()
	if err != nil {
		return nil, err
	}
	now := e.now()
	if startsAt.Sub(now) <= e.policy.CancelWindow {
		return nil, policyf("cancellation window closed: show starts at %s", startsAt.Format("2006-01-02 15:04"))
	}

	fee := b.Charges.TotalCents * int64(e.policy.CancelFeePercent) / 100
	b.Status = model.BookingCancelled
	b.CancelFeeCents = fee
	b.RefundCents = b.Charges.TotalCents - fee
	b.CancelledAt = &now
	b.UpdatedAt = now
	if b.Payment == model.PaymentPaid {
		b.Payment = model.PaymentRefunded
	}
	if err := e.ledger.Update(ctx, b); err != nil {
		return nil, err
	}

	e.publish(b.Occurrence, b.Seats, model.SeatAvailable, b.Code)
	if e.events != nil {
		e.events.BookingCancelled(ctx, b)
	}
	return b, nil
}

// MarkNoShow transitions a confirmed booking to no-show.  Operator
// action, valid only once the show has started.
func (e *Engine) MarkNoShow(ctx context.Context, code string) (*model.Booking, error) {
	b, err := e.ledger.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b.Status != model.BookingConfirmed {
		return nil, policyf("booking %s is %s, only confirmed bookings can be marked no-show", code, b.Status)
	}
	startsAt, err := b.Occurrence.StartsAt()
	if err != nil {
		return nil, err
	}
	now := e.now()
	if now.Before(startsAt) {
		return nil, policyf("show has not started yet")
	}
	b.Status = model.BookingNoShow
	b.UpdatedAt = now
	if err := e.ledger.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// MarkPayment records the payment collaborator's reference and status
// on a booking.  Bookings are committed with payment pending, then
// updated once the gateway confirms.
func (e *Engine) MarkPayment(ctx context.Context, code, paymentRef string, status model.PaymentStatus) (*model.Booking, error) {
	switch status {
	case model.PaymentPending, model.PaymentPaid, model.PaymentRefunded:
	default:
		return nil, validationf("unknown payment status %q", status)
	}
	b, err := e.ledger.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b.Status == model.BookingCancelled {
		return nil, policyf("booking %s is cancelled", code)
	}
	if paymentRef != "" {
		b.PaymentRef = &paymentRef
	}
	b.Payment = status
	b.UpdatedAt = e.now()
	if err := e.ledger.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// CompletePastBookings is the periodic sweep that transitions confirmed
// bookings whose show has passed to completed.  It is idempotent:
// completed bookings are no longer confirmed, so a second run over the
// same data reports zero changes.
func (e *Engine) CompletePastBookings(ctx context.Context) (int, error) {
	now := e.now()
	stale, err := e.ledger.ListConfirmedStartingBefore(ctx, now)
	if err != nil {
		return 0, err
	}
	done := 0
	for i := range stale {
		b := &stale[i]
		b.Status = model.BookingCompleted
		b.UpdatedAt = now
		if err := e.ledger.Update(ctx, b); err != nil {
			return done, err
		}
		done++
	}
	return done, nil
}

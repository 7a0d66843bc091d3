package engine

import (
	"context"
	"time"

	"github.com/seatgrid/theatre-booking/internal/broadcast"
	"github.com/seatgrid/theatre-booking/internal/lock"
	"github.com/seatgrid/theatre-booking/internal/model"
)

// LayoutStore persists the static seat map of each screen.  Layouts are
// read-mostly; updates use per-document replace semantics, so no extra
// locking is required here.
type LayoutStore interface {
	GetLayout(ctx context.Context, screenID string) (*model.ScreenLayout, error)
	ReplaceLayout(ctx context.Context, layout *model.ScreenLayout) error
}

// ScheduleStore persists show-registry records.  One record per
// (screen, date, movie); Upsert replaces the showtimes of an existing
// record and reactivates it.
type ScheduleStore interface {
	Upsert(ctx context.Context, s *model.Schedule) error
	Delete(ctx context.Context, screenID, date, movieID string) error
	ListActive(ctx context.Context, screenID, date string) ([]model.Schedule, error)
	DeactivateBefore(ctx context.Context, screenID, date string) (int64, error)
}

// BookingLedger is the authoritative record of committed reservations.
// InsertConfirmed is the one operation with a concurrency contract: it
// must atomically verify that none of the booking's seats appear in any
// confirmed booking for the same occurrence and insert the booking,
// returning the conflicting seat keys otherwise.  A separate
// query-then-insert sequence is not an acceptable implementation.
type BookingLedger interface {
	InsertConfirmed(ctx context.Context, b *model.Booking) (conflicts []string, err error)
	ListConfirmed(ctx context.Context, occ model.Occurrence) ([]model.Booking, error)
	ListByOccurrence(ctx context.Context, occ model.Occurrence) ([]model.Booking, error)
	GetByCode(ctx context.Context, code string) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	ListConfirmedStartingBefore(ctx context.Context, cutoff time.Time) ([]model.Booking, error)
}

// MovieCatalog supplies the catalog collaborator's metadata: release
// gating inputs for scheduling and a title joined onto bookings for
// display.  It is not a correctness dependency of the reservation
// protocol.
type MovieCatalog interface {
	GetMovie(ctx context.Context, id string) (*model.Movie, error)
}

// EventSink receives booking lifecycle events after commit, e.g. for
// queue publication.  Implementations must not block the commit path.
type EventSink interface {
	BookingConfirmed(ctx context.Context, b *model.Booking)
	BookingCancelled(ctx context.Context, b *model.Booking)
}

// Policy bundles the operator-configurable booking rules.
//
// Fields:
//
//	CancelWindow        – minimum lead time before showtime during which
//	                      a confirmed booking may still be cancelled.
//	CancelFeePercent    – percent of the booking total retained as
//	                      cancellation fee.
//	TaxPercent          – percent tax applied to the seat subtotal.
//	ConvenienceFeeCents – flat fee added to every booking.
//	MaxAdvanceDays      – scheduling horizon in days; capped at
//	                      AbsoluteMaxAdvanceDays.
//	ReserveTimeout      – bound on acquiring per-occurrence exclusivity.
type Policy struct {
	CancelWindow        time.Duration
	CancelFeePercent    int
	TaxPercent          int
	ConvenienceFeeCents int64
	MaxAdvanceDays      int
	ReserveTimeout      time.Duration
}

// AbsoluteMaxAdvanceDays is the hard ceiling on the scheduling horizon.
// Operator configuration can lower it, never raise it.
const AbsoluteMaxAdvanceDays = 90

func (p Policy) normalized() Policy {
	if p.CancelWindow <= 0 {
		p.CancelWindow = 2 * time.Hour
	}
	if p.MaxAdvanceDays <= 0 || p.MaxAdvanceDays > AbsoluteMaxAdvanceDays {
		p.MaxAdvanceDays = AbsoluteMaxAdvanceDays
	}
	if p.ReserveTimeout <= 0 {
		p.ReserveTimeout = 3 * time.Second
	}
	return p
}

// Engine ties the stores together and enforces the booking protocol.
// One Engine instance serves all screens; reservations against
// different occurrences proceed in parallel, reservations against the
// same occurrence are serialized by the keyed lock table.
type Engine struct {
	layouts   LayoutStore
	schedules ScheduleStore
	ledger    BookingLedger
	movies    MovieCatalog
	hub       *broadcast.Hub
	events    EventSink
	locks     *lock.KeyedMutex
	policy    Policy
	now       func() time.Time
}

// New constructs an Engine.  hub may be nil when no observers exist
// (e.g. batch tooling); events may be nil to disable queue publication.
func New(layouts LayoutStore, schedules ScheduleStore, ledger BookingLedger, movies MovieCatalog, hub *broadcast.Hub, events EventSink, policy Policy) *Engine {
	return &Engine{
		layouts:   layouts,
		schedules: schedules,
		ledger:    ledger,
		movies:    movies,
		hub:       hub,
		events:    events,
		locks:     lock.NewKeyedMutex(),
		policy:    policy.normalized(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Hub exposes the broadcaster so transport layers can subscribe
// observers to occurrence channels.
func (e *Engine) Hub() *broadcast.Hub { return e.hub }

// today returns the current calendar day at midnight UTC.
func (e *Engine) today() time.Time {
	return e.now().Truncate(24 * time.Hour)
}

func (e *Engine) publish(occ model.Occurrence, seats []model.BookedSeat, status model.SeatStatus, code string) {
	if e.hub == nil {
		return
	}
	changed := make([]model.SeatState, 0, len(seats))
	for _, s := range seats {
		changed = append(changed, model.SeatState{Seat: s.ID.Key(), Status: status})
	}
	e.hub.Publish(occ, changed, code)
}

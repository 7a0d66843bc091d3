package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatgrid/theatre-booking/internal/model"
)

func occurrence(t *testing.T, screen, date, showtime string) model.Occurrence {
	t.Helper()
	occ, err := model.NewOccurrence(screen, date, showtime)
	require.NoError(t, err)
	return occ
}

func TestPublishFansOutToAllObservers(t *testing.T) {
	hub := NewHub(4)
	occ := occurrence(t, "1", "2026-09-15", "19:00")

	a := hub.Subscribe(occ)
	b := hub.Subscribe(occ)
	defer hub.Unsubscribe(a)
	defer hub.Unsubscribe(b)

	changed := []model.SeatState{{Seat: "A1", Status: model.SeatBooked}}
	hub.Publish(occ, changed, "BK-1")

	for _, sub := range []*Subscription{a, b} {
		delta := <-sub.C
		assert.Equal(t, "1", delta.ScreenID)
		assert.Equal(t, "19:00", delta.Showtime)
		assert.Equal(t, changed, delta.ChangedSeats)
		assert.Equal(t, "BK-1", delta.BookingCode)
	}
}

func TestPublishScopedToOccurrence(t *testing.T) {
	hub := NewHub(4)
	evening := occurrence(t, "1", "2026-09-15", "19:00")
	matinee := occurrence(t, "1", "2026-09-15", "14:00")

	sub := hub.Subscribe(matinee)
	defer hub.Unsubscribe(sub)

	hub.Publish(evening, []model.SeatState{{Seat: "A1", Status: model.SeatBooked}}, "BK-1")

	select {
	case delta := <-sub.C:
		t.Fatalf("matinee observer received evening delta: %+v", delta)
	default:
	}
}

func TestPublishOrderPreservedPerObserver(t *testing.T) {
	hub := NewHub(8)
	occ := occurrence(t, "1", "2026-09-15", "19:00")

	sub := hub.Subscribe(occ)
	defer hub.Unsubscribe(sub)

	hub.Publish(occ, []model.SeatState{{Seat: "A1", Status: model.SeatBooked}}, "BK-1")
	hub.Publish(occ, []model.SeatState{{Seat: "A1", Status: model.SeatAvailable}}, "BK-1")

	first := <-sub.C
	second := <-sub.C
	assert.Equal(t, model.SeatBooked, first.ChangedSeats[0].Status)
	assert.Equal(t, model.SeatAvailable, second.ChangedSeats[0].Status)
}

func TestSlowObserverDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(1)
	occ := occurrence(t, "1", "2026-09-15", "19:00")

	sub := hub.Subscribe(occ)
	defer hub.Unsubscribe(sub)

	// Fill the buffer, then publish again; the second delta is dropped
	// and Publish returns without blocking.
	hub.Publish(occ, []model.SeatState{{Seat: "A1", Status: model.SeatBooked}}, "BK-1")
	hub.Publish(occ, []model.SeatState{{Seat: "A2", Status: model.SeatBooked}}, "BK-2")

	delta := <-sub.C
	assert.Equal(t, "BK-1", delta.BookingCode)
	select {
	case extra := <-sub.C:
		t.Fatalf("expected dropped delta, got %+v", extra)
	default:
	}
}

func TestUnsubscribeClosesAndCleansUp(t *testing.T) {
	hub := NewHub(1)
	occ := occurrence(t, "1", "2026-09-15", "19:00")

	sub := hub.Subscribe(occ)
	assert.Equal(t, 1, hub.Observers(occ))

	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.Observers(occ))

	_, open := <-sub.C
	assert.False(t, open)

	// Publishing to an occurrence with no observers is a no-op.
	hub.Publish(occ, []model.SeatState{{Seat: "A1", Status: model.SeatBooked}}, "BK-1")
}

// Package broadcast implements the in-process change broadcaster.  Each
// show occurrence has its own channel; observers subscribe to exactly
// one occurrence and receive the seat deltas produced by commits and
// cancellations against it.  Delivery is fire-and-forget: nothing is
// persisted or replayed, and a client that reconnects must re-resolve
// availability instead of relying on missed events.
package broadcast

import (
	"sync"
	"time"

	"github.com/seatgrid/theatre-booking/internal/model"
)

// SeatDelta is the payload observers receive: the seats whose status
// changed and the booking that changed them.  Observers get only the
// delta, not a full availability view, to keep payloads small.
type SeatDelta struct {
	ScreenID     string            `json:"screen_id"`
	Date         string            `json:"date"`
	Showtime     string            `json:"showtime"`
	ChangedSeats []model.SeatState `json:"changed_seats"`
	BookingCode  string            `json:"booking_code"`
	Timestamp    time.Time         `json:"timestamp"`
}

// Subscription is one observer's handle on an occurrence channel.  C
// yields deltas in publish order.  Close the subscription by calling
// Hub.Unsubscribe; the hub closes C at that point.
type Subscription struct {
	C   <-chan SeatDelta
	ch  chan SeatDelta
	key string
}

// Hub fans deltas out to observers grouped by occurrence key.  A slow
// observer whose buffer is full misses the delta rather than blocking
// the commit path.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
}

// NewHub returns a hub whose subscriber channels buffer the given
// number of deltas.  A buffer below 1 is raised to 1.
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{subs: make(map[string]map[*Subscription]struct{}), buffer: buffer}
}

// Subscribe joins the channel of the given occurrence.
func (h *Hub) Subscribe(occ model.Occurrence) *Subscription {
	sub := &Subscription{ch: make(chan SeatDelta, h.buffer), key: occ.Key()}
	sub.C = sub.ch
	h.mu.Lock()
	set, ok := h.subs[sub.key]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[sub.key] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe leaves the channel and closes the subscription.  Safe to
// call once per subscription; the occurrence's entry is removed when
// its last observer leaves so idle occurrences hold no memory.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if set, ok := h.subs[sub.key]; ok {
		if _, member := set[sub]; member {
			delete(set, sub)
			close(sub.ch)
			if len(set) == 0 {
				delete(h.subs, sub.key)
			}
		}
	}
	h.mu.Unlock()
}

// Publish delivers a delta to every observer of the occurrence.  Deltas
// for one occurrence arrive at each observer in publish order; a full
// observer buffer drops the delta for that observer only.
func (h *Hub) Publish(occ model.Occurrence, changed []model.SeatState, bookingCode string) {
	delta := SeatDelta{
		ScreenID:     occ.ScreenID,
		Date:         occ.Date,
		Showtime:     occ.Showtime,
		ChangedSeats: changed,
		BookingCode:  bookingCode,
		Timestamp:    time.Now().UTC(),
	}
	h.mu.RLock()
	for sub := range h.subs[occ.Key()] {
		select {
		case sub.ch <- delta:
		default: // observer too slow, skip
		}
	}
	h.mu.RUnlock()
}

// Observers reports the number of observers on one occurrence.
func (h *Hub) Observers(occ model.Occurrence) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[occ.Key()])
}

package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SeatID identifies a physical seat within a screen by its row label
// and seat number.  The pair is unique per screen.  SeatID is the only
// form seat identities take inside the engine; free-text keys coming
// from clients or the database must pass through ParseSeatKey first.
//
// Fields:
//
//	Row    – upper-case row label ("A", "AA").
//	Number – 1-based seat number within the row.
type SeatID struct {
	Row    string `json:"row"`
	Number int    `json:"number"`
}

// Key returns the canonical string form of the seat identity, e.g. "A7".
// This is the format persisted in booking_seats and used in broadcast
// payloads.  External variants such as "A-7" or "a7" are accepted on
// input but never produced.
func (s SeatID) Key() string {
	return s.Row + strconv.Itoa(s.Number)
}

func (s SeatID) String() string { return s.Key() }

// ParseSeatKey normalizes a free-text seat key into a SeatID.  It
// accepts "A7", "A-7", "a 7" and similar variants: leading ASCII
// letters form the row label (upper-cased), an optional single '-' or
// space separator is skipped, and the remaining digits form the seat
// number.  Row labels are ASCII only; anything else fails validation
// rather than producing a mangled row.  An error is returned when the
// key has no row letters, no digits, or trailing garbage.
func ParseSeatKey(raw string) (SeatID, error) {
	s := strings.TrimSpace(raw)
	i := 0
	for i < len(s) && isRowLetter(s[i]) {
		i++
	}
	if i == 0 {
		return SeatID{}, fmt.Errorf("seat key %q: missing row label", raw)
	}
	row := strings.ToUpper(s[:i])
	rest := s[i:]
	if len(rest) > 0 && (rest[0] == '-' || rest[0] == ' ') {
		rest = rest[1:]
	}
	if rest == "" {
		return SeatID{}, fmt.Errorf("seat key %q: missing seat number", raw)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return SeatID{}, fmt.Errorf("seat key %q: invalid seat number", raw)
	}
	return SeatID{Row: row, Number: n}, nil
}

func isRowLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// Seat describes one physical seat in a screen's layout.  Seats are
// created and replaced only by layout updates; booking never mutates
// them.  Inactive seats are retained for audit but excluded from
// availability views.
//
// Fields:
//
//	ID         – seat identity within the screen.
//	Class      – name of the seat class this seat belongs to.
//	PriceCents – price in cents charged for this seat.
//	Active     – whether the seat is sellable.
//	GridRow    – 0-based row index in the rendered grid (UI hint).
//	GridCol    – 0-based column index in the rendered grid (UI hint).
type Seat struct {
	ID         SeatID `json:"id"`
	Class      string `json:"class"`
	PriceCents uint32 `json:"price_cents"`
	Active     bool   `json:"active"`
	GridRow    int    `json:"grid_row"`
	GridCol    int    `json:"grid_col"`
}

// SeatClass names a pricing tier within a screen layout.
//
// Fields:
//
//	Name       – unique class name per screen (e.g. "GOLD").
//	Tier       – ordering rank, lower is closer to the screen.
//	PriceCents – base price in cents for seats of this class.
//	Color      – display color hint for the seat map UI.
type SeatClass struct {
	Name       string `json:"name"`
	Tier       uint8  `json:"tier"`
	PriceCents uint32 `json:"price_cents"`
	Color      string `json:"color"`
}

// SeatStatus is the availability state reported for a seat in an
// availability view or a broadcast delta.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatBooked    SeatStatus = "BOOKED"
)

// SeatState pairs a canonical seat key with its live status.  Used in
// change-broadcast payloads so observers receive only the seats that
// changed, not a full availability re-fetch.
type SeatState struct {
	Seat   string     `json:"seat"`
	Status SeatStatus `json:"status"`
}

// SeatInfo is one seat in an availability view: the layout seat plus
// its live status for the requested occurrence.
type SeatInfo struct {
	Seat   Seat       `json:"seat"`
	Status SeatStatus `json:"status"`
}

// AvailabilityView is the result of resolving live occupancy for one
// show occurrence.  Seats flagged inactive in the layout are omitted.
type AvailabilityView struct {
	Occurrence Occurrence  `json:"occurrence"`
	Classes    []SeatClass `json:"classes"`
	Seats      []SeatInfo  `json:"seats"`
	ResolvedAt time.Time   `json:"resolved_at"`
}

package model

import "time"

// LayoutMeta carries the grid metadata of a screen layout.
//
// Fields:
//
//	Rows      – number of seating rows (>= 1).
//	Cols      – number of seat columns per row (>= 1).
//	AisleCols – 0-based column indices occupied by aisles.
type LayoutMeta struct {
	Rows      int   `json:"rows"`
	Cols      int   `json:"cols"`
	AisleCols []int `json:"aisle_cols,omitempty"`
}

// ScreenLayout owns the full static seat map of one screen: grid
// metadata, the named seat classes and the ordered seat list.  There is
// exactly one layout per screen.  Updates use full-replace semantics:
// a replace overwrites the entire seat set, so callers must resend the
// complete list every time.
//
// Fields:
//
//	ScreenID  – screen identity the layout belongs to.
//	Meta      – grid dimensions and aisle positions.
//	Classes   – seat classes defined for this screen.
//	Seats     – every seat in the screen, including inactive ones.
//	UpdatedAt – timestamp of the last replace.
type ScreenLayout struct {
	ScreenID  string      `json:"screen_id"`
	Meta      LayoutMeta  `json:"meta"`
	Classes   []SeatClass `json:"classes"`
	Seats     []Seat      `json:"seats"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// SeatByKey returns the layout seat with the given canonical key, or
// nil when the layout has no such seat.
func (l *ScreenLayout) SeatByKey(key string) *Seat {
	for i := range l.Seats {
		if l.Seats[i].ID.Key() == key {
			return &l.Seats[i]
		}
	}
	return nil
}

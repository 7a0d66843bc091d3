package model

import (
	"fmt"
	"time"
)

// Occurrence identifies one show occurrence: a specific screen, calendar
// date and time-of-day slot at which a movie plays.  It is the scope of
// every seat-availability computation, the unit of reservation
// exclusivity and the key of broadcast channels.  Date and Showtime are
// always in canonical form (DateLayout, 24-hour key).
type Occurrence struct {
	ScreenID string `json:"screen_id"`
	Date     string `json:"date"`
	Showtime string `json:"showtime"`
}

// NewOccurrence normalizes raw date and showtime strings into a
// canonical Occurrence.
func NewOccurrence(screenID, date, showtime string) (Occurrence, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Occurrence{}, err
	}
	key, err := CanonicalShowtime(showtime)
	if err != nil {
		return Occurrence{}, err
	}
	return Occurrence{ScreenID: screenID, Date: d.Format(DateLayout), Showtime: key}, nil
}

// Key returns a stable composite key for lock tables and broadcast
// channels, e.g. "1|2025-05-01|19:00".
func (o Occurrence) Key() string {
	return fmt.Sprintf("%s|%s|%s", o.ScreenID, o.Date, o.Showtime)
}

// StartsAt returns the full UTC timestamp at which the occurrence
// begins.  Both fields are canonical, so parsing cannot fail for an
// Occurrence built through NewOccurrence; malformed stored data yields
// an error.
func (o Occurrence) StartsAt() (time.Time, error) {
	d, err := ParseDate(o.Date)
	if err != nil {
		return time.Time{}, err
	}
	tod, err := ParseTimeOfDay(o.Showtime)
	if err != nil {
		return time.Time{}, err
	}
	return tod.At(d), nil
}

package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date format used for booking
// dates throughout the system ("2025-05-01").
const DateLayout = "2006-01-02"

// ParseDate parses a canonical booking date.  The result is midnight
// UTC of that calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid booking date %q: want %s", s, DateLayout)
	}
	return t, nil
}

// TimeOfDay is a structured showtime slot within a day.  Show times
// arrive as free-text strings in either 12-hour ("7:00 PM") or 24-hour
// ("19:00") form; they are parsed into this type at the boundary and
// only the canonical 24-hour form is stored and compared.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// timeOfDayLayouts lists the accepted input formats, tried in order.
var timeOfDayLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// ParseTimeOfDay parses a free-text showtime string.  Both 12-hour and
// 24-hour inputs are accepted; the AM/PM marker is case-insensitive.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	in := strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range timeOfDayLayouts {
		if t, err := time.Parse(layout, in); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid showtime %q", s)
}

// Key returns the canonical 24-hour form, e.g. "19:00".  This is the
// internal identity of the slot; two inputs naming the same wall-clock
// time always produce the same key.
func (t TimeOfDay) Key() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Display returns the 12-hour form used for presentation, e.g. "7:00 PM".
func (t TimeOfDay) Display() string {
	ref := time.Date(0, 1, 1, t.Hour, t.Minute, 0, 0, time.UTC)
	return ref.Format("3:04 PM")
}

// At combines the time of day with a calendar date into a full UTC
// timestamp.  Used for cancellation-window and completion-sweep checks.
func (t TimeOfDay) At(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, time.UTC)
}

// CanonicalShowtime parses a free-text showtime and returns its
// canonical key.  Convenience for boundaries that only need the key.
func CanonicalShowtime(s string) (string, error) {
	tod, err := ParseTimeOfDay(s)
	if err != nil {
		return "", err
	}
	return tod.Key(), nil
}

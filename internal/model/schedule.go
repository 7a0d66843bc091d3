package model

import "time"

// Schedule is one show-registry record: which movie plays on a screen
// on one calendar date, at which time slots.  A scheduling action with
// a running window writes one Schedule per date in the window; each
// (screen, date, showtime) triple is a distinct occurrence for booking.
// At most one active schedule exists per (screen, date, movie).
//
// Fields:
//
//	ID        – primary key identifier.
//	ScreenID  – screen the movie plays on.
//	MovieID   – movie being shown.
//	Date      – canonical booking date (DateLayout).
//	Showtimes – canonical 24-hour showtime keys, ascending.
//	Active    – false once deactivated by cleanup or deletion.
//	CreatedAt – creation timestamp.
//	UpdatedAt – last update timestamp.
type Schedule struct {
	ID        uint64    `json:"id"`
	ScreenID  string    `json:"screen_id"`
	MovieID   string    `json:"movie_id"`
	Date      string    `json:"date"`
	Showtimes []string  `json:"showtimes"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasShowtime reports whether the schedule offers the given canonical
// showtime key.
func (s *Schedule) HasShowtime(key string) bool {
	for _, st := range s.Showtimes {
		if st == key {
			return true
		}
	}
	return false
}

// Movie is the slice of catalog metadata the engine needs: scheduling
// policy inputs plus a title for display.  The catalog itself is an
// external collaborator; full movie CRUD lives outside this service.
//
// Fields:
//
//	ID             – catalog identifier.
//	Title          – display title joined onto bookings.
//	ReleaseDate    – canonical release date; zero value means released.
//	AdvanceBooking – whether shows may be scheduled before release.
type Movie struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	ReleaseDate    string `json:"release_date,omitempty"`
	AdvanceBooking bool   `json:"advance_booking"`
}

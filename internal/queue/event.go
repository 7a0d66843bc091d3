// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// BookingConfirmedEvent is published after a reservation commits.  It
// carries enough for downstream consumers (notification, analytics) to
// act without querying the primary database.
type BookingConfirmedEvent struct {
	BookingCode string   `json:"booking_code"`
	ScreenID    string   `json:"screen_id"`
	Date        string   `json:"date"`
	Showtime    string   `json:"showtime"`
	MovieTitle  string   `json:"movie_title"`
	SeatKeys    []string `json:"seats"`
	TotalCents  int64    `json:"total_cents"`
	BuyerEmail  string   `json:"buyer_email"`
	ConfirmedAt string   `json:"confirmed_at"`
}

// BookingCancelledEvent is published after a cancellation.  RefundCents
// and FeeCents mirror the audit fields recorded on the booking.
type BookingCancelledEvent struct {
	BookingCode string   `json:"booking_code"`
	ScreenID    string   `json:"screen_id"`
	Date        string   `json:"date"`
	Showtime    string   `json:"showtime"`
	SeatKeys    []string `json:"seats"`
	FeeCents    int64    `json:"fee_cents"`
	RefundCents int64    `json:"refund_cents"`
	BuyerEmail  string   `json:"buyer_email"`
	CancelledAt string   `json:"cancelled_at"`
}

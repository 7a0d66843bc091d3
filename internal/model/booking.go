package model

import "time"

// BookingStatus is the lifecycle state of a booking.  Transitions are
// confirmed→cancelled (inside the cancellation window), confirmed→
// completed (sweep, after showtime) and confirmed→no-show.  No other
// transitions exist; seats are never mutated after creation.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingNoShow    BookingStatus = "NO_SHOW"
)

// PaymentStatus tracks the payment collaborator's view of a booking.
// A booking may be committed with payment pending and marked later.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// BookedSeat is one seat inside a booking with the price charged at
// booking time.  Prices are snapshotted from the layout when the
// booking is committed; later layout price changes never alter them.
type BookedSeat struct {
	ID         SeatID `json:"id"`
	Class      string `json:"class"`
	PriceCents uint32 `json:"price_cents"`
}

// Charges is the pricing breakdown recorded on a booking.
//
// Fields:
//
//	SeatSubtotalCents – sum of the snapshotted seat prices.
//	TaxCents          – tax computed on the subtotal.
//	FeeCents          – flat convenience fee.
//	DiscountCents     – discount applied, if any.
//	TotalCents        – subtotal + tax + fee − discount.
type Charges struct {
	SeatSubtotalCents int64 `json:"seat_subtotal_cents"`
	TaxCents          int64 `json:"tax_cents"`
	FeeCents          int64 `json:"fee_cents"`
	DiscountCents     int64 `json:"discount_cents"`
	TotalCents        int64 `json:"total_cents"`
}

// Contact identifies the buyer.  Identity verification happens in the
// authentication collaborator; this is denormalized display data.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Booking is the authoritative record of one committed reservation.
// The occurrence identity is denormalized so the ledger can be queried
// without joining the show registry.  Core invariant: for any fixed
// occurrence the seat sets of all CONFIRMED bookings are pairwise
// disjoint.
//
// Fields:
//
//	Code            – generated booking code, unique.
//	Occurrence      – screen, date and showtime reserved.
//	MovieTitle      – display title at booking time (catalog join).
//	Seats           – reserved seats with snapshotted prices.
//	Charges         – pricing breakdown.
//	Contact         – buyer contact details.
//	Status          – lifecycle status.
//	Payment         – payment status.
//	PaymentRef      – external payment reference (nullable).
//	CancelFeeCents  – fee retained on cancellation, recorded for audit.
//	RefundCents     – amount refunded on cancellation.
//	CancelledAt     – when the booking was cancelled (nullable).
//	CreatedAt       – creation timestamp.
//	UpdatedAt       – last update timestamp.
type Booking struct {
	Code           string        `json:"code"`
	Occurrence     Occurrence    `json:"occurrence"`
	MovieTitle     string        `json:"movie_title,omitempty"`
	Seats          []BookedSeat  `json:"seats"`
	Charges        Charges       `json:"charges"`
	Contact        Contact       `json:"contact"`
	Status         BookingStatus `json:"status"`
	Payment        PaymentStatus `json:"payment"`
	PaymentRef     *string       `json:"payment_ref,omitempty"`
	CancelFeeCents int64         `json:"cancel_fee_cents,omitempty"`
	RefundCents    int64         `json:"refund_cents,omitempty"`
	CancelledAt    *time.Time    `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// SeatKeys returns the canonical keys of all seats in the booking.
func (b *Booking) SeatKeys() []string {
	keys := make([]string, 0, len(b.Seats))
	for _, s := range b.Seats {
		keys = append(keys, s.ID.Key())
	}
	return keys
}

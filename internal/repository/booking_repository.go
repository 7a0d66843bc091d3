package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/seatgrid/theatre-booking/internal/engine"
	"github.com/seatgrid/theatre-booking/internal/model"
)

// BookingRepo is the booking ledger on MySQL: bookings plus a
// booking_seats row per reserved seat.  Seat keys are stored in
// canonical form, so conflict checks are plain string comparisons.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// InsertConfirmed commits a confirmed booking if and only if none of
// its seats appear in another confirmed booking for the same
// occurrence.  The occupancy read and the insert happen inside one
// transaction with the matching seat rows locked.  Within a single
// instance the engine's per-occurrence mutex already serializes
// writers; across instances the locking read only closes the race
// under REPEATABLE READ, where InnoDB next-key locks on the
// (screen_id, show_date, showtime) index cover the gap even when no
// seat rows exist yet.  On conflict the offending seat keys are
// returned and nothing is written.
func (r *BookingRepo) InsertConfirmed(ctx context.Context, b *model.Booking) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const occQ = `SELECT bs.seat_key
                  FROM booking_seats bs
                  JOIN bookings b ON b.id = bs.booking_id
                  WHERE b.screen_id = ? AND b.show_date = ? AND b.showtime = ? AND b.status = 'CONFIRMED'
                  FOR UPDATE`
	rows, err := tx.QueryContext(ctx, occQ, b.Occurrence.ScreenID, b.Occurrence.Date, b.Occurrence.Showtime)
	if err != nil {
		return nil, err
	}
	occupied := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return nil, err
		}
		occupied[key] = struct{}{}
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var conflicts []string
	for _, key := range b.SeatKeys() {
		if _, taken := occupied[key]; taken {
			conflicts = append(conflicts, key)
		}
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}

	const insQ = `INSERT INTO bookings (code, screen_id, show_date, showtime, movie_title,
                      subtotal_cents, tax_cents, fee_cents, discount_cents, total_cents,
                      contact_name, contact_email, contact_phone,
                      status, payment_status, created_at, updated_at)
                  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insQ, b.Code,
		b.Occurrence.ScreenID, b.Occurrence.Date, b.Occurrence.Showtime, b.MovieTitle,
		b.Charges.SeatSubtotalCents, b.Charges.TaxCents, b.Charges.FeeCents, b.Charges.DiscountCents, b.Charges.TotalCents,
		b.Contact.Name, b.Contact.Email, b.Contact.Phone,
		string(b.Status), string(b.Payment), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	bookingID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	seatQ := `INSERT INTO booking_seats (booking_id, seat_key, row_label, seat_number, class, price_cents) VALUES `
	args := make([]interface{}, 0, len(b.Seats)*6)
	for i, s := range b.Seats {
		if i > 0 {
			seatQ += ","
		}
		seatQ += "(?, ?, ?, ?, ?, ?)"
		args = append(args, bookingID, s.ID.Key(), s.ID.Row, s.ID.Number, s.Class, s.PriceCents)
	}
	if _, err := tx.ExecContext(ctx, seatQ, args...); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return nil, nil
}

// ListConfirmed returns the confirmed bookings for one occurrence.
func (r *BookingRepo) ListConfirmed(ctx context.Context, occ model.Occurrence) ([]model.Booking, error) {
	return r.list(ctx, occ, true)
}

// ListByOccurrence returns every booking for one occurrence regardless
// of status, newest first.
func (r *BookingRepo) ListByOccurrence(ctx context.Context, occ model.Occurrence) ([]model.Booking, error) {
	return r.list(ctx, occ, false)
}

const bookingCols = `id, code, screen_id, show_date, showtime, movie_title,
           subtotal_cents, tax_cents, fee_cents, discount_cents, total_cents,
           contact_name, contact_email, contact_phone,
           status, payment_status, payment_ref, cancel_fee_cents, refund_cents, cancelled_at,
           created_at, updated_at`

func (r *BookingRepo) list(ctx context.Context, occ model.Occurrence, confirmedOnly bool) ([]model.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE screen_id = ? AND show_date = ? AND showtime = ?`
	if confirmedOnly {
		q += ` AND status = 'CONFIRMED'`
	}
	q += ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, occ.ScreenID, occ.Date, occ.Showtime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]model.Booking, 0)
	ids := make([]int64, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var b model.Booking
		var id int64
		if err := scanBooking(rows, &id, &b); err != nil {
			return nil, err
		}
		index[id] = len(bookings)
		bookings = append(bookings, b)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}
	if err := r.attachSeats(ctx, ids, index, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetByCode returns one booking with its seats.
func (r *BookingRepo) GetByCode(ctx context.Context, code string) (*model.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings WHERE code = ?`
	row := r.db.QueryRowContext(ctx, q, code)
	var b model.Booking
	var id int64
	if err := scanBooking(row, &id, &b); err != nil {
		return nil, mapNoRows(err)
	}
	bs := []model.Booking{b}
	if err := r.attachSeats(ctx, []int64{id}, map[int64]int{id: 0}, bs); err != nil {
		return nil, err
	}
	return &bs[0], nil
}

// Update persists status, payment and cancellation fields.  Seats and
// charges are immutable after creation and are deliberately absent.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings SET status = ?, payment_status = ?, payment_ref = ?,
                   cancel_fee_cents = ?, refund_cents = ?, cancelled_at = ?, updated_at = ?
               WHERE code = ?`
	res, err := r.db.ExecContext(ctx, q, string(b.Status), string(b.Payment), b.PaymentRef,
		b.CancelFeeCents, b.RefundCents, b.CancelledAt, b.UpdatedAt, b.Code)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return engine.ErrNotFound
	}
	return nil
}

// ListConfirmedStartingBefore returns confirmed bookings whose show
// started before the cutoff.  Feeds the completion sweep.
func (r *BookingRepo) ListConfirmedStartingBefore(ctx context.Context, cutoff time.Time) ([]model.Booking, error) {
	q := `SELECT ` + bookingCols + ` FROM bookings
          WHERE status = 'CONFIRMED'
            AND STR_TO_DATE(CONCAT(show_date, ' ', showtime), '%Y-%m-%d %H:%i') < ?`
	rows, err := r.db.QueryContext(ctx, q, cutoff.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	ids := make([]int64, 0)
	index := make(map[int64]int)
	for rows.Next() {
		var b model.Booking
		var id int64
		if err := scanBooking(rows, &id, &b); err != nil {
			return nil, err
		}
		index[id] = len(bookings)
		bookings = append(bookings, b)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}
	if err := r.attachSeats(ctx, ids, index, bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(s scanner, id *int64, b *model.Booking) error {
	var payRef sql.NullString
	var cancelledAt sql.NullTime
	var status, payment string
	err := s.Scan(id, &b.Code,
		&b.Occurrence.ScreenID, &b.Occurrence.Date, &b.Occurrence.Showtime, &b.MovieTitle,
		&b.Charges.SeatSubtotalCents, &b.Charges.TaxCents, &b.Charges.FeeCents, &b.Charges.DiscountCents, &b.Charges.TotalCents,
		&b.Contact.Name, &b.Contact.Email, &b.Contact.Phone,
		&status, &payment, &payRef, &b.CancelFeeCents, &b.RefundCents, &cancelledAt,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return err
	}
	b.Status = model.BookingStatus(status)
	b.Payment = model.PaymentStatus(payment)
	if payRef.Valid {
		ref := payRef.String
		b.PaymentRef = &ref
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time.UTC()
		b.CancelledAt = &t
	}
	return nil
}

// attachSeats loads booking_seats for all listed booking ids in one
// query and appends them to the matching bookings.
func (r *BookingRepo) attachSeats(ctx context.Context, ids []int64, index map[int64]int, bookings []model.Booking) error {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT booking_id, row_label, seat_number, class, price_cents
          FROM booking_seats
          WHERE booking_id IN (` + strings.Join(placeholders, ",") + `)
          ORDER BY booking_id, row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var s model.BookedSeat
		if err := rows.Scan(&id, &s.ID.Row, &s.ID.Number, &s.Class, &s.PriceCents); err != nil {
			return err
		}
		if i, ok := index[id]; ok {
			bookings[i].Seats = append(bookings[i].Seats, s)
		}
	}
	return rows.Err()
}

var _ engine.BookingLedger = (*BookingRepo)(nil)

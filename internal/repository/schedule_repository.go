package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/seatgrid/theatre-booking/internal/engine"
	"github.com/seatgrid/theatre-booking/internal/model"
)

// ScheduleRepo persists show-registry records in the schedules table.
// One row per (screen, date, movie), enforced by a unique key; the
// showtime list is stored comma-joined in canonical 24-hour form.
type ScheduleRepo struct {
	db *sql.DB
}

// NewScheduleRepo returns a ScheduleRepo bound to the given database.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// Upsert writes or updates the record for (screen, date, movie).  An
// existing record gets the new showtimes and is reactivated.
func (r *ScheduleRepo) Upsert(ctx context.Context, s *model.Schedule) error {
	const q = `INSERT INTO schedules (screen_id, movie_id, show_date, showtimes, active, created_at, updated_at)
               VALUES (?, ?, ?, ?, 1, ?, ?)
               ON DUPLICATE KEY UPDATE showtimes = VALUES(showtimes), active = 1, updated_at = VALUES(updated_at)`
	_, err := r.db.ExecContext(ctx, q, s.ScreenID, s.MovieID, s.Date,
		strings.Join(s.Showtimes, ","), s.CreatedAt, s.UpdatedAt)
	return err
}

// Delete removes the record for (screen, date, movie).  Returns
// engine.ErrNotFound when no such record exists.
func (r *ScheduleRepo) Delete(ctx context.Context, screenID, date, movieID string) error {
	const q = `DELETE FROM schedules WHERE screen_id = ? AND show_date = ? AND movie_id = ?`
	res, err := r.db.ExecContext(ctx, q, screenID, date, movieID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return engine.ErrNotFound
	}
	return nil
}

// ListActive returns the active schedule records for a screen on one
// date, oldest first.
func (r *ScheduleRepo) ListActive(ctx context.Context, screenID, date string) ([]model.Schedule, error) {
	const q = `SELECT id, screen_id, movie_id, show_date, showtimes, active, created_at, updated_at
               FROM schedules
               WHERE screen_id = ? AND show_date = ? AND active = 1
               ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, screenID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Schedule, 0)
	for rows.Next() {
		var s model.Schedule
		var times string
		if err := rows.Scan(&s.ID, &s.ScreenID, &s.MovieID, &s.Date, &times, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		if times != "" {
			s.Showtimes = strings.Split(times, ",")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeactivateBefore marks every active record with a date strictly
// before the given date as inactive and reports how many rows changed.
// An empty screenID covers all screens.  Running it twice in a row
// returns zero the second time.
func (r *ScheduleRepo) DeactivateBefore(ctx context.Context, screenID, date string) (int64, error) {
	q := `UPDATE schedules SET active = 0 WHERE show_date < ? AND active = 1`
	args := []interface{}{date}
	if screenID != "" {
		q += ` AND screen_id = ?`
		args = append(args, screenID)
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var _ engine.ScheduleStore = (*ScheduleRepo)(nil)

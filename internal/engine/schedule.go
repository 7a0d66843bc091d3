package engine

import (
	"context"
	"sort"

	"github.com/seatgrid/theatre-booking/internal/model"
)

// ScheduleRequest is one scheduling action.  Date is the first booking
// date; RunningWindowDays replicates the same showtimes over the
// consecutive dates [Date, Date+RunningWindowDays].  Each date in the
// window is a distinct occurrence for booking.
type ScheduleRequest struct {
	ScreenID          string
	MovieID           string
	Date              string
	Showtimes         []string
	RunningWindowDays int
}

// UpsertSchedule writes or updates one schedule record per date in the
// running window and returns the dates written.  Policy checks, in
// order: dates must not precede today; the horizon is bounded by the
// policy's MaxAdvanceDays (itself capped at AbsoluteMaxAdvanceDays);
// movies with a future release date are schedulable only when advance
// booking is enabled for them, and never for dates beyond the release
// date.
func (e *Engine) UpsertSchedule(ctx context.Context, req ScheduleRequest) ([]string, error) {
	if req.ScreenID == "" || req.MovieID == "" {
		return nil, validationf("screen id and movie id are required")
	}
	start, err := model.ParseDate(req.Date)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	if req.RunningWindowDays < 0 {
		return nil, validationf("running window must not be negative")
	}
	if len(req.Showtimes) == 0 {
		return nil, validationf("at least one showtime is required")
	}
	showtimes, err := canonicalShowtimes(req.Showtimes)
	if err != nil {
		return nil, err
	}

	today := e.today()
	if start.Before(today) {
		return nil, policyf("booking date %s is in the past", start.Format(model.DateLayout))
	}
	end := start.AddDate(0, 0, req.RunningWindowDays)
	horizon := today.AddDate(0, 0, e.policy.MaxAdvanceDays)
	if end.After(horizon) {
		return nil, policyf("schedule extends beyond the %d-day booking horizon", e.policy.MaxAdvanceDays)
	}

	movie, err := e.movies.GetMovie(ctx, req.MovieID)
	if err != nil {
		return nil, err
	}
	if movie.ReleaseDate != "" {
		release, err := model.ParseDate(movie.ReleaseDate)
		if err == nil && release.After(today) {
			if !movie.AdvanceBooking {
				return nil, policyf("movie %s releases on %s and advance booking is disabled", movie.ID, movie.ReleaseDate)
			}
			if end.After(release) {
				return nil, policyf("schedule extends beyond the release date %s", movie.ReleaseDate)
			}
		}
	}

	now := e.now()
	written := make([]string, 0, req.RunningWindowDays+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		s := &model.Schedule{
			ScreenID:  req.ScreenID,
			MovieID:   req.MovieID,
			Date:      d.Format(model.DateLayout),
			Showtimes: showtimes,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := e.schedules.Upsert(ctx, s); err != nil {
			return written, err
		}
		written = append(written, s.Date)
	}
	return written, nil
}

// DeleteSchedule removes the schedule record for one (screen, date,
// movie) triple.
func (e *Engine) DeleteSchedule(ctx context.Context, screenID, date, movieID string) error {
	d, err := model.ParseDate(date)
	if err != nil {
		return &ValidationError{Reason: err.Error()}
	}
	return e.schedules.Delete(ctx, screenID, d.Format(model.DateLayout), movieID)
}

// CleanupPast deactivates schedule records whose date has passed.  Safe
// to run repeatedly (e.g. daily): a second run over the same data
// reports zero changes.
func (e *Engine) CleanupPast(ctx context.Context, screenID string) (int64, error) {
	return e.schedules.DeactivateBefore(ctx, screenID, e.today().Format(model.DateLayout))
}

// ListSchedules returns the active schedule records for a screen on a
// date.
func (e *Engine) ListSchedules(ctx context.Context, screenID, date string) ([]model.Schedule, error) {
	d, err := model.ParseDate(date)
	if err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	return e.schedules.ListActive(ctx, screenID, d.Format(model.DateLayout))
}

// canonicalShowtimes parses, deduplicates and sorts showtime inputs
// into canonical 24-hour keys.
func canonicalShowtimes(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	keys := make([]string, 0, len(raw))
	for _, r := range raw {
		key, err := model.CanonicalShowtime(r)
		if err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

package engine

import (
	"context"

	"github.com/seatgrid/theatre-booking/internal/model"
)

// GetLayout returns the full seat map of a screen, inactive seats
// included.  Availability status is not part of a layout; use Resolve
// for live occupancy.
func (e *Engine) GetLayout(ctx context.Context, screenID string) (*model.ScreenLayout, error) {
	if screenID == "" {
		return nil, validationf("screen id is required")
	}
	return e.layouts.GetLayout(ctx, screenID)
}

// ReplaceLayout overwrites a screen's entire layout: grid metadata,
// seat classes and the complete seat set.  This is a full replace, not
// a merge — seats missing from the request are gone after the call.
// Seat identities are normalized before storage; duplicates, unknown
// class references and out-of-grid positions are rejected.  Existing
// bookings are untouched: their seats and prices were snapshotted at
// commit time.
func (e *Engine) ReplaceLayout(ctx context.Context, layout *model.ScreenLayout) (*model.ScreenLayout, error) {
	if layout.ScreenID == "" {
		return nil, validationf("screen id is required")
	}
	if layout.Meta.Rows < 1 || layout.Meta.Cols < 1 {
		return nil, validationf("layout grid must have at least 1 row and 1 column")
	}
	if len(layout.Seats) == 0 {
		return nil, validationf("layout must contain at least one seat")
	}
	classes := make(map[string]struct{}, len(layout.Classes))
	for _, c := range layout.Classes {
		if c.Name == "" {
			return nil, validationf("seat class name is required")
		}
		if _, dup := classes[c.Name]; dup {
			return nil, validationf("duplicate seat class %q", c.Name)
		}
		classes[c.Name] = struct{}{}
	}
	seen := make(map[string]struct{}, len(layout.Seats))
	for i := range layout.Seats {
		s := &layout.Seats[i]
		id, err := model.ParseSeatKey(s.ID.Key())
		if err != nil {
			return nil, &ValidationError{Reason: err.Error()}
		}
		s.ID = id
		key := id.Key()
		if _, dup := seen[key]; dup {
			return nil, validationf("duplicate seat %s", key)
		}
		seen[key] = struct{}{}
		if _, ok := classes[s.Class]; !ok {
			return nil, validationf("seat %s references unknown class %q", key, s.Class)
		}
		if s.GridRow < 0 || s.GridRow >= layout.Meta.Rows || s.GridCol < 0 || s.GridCol >= layout.Meta.Cols {
			return nil, validationf("seat %s position outside the %dx%d grid", key, layout.Meta.Rows, layout.Meta.Cols)
		}
	}
	layout.UpdatedAt = e.now()
	if err := e.layouts.ReplaceLayout(ctx, layout); err != nil {
		return nil, err
	}
	return layout, nil
}

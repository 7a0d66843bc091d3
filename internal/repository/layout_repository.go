package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/seatgrid/theatre-booking/internal/engine"
	"github.com/seatgrid/theatre-booking/internal/model"
)

// LayoutRepo persists screen layouts across three tables:
// screen_layouts for the grid metadata, seat_classes for the pricing
// tiers and seats for the individual seats.  A replace rewrites all
// three inside one transaction, matching the full-overwrite semantics
// of layout updates.
type LayoutRepo struct {
	db *sql.DB
}

// NewLayoutRepo returns a LayoutRepo bound to the given database.
func NewLayoutRepo(db *sql.DB) *LayoutRepo { return &LayoutRepo{db: db} }

// GetLayout assembles the full layout of one screen.  Returns
// engine.ErrNotFound when the screen has no layout.
func (r *LayoutRepo) GetLayout(ctx context.Context, screenID string) (*model.ScreenLayout, error) {
	const metaQ = `SELECT grid_rows, grid_cols, aisle_cols, updated_at FROM screen_layouts WHERE screen_id = ?`
	layout := &model.ScreenLayout{ScreenID: screenID}
	var aisles string
	err := r.db.QueryRowContext(ctx, metaQ, screenID).Scan(
		&layout.Meta.Rows, &layout.Meta.Cols, &aisles, &layout.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}
	layout.Meta.AisleCols = decodeIntList(aisles)

	const classQ = `SELECT name, tier, price_cents, color FROM seat_classes WHERE screen_id = ? ORDER BY tier, name`
	rows, err := r.db.QueryContext(ctx, classQ, screenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c model.SeatClass
		if err := rows.Scan(&c.Name, &c.Tier, &c.PriceCents, &c.Color); err != nil {
			return nil, err
		}
		layout.Classes = append(layout.Classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const seatQ = `SELECT row_label, seat_number, class, price_cents, active, grid_row, grid_col
                   FROM seats WHERE screen_id = ?
                   ORDER BY row_label, seat_number`
	srows, err := r.db.QueryContext(ctx, seatQ, screenID)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var s model.Seat
		if err := srows.Scan(&s.ID.Row, &s.ID.Number, &s.Class, &s.PriceCents, &s.Active, &s.GridRow, &s.GridCol); err != nil {
			return nil, err
		}
		layout.Seats = append(layout.Seats, s)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return layout, nil
}

// ReplaceLayout overwrites the screen's layout in one transaction:
// the metadata row is upserted, then classes and seats are deleted and
// re-inserted from the provided layout.
func (r *LayoutRepo) ReplaceLayout(ctx context.Context, layout *model.ScreenLayout) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const metaQ = `INSERT INTO screen_layouts (screen_id, grid_rows, grid_cols, aisle_cols, updated_at)
                   VALUES (?, ?, ?, ?, ?)
                   ON DUPLICATE KEY UPDATE grid_rows = VALUES(grid_rows), grid_cols = VALUES(grid_cols),
                                           aisle_cols = VALUES(aisle_cols), updated_at = VALUES(updated_at)`
	if _, err := tx.ExecContext(ctx, metaQ, layout.ScreenID, layout.Meta.Rows, layout.Meta.Cols,
		encodeIntList(layout.Meta.AisleCols), layout.UpdatedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM seat_classes WHERE screen_id = ?`, layout.ScreenID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM seats WHERE screen_id = ?`, layout.ScreenID); err != nil {
		return err
	}

	if len(layout.Classes) > 0 {
		q := `INSERT INTO seat_classes (screen_id, name, tier, price_cents, color) VALUES `
		args := make([]interface{}, 0, len(layout.Classes)*5)
		for i, c := range layout.Classes {
			if i > 0 {
				q += ","
			}
			q += "(?, ?, ?, ?, ?)"
			args = append(args, layout.ScreenID, c.Name, c.Tier, c.PriceCents, c.Color)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}

	if len(layout.Seats) > 0 {
		q := `INSERT INTO seats (screen_id, row_label, seat_number, class, price_cents, active, grid_row, grid_col) VALUES `
		args := make([]interface{}, 0, len(layout.Seats)*8)
		for i, s := range layout.Seats {
			if i > 0 {
				q += ","
			}
			q += "(?, ?, ?, ?, ?, ?, ?, ?)"
			args = append(args, layout.ScreenID, s.ID.Row, s.ID.Number, s.Class, s.PriceCents, s.Active, s.GridRow, s.GridCol)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// encodeIntList serializes aisle columns as a comma-joined string,
// e.g. "3,7".  Empty list encodes to "".
func encodeIntList(ns []int) string {
	parts := make([]string, 0, len(ns))
	for _, n := range ns {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ",")
}

func decodeIntList(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ns := make([]int, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			ns = append(ns, n)
		}
	}
	return ns
}

var _ engine.LayoutStore = (*LayoutRepo)(nil)

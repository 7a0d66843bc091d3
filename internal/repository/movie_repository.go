package repository

import (
	"context"
	"database/sql"

	"github.com/seatgrid/theatre-booking/internal/engine"
	"github.com/seatgrid/theatre-booking/internal/model"
)

// MovieRepo reads the catalog collaborator's movies table.  Catalog
// CRUD lives in another service; this repo only looks up the fields
// the scheduler and booking responses need.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a MovieRepo bound to the given database.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// GetMovie returns catalog metadata for one movie.  Returns
// engine.ErrNotFound for unknown ids.
func (r *MovieRepo) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	const q = `SELECT id, title, COALESCE(release_date, ''), advance_booking FROM movies WHERE id = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.ReleaseDate, &m.AdvanceBooking)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &m, nil
}

var _ engine.MovieCatalog = (*MovieRepo)(nil)

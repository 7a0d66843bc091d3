package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/seatgrid/theatre-booking/internal/broadcast"
	"github.com/seatgrid/theatre-booking/internal/model"
)

// In-memory store fakes.  They honor the same contracts as the SQL
// repositories, including the atomic conditional insert on the ledger,
// so engine behavior can be tested without a database.

type memLayouts struct {
	mu       sync.Mutex
	byScreen map[string]*model.ScreenLayout
}

func newMemLayouts() *memLayouts {
	return &memLayouts{byScreen: make(map[string]*model.ScreenLayout)}
}

func (m *memLayouts) GetLayout(_ context.Context, screenID string) (*model.ScreenLayout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.byScreen[screenID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	cp.Classes = append([]model.SeatClass(nil), l.Classes...)
	cp.Seats = append([]model.Seat(nil), l.Seats...)
	return &cp, nil
}

func (m *memLayouts) ReplaceLayout(_ context.Context, layout *model.ScreenLayout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *layout
	cp.Classes = append([]model.SeatClass(nil), layout.Classes...)
	cp.Seats = append([]model.Seat(nil), layout.Seats...)
	m.byScreen[layout.ScreenID] = &cp
	return nil
}

type memSchedules struct {
	mu    sync.Mutex
	items []*model.Schedule
	seq   uint64
}

func newMemSchedules() *memSchedules { return &memSchedules{} }

func (m *memSchedules) Upsert(_ context.Context, s *model.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ScreenID == s.ScreenID && it.Date == s.Date && it.MovieID == s.MovieID {
			it.Showtimes = append([]string(nil), s.Showtimes...)
			it.Active = true
			it.UpdatedAt = s.UpdatedAt
			return nil
		}
	}
	m.seq++
	cp := *s
	cp.ID = m.seq
	cp.Showtimes = append([]string(nil), s.Showtimes...)
	m.items = append(m.items, &cp)
	return nil
}

func (m *memSchedules) Delete(_ context.Context, screenID, date, movieID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.items {
		if it.ScreenID == screenID && it.Date == date && it.MovieID == movieID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *memSchedules) ListActive(_ context.Context, screenID, date string) ([]model.Schedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Schedule, 0)
	for _, it := range m.items {
		if it.Active && it.ScreenID == screenID && it.Date == date {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *memSchedules) DeactivateBefore(_ context.Context, screenID, date string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, it := range m.items {
		if it.Active && it.Date < date && (screenID == "" || it.ScreenID == screenID) {
			it.Active = false
			n++
		}
	}
	return n, nil
}

type memLedger struct {
	mu     sync.Mutex
	byCode map[string]*model.Booking
}

func newMemLedger() *memLedger { return &memLedger{byCode: make(map[string]*model.Booking)} }

func copyBooking(b *model.Booking) *model.Booking {
	cp := *b
	cp.Seats = append([]model.BookedSeat(nil), b.Seats...)
	return &cp
}

func (m *memLedger) InsertConfirmed(_ context.Context, b *model.Booking) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	taken := make(map[string]struct{})
	for _, existing := range m.byCode {
		if existing.Status != model.BookingConfirmed || existing.Occurrence.Key() != b.Occurrence.Key() {
			continue
		}
		for _, key := range existing.SeatKeys() {
			taken[key] = struct{}{}
		}
	}
	var conflicts []string
	for _, key := range b.SeatKeys() {
		if _, ok := taken[key]; ok {
			conflicts = append(conflicts, key)
		}
	}
	if len(conflicts) > 0 {
		return conflicts, nil
	}
	m.byCode[b.Code] = copyBooking(b)
	return nil, nil
}

func (m *memLedger) ListConfirmed(_ context.Context, occ model.Occurrence) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range m.byCode {
		if b.Status == model.BookingConfirmed && b.Occurrence.Key() == occ.Key() {
			out = append(out, *copyBooking(b))
		}
	}
	return out, nil
}

func (m *memLedger) ListByOccurrence(_ context.Context, occ model.Occurrence) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range m.byCode {
		if b.Occurrence.Key() == occ.Key() {
			out = append(out, *copyBooking(b))
		}
	}
	return out, nil
}

func (m *memLedger) GetByCode(_ context.Context, code string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byCode[code]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBooking(b), nil
}

func (m *memLedger) Update(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byCode[b.Code]; !ok {
		return ErrNotFound
	}
	m.byCode[b.Code] = copyBooking(b)
	return nil
}

func (m *memLedger) ListConfirmedStartingBefore(_ context.Context, cutoff time.Time) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booking, 0)
	for _, b := range m.byCode {
		if b.Status != model.BookingConfirmed {
			continue
		}
		startsAt, err := b.Occurrence.StartsAt()
		if err != nil {
			continue
		}
		if startsAt.Before(cutoff) {
			out = append(out, *copyBooking(b))
		}
	}
	return out, nil
}

type memMovies struct {
	byID map[string]*model.Movie
}

func (m *memMovies) GetMovie(_ context.Context, id string) (*model.Movie, error) {
	mv, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *mv
	return &cp, nil
}

type recordSink struct {
	mu        sync.Mutex
	confirmed []string
	cancelled []string
}

func (s *recordSink) BookingConfirmed(_ context.Context, b *model.Booking) {
	s.mu.Lock()
	s.confirmed = append(s.confirmed, b.Code)
	s.mu.Unlock()
}

func (s *recordSink) BookingCancelled(_ context.Context, b *model.Booking) {
	s.mu.Lock()
	s.cancelled = append(s.cancelled, b.Code)
	s.mu.Unlock()
}

// testClock is the frozen wall clock the fixtures run against.  The
// seeded show plays two weeks later at 19:00.
var testClock = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

const (
	testScreen   = "1"
	testDate     = "2026-09-15"
	testShowtime = "19:00"
	testMovie    = "m1"
)

type fixture struct {
	eng       *Engine
	layouts   *memLayouts
	schedules *memSchedules
	ledger    *memLedger
	movies    *memMovies
	sink      *recordSink
	hub       *broadcast.Hub
}

func testLayout() *model.ScreenLayout {
	return &model.ScreenLayout{
		ScreenID: testScreen,
		Meta:     model.LayoutMeta{Rows: 3, Cols: 4, AisleCols: []int{2}},
		Classes: []model.SeatClass{
			{Name: "GOLD", Tier: 1, PriceCents: 50000, Color: "#d4af37"},
			{Name: "SILVER", Tier: 2, PriceCents: 30000, Color: "#c0c0c0"},
		},
		Seats: []model.Seat{
			{ID: model.SeatID{Row: "A", Number: 1}, Class: "GOLD", PriceCents: 50000, Active: true, GridRow: 0, GridCol: 0},
			{ID: model.SeatID{Row: "A", Number: 2}, Class: "GOLD", PriceCents: 50000, Active: true, GridRow: 0, GridCol: 1},
			{ID: model.SeatID{Row: "A", Number: 3}, Class: "GOLD", PriceCents: 50000, Active: true, GridRow: 0, GridCol: 2},
			{ID: model.SeatID{Row: "B", Number: 1}, Class: "SILVER", PriceCents: 30000, Active: true, GridRow: 1, GridCol: 0},
			{ID: model.SeatID{Row: "B", Number: 2}, Class: "SILVER", PriceCents: 30000, Active: true, GridRow: 1, GridCol: 1},
			{ID: model.SeatID{Row: "C", Number: 1}, Class: "SILVER", PriceCents: 30000, Active: false, GridRow: 2, GridCol: 0},
		},
	}
}

// newFixture builds an engine over fresh in-memory stores, seeded with
// the test layout, an active schedule for the test occurrence, and one
// released movie.  The clock is frozen at testClock.
func newFixture(t *testing.T, policy Policy) *fixture {
	t.Helper()
	f := &fixture{
		layouts:   newMemLayouts(),
		schedules: newMemSchedules(),
		ledger:    newMemLedger(),
		movies: &memMovies{byID: map[string]*model.Movie{
			testMovie: {ID: testMovie, Title: "The Long Run", ReleaseDate: "2026-08-01", AdvanceBooking: false},
		}},
		sink: &recordSink{},
		hub:  broadcast.NewHub(8),
	}
	require.NoError(t, f.layouts.ReplaceLayout(context.Background(), testLayout()))
	require.NoError(t, f.schedules.Upsert(context.Background(), &model.Schedule{
		ScreenID:  testScreen,
		MovieID:   testMovie,
		Date:      testDate,
		Showtimes: []string{"14:00", testShowtime},
		Active:    true,
	}))
	f.eng = New(f.layouts, f.schedules, f.ledger, f.movies, f.hub, f.sink, policy)
	f.eng.now = func() time.Time { return testClock }
	return f
}

func (f *fixture) reserve(t *testing.T, seats ...string) *model.Booking {
	t.Helper()
	b, err := f.eng.Reserve(context.Background(), ReserveRequest{
		ScreenID: testScreen,
		Date:     testDate,
		Showtime: testShowtime,
		SeatKeys: seats,
		Contact:  model.Contact{Name: "Asha Rao", Email: "asha@example.com"},
	})
	require.NoError(t, err)
	return b
}

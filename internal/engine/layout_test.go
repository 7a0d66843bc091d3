package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatgrid/theatre-booking/internal/model"
)

func TestGetLayoutIncludesInactiveSeats(t *testing.T) {
	f := newFixture(t, Policy{})

	layout, err := f.eng.GetLayout(context.Background(), testScreen)
	require.NoError(t, err)
	assert.Len(t, layout.Seats, 6, "layouts keep soft-deleted seats for audit")
	require.NotNil(t, layout.SeatByKey("C1"))
	assert.False(t, layout.SeatByKey("C1").Active)
}

func TestReplaceLayoutIsFullReplace(t *testing.T) {
	f := newFixture(t, Policy{})

	smaller := &model.ScreenLayout{
		ScreenID: testScreen,
		Meta:     model.LayoutMeta{Rows: 1, Cols: 2},
		Classes:  []model.SeatClass{{Name: "GOLD", Tier: 1, PriceCents: 50000}},
		Seats: []model.Seat{
			{ID: model.SeatID{Row: "A", Number: 1}, Class: "GOLD", PriceCents: 50000, Active: true},
			{ID: model.SeatID{Row: "A", Number: 2}, Class: "GOLD", PriceCents: 50000, Active: true, GridCol: 1},
		},
	}
	_, err := f.eng.ReplaceLayout(context.Background(), smaller)
	require.NoError(t, err)

	stored, err := f.eng.GetLayout(context.Background(), testScreen)
	require.NoError(t, err)
	assert.Len(t, stored.Seats, 2)
	assert.Nil(t, stored.SeatByKey("B1"), "seats missing from the request are gone")
	assert.Equal(t, testClock, stored.UpdatedAt)
}

func TestReplaceLayoutNormalizesSeatIdentities(t *testing.T) {
	f := newFixture(t, Policy{})

	layout := &model.ScreenLayout{
		ScreenID: "3",
		Meta:     model.LayoutMeta{Rows: 1, Cols: 1},
		Classes:  []model.SeatClass{{Name: "GOLD", Tier: 1, PriceCents: 50000}},
		Seats: []model.Seat{
			{ID: model.SeatID{Row: "a", Number: 1}, Class: "GOLD", PriceCents: 50000, Active: true},
		},
	}
	stored, err := f.eng.ReplaceLayout(context.Background(), layout)
	require.NoError(t, err)
	assert.Equal(t, "A", stored.Seats[0].ID.Row)
}

func TestReplaceLayoutRejections(t *testing.T) {
	f := newFixture(t, Policy{})

	base := func() *model.ScreenLayout {
		return &model.ScreenLayout{
			ScreenID: "3",
			Meta:     model.LayoutMeta{Rows: 2, Cols: 2},
			Classes:  []model.SeatClass{{Name: "GOLD", Tier: 1, PriceCents: 50000}},
			Seats: []model.Seat{
				{ID: model.SeatID{Row: "A", Number: 1}, Class: "GOLD", PriceCents: 50000, Active: true},
			},
		}
	}
	var ve *ValidationError

	l := base()
	l.Meta.Rows = 0
	_, err := f.eng.ReplaceLayout(context.Background(), l)
	assert.ErrorAs(t, err, &ve)

	l = base()
	l.Seats = nil
	_, err = f.eng.ReplaceLayout(context.Background(), l)
	assert.ErrorAs(t, err, &ve)

	l = base()
	l.Seats = append(l.Seats, model.Seat{ID: model.SeatID{Row: "A", Number: 1}, Class: "GOLD", Active: true})
	_, err = f.eng.ReplaceLayout(context.Background(), l)
	assert.ErrorAs(t, err, &ve)

	l = base()
	l.Seats[0].Class = "PLATINUM"
	_, err = f.eng.ReplaceLayout(context.Background(), l)
	assert.ErrorAs(t, err, &ve)

	l = base()
	l.Seats[0].GridCol = 5
	_, err = f.eng.ReplaceLayout(context.Background(), l)
	assert.ErrorAs(t, err, &ve)

	l = base()
	l.Classes = append(l.Classes, model.SeatClass{Name: "GOLD", Tier: 2, PriceCents: 10000})
	_, err = f.eng.ReplaceLayout(context.Background(), l)
	assert.ErrorAs(t, err, &ve)
}

func TestGetLayoutUnknownScreen(t *testing.T) {
	f := newFixture(t, Policy{})
	_, err := f.eng.GetLayout(context.Background(), "99")
	assert.ErrorIs(t, err, ErrNotFound)
}

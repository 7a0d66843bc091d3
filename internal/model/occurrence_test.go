package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOccurrenceCanonicalizes(t *testing.T) {
	occ, err := NewOccurrence("1", "2026-09-15", "7:00 PM")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-15", occ.Date)
	assert.Equal(t, "19:00", occ.Showtime)
	assert.Equal(t, "1|2026-09-15|19:00", occ.Key())
}

func TestNewOccurrenceSameSlotSameKey(t *testing.T) {
	a, err := NewOccurrence("1", "2026-09-15", "19:00")
	require.NoError(t, err)
	b, err := NewOccurrence("1", "2026-09-15", "7:00 pm")
	require.NoError(t, err)
	assert.Equal(t, a.Key(), b.Key())
}

func TestOccurrenceStartsAt(t *testing.T) {
	occ, err := NewOccurrence("1", "2026-09-15", "19:30")
	require.NoError(t, err)
	at, err := occ.StartsAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 15, 19, 30, 0, 0, time.UTC), at)
}

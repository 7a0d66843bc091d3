package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeatKey(t *testing.T) {
	cases := []struct {
		in   string
		want SeatID
	}{
		{"A7", SeatID{Row: "A", Number: 7}},
		{"a7", SeatID{Row: "A", Number: 7}},
		{"A-7", SeatID{Row: "A", Number: 7}},
		{"a 7", SeatID{Row: "A", Number: 7}},
		{"  B12 ", SeatID{Row: "B", Number: 12}},
		{"AA3", SeatID{Row: "AA", Number: 3}},
	}
	for _, tc := range cases {
		got, err := ParseSeatKey(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseSeatKeyRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "7", "A", "A0", "A-7x", "A--7", "A7.5"} {
		_, err := ParseSeatKey(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseSeatKeyRejectsNonASCIIRowLabels(t *testing.T) {
	// Row labels are ASCII letters; multi-byte input must fail whole
	// instead of being split mid-rune into a mangled row.
	for _, in := range []string{"Á7", "Ω1", "席7", "é-3"} {
		id, err := ParseSeatKey(in)
		require.Error(t, err, "input %q", in)
		assert.Empty(t, id.Row, "input %q must not yield a partial row", in)
	}
}

func TestSeatKeyRoundTrip(t *testing.T) {
	id, err := ParseSeatKey("c-14")
	require.NoError(t, err)
	assert.Equal(t, "C14", id.Key())

	again, err := ParseSeatKey(id.Key())
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

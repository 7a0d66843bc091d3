package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDayCanonicalKey(t *testing.T) {
	cases := []struct {
		in  string
		key string
	}{
		{"19:00", "19:00"},
		{"7:00 PM", "19:00"},
		{"7:00pm", "19:00"},
		{"7 PM", "19:00"},
		{"09:30", "09:30"},
		{"9:30 am", "09:30"},
		{"00:00", "00:00"},
		{"12:00 PM", "12:00"},
		{"12:00 AM", "00:00"},
	}
	for _, tc := range cases {
		tod, err := ParseTimeOfDay(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.key, tod.Key(), "input %q", tc.in)
	}
}

func TestParseTimeOfDayRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "25:00", "7:60 PM", "noon", "19:00:30"} {
		_, err := ParseTimeOfDay(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestTimeOfDayDisplay(t *testing.T) {
	tod, err := ParseTimeOfDay("19:05")
	require.NoError(t, err)
	assert.Equal(t, "7:05 PM", tod.Display())

	tod, err = ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, "9:30 AM", tod.Display())
}

func TestTimeOfDayAt(t *testing.T) {
	date, err := ParseDate("2026-09-15")
	require.NoError(t, err)
	tod := TimeOfDay{Hour: 19, Minute: 30}
	assert.Equal(t, time.Date(2026, 9, 15, 19, 30, 0, 0, time.UTC), tod.At(date))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-09-15 ")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-15", d.Format(DateLayout))

	_, err = ParseDate("15/09/2026")
	assert.Error(t, err)
}

package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLongDate(t *testing.T) {
	loc := time.UTC

	cases := []struct {
		in   string
		want time.Time
	}{
		{"July 24th, 2024", time.Date(2024, 7, 24, 0, 0, 0, 0, loc)},
		{"July 24, 2024", time.Date(2024, 7, 24, 0, 0, 0, 0, loc)},
		{"March 1st 2025", time.Date(2025, 3, 1, 0, 0, 0, 0, loc)},
		{"Jan 2, 2026", time.Date(2026, 1, 2, 0, 0, 0, 0, loc)},
		{"2024-07-24", time.Date(2024, 7, 24, 0, 0, 0, 0, loc)},
		{"  August 3rd, 2024  ", time.Date(2024, 8, 3, 0, 0, 0, 0, loc)},
	}

	for _, tc := range cases {
		got, err := ParseLongDate(tc.in, loc)
		require.NoError(t, err, tc.in)
		assert.True(t, got.Equal(tc.want), "%s: got %v", tc.in, got)
	}
}

func TestParseLongDateRejectsGarbage(t *testing.T) {
	_, err := ParseLongDate("not a date", time.UTC)
	assert.Error(t, err)
}

func TestParseClockTime(t *testing.T) {
	cases := []struct {
		in         string
		hour, min  int
	}{
		{"3:30 PM", 15, 30},
		{"3:30PM", 15, 30},
		{"12:00 AM", 0, 0},
		{"12:00 PM", 12, 0},
		{"09:15", 9, 15},
		{"23:45", 23, 45},
	}

	for _, tc := range cases {
		h, m, err := ParseClockTime(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.hour, h, tc.in)
		assert.Equal(t, tc.min, m, tc.in)
	}
}

func TestResolveStart(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	start, err := ResolveStart("July 24th, 2024", "3:30 PM", loc)
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2024, 7, 24, 15, 30, 0, 0, loc)))
}

func TestResolveStartBadInput(t *testing.T) {
	_, err := ResolveStart("July 24th, 2024", "half past three", time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date/time format")

	_, err = ResolveStart("someday", "3:30 PM", time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid date/time format")
}

func TestParseWallClock(t *testing.T) {
	min, err := ParseWallClock("09:00")
	require.NoError(t, err)
	assert.Equal(t, 540, min)

	min, err = ParseWallClock("17:30")
	require.NoError(t, err)
	assert.Equal(t, 1050, min)

	_, err = ParseWallClock("9am")
	assert.Error(t, err)
}

func TestOverlaps(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2024, 7, 24, h, 0, 0, 0, time.UTC)
	}

	// Half-open: back-to-back slots do not overlap.
	assert.False(t, Overlaps(at(9), at(10), at(10), at(11)))
	assert.False(t, Overlaps(at(10), at(11), at(9), at(10)))

	assert.True(t, Overlaps(at(9), at(11), at(10), at(12)))
	assert.True(t, Overlaps(at(9), at(12), at(10), at(11)))
	assert.True(t, Overlaps(at(10), at(11), at(10), at(11)))
}

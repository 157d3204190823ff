package timeparse

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Human-entered booking forms submit long-form dates ("July 24th, 2024")
// and 12-hour clock times ("3:30 PM"). Everything downstream works with
// absolute instants; parsing happens here and nowhere else.

var ordinalRe = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)

var dateLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"2006-01-02",
}

// ParseLongDate parses a long-form date, tolerating ordinal day suffixes.
func ParseLongDate(dateText string, loc *time.Location) (time.Time, error) {
	cleaned := ordinalRe.ReplaceAllString(strings.TrimSpace(dateText), "$1")

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, cleaned, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", dateText)
}

// ParseClockTime parses a 12-hour clock time like "3:30 PM".
func ParseClockTime(timeText string) (hour, minute int, err error) {
	cleaned := strings.ToUpper(strings.TrimSpace(timeText))

	for _, layout := range []string{"3:04 PM", "3:04PM", "15:04"} {
		if t, perr := time.Parse(layout, cleaned); perr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, fmt.Errorf("unrecognized time %q", timeText)
}

// ResolveStart merges a date text and a time text into one instant.
func ResolveStart(dateText, timeText string, loc *time.Location) (time.Time, error) {
	day, err := ParseLongDate(dateText, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time format: %s %s", dateText, timeText)
	}

	hour, minute, err := ParseClockTime(timeText)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time format: %s %s", dateText, timeText)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, loc), nil
}

// ParseWallClock converts a shift's "15:04" string to minutes past midnight.
func ParseWallClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid wall-clock time %q", hm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinutesOfDay returns the instant's wall-clock position as minutes past
// midnight, ignoring the date component.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

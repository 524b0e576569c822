package apod

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the date format used on the wire.
const DateLayout = "2006-01-02"

// FirstDate is the first day APOD published a picture.
var FirstDate = time.Date(1995, time.June, 16, 0, 0, 0, 0, time.UTC)

var (
	ErrDateFormat     = errors.New("date must be formatted YYYY-MM-DD")
	ErrDateOutOfRange = errors.New("date out of range")
)

// Day truncates t to its calendar date in UTC, keeping t's local year, month
// and day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date the way the API expects it.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads user input. An empty value or "today" resolves to now's
// date; anything else must be YYYY-MM-DD and within the published range.
func ParseDate(input string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || strings.EqualFold(trimmed, "today") {
		return Day(now), nil
	}
	t, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateFormat, trimmed)
	}
	if err := ValidateDate(t, now); err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// ValidateDate checks that date lies within [FirstDate, today].
func ValidateDate(date, now time.Time) error {
	d := Day(date)
	today := Day(now)
	if d.Before(FirstDate) || d.After(today) {
		return fmt.Errorf("%w: date must be between %s and %s",
			ErrDateOutOfRange, FirstDate.Format("Jan 2, 2006"), today.Format("Jan 2, 2006"))
	}
	return nil
}

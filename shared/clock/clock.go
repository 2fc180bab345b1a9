// Package clock handles wall-clock times of day as minutes since midnight.
package clock

import (
	"errors"
	"fmt"
	"time"
)

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

var ErrInvalidClock = errors.New("time must be in HH:MM format")

// Parse reads a strict "HH:MM" value. "24:00" is accepted as the end of the day.
func Parse(value string) (int, error) {
	if len(value) != 5 || value[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	hours, okHours := digits(value[0:2])
	minutes, okMinutes := digits(value[3:5])

	if !okHours || !okMinutes || minutes >= MinutesPerHour {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	total := hours*MinutesPerHour + minutes
	if total > MinutesPerDay {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}

	return total, nil
}

func digits(s string) (int, bool) {
	n := 0

	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}

		n = n*10 + int(r-'0')
	}

	return n, true
}

// Format renders minutes since midnight as "HH:MM".
func Format(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/MinutesPerHour, minutes%MinutesPerHour)
}

// FromTime returns the time of day of t in minutes, ignoring seconds.
func FromTime(t time.Time) int {
	return t.Hour()*MinutesPerHour + t.Minute()
}

// On places minutes as a wall-clock time on the calendar day of date, in date's location.
// Daylight saving changes do not shift the result.
func On(date time.Time, minutes int) time.Time {
	y, m, d := date.Date()

	return time.Date(y, m, d, minutes/MinutesPerHour, minutes%MinutesPerHour, 0, 0, date.Location())
}

// Interval is a half-open range [Start, End) in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

func NewInterval(start, end string) (Interval, error) {
	s, err := Parse(start)
	if err != nil {
		return Interval{}, err
	}

	e, err := Parse(end)
	if err != nil {
		return Interval{}, err
	}

	return Interval{Start: s, End: e}, nil
}

func (i Interval) Empty() bool {
	return i.End <= i.Start
}

func (i Interval) Duration() int {
	if i.Empty() {
		return 0
	}

	return i.End - i.Start
}

// Overlaps reports whether the two ranges share at least one minute. Touching ends do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && i.End > other.Start
}

// Contains reports whether other lies fully inside i.
func (i Interval) Contains(other Interval) bool {
	return !i.Empty() && other.Start >= i.Start && other.End <= i.End
}

// Intersect returns the common part of both ranges, empty when they are disjoint.
func (i Interval) Intersect(other Interval) Interval {
	return Interval{Start: max(i.Start, other.Start), End: min(i.End, other.End)}
}

func (i Interval) String() string {
	return Format(i.Start) + "-" + Format(i.End)
}

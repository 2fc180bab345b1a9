package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smashroom/shared/clock"
)

var errScheduleType = errors.New("schedule must be stored as json")

// DaySchedule is the opening window of a room on one weekday.
type DaySchedule struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsActive  bool   `json:"isActive"`
}

// Hours returns the opening window in minutes. Closed or malformed days yield an empty interval.
func (d DaySchedule) Hours() clock.Interval {
	if !d.IsActive {
		return clock.Interval{}
	}

	hours, err := clock.NewInterval(d.StartTime, d.EndTime)
	if err != nil {
		return clock.Interval{}
	}

	return hours
}

// Schedule keeps one entry per weekday.
type Schedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DefaultSchedule opens the room every day between open and close.
func DefaultSchedule(open, close string) Schedule {
	day := DaySchedule{StartTime: open, EndTime: close, IsActive: true}

	return Schedule{
		Monday:    day,
		Tuesday:   day,
		Wednesday: day,
		Thursday:  day,
		Friday:    day,
		Saturday:  day,
		Sunday:    day,
	}
}

func (s Schedule) Day(weekday time.Weekday) DaySchedule {
	switch weekday {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	default:
		return s.Sunday
	}
}

func (s Schedule) days() map[string]DaySchedule {
	return map[string]DaySchedule{
		"monday":    s.Monday,
		"tuesday":   s.Tuesday,
		"wednesday": s.Wednesday,
		"thursday":  s.Thursday,
		"friday":    s.Friday,
		"saturday":  s.Saturday,
		"sunday":    s.Sunday,
	}
}

// Validate checks every active day for well-formed clocks and a start before the end.
func (s Schedule) Validate() error {
	for name, day := range s.days() {
		if !day.IsActive {
			continue
		}

		hours, err := clock.NewInterval(day.StartTime, day.EndTime)
		if err != nil {
			return fmt.Errorf("schedule.%s: %w", name, err)
		}

		if hours.Empty() {
			return fmt.Errorf("schedule.%s: startTime must be before endTime", name)
		}
	}

	return nil
}

func (s Schedule) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedule: %w", err)
	}

	return b, nil
}

func (s *Schedule) Scan(src any) error {
	var b []byte

	switch v := src.(type) {
	case nil:
		*s = Schedule{}

		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errScheduleType
	}

	if err := json.Unmarshal(b, s); err != nil {
		return fmt.Errorf("failed to unmarshal schedule: %w", err)
	}

	return nil
}

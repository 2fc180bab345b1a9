// Package engine answers which rooms can host a package at which times.
// It is pure: callers load rooms, packages and bookings and pass them in.
package engine

import (
	"slices"
	"time"

	catalogModel "smashroom/internal/domains/catalog/model"
	roomModel "smashroom/internal/domains/room/model"
	"smashroom/shared/clock"
	"smashroom/shared/constant"
	"smashroom/shared/failure"
	"smashroom/shared/timezone"
)

const DefaultStepMinutes = 30

// Booking is the part of a ledger entry that occupies a room.
type Booking struct {
	ID        int64
	RoomID    int64
	Date      string
	Span      clock.Interval
	Cancelled bool
}

type Slot struct {
	Span             clock.Interval
	AvailableRoomIDs []int64
}

// Overlaps uses half-open ranges, so back-to-back bookings never collide.
func Overlaps(a, b clock.Interval) bool {
	return a.Overlaps(b)
}

// ParseDate accepts only YYYY-MM-DD.
func ParseDate(date string) (time.Time, error) {
	day, err := timezone.ParseDay(date)
	if err != nil {
		return time.Time{}, failure.Validation("date", "must be a valid date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	return day, nil
}

// RoomEligible reports whether the room can take the package at all, ignoring time.
func RoomEligible(room roomModel.Room, pkg catalogModel.Package) bool {
	return room.Bookable() && room.Fits(pkg.MaxPeople)
}

// IsRoomAvailable fails closed: any doubt about the room or its hours means not available.
func IsRoomAvailable(room roomModel.Room, date time.Time, span clock.Interval, bookings []Booking, excludeID int64) bool {
	if !room.Bookable() || span.Empty() {
		return false
	}

	hours := room.Schedule.Day(date.Weekday()).Hours()
	if !hours.Contains(span) {
		return false
	}

	day := date.Format(constant.DayFormat)

	for _, booking := range bookings {
		if booking.RoomID != room.ID || booking.Cancelled || booking.Date != day {
			continue
		}

		if excludeID != 0 && booking.ID == excludeID {
			continue
		}

		if Overlaps(booking.Span, span) {
			return false
		}
	}

	return true
}

// ComputeSlots lists every start on the step grid, anchored at the window start, where at least one eligible room is free for the
// whole package duration. Slots come out by start time with room ids ascending.
func ComputeSlots(date time.Time, pkg catalogModel.Package, rooms []roomModel.Room, bookings []Booking, window clock.Interval, step int) []Slot {
	if pkg.Duration <= 0 {
		return []Slot{}
	}

	if step <= 0 {
		step = DefaultStepMinutes
	}

	eligible := make([]roomModel.Room, 0, len(rooms))
	for _, room := range rooms {
		if RoomEligible(room, pkg) {
			eligible = append(eligible, room)
		}
	}

	slices.SortFunc(eligible, func(a, b roomModel.Room) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	open := openHours(eligible, date.Weekday())
	anchor := open.Start

	if !window.Empty() {
		open = open.Intersect(window)
		anchor = window.Start
	}

	slots := []Slot{}
	if open.Empty() {
		return slots
	}

	for start := firstOnGrid(anchor, open.Start, step); start+pkg.Duration <= open.End; start += step {
		span := clock.Interval{Start: start, End: start + pkg.Duration}

		var free []int64

		for _, room := range eligible {
			if IsRoomAvailable(room, date, span, bookings, 0) {
				free = append(free, room.ID)
			}
		}

		if len(free) > 0 {
			slots = append(slots, Slot{Span: span, AvailableRoomIDs: free})
		}
	}

	return slots
}

// firstOnGrid returns the earliest grid point anchored at anchor that is not before from.
func firstOnGrid(anchor, from, step int) int {
	if from <= anchor {
		return anchor
	}

	return anchor + (from-anchor+step-1)/step*step
}

// openHours spans from the earliest opening to the latest closing among rooms open that day.
func openHours(rooms []roomModel.Room, weekday time.Weekday) clock.Interval {
	var union clock.Interval

	for _, room := range rooms {
		hours := room.Schedule.Day(weekday).Hours()
		if hours.Empty() {
			continue
		}

		if union.Empty() {
			union = hours

			continue
		}

		union.Start = min(union.Start, hours.Start)
		union.End = max(union.End, hours.End)
	}

	return union
}

package model

import "smashroom/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldCapacity    = "capacity"
	FieldMaxPeople   = "max_people"
	FieldAvailable   = "available"
	FieldIsActive    = "is_active"
	FieldImage       = "image"
	FieldSchedule    = "schedule"
)

type Room struct {
	ID          int64    `db:"id"`
	Name        string   `db:"name"`
	Description string   `db:"description"`
	Capacity    int      `db:"capacity"`
	MaxPeople   int      `db:"max_people"`
	Available   bool     `db:"available"`
	IsActive    bool     `db:"is_active"`
	Image       string   `db:"image"`
	Schedule    Schedule `db:"schedule"`
	model.Metadata
}

// Bookable reports whether the room takes new bookings at all.
func (r Room) Bookable() bool {
	return r.Available && r.IsActive
}

// Fits reports whether a group of people fits in the room.
func (r Room) Fits(people int) bool {
	return r.MaxPeople >= people
}

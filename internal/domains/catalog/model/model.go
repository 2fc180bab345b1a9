package model

import (
	"smashroom/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "packages"
	EntityName = "package"

	FieldID             = "id"
	FieldName           = "name"
	FieldPrice          = "price"
	FieldDuration       = "duration"
	FieldMaxPeople      = "max_people"
	FieldPreferredRooms = "preferred_rooms"
	FieldIsActive       = "is_active"
	FieldIsBestseller   = "is_bestseller"
)

// Package is a sellable session. Duration is in minutes and sizes every slot offered for it.
type Package struct {
	ID             int64         `db:"id"`
	Name           string        `db:"name"`
	Description    string        `db:"description"`
	Price          float64       `db:"price"`
	DepositAmount  float64       `db:"deposit_amount"`
	Duration       int           `db:"duration"`
	MaxPeople      int           `db:"max_people"`
	PreferredRooms pq.Int64Array `db:"preferred_rooms"`
	IsActive       bool          `db:"is_active"`
	IsBestseller   bool          `db:"is_bestseller"`
	model.Metadata
}

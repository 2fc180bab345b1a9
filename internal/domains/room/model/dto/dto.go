package dto

import (
	"encoding/json"
	"fmt"
	"mime/multipart"

	"smashroom/internal/domains/room/model"
	"smashroom/shared"
	gDto "smashroom/shared/dto"
	"smashroom/shared/failure"
	gModel "smashroom/shared/model"
	"smashroom/shared/timezone"
)

type CreateRoomRequest struct {
	Name        string                `json:"name"        validate:"required,max=100"`
	Description string                `json:"description" validate:"omitempty,max=1000"`
	Capacity    int                   `json:"capacity"    validate:"omitempty,min=0"`
	MaxPeople   int                   `json:"maxPeople"   validate:"required,min=1"`
	Available   *bool                 `json:"available"`
	IsActive    *bool                 `json:"isActive"`
	Schedule    *model.Schedule       `json:"schedule"`
	Image       *multipart.FileHeader `json:"image"       validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	ImageFile   multipart.File        `json:"-"`
}

func (c *CreateRoomRequest) Validate() error {
	if c.Schedule == nil {
		return nil
	}

	if err := c.Schedule.Validate(); err != nil {
		return failure.BadRequest(err)
	}

	return nil
}

// ToModel builds the room row. Missing flags default to true and a missing schedule to the default window.
func (c *CreateRoomRequest) ToModel(id int64, user, imageURL string, fallback model.Schedule) model.Room {
	schedule := fallback
	if c.Schedule != nil {
		schedule = *c.Schedule
	}

	return model.Room{
		ID:          id,
		Name:        c.Name,
		Description: c.Description,
		Capacity:    c.Capacity,
		MaxPeople:   c.MaxPeople,
		Available:   boolOr(c.Available, true),
		IsActive:    boolOr(c.IsActive, true),
		Image:       imageURL,
		Schedule:    schedule,
		Metadata:    gModel.NewMetadata(timezone.Now(), user),
	}
}

type UpdateRoomRequest struct {
	Name        string                `db:"name"        json:"name"        validate:"omitempty,max=100"`
	Description *string               `db:"description" json:"description" validate:"omitempty,max=1000"`
	Capacity    *int                  `db:"capacity"    json:"capacity"    validate:"omitempty,min=0"`
	MaxPeople   *int                  `db:"max_people"  json:"maxPeople"   validate:"omitempty,min=1"`
	Available   *bool                 `db:"available"   json:"available"`
	IsActive    *bool                 `db:"is_active"   json:"isActive"`
	Schedule    *model.Schedule       `db:"schedule"    json:"schedule"`
	Image       *multipart.FileHeader `json:"image"     validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	ImageFile   multipart.File        `json:"-"`
}

func (u *UpdateRoomRequest) Validate() error {
	if u.Schedule == nil {
		return nil
	}

	if err := u.Schedule.Validate(); err != nil {
		return failure.BadRequest(err)
	}

	return nil
}

// ParseSchedule decodes the schedule form field of a multipart request.
func ParseSchedule(raw string) (*model.Schedule, error) {
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	var schedule model.Schedule
	if err := json.Unmarshal([]byte(raw), &schedule); err != nil {
		return nil, failure.BadRequest(fmt.Errorf("schedule must be a JSON object: %w", err))
	}

	return &schedule, nil
}

type RoomResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Capacity    int            `json:"capacity"`
	MaxPeople   int            `json:"maxPeople"`
	Available   bool           `json:"available"`
	IsActive    bool           `json:"isActive"`
	Image       string         `json:"image"`
	Schedule    model.Schedule `json:"schedule"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(model model.Room) {
	r.ID = model.ID
	r.Name = model.Name
	r.Description = model.Description
	r.Capacity = model.Capacity
	r.MaxPeople = model.MaxPeople
	r.Available = model.Available
	r.IsActive = model.IsActive
	r.Image = model.Image
	r.Schedule = model.Schedule
	r.Metadata.FromModel(model.Metadata)
}

type GetRoomsResponse struct {
	Rooms     []RoomResponse `json:"rooms"`
	TotalPage int            `json:"totalPage"`
	TotalData int            `json:"totalData"`
}

func (r *GetRoomsResponse) FromModels(models []model.Room, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Rooms = make([]RoomResponse, len(models))
	for i, mod := range models {
		r.Rooms[i].FromModel(mod)
	}
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}

	return *value
}

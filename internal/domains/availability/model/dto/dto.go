package dto

import (
	"net/http"

	"smashroom/internal/domains/availability/engine"
	roomModel "smashroom/internal/domains/room/model"
	"smashroom/shared"
	"smashroom/shared/clock"
	"smashroom/shared/constant"
)

// AvailabilityRequest carries the query of GET /api/bookings/availability.
type AvailabilityRequest struct {
	Date      string `json:"date"      validate:"required,date"`
	PackageID int64  `json:"packageId" validate:"required,min=1"`
	StartTime string `json:"startTime" validate:"omitempty,clock"`
	EndTime   string `json:"endTime"   validate:"omitempty,clock"`
	Type      string `json:"type"      validate:"omitempty,oneof=rooms slots"`
}

func (r *AvailabilityRequest) FromRequest(req *http.Request) {
	query := req.URL.Query()

	r.Date = query.Get(constant.RequestParamDate)
	r.StartTime = query.Get(constant.RequestParamStartTime)
	r.EndTime = query.Get(constant.RequestParamEndTime)
	r.Type = query.Get(constant.RequestParamType)

	if id, err := shared.ConvertStringToInt64(query.Get(constant.RequestParamPackageID)); err == nil {
		r.PackageID = id
	}
}

func (r AvailabilityRequest) WantsRooms() bool {
	return r.Type == constant.AvailabilityTypeRooms
}

type SlotResponse struct {
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	AvailableRoomIDs []int64 `json:"availableRoomIds"`
}

func FromSlots(slots []engine.Slot) []SlotResponse {
	res := make([]SlotResponse, len(slots))

	for i, slot := range slots {
		res[i] = SlotResponse{
			StartTime:        clock.Format(slot.Span.Start),
			EndTime:          clock.Format(slot.Span.End),
			AvailableRoomIDs: slot.AvailableRoomIDs,
		}
	}

	return res
}

type RoomResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	MaxPeople int    `json:"maxPeople"`
	Image     string `json:"image,omitempty"`
}

type AvailableRoomsResponse struct {
	Date      string         `json:"date"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	Rooms     []RoomResponse `json:"rooms"`
}

func (r *AvailableRoomsResponse) FromModels(date string, span clock.Interval, rooms []roomModel.Room) {
	r.Date = date
	r.StartTime = clock.Format(span.Start)
	r.EndTime = clock.Format(span.End)

	r.Rooms = make([]RoomResponse, len(rooms))
	for i, room := range rooms {
		r.Rooms[i] = RoomResponse{
			ID:        room.ID,
			Name:      room.Name,
			MaxPeople: room.MaxPeople,
			Image:     room.Image,
		}
	}
}

package dto

import (
	"smashroom/internal/domains/booking/model"
	"smashroom/shared"
	"smashroom/shared/clock"
	gDto "smashroom/shared/dto"
)

type CustomerRequest struct {
	Name  string `json:"name"  validate:"required,max=100"`
	Email string `json:"email" validate:"required,email,max=100"`
	Phone string `json:"phone" validate:"required,phone,max=30"`
}

type CreateBookingRequest struct {
	PackageID int64           `json:"packageId" validate:"required,min=1"`
	RoomID    int64           `json:"roomId"    validate:"required,min=1"`
	Date      string          `json:"date"      validate:"required,date"`
	StartTime string          `json:"startTime" validate:"required,clock"`
	NumPeople int             `json:"numPeople" validate:"required,min=1"`
	Customer  CustomerRequest `json:"customer"  validate:"required"`
	PromoCode string          `json:"promoCode" validate:"omitempty,max=32"`
	Comment   string          `json:"comment"   validate:"omitempty,max=1000"`
}

// UpdateBookingRequest is a shallow patch. Absent fields keep their stored value.
type UpdateBookingRequest struct {
	ID           int64            `json:"id"           validate:"required,min=1"`
	RoomID       *int64           `json:"roomId"       validate:"omitempty,min=1"`
	PackageID    *int64           `json:"packageId"    validate:"omitempty,min=1"`
	Date         *string          `json:"date"         validate:"omitempty,date"`
	StartTime    *string          `json:"startTime"    validate:"omitempty,clock"`
	NumPeople    *int             `json:"numPeople"    validate:"omitempty,min=1"`
	Customer     *CustomerRequest `json:"customer"`
	Status       *string          `json:"status"       validate:"omitempty,oneof=pending confirmed cancelled completed"`
	Comment      *string          `json:"comment"      validate:"omitempty,max=1000"`
	AdminComment *string          `json:"adminComment" validate:"omitempty,max=1000"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string   `json:"paymentStatus" validate:"required,oneof=UNPAID DEPOSIT_PAID PARTIALLY_PAID FULLY_PAID FAILED REFUNDED"`
	PaidAmount    *float64 `json:"paidAmount"    validate:"omitempty,gte=0"`
}

type CustomerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type BookingResponse struct {
	ID            int64            `json:"id"`
	RoomID        int64            `json:"roomId"`
	RoomName      string           `json:"roomName"`
	PackageID     int64            `json:"packageId"`
	PackageName   string           `json:"packageName"`
	Date          string           `json:"date"`
	StartTime     string           `json:"startTime"`
	EndTime       string           `json:"endTime"`
	NumPeople     int              `json:"numPeople"`
	Customer      CustomerResponse `json:"customer"`
	Status        string           `json:"status"`
	PaymentStatus string           `json:"paymentStatus"`
	TotalAmount   float64          `json:"totalAmount"`
	DepositAmount float64          `json:"depositAmount"`
	PaidAmount    float64          `json:"paidAmount"`
	PromoCode     string           `json:"promoCode,omitempty"`
	Comment       string           `json:"comment,omitempty"`
	AdminComment  string           `json:"adminComment,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	span := model.Span()

	r.ID = model.ID
	r.RoomID = model.RoomID
	r.RoomName = model.RoomName
	r.PackageID = model.PackageID
	r.PackageName = model.PackageName
	r.Date = model.Day()
	r.StartTime = clock.Format(span.Start)
	r.EndTime = clock.Format(span.End)
	r.NumPeople = model.NumPeople
	r.Customer = CustomerResponse{
		ID:    model.CustomerID,
		Name:  model.CustomerName,
		Email: model.CustomerEmail,
		Phone: model.CustomerPhone,
	}
	r.Status = model.Status
	r.PaymentStatus = model.PaymentStatus
	r.TotalAmount = model.TotalAmount
	r.DepositAmount = model.DepositAmount
	r.PaidAmount = model.PaidAmount
	r.PromoCode = model.PromoCode
	r.Comment = model.Comment
	r.AdminComment = model.AdminComment
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"totalPage"`
	TotalData int               `json:"totalData"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

package model

import (
	"time"

	"smashroom/internal/domains/availability/engine"
	"smashroom/shared/clock"
	"smashroom/shared/constant"
	"smashroom/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldRoomID        = "room_id"
	FieldRoomName      = "room_name"
	FieldPackageID     = "package_id"
	FieldPackageName   = "package_name"
	FieldBookingDate   = "booking_date"
	FieldStartTime     = "start_time"
	FieldEndTime       = "end_time"
	FieldNumPeople     = "num_people"
	FieldCustomerID    = "customer_id"
	FieldStatus        = "status"
	FieldPaymentStatus = "payment_status"
	FieldTotalAmount   = "total_amount"
	FieldDepositAmount = "deposit_amount"
	FieldPaidAmount    = "paid_amount"
	FieldPromoCode     = "promo_code"
	FieldComment       = "comment"
	FieldAdminComment  = "admin_comment"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Booking is one ledger row. Room and package names are copied at creation so later catalog
// edits do not rewrite history.
type Booking struct {
	ID            int64     `db:"id"`
	RoomID        int64     `db:"room_id"`
	RoomName      string    `db:"room_name"`
	PackageID     int64     `db:"package_id"`
	PackageName   string    `db:"package_name"`
	BookingDate   time.Time `db:"booking_date"`
	StartTime     time.Time `db:"start_time"`
	EndTime       time.Time `db:"end_time"`
	NumPeople     int       `db:"num_people"`
	CustomerID    int64     `db:"customer_id"`
	CustomerName  string    `db:"customer_name"  table:"customers" column:"name"`
	CustomerEmail string    `db:"customer_email" table:"customers" column:"email"`
	CustomerPhone string    `db:"customer_phone" table:"customers" column:"phone"`
	Status        string    `db:"status"`
	PaymentStatus string    `db:"payment_status"`
	TotalAmount   float64   `db:"total_amount"`
	DepositAmount float64   `db:"deposit_amount"`
	PaidAmount    float64   `db:"paid_amount"`
	PromoCode     string    `db:"promo_code"`
	Comment       string    `db:"comment"`
	AdminComment  string    `db:"admin_comment"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN customers ON customers.id = bookings.customer_id"
}

// Day renders the booking date without shifting it across time zones.
func (b Booking) Day() string {
	return b.BookingDate.Format(constant.DayFormat)
}

// Span is the occupied range in minutes since midnight.
func (b Booking) Span() clock.Interval {
	return clock.Interval{Start: clock.FromTime(b.StartTime), End: clock.FromTime(b.EndTime)}
}

func (b Booking) Cancelled() bool {
	return b.Status == StatusCancelled
}

// Occupancy converts ledger rows into the form the availability engine checks against.
func Occupancy(bookings []Booking) []engine.Booking {
	occupied := make([]engine.Booking, 0, len(bookings))

	for _, booking := range bookings {
		occupied = append(occupied, engine.Booking{
			ID:        booking.ID,
			RoomID:    booking.RoomID,
			Date:      booking.Day(),
			Span:      booking.Span(),
			Cancelled: booking.Cancelled(),
		})
	}

	return occupied
}

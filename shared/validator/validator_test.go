package validator_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"smashroom/shared/failure"
	"smashroom/shared/validator"
)

type customer struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phone"`
}

type bookingRequest struct {
	Date      string   `json:"date"      validate:"required,date"`
	StartTime string   `json:"startTime" validate:"required,clock"`
	NumPeople int      `json:"numPeople" validate:"gte=1,lte=20"`
	Status    string   `json:"status"    validate:"omitempty,oneof=pending confirmed cancelled completed"`
	Customer  customer `json:"customer"  validate:"required"`
}

type window struct {
	Open  string `json:"open"  validate:"required,clock"`
	Close string `json:"close" validate:"required,clock"`
}

func (w *window) Validate() error {
	if w.Open >= w.Close {
		return failure.Validation("open", "must be before close")
	}

	return nil
}

func validBooking() bookingRequest {
	return bookingRequest{
		Date:      "2024-07-16",
		StartTime: "14:00",
		NumPeople: 4,
		Status:    "pending",
		Customer: customer{
			Name:  "Jan Kowalski",
			Email: "jan@example.com",
			Phone: "+48 600 700 800",
		},
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*bookingRequest)
		message string
	}{
		{name: "valid", mutate: func(*bookingRequest) {}},
		{name: "missing date", mutate: func(b *bookingRequest) { b.Date = "" }, message: "date is required"},
		{name: "malformed date", mutate: func(b *bookingRequest) { b.Date = "16/07/2024" }, message: "date must be a date in YYYY-MM-DD format"},
		{name: "malformed start", mutate: func(b *bookingRequest) { b.StartTime = "2pm" }, message: "startTime must be a time in HH:MM format"},
		{name: "no people", mutate: func(b *bookingRequest) { b.NumPeople = 0 }, message: "numPeople must be greater than or equal to 1"},
		{name: "unknown status", mutate: func(b *bookingRequest) { b.Status = "paid" }, message: "status must be one of pending confirmed cancelled completed"},
		{name: "missing customer name", mutate: func(b *bookingRequest) { b.Customer.Name = "" }, message: "customer.name is required"},
		{name: "bad email", mutate: func(b *bookingRequest) { b.Customer.Email = "jan@" }, message: "customer.email must be a valid email address"},
		{name: "short phone", mutate: func(b *bookingRequest) { b.Customer.Phone = "600 700" }, message: "customer.phone must contain at least 9 digits"},
		{name: "phone with letters", mutate: func(b *bookingRequest) { b.Customer.Phone = "600700800x" }, message: "customer.phone must contain at least 9 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validBooking()
			tt.mutate(&data)

			err := validator.ValidateStruct(&data)

			if tt.message == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}

				return
			}

			if err == nil {
				t.Fatalf("expected %q, got nil", tt.message)
			}

			if err.Error() != tt.message {
				t.Errorf("expected %q, got %q", tt.message, err.Error())
			}

			if failure.GetCode(err) != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", failure.GetCode(err))
			}
		})
	}
}

func TestValidateStructRunsSelfValidation(t *testing.T) {
	err := validator.ValidateStruct(&window{Open: "22:00", Close: "10:00"})
	if err == nil || err.Error() != "open must be before close" {
		t.Fatalf("expected self validation error, got %v", err)
	}

	if err := validator.ValidateStruct(&window{Open: "10:00", Close: "22:00"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "valid required string", field: "test", tag: "required"},
		{name: "empty required string", field: "", tag: "required", expectError: true},
		{name: "valid clock", field: "17:30", tag: "clock"},
		{name: "end of day clock", field: "24:00", tag: "clock"},
		{name: "invalid clock", field: "25:00", tag: "clock", expectError: true},
		{name: "valid date", field: "2024-02-29", tag: "date"},
		{name: "invalid leap date", field: "2023-02-29", tag: "date", expectError: true},
		{name: "valid phone", field: "600700800", tag: "phone"},
		{name: "too short phone", field: "12345678", tag: "phone", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError bool
	}{
		{
			name: "valid json",
			body: `{"date":"2024-07-16","startTime":"14:00","numPeople":4,` +
				`"customer":{"name":"Jan","email":"jan@example.com","phone":"600700800"}}`,
		},
		{name: "malformed json", body: `{"date":`, expectError: true},
		{name: "missing customer", body: `{"date":"2024-07-16","startTime":"14:00","numPeople":4}`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data bookingRequest

			err := validator.Validate(strings.NewReader(tt.body), &data)

			if tt.expectError {
				var fail *failure.Failure
				if !errors.As(err, &fail) || fail.Code != http.StatusBadRequest {
					t.Errorf("expected 400 failure, got %v", err)
				}

				return
			}

			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PaymentStatus represents the payment status of a booking
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
	PaymentStatusRefunded  PaymentStatus = "Refunded"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// PassengerDetail holds per-seat passenger information
type PassengerDetail struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// PassengerDetails is stored as a JSONB column
type PassengerDetails []PassengerDetail

// Value implements the driver.Valuer interface
func (p PassengerDetails) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface
func (p *PassengerDetails) Scan(src interface{}) error {
	if src == nil {
		*p = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into PassengerDetails", src)
	}
	return json.Unmarshal(data, p)
}

// Booking represents a seat reservation on a route
type Booking struct {
	ID               string           `json:"id" db:"id"`
	UserID           string           `json:"user_id" db:"user_id"`
	RouteID          string           `json:"route_id" db:"route_id"`
	Seats            IntArray         `json:"seats" db:"seats"`
	PassengerDetails PassengerDetails `json:"passenger_details" db:"passenger_details"`
	TotalAmount      float64          `json:"total_amount" db:"total_amount"`
	PaymentStatus    PaymentStatus    `json:"payment_status" db:"payment_status"`
	PaymentID        *string          `json:"payment_id,omitempty" db:"payment_id"`
	BookingStatus    BookingStatus    `json:"booking_status" db:"booking_status"`
	BookingDate      time.Time        `json:"booking_date" db:"booking_date"`

	// Populated on reads that join the route; not a bookings column.
	Route *Route `json:"route,omitempty" db:"-"`
}

// CreateBookingRequest represents the request to create a booking
type CreateBookingRequest struct {
	RouteID          string            `json:"route_id" binding:"required"`
	Seats            []int             `json:"seats" binding:"required,min=1"`
	PassengerDetails []PassengerDetail `json:"passenger_details" binding:"required"`
	TotalAmount      float64           `json:"total_amount"`
}

// Validate validates the create booking request
func (r *CreateBookingRequest) Validate() error {
	if len(r.Seats) == 0 {
		return errors.New("at least one seat is required")
	}
	if len(r.Seats) > 10 {
		return errors.New("maximum 10 seats can be booked at once")
	}
	if len(r.PassengerDetails) != len(r.Seats) {
		return errors.New("passenger_details must have one entry per seat")
	}
	if r.TotalAmount < 0 {
		return errors.New("total_amount cannot be negative")
	}
	seen := make(map[int]bool, len(r.Seats))
	for _, seat := range r.Seats {
		if seat < 1 {
			return fmt.Errorf("invalid seat number %d", seat)
		}
		if seen[seat] {
			return fmt.Errorf("duplicate seat number %d", seat)
		}
		seen[seat] = true
	}
	for _, p := range r.PassengerDetails {
		if p.Name == "" {
			return errors.New("passenger name is required")
		}
		if p.Age <= 0 {
			return errors.New("passenger age must be positive")
		}
		switch p.Gender {
		case "Male", "Female", "Other":
		default:
			return errors.New("passenger gender must be Male, Female or Other")
		}
	}
	return nil
}

// IsCancelled reports whether the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.BookingStatus == BookingStatusCancelled
}

// IsPaid reports whether payment has completed for the booking
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentStatusCompleted
}

// BookingPage is the admin listing response with pagination metadata
type BookingPage struct {
	Bookings    []Booking `json:"bookings"`
	Total       int       `json:"total"`
	TotalPages  int       `json:"total_pages"`
	CurrentPage int       `json:"current_page"`
}

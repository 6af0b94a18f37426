package models

import (
	"errors"
	"time"
)

// Route represents one scheduled trip of a bus with its own seat inventory
type Route struct {
	ID             string    `json:"id" db:"id"`
	BusID          string    `json:"bus_id" db:"bus_id"`
	Source         string    `json:"source" db:"source"`
	Destination    string    `json:"destination" db:"destination"`
	DepartureTime  time.Time `json:"departure_time" db:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time" db:"arrival_time"`
	Fare           float64   `json:"fare" db:"fare"`
	TotalSeats     int       `json:"total_seats" db:"total_seats"`
	AvailableSeats IntArray  `json:"available_seats" db:"available_seats"`
	IsActive       bool      `json:"is_active" db:"is_active"`

	// Populated on reads that join the owning bus; not a routes column.
	Bus *Bus `json:"bus,omitempty" db:"-"`
}

// CreateRouteRequest represents the request to add a route to a bus
type CreateRouteRequest struct {
	Source        string    `json:"source" binding:"required"`
	Destination   string    `json:"destination" binding:"required"`
	DepartureTime time.Time `json:"departure_time" binding:"required"`
	ArrivalTime   time.Time `json:"arrival_time" binding:"required"`
	Fare          float64   `json:"fare"`
}

// Validate validates the create route request
func (r *CreateRouteRequest) Validate() error {
	if r.Fare < 0 {
		return errors.New("fare cannot be negative")
	}
	if !r.ArrivalTime.After(r.DepartureTime) {
		return errors.New("arrival_time must be after departure_time")
	}
	return nil
}

// SeatRange returns the full seat range 1..totalSeats for a new route
func SeatRange(totalSeats int) IntArray {
	seats := make(IntArray, totalSeats)
	for i := range seats {
		seats[i] = i + 1
	}
	return seats
}

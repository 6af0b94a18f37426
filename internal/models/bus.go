package models

import (
	"errors"
	"time"
)

// BusType represents the class of a bus
type BusType string

const (
	BusTypeAC          BusType = "AC"
	BusTypeNonAC       BusType = "Non-AC"
	BusTypeSleeper     BusType = "Sleeper"
	BusTypeSemiSleeper BusType = "Semi-Sleeper"
)

// Bus represents a physical vehicle in the fleet
type Bus struct {
	ID         string      `json:"id" db:"id"`
	BusNumber  string      `json:"bus_number" db:"bus_number"`
	BusName    string      `json:"bus_name" db:"bus_name"`
	BusType    BusType     `json:"bus_type" db:"bus_type"`
	TotalSeats int         `json:"total_seats" db:"total_seats"`
	Amenities  StringArray `json:"amenities" db:"amenities"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}

// CreateBusRequest represents the request to register a new bus
type CreateBusRequest struct {
	BusNumber  string   `json:"bus_number" binding:"required"`
	BusName    string   `json:"bus_name" binding:"required"`
	BusType    BusType  `json:"bus_type"`
	TotalSeats int      `json:"total_seats" binding:"required"`
	Amenities  []string `json:"amenities"`
}

// UpdateBusRequest represents the request to update a bus
type UpdateBusRequest struct {
	BusName    string   `json:"bus_name" binding:"required"`
	BusType    BusType  `json:"bus_type"`
	TotalSeats int      `json:"total_seats" binding:"required"`
	Amenities  []string `json:"amenities"`
}

// Validate validates the create bus request
func (r *CreateBusRequest) Validate() error {
	if r.TotalSeats < 1 || r.TotalSeats > 60 {
		return errors.New("total_seats must be between 1 and 60")
	}
	if r.BusType != "" && !validBusType(r.BusType) {
		return errors.New("bus_type must be one of AC, Non-AC, Sleeper, Semi-Sleeper")
	}
	return nil
}

// Validate validates the update bus request
func (r *UpdateBusRequest) Validate() error {
	if r.TotalSeats < 1 || r.TotalSeats > 60 {
		return errors.New("total_seats must be between 1 and 60")
	}
	if r.BusType != "" && !validBusType(r.BusType) {
		return errors.New("bus_type must be one of AC, Non-AC, Sleeper, Semi-Sleeper")
	}
	return nil
}

func validBusType(t BusType) bool {
	switch t {
	case BusTypeAC, BusTypeNonAC, BusTypeSleeper, BusTypeSemiSleeper:
		return true
	}
	return false
}

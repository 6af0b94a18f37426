package services

import (
	"errors"
	"fmt"
	"sort"
)

// Expected outcomes of the booking and payment flows. Handlers map these to
// HTTP statuses; they are never logged as system errors.
var (
	ErrRouteNotFound    = errors.New("route not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrForbidden        = errors.New("not authorized for this booking")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrAlreadyPaid      = errors.New("payment already completed for this booking")
)

// SeatUnavailableError reports which requested seats are not in the route's
// available set. The claim is all-or-nothing, so the route is unchanged.
type SeatUnavailableError struct {
	Seats []int
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seats not available: %v", e.Seats)
}

// ValidationError marks malformed input that the caller can correct
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// sortedCopy returns a sorted copy of seat numbers for stable error reporting
func sortedCopy(seats []int) []int {
	out := append([]int(nil), seats...)
	sort.Ints(out)
	return out
}

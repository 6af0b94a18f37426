package services

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/swiftbus/booking-backend/internal/models"
)

// RouteStore is the persistence surface the inventory service needs
type RouteStore interface {
	GetByID(routeID string) (*models.Route, error)
	ClaimSeats(routeID string, seats []int) (bool, error)
	ReleaseSeats(routeID string, seats []int) error
	GetAvailableSeats(routeID string) ([]int, error)
}

// InventoryService owns the available-seats set of every route. Claims and
// releases run under a per-route mutex on top of the store's conditional
// update, so overlapping concurrent claims on the same route yield exactly
// one winner and disjoint claims never lose updates.
type InventoryService struct {
	routes RouteStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(routes RouteStore) *InventoryService {
	return &InventoryService{
		routes: routes,
		locks:  make(map[string]*sync.Mutex),
	}
}

// routeLock returns the mutex for a route, creating it on first use.
// Route instances are bounded by the schedule, so entries are not reaped.
func (s *InventoryService) routeLock(routeID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[routeID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[routeID] = lock
	}
	return lock
}

// ClaimSeats removes the requested seats from the route's available set.
// All-or-nothing: if any seat is taken the set is unchanged and the returned
// SeatUnavailableError lists the conflicting seats.
func (s *InventoryService) ClaimSeats(routeID string, seats []int) error {
	lock := s.routeLock(routeID)
	lock.Lock()
	defer lock.Unlock()

	// The lock only covers this process. A claim can still lose the
	// conditional update to a writer elsewhere and then find every requested
	// seat available again on the re-read; retry once before giving up.
	for attempt := 0; ; attempt++ {
		claimed, err := s.routes.ClaimSeats(routeID, seats)
		if err != nil {
			return err
		}
		if claimed {
			return nil
		}

		// The conditional update matched no row: either the route is gone or
		// some requested seat is no longer available. Distinguish under the lock.
		available, err := s.routes.GetAvailableSeats(routeID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRouteNotFound
			}
			return err
		}

		availableSet := make(map[int]bool, len(available))
		for _, seat := range available {
			availableSet[seat] = true
		}

		var conflicting []int
		for _, seat := range seats {
			if !availableSet[seat] {
				conflicting = append(conflicting, seat)
			}
		}

		if len(conflicting) > 0 {
			return &SeatUnavailableError{Seats: sortedCopy(conflicting)}
		}
		if attempt == 1 {
			return &SeatUnavailableError{Seats: sortedCopy(seats)}
		}
	}
}

// ReleaseSeats returns the given seats to the route's available set.
// Releasing an already-available seat is a no-op.
func (s *InventoryService) ReleaseSeats(routeID string, seats []int) error {
	lock := s.routeLock(routeID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.routes.ReleaseSeats(routeID, seats); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRouteNotFound
		}
		return err
	}
	return nil
}

// GetAvailable returns a read-only snapshot of the route's available seats
func (s *InventoryService) GetAvailable(routeID string) ([]int, error) {
	seats, err := s.routes.GetAvailableSeats(routeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return seats, nil
}

package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/swiftbus/booking-backend/internal/models"
)

// RouteRepository handles database operations for the routes table
type RouteRepository struct {
	db DB
}

// NewRouteRepository creates a new RouteRepository
func NewRouteRepository(db DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// Create creates a new route with the full seat range available
func (r *RouteRepository) Create(route *models.Route) error {
	query := `
		INSERT INTO routes (
			id, bus_id, source, destination, departure_time, arrival_time,
			fare, total_seats, available_seats, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if route.ID == "" {
		route.ID = uuid.New().String()
	}
	if route.AvailableSeats == nil {
		route.AvailableSeats = models.SeatRange(route.TotalSeats)
	}

	_, err := r.db.Exec(
		query,
		route.ID, route.BusID, route.Source, route.Destination,
		route.DepartureTime, route.ArrivalTime, route.Fare,
		route.TotalSeats, route.AvailableSeats, route.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to create route: %w", err)
	}

	return nil
}

// GetByID retrieves a route by ID
func (r *RouteRepository) GetByID(routeID string) (*models.Route, error) {
	query := `
		SELECT id, bus_id, source, destination, departure_time, arrival_time,
			   fare, total_seats, available_seats, is_active
		FROM routes
		WHERE id = $1
	`

	return r.scanRoute(r.db.QueryRow(query, routeID))
}

// GetByBusID retrieves all routes for a bus
func (r *RouteRepository) GetByBusID(busID string) ([]models.Route, error) {
	query := `
		SELECT id, bus_id, source, destination, departure_time, arrival_time,
			   fare, total_seats, available_seats, is_active
		FROM routes
		WHERE bus_id = $1
		ORDER BY departure_time
	`

	rows, err := r.db.Query(query, busID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRoutes(rows)
}

// Search finds active routes by case-insensitive partial source/destination
// match departing within [date 00:00, date+1 00:00). The owning bus is
// joined into each result.
func (r *RouteRepository) Search(source, destination string, date time.Time) ([]models.Route, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT rt.id, rt.bus_id, rt.source, rt.destination, rt.departure_time,
			   rt.arrival_time, rt.fare, rt.total_seats, rt.available_seats, rt.is_active,
			   b.id, b.bus_number, b.bus_name, b.bus_type, b.total_seats, b.amenities, b.created_at
		FROM routes rt
		JOIN buses b ON b.id = rt.bus_id
		WHERE rt.source ILIKE '%' || $1 || '%'
		  AND rt.destination ILIKE '%' || $2 || '%'
		  AND rt.departure_time >= $3
		  AND rt.departure_time < $4
		  AND rt.is_active = TRUE
		ORDER BY rt.departure_time
	`

	rows, err := r.db.Query(query, source, destination, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []models.Route{}
	for rows.Next() {
		var route models.Route
		var bus models.Bus
		if err := rows.Scan(
			&route.ID, &route.BusID, &route.Source, &route.Destination,
			&route.DepartureTime, &route.ArrivalTime, &route.Fare,
			&route.TotalSeats, &route.AvailableSeats, &route.IsActive,
			&bus.ID, &bus.BusNumber, &bus.BusName, &bus.BusType,
			&bus.TotalSeats, &bus.Amenities, &bus.CreatedAt,
		); err != nil {
			return nil, err
		}
		route.Bus = &bus
		routes = append(routes, route)
	}

	return routes, rows.Err()
}

// ClaimSeats atomically removes the given seats from the route's available
// set. The conditional update only matches when every requested seat is still
// available, so a partially-available request leaves the row untouched.
// Returns false when the route exists but some seat was already taken.
func (r *RouteRepository) ClaimSeats(routeID string, seats []int) (bool, error) {
	query := `
		UPDATE routes
		SET available_seats = (
			SELECT COALESCE(array_agg(s ORDER BY s), '{}')
			FROM unnest(available_seats) AS s
			WHERE s != ALL($2::int[])
		)
		WHERE id = $1
		  AND available_seats @> $2::int[]
	`

	result, err := r.db.Exec(query, routeID, models.IntArray(seats))
	if err != nil {
		return false, fmt.Errorf("failed to claim seats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}

// ReleaseSeats adds the given seats back into the route's available set.
// Set semantics: releasing an already-available seat is a no-op, and seats
// outside 1..total_seats are never admitted.
func (r *RouteRepository) ReleaseSeats(routeID string, seats []int) error {
	query := `
		UPDATE routes
		SET available_seats = (
			SELECT COALESCE(array_agg(DISTINCT s ORDER BY s), '{}')
			FROM unnest(available_seats || $2::int[]) AS s
			WHERE s BETWEEN 1 AND total_seats
		)
		WHERE id = $1
	`

	result, err := r.db.Exec(query, routeID, models.IntArray(seats))
	if err != nil {
		return fmt.Errorf("failed to release seats: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// GetAvailableSeats returns a snapshot of the route's available seat numbers
func (r *RouteRepository) GetAvailableSeats(routeID string) ([]int, error) {
	var seats models.IntArray
	err := r.db.QueryRow(`SELECT available_seats FROM routes WHERE id = $1`, routeID).Scan(&seats)
	if err != nil {
		return nil, err
	}
	return seats, nil
}

func (r *RouteRepository) scanRoute(row scanner) (*models.Route, error) {
	route := &models.Route{}
	err := row.Scan(
		&route.ID, &route.BusID, &route.Source, &route.Destination,
		&route.DepartureTime, &route.ArrivalTime, &route.Fare,
		&route.TotalSeats, &route.AvailableSeats, &route.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return route, nil
}

func (r *RouteRepository) scanRoutes(rows *sql.Rows) ([]models.Route, error) {
	routes := []models.Route{}
	for rows.Next() {
		var route models.Route
		if err := rows.Scan(
			&route.ID, &route.BusID, &route.Source, &route.Destination,
			&route.DepartureTime, &route.ArrivalTime, &route.Fare,
			&route.TotalSeats, &route.AvailableSeats, &route.IsActive,
		); err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/swiftbus/booking-backend/internal/models"
)

// ErrBusHasBookings is returned when a bus cannot be deleted because
// bookings still reference its routes.
var ErrBusHasBookings = fmt.Errorf("bus has routes referenced by bookings")

// BusRepository handles database operations for the buses table
type BusRepository struct {
	db DB
}

// NewBusRepository creates a new BusRepository
func NewBusRepository(db DB) *BusRepository {
	return &BusRepository{db: db}
}

// Create creates a new bus
func (r *BusRepository) Create(bus *models.Bus) error {
	query := `
		INSERT INTO buses (id, bus_number, bus_name, bus_type, total_seats, amenities)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	if bus.ID == "" {
		bus.ID = uuid.New().String()
	}
	if bus.BusType == "" {
		bus.BusType = models.BusTypeAC
	}
	if bus.Amenities == nil {
		bus.Amenities = models.StringArray{}
	}

	err := r.db.QueryRow(
		query,
		bus.ID, bus.BusNumber, bus.BusName, bus.BusType, bus.TotalSeats, bus.Amenities,
	).Scan(&bus.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create bus: %w", err)
	}

	return nil
}

// GetByID retrieves a bus by ID
func (r *BusRepository) GetByID(busID string) (*models.Bus, error) {
	query := `
		SELECT id, bus_number, bus_name, bus_type, total_seats, amenities, created_at
		FROM buses
		WHERE id = $1
	`

	return r.scanBus(r.db.QueryRow(query, busID))
}

// GetByNumber retrieves a bus by its registration number
func (r *BusRepository) GetByNumber(busNumber string) (*models.Bus, error) {
	query := `
		SELECT id, bus_number, bus_name, bus_type, total_seats, amenities, created_at
		FROM buses
		WHERE bus_number = $1
	`

	return r.scanBus(r.db.QueryRow(query, busNumber))
}

// GetAll retrieves all buses
func (r *BusRepository) GetAll() ([]models.Bus, error) {
	query := `
		SELECT id, bus_number, bus_name, bus_type, total_seats, amenities, created_at
		FROM buses
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buses := []models.Bus{}
	for rows.Next() {
		var bus models.Bus
		if err := rows.Scan(
			&bus.ID, &bus.BusNumber, &bus.BusName, &bus.BusType,
			&bus.TotalSeats, &bus.Amenities, &bus.CreatedAt,
		); err != nil {
			return nil, err
		}
		buses = append(buses, bus)
	}

	return buses, rows.Err()
}

// Update updates a bus
func (r *BusRepository) Update(bus *models.Bus) error {
	query := `
		UPDATE buses
		SET bus_name = $2, bus_type = $3, total_seats = $4, amenities = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(query, bus.ID, bus.BusName, bus.BusType, bus.TotalSeats, bus.Amenities)
	if err != nil {
		return err
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

// Delete removes a bus together with its routes. Deletion is refused while
// any booking references one of the bus's routes, so bookings never lose
// their route.
func (r *BusRepository) Delete(busID string) error {
	var referencingBookings int
	err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM bookings b
		JOIN routes rt ON rt.id = b.route_id
		WHERE rt.bus_id = $1
	`, busID).Scan(&referencingBookings)
	if err != nil {
		return fmt.Errorf("failed to check bookings for bus: %w", err)
	}
	if referencingBookings > 0 {
		return ErrBusHasBookings
	}

	if _, err := r.db.Exec(`DELETE FROM routes WHERE bus_id = $1`, busID); err != nil {
		return fmt.Errorf("failed to delete routes for bus: %w", err)
	}

	result, err := r.db.Exec(`DELETE FROM buses WHERE id = $1`, busID)
	if err != nil {
		return err
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

func (r *BusRepository) scanBus(row scanner) (*models.Bus, error) {
	bus := &models.Bus{}
	err := row.Scan(
		&bus.ID, &bus.BusNumber, &bus.BusName, &bus.BusType,
		&bus.TotalSeats, &bus.Amenities, &bus.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return bus, nil
}

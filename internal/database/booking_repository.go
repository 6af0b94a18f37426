package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/swiftbus/booking-backend/internal/models"
)

// BookingRepository handles database operations for the bookings table
type BookingRepository struct {
	db DB
}

// NewBookingRepository creates a new BookingRepository
func NewBookingRepository(db DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create creates a new booking
func (r *BookingRepository) Create(booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, user_id, route_id, seats, passenger_details,
			total_amount, payment_status, payment_id, booking_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING booking_date
	`

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}

	err := r.db.QueryRow(
		query,
		booking.ID, booking.UserID, booking.RouteID, booking.Seats,
		booking.PassengerDetails, booking.TotalAmount,
		booking.PaymentStatus, booking.PaymentID, booking.BookingStatus,
	).Scan(&booking.BookingDate)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// Every read joins the booking's route and its bus, so clients get the full
// journey instead of a bare route_id. Routes referenced by bookings cannot be
// deleted (see BusRepository.Delete), so the joins never drop rows.
const bookingSelect = `
	SELECT bk.id, bk.user_id, bk.route_id, bk.seats, bk.passenger_details,
		   bk.total_amount, bk.payment_status, bk.payment_id, bk.booking_status, bk.booking_date,
		   rt.id, rt.bus_id, rt.source, rt.destination, rt.departure_time,
		   rt.arrival_time, rt.fare, rt.total_seats, rt.available_seats, rt.is_active,
		   b.id, b.bus_number, b.bus_name, b.bus_type, b.total_seats, b.amenities, b.created_at
	FROM bookings bk
	JOIN routes rt ON rt.id = bk.route_id
	JOIN buses b ON b.id = rt.bus_id
`

// GetByID retrieves a booking by ID with its route and bus populated
func (r *BookingRepository) GetByID(bookingID string) (*models.Booking, error) {
	query := bookingSelect + `WHERE bk.id = $1`

	return r.scanBooking(r.db.QueryRow(query, bookingID))
}

// GetByUserID retrieves all bookings for a user, newest first
func (r *BookingRepository) GetByUserID(userID string) ([]models.Booking, error) {
	query := bookingSelect + `WHERE bk.user_id = $1 ORDER BY bk.booking_date DESC`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// List retrieves a page of bookings ordered newest first
func (r *BookingRepository) List(limit, offset int) ([]models.Booking, error) {
	query := bookingSelect + `ORDER BY bk.booking_date DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// Count returns the total number of bookings
func (r *BookingRepository) Count() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM bookings`).Scan(&total)
	return total, err
}

// Update persists status and payment changes for a booking
func (r *BookingRepository) Update(booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET payment_status = $2, payment_id = $3, booking_status = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(
		query,
		booking.ID, booking.PaymentStatus, booking.PaymentID, booking.BookingStatus,
	)
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

func (r *BookingRepository) scanBooking(row scanner) (*models.Booking, error) {
	booking := &models.Booking{}
	route := &models.Route{}
	bus := &models.Bus{}
	var paymentID sql.NullString

	err := row.Scan(
		&booking.ID, &booking.UserID, &booking.RouteID, &booking.Seats,
		&booking.PassengerDetails, &booking.TotalAmount,
		&booking.PaymentStatus, &paymentID, &booking.BookingStatus, &booking.BookingDate,
		&route.ID, &route.BusID, &route.Source, &route.Destination,
		&route.DepartureTime, &route.ArrivalTime, &route.Fare,
		&route.TotalSeats, &route.AvailableSeats, &route.IsActive,
		&bus.ID, &bus.BusNumber, &bus.BusName, &bus.BusType,
		&bus.TotalSeats, &bus.Amenities, &bus.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentID.Valid {
		booking.PaymentID = &paymentID.String
	}

	route.Bus = bus
	booking.Route = route

	return booking, nil
}

func (r *BookingRepository) scanBookings(rows *sql.Rows) ([]models.Booking, error) {
	bookings := []models.Booking{}

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}

package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/models"
)

// BookingStore is the persistence surface the booking service needs
type BookingStore interface {
	Create(booking *models.Booking) error
	GetByID(bookingID string) (*models.Booking, error)
	GetByUserID(userID string) ([]models.Booking, error)
	List(limit, offset int) ([]models.Booking, error)
	Count() (int, error)
	Update(booking *models.Booking) error
}

// Inventory is the seat inventory surface the booking service coordinates with
type Inventory interface {
	ClaimSeats(routeID string, seats []int) error
	ReleaseSeats(routeID string, seats []int) error
}

// BookingService drives the booking lifecycle: seat claim, creation,
// payment-driven confirmation and cancellation with seat release.
type BookingService struct {
	bookings  BookingStore
	routes    RouteStore
	inventory Inventory
	logger    *logrus.Logger
}

// NewBookingService creates a new BookingService
func NewBookingService(bookings BookingStore, routes RouteStore, inventory Inventory, logger *logrus.Logger) *BookingService {
	return &BookingService{
		bookings:  bookings,
		routes:    routes,
		inventory: inventory,
		logger:    logger,
	}
}

// CreateBooking claims the requested seats and persists a new pending
// booking. The claim happens first; if persistence then fails the seats are
// released again so no inventory is stranded.
func (s *BookingService) CreateBooking(userID string, req *models.CreateBookingRequest) (*models.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	route, err := s.routes.GetByID(req.RouteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, fmt.Errorf("failed to load route: %w", err)
	}

	if err := s.inventory.ClaimSeats(req.RouteID, req.Seats); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:           userID,
		RouteID:          req.RouteID,
		Seats:            models.IntArray(req.Seats),
		PassengerDetails: models.PassengerDetails(req.PassengerDetails),
		TotalAmount:      req.TotalAmount,
		PaymentStatus:    models.PaymentStatusPending,
		BookingStatus:    models.BookingStatusPending,
	}

	if err := s.bookings.Create(booking); err != nil {
		// Compensating release: the claim committed but the booking did not.
		if relErr := s.inventory.ReleaseSeats(req.RouteID, req.Seats); relErr != nil {
			s.logger.WithFields(logrus.Fields{
				"route_id": req.RouteID,
				"seats":    req.Seats,
				"error":    relErr.Error(),
			}).Error("Failed to release seats after booking persistence failure")
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.Route = route

	return booking, nil
}

// GetBooking returns a booking readable by its owner or an admin
func (s *BookingService) GetBooking(bookingID, callerID string, isAdmin bool) (*models.Booking, error) {
	booking, err := s.loadBooking(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != callerID && !isAdmin {
		return nil, ErrForbidden
	}

	return booking, nil
}

// CancelBooking cancels a booking and returns its seats to the route.
// Owner-or-admin only. A completed payment is marked Refunded; executing the
// refund is the payment backend's concern. Seats are released even when the
// route no longer exists - that only costs a log line.
func (s *BookingService) CancelBooking(bookingID, callerID string, isAdmin bool) (*models.Booking, error) {
	booking, err := s.loadBooking(bookingID)
	if err != nil {
		return nil, err
	}

	if booking.UserID != callerID && !isAdmin {
		return nil, ErrForbidden
	}

	if booking.IsCancelled() {
		return nil, ErrAlreadyCancelled
	}

	booking.BookingStatus = models.BookingStatusCancelled
	if booking.PaymentStatus == models.PaymentStatusCompleted {
		booking.PaymentStatus = models.PaymentStatusRefunded
	}

	if err := s.bookings.Update(booking); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	if err := s.inventory.ReleaseSeats(booking.RouteID, booking.Seats); err != nil {
		if errors.Is(err, ErrRouteNotFound) {
			s.logger.WithFields(logrus.Fields{
				"booking_id": booking.ID,
				"route_id":   booking.RouteID,
			}).Warn("Route no longer exists, seats not returned")
		} else {
			s.logger.WithFields(logrus.Fields{
				"booking_id": booking.ID,
				"route_id":   booking.RouteID,
				"error":      err.Error(),
			}).Error("Failed to release seats for cancelled booking")
		}
	}

	return booking, nil
}

// ListForUser returns all bookings of a user, newest booking date first
func (s *BookingService) ListForUser(userID string) ([]models.Booking, error) {
	bookings, err := s.bookings.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListAll returns a page of all bookings for administrators, newest first.
// Page numbering starts at 1; out-of-range pages return an empty list with
// the real totals.
func (s *BookingService) ListAll(page, pageSize int) (*models.BookingPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	total, err := s.bookings.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings, err := s.bookings.List(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return &models.BookingPage{
		Bookings:    bookings,
		Total:       total,
		TotalPages:  (total + pageSize - 1) / pageSize,
		CurrentPage: page,
	}, nil
}

func (s *BookingService) loadBooking(bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return booking, nil
}

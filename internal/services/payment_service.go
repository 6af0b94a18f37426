package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/swiftbus/booking-backend/internal/models"
	"github.com/swiftbus/booking-backend/pkg/payments"
)

// ErrPaymentNotSettled is returned when the payment backend does not report
// the intent as succeeded during confirmation.
var ErrPaymentNotSettled = errors.New("payment has not succeeded according to the payment backend")

// PaymentService coordinates payment authorization and confirmation for
// bookings against the payment gateway.
type PaymentService struct {
	bookings BookingStore
	gateway  payments.Gateway
	currency string
	logger   *logrus.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(bookings BookingStore, gateway payments.Gateway, currency string, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		bookings: bookings,
		gateway:  gateway,
		currency: currency,
		logger:   logger,
	}
}

// CreateIntent authorizes the booking's amount with the payment backend and
// returns the client secret the caller completes the payment with. The
// booking and user IDs travel as intent metadata for reconciliation.
func (s *PaymentService) CreateIntent(bookingID, callerID string) (string, error) {
	booking, err := s.loadOwnedBooking(bookingID, callerID)
	if err != nil {
		return "", err
	}

	if booking.IsPaid() {
		return "", ErrAlreadyPaid
	}

	amount := int64(math.Round(booking.TotalAmount * 100))
	intent, err := s.gateway.CreateIntent(amount, s.currency, map[string]string{
		"booking_id": booking.ID,
		"user_id":    callerID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"intent_id":  intent.ID,
		"amount":     amount,
		"currency":   s.currency,
	}).Info("Payment intent created")

	return intent.ClientSecret, nil
}

// ConfirmPayment marks a booking paid and confirmed. The intent status is
// re-read from the payment backend first instead of trusting the caller; a
// confirmation for an unsettled intent is rejected.
func (s *PaymentService) ConfirmPayment(bookingID, callerID, paymentID string) (*models.Booking, error) {
	booking, err := s.loadOwnedBooking(bookingID, callerID)
	if err != nil {
		return nil, err
	}

	intent, err := s.gateway.GetIntent(paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment intent: %w", err)
	}
	if !intent.Succeeded() {
		s.logger.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"intent_id":  paymentID,
			"status":     intent.Status,
		}).Warn("Payment confirmation rejected, intent not settled")
		return nil, ErrPaymentNotSettled
	}

	booking.PaymentStatus = models.PaymentStatusCompleted
	booking.BookingStatus = models.BookingStatusConfirmed
	booking.PaymentID = &paymentID

	if err := s.bookings.Update(booking); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return booking, nil
}

func (s *PaymentService) loadOwnedBooking(bookingID, callerID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	if booking.UserID != callerID {
		return nil, ErrForbidden
	}

	return booking, nil
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swiftbus/booking-backend/internal/middleware"
	"github.com/swiftbus/booking-backend/internal/services"
)

// PaymentHandler exposes payment authorization and confirmation over HTTP
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateIntentRequest is the body for creating a payment intent
type CreateIntentRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

// ConfirmRequest is the body for confirming a payment
type ConfirmRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
}

// CreatePaymentIntent authorizes the booking amount with the payment backend
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	clientSecret, err := h.paymentService.CreateIntent(req.BookingID, userCtx.UserID.String())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		case errors.Is(err, services.ErrAlreadyPaid):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment already completed for this booking"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Payment server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"client_secret": clientSecret})
}

// ConfirmPayment marks a booking paid once the backend reports success
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.paymentService.ConfirmPayment(req.BookingID, userCtx.UserID.String(), req.PaymentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized"})
		case errors.Is(err, services.ErrPaymentNotSettled):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment has not completed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment confirmed",
		"booking": booking,
	})
}

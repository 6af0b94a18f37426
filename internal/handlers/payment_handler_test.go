package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swiftbus/booking-backend/internal/middleware"
	"github.com/swiftbus/booking-backend/internal/models"
	"github.com/swiftbus/booking-backend/internal/services"
	"github.com/swiftbus/booking-backend/pkg/payments"
)

// stubGateway serves canned payment intents
type stubGateway struct {
	status string
}

func (g *stubGateway) CreateIntent(amount int64, currency string, metadata map[string]string) (*payments.Intent, error) {
	return &payments.Intent{
		ID:           "pi_test",
		ClientSecret: "pi_test_secret",
		Status:       "requires_payment_method",
		Amount:       amount,
		Currency:     currency,
	}, nil
}

func (g *stubGateway) GetIntent(intentID string) (*payments.Intent, error) {
	return &payments.Intent{ID: intentID, Status: g.status}, nil
}

func newPaymentTestRouter(userCtx middleware.UserContext, bookings *memBookingStore, gateway payments.Gateway) *gin.Engine {
	gin.SetMode(gin.TestMode)

	paymentService := services.NewPaymentService(bookings, gateway, "usd", quietLogger())
	handler := NewPaymentHandler(paymentService)

	router := gin.New()
	group := router.Group("/api/payments")
	group.Use(setUserContext(userCtx))
	{
		group.POST("/create-payment-intent", handler.CreatePaymentIntent)
		group.POST("/confirm", handler.ConfirmPayment)
	}
	return router
}

func seedBooking(t *testing.T, bookings *memBookingStore, userID string) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		UserID:        userID,
		RouteID:       "route-1",
		Seats:         models.IntArray{1},
		TotalAmount:   1500,
		PaymentStatus: models.PaymentStatusPending,
		BookingStatus: models.BookingStatusPending,
	}
	require.NoError(t, bookings.Create(booking))
	return booking
}

func TestCreatePaymentIntentEndpoint(t *testing.T) {
	t.Run("Returns Client Secret", func(t *testing.T) {
		userCtx := testUserContext(false)
		bookings := newMemBookingStore()
		booking := seedBooking(t, bookings, userCtx.UserID.String())
		router := newPaymentTestRouter(userCtx, bookings, &stubGateway{})

		body, _ := json.Marshal(CreateIntentRequest{BookingID: booking.ID})
		req := httptest.NewRequest("POST", "/api/payments/create-payment-intent", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			ClientSecret string `json:"client_secret"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "pi_test_secret", resp.ClientSecret)
	})

	t.Run("Already Paid", func(t *testing.T) {
		userCtx := testUserContext(false)
		bookings := newMemBookingStore()
		booking := seedBooking(t, bookings, userCtx.UserID.String())
		booking.PaymentStatus = models.PaymentStatusCompleted
		require.NoError(t, bookings.Update(booking))
		router := newPaymentTestRouter(userCtx, bookings, &stubGateway{})

		body, _ := json.Marshal(CreateIntentRequest{BookingID: booking.ID})
		req := httptest.NewRequest("POST", "/api/payments/create-payment-intent", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already completed")
	})

	t.Run("Other User Forbidden", func(t *testing.T) {
		bookings := newMemBookingStore()
		booking := seedBooking(t, bookings, "someone-else")
		router := newPaymentTestRouter(testUserContext(false), bookings, &stubGateway{})

		body, _ := json.Marshal(CreateIntentRequest{BookingID: booking.ID})
		req := httptest.NewRequest("POST", "/api/payments/create-payment-intent", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Unknown Booking", func(t *testing.T) {
		router := newPaymentTestRouter(testUserContext(false), newMemBookingStore(), &stubGateway{})

		body, _ := json.Marshal(CreateIntentRequest{BookingID: "missing"})
		req := httptest.NewRequest("POST", "/api/payments/create-payment-intent", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestConfirmPaymentEndpoint(t *testing.T) {
	t.Run("Confirmed", func(t *testing.T) {
		userCtx := testUserContext(false)
		bookings := newMemBookingStore()
		booking := seedBooking(t, bookings, userCtx.UserID.String())
		router := newPaymentTestRouter(userCtx, bookings, &stubGateway{status: "succeeded"})

		body, _ := json.Marshal(ConfirmRequest{BookingID: booking.ID, PaymentID: "pi_test"})
		req := httptest.NewRequest("POST", "/api/payments/confirm", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Payment confirmed")

		stored, err := bookings.GetByID(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCompleted, stored.PaymentStatus)
		assert.Equal(t, models.BookingStatusConfirmed, stored.BookingStatus)
	})

	t.Run("Unsettled Intent Rejected", func(t *testing.T) {
		userCtx := testUserContext(false)
		bookings := newMemBookingStore()
		booking := seedBooking(t, bookings, userCtx.UserID.String())
		router := newPaymentTestRouter(userCtx, bookings, &stubGateway{status: "requires_payment_method"})

		body, _ := json.Marshal(ConfirmRequest{BookingID: booking.ID, PaymentID: "pi_test"})
		req := httptest.NewRequest("POST", "/api/payments/confirm", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "not completed")

		stored, err := bookings.GetByID(booking.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, stored.PaymentStatus)
	})

	t.Run("Missing Payment ID", func(t *testing.T) {
		router := newPaymentTestRouter(testUserContext(false), newMemBookingStore(), &stubGateway{})

		body, _ := json.Marshal(ConfirmRequest{BookingID: "booking-1"})
		req := httptest.NewRequest("POST", "/api/payments/confirm", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

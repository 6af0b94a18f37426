package payments

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStripeGateway(t *testing.T) {
	gateway := NewStripeGateway(StripeConfig{
		SecretKey: "sk_test_123",
		APIURL:    "https://stripe.example.com/",
	})

	assert.NotNil(t, gateway)
	assert.Equal(t, "https://stripe.example.com", gateway.apiURL)
	assert.Equal(t, "sk_test_123", gateway.secretKey)
	assert.NotNil(t, gateway.client)
}

func TestNewStripeGateway_DefaultURL(t *testing.T) {
	gateway := NewStripeGateway(StripeConfig{SecretKey: "sk_test_123"})
	assert.Equal(t, DefaultAPIURL, gateway.apiURL)
}

func TestCreateIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "29999", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "booking-1", r.PostForm.Get("metadata[booking_id]"))
		assert.Equal(t, "user-1", r.PostForm.Get("metadata[user_id]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "pi_123",
			"client_secret": "pi_123_secret_abc",
			"status": "requires_payment_method",
			"amount": 29999,
			"currency": "usd"
		}`))
	}))
	defer server.Close()

	gateway := NewStripeGateway(StripeConfig{
		SecretKey: "sk_test_123",
		APIURL:    server.URL,
	})

	intent, err := gateway.CreateIntent(29999, "usd", map[string]string{
		"booking_id": "booking-1",
		"user_id":    "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
	assert.Equal(t, "requires_payment_method", intent.Status)
	assert.Equal(t, int64(29999), intent.Amount)
	assert.False(t, intent.Succeeded())
}

func TestCreateIntent_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"type": "card_error", "message": "Your card was declined."}}`))
	}))
	defer server.Close()

	gateway := NewStripeGateway(StripeConfig{SecretKey: "sk_test_123", APIURL: server.URL})

	intent, err := gateway.CreateIntent(1000, "usd", nil)
	assert.Error(t, err)
	assert.Nil(t, intent)
	assert.Contains(t, err.Error(), "Your card was declined.")
}

func TestCreateIntent_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream error"))
	}))
	defer server.Close()

	gateway := NewStripeGateway(StripeConfig{SecretKey: "sk_test_123", APIURL: server.URL})

	_, err := gateway.CreateIntent(1000, "usd", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestGetIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payment_intents/pi_123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "pi_123",
			"client_secret": "pi_123_secret_abc",
			"status": "succeeded",
			"amount": 29999,
			"currency": "usd"
		}`))
	}))
	defer server.Close()

	gateway := NewStripeGateway(StripeConfig{SecretKey: "sk_test_123", APIURL: server.URL})

	intent, err := gateway.GetIntent("pi_123")
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "succeeded", intent.Status)
	assert.True(t, intent.Succeeded())
}

func TestGetIntent_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "No such payment_intent"}}`))
	}))
	defer server.Close()

	gateway := NewStripeGateway(StripeConfig{SecretKey: "sk_test_123", APIURL: server.URL})

	_, err := gateway.GetIntent("pi_missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "No such payment_intent")
}

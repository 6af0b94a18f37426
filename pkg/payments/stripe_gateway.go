package payments

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIURL is the production Stripe API endpoint
const DefaultAPIURL = "https://api.stripe.com"

// StripeGateway implements Gateway against the Stripe PaymentIntents API
type StripeGateway struct {
	apiURL    string
	secretKey string
	client    *http.Client
}

// StripeConfig holds configuration for the Stripe gateway
type StripeConfig struct {
	SecretKey string
	APIURL    string // Optional override, used by tests and sandboxes
}

// NewStripeGateway creates a new Stripe gateway client
func NewStripeGateway(config StripeConfig) *StripeGateway {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &StripeGateway{
		apiURL:    strings.TrimRight(apiURL, "/"),
		secretKey: config.SecretKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// intentPayload mirrors the fields of Stripe's payment_intent object we use
type intentPayload struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

// errorPayload mirrors Stripe's error envelope
type errorPayload struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent requests a payment authorization for the given amount.
// Metadata keys travel with the intent for reconciliation.
func (g *StripeGateway) CreateIntent(amount int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	for key, value := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	req, err := http.NewRequest(http.MethodPost, g.apiURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment intent request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	return g.do(req)
}

// GetIntent fetches the authoritative state of an intent
func (g *StripeGateway) GetIntent(intentID string) (*Intent, error) {
	req, err := http.NewRequest(http.MethodGet, g.apiURL+"/v1/payment_intents/"+url.PathEscape(intentID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment intent request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	return g.do(req)
}

func (g *StripeGateway) do(req *http.Request) (*Intent, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment backend request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment backend response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp errorPayload
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("payment backend error (%d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("payment backend error: status %d", resp.StatusCode)
	}

	var payload intentPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payment backend response: %w", err)
	}

	return &Intent{
		ID:           payload.ID,
		ClientSecret: payload.ClientSecret,
		Status:       payload.Status,
		Amount:       payload.Amount,
		Currency:     payload.Currency,
	}, nil
}

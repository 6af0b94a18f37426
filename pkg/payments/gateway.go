// Package payments integrates with the card payment backend. Amounts are in
// minor units (cents) with a fixed currency per deployment.
package payments

// Intent represents a payment authorization held by the backend
type Intent struct {
	ID           string
	ClientSecret string
	Status       string // requires_payment_method, processing, succeeded, canceled
	Amount       int64
	Currency     string
}

// Succeeded reports whether the payment behind the intent has settled
func (i *Intent) Succeeded() bool {
	return i.Status == "succeeded"
}

// Gateway is the payment backend capability the booking platform needs:
// authorize an amount and read back authoritative intent status.
type Gateway interface {
	CreateIntent(amount int64, currency string, metadata map[string]string) (*Intent, error)
	GetIntent(intentID string) (*Intent, error)
}

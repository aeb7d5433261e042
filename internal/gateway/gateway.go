// Package gateway initializes online payments with external providers.
// A checkout is started here; the money is reconciled by the payment
// handlers once the provider redirects back.
package gateway

import "context"

// InitializeRequest is the provider-independent checkout input.
type InitializeRequest struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     string  `json:"phone"`
}

// Checkout is what the client needs to continue the payment.
type Checkout struct {
	Provider    string `json:"provider"`
	Reference   string `json:"reference"`
	CheckoutURL string `json:"checkoutUrl,omitempty"`
	OrderID     string `json:"orderId,omitempty"`
}

// Provider starts a hosted checkout session.
type Provider interface {
	Initialize(ctx context.Context, req InitializeRequest) (*Checkout, error)
}

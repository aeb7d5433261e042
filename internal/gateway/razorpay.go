package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
)

// Razorpay creates server-side orders for clients that check out with
// the Razorpay widget instead of Chapa's hosted page.
type Razorpay struct {
	client *razorpay.Client
	keyID  string
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{
		client: razorpay.NewClient(keyID, keySecret),
		keyID:  keyID,
	}
}

// Initialize creates a Razorpay order. Amount is converted to the
// smallest currency unit as the API requires.
func (r *Razorpay) Initialize(ctx context.Context, req InitializeRequest) (*Checkout, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	currency := req.Currency
	if currency == "" {
		currency = "ETB"
	}

	receipt := "mall-" + uuid.NewString()
	order, err := r.client.Order.Create(map[string]interface{}{
		"amount":   int64(req.Amount * 100),
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create failed: %w", err)
	}

	orderID, _ := order["id"].(string)
	return &Checkout{
		Provider:  "razorpay",
		Reference: receipt,
		OrderID:   orderID,
	}, nil
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const chapaInitPath = "/v1/transaction/initialize"

// Chapa drives the Chapa hosted checkout (ETB). Transient failures on
// initialize are retried a few times with backoff; the tx_ref stays the
// same across retries so Chapa deduplicates on its side.
type Chapa struct {
	SecretKey string
	BaseURL   string
	ReturnURL string

	HTTPClient *http.Client
	MaxRetries int
	Backoff    time.Duration
}

func NewChapa(secretKey, baseURL, returnURL string) *Chapa {
	return &Chapa{
		SecretKey:  secretKey,
		BaseURL:    baseURL,
		ReturnURL:  returnURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
	}
}

type chapaInitBody struct {
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone_number,omitempty"`
	TxRef     string `json:"tx_ref"`
	ReturnURL string `json:"return_url,omitempty"`
}

type chapaInitResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// Initialize starts a Chapa checkout and returns its URL plus our tx_ref.
func (c *Chapa) Initialize(ctx context.Context, req InitializeRequest) (*Checkout, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	currency := req.Currency
	if currency == "" {
		currency = "ETB"
	}

	txRef := "mall-" + uuid.NewString()
	body, err := json.Marshal(chapaInitBody{
		Amount:    fmt.Sprintf("%.2f", req.Amount),
		Currency:  currency,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		TxRef:     txRef,
		ReturnURL: c.ReturnURL,
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.Backoff * time.Duration(attempt)):
			}
		}

		checkout, retryable, err := c.post(ctx, body, txRef)
		if err == nil {
			return checkout, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, fmt.Errorf("chapa initialize failed after %d attempts: %w", c.MaxRetries+1, lastErr)
}

func (c *Chapa) post(ctx context.Context, body []byte, txRef string) (*Checkout, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+chapaInitPath, bytes.NewReader(body))
	if err != nil {
		return nil, false, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, err
	}

	// 5xx is worth retrying, anything else 4xx is our fault
	if resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("chapa returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("chapa returned %d: %s", resp.StatusCode, data)
	}

	var parsed chapaInitResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, false, err
	}
	if parsed.Status != "success" {
		return nil, false, fmt.Errorf("chapa rejected the transaction: %s", parsed.Message)
	}

	return &Checkout{
		Provider:    "chapa",
		Reference:   txRef,
		CheckoutURL: parsed.Data.CheckoutURL,
	}, false, nil
}

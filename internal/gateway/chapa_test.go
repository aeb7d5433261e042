package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChapa(baseURL string) *Chapa {
	c := NewChapa("sk-test", baseURL, "https://app.example.com/return")
	c.Backoff = time.Millisecond
	return c
}

func TestChapaInitialize(t *testing.T) {
	var gotBody chapaInitBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, chapaInitPath, r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data":   map[string]string{"checkout_url": "https://checkout.chapa.co/abc"},
		})
	}))
	defer srv.Close()

	checkout, err := newTestChapa(srv.URL).Initialize(context.Background(), InitializeRequest{
		Amount:    15000,
		Email:     "sara@example.com",
		FirstName: "Sara",
		LastName:  "Bekele",
	})
	require.NoError(t, err)

	assert.Equal(t, "chapa", checkout.Provider)
	assert.Equal(t, "https://checkout.chapa.co/abc", checkout.CheckoutURL)
	assert.Equal(t, gotBody.TxRef, checkout.Reference)
	assert.Equal(t, "15000.00", gotBody.Amount)
	assert.Equal(t, "ETB", gotBody.Currency, "currency defaults to ETB")
	assert.Equal(t, "https://app.example.com/return", gotBody.ReturnURL)
}

func TestChapaRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	txRefs := make(map[string]bool)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body chapaInitBody
		json.NewDecoder(r.Body).Decode(&body)
		txRefs[body.TxRef] = true
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data":   map[string]string{"checkout_url": "https://checkout.chapa.co/abc"},
		})
	}))
	defer srv.Close()

	checkout, err := newTestChapa(srv.URL).Initialize(context.Background(), InitializeRequest{
		Amount: 100, Email: "sara@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, txRefs, 1, "tx_ref must not change across retries")
	assert.NotEmpty(t, checkout.CheckoutURL)
}

func TestChapaGivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestChapa(srv.URL).Initialize(context.Background(), InitializeRequest{
		Amount: 100, Email: "sara@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 4 attempts")
	assert.Equal(t, int32(4), calls.Load())
}

func TestChapaDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestChapa(srv.URL).Initialize(context.Background(), InitializeRequest{
		Amount: 100, Email: "sara@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestChapaRejectedTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "failed", "message": "invalid currency"})
	}))
	defer srv.Close()

	_, err := newTestChapa(srv.URL).Initialize(context.Background(), InitializeRequest{
		Amount: 100, Email: "sara@example.com",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid currency")
}

func TestChapaValidatesAmount(t *testing.T) {
	_, err := newTestChapa("http://unused").Initialize(context.Background(), InitializeRequest{Amount: 0})
	assert.Error(t, err)
}

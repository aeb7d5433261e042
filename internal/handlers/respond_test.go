package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall-backend/internal/services"
)

func TestWriteServiceError(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
	}{
		{fmt.Errorf("bid 4: %w", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("already decided: %w", services.ErrConflict), http.StatusConflict},
		{fmt.Errorf("visitDate %q: %w", "x", services.ErrInvalid), http.StatusBadRequest},
		{fmt.Errorf("not your post: %w", services.ErrForbidden), http.StatusForbidden},
		{errors.New("pool exhausted"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		writeServiceError(rec, c.err)
		assert.Equal(t, c.wantStatus, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Contains(t, body, "error")
	}
}

func TestWriteServiceErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeServiceError(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

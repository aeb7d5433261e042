package handlers

import (
	"encoding/json"
	"net/http"

	"mall-backend/internal/gateway"
	"mall-backend/pkg/utils"
)

type GatewayHandler struct {
	Provider gateway.Provider
}

func NewGatewayHandler(provider gateway.Provider) *GatewayHandler {
	return &GatewayHandler{Provider: provider}
}

// Initialize starts an online payment and returns the checkout the
// client should redirect to.
func (h *GatewayHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	if h.Provider == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Online payments are not configured")
		return
	}

	var req gateway.InitializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Currency == "" {
		req.Currency = "ETB"
	}

	checkout, err := h.Provider.Initialize(r.Context(), req)
	if err != nil {
		utils.Error(w, http.StatusBadGateway, "Payment initialization failed")
		return
	}
	utils.JSON(w, http.StatusOK, checkout)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mall-backend/internal/middleware"
	"mall-backend/internal/models"
	"mall-backend/internal/services"
	"mall-backend/pkg/utils"
)

type RentHandler struct {
	Service *services.RentService
}

func NewRentHandler(service *services.RentService) *RentHandler {
	return &RentHandler{Service: service}
}

// Assign creates a rent directly, outside the bid workflow.
func (h *RentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	mallID, ok := middleware.GetMallIDFromContext(r.Context())
	if !ok || mallID == 0 {
		utils.Error(w, http.StatusBadRequest, "No mall associated with this account")
		return
	}

	var req models.AssignRentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rent, err := h.Service.Assign(r.Context(), mallID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, rent)
}

func (h *RentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid rent ID")
		return
	}

	rent, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rent)
}

// MyRent returns the authenticated tenant's active rent.
func (h *RentHandler) MyRent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	rent, err := h.Service.GetByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rent)
}

func (h *RentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	mallID, ok := middleware.GetMallIDFromContext(r.Context())
	if !ok || mallID == 0 {
		utils.Error(w, http.StatusBadRequest, "No mall associated with this account")
		return
	}

	rents, err := h.Service.ListByMall(r.Context(), mallID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rents)
}

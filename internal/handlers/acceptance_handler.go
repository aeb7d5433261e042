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

type AcceptanceHandler struct {
	Service *services.AcceptanceService
}

func NewAcceptanceHandler(service *services.AcceptanceService) *AcceptanceHandler {
	return &AcceptanceHandler{Service: service}
}

// AcceptBid selects a bid as the winner, declines its siblings and
// schedules the visit and first payment.
func (h *AcceptanceHandler) AcceptBid(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	bidID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid bid ID")
		return
	}

	var params models.AcceptParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	accepted, err := h.Service.AcceptBid(r.Context(), ownerID, bidID, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, accepted)
}

func (h *AcceptanceHandler) DeclineBid(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	bidID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid bid ID")
		return
	}

	if err := h.Service.DeclineBid(r.Context(), ownerID, bidID); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Bid declined")
}

func (h *AcceptanceHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	requestID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var params models.AcceptParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	accepted, err := h.Service.AcceptRequest(r.Context(), ownerID, requestID, params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, accepted)
}

func (h *AcceptanceHandler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	requestID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	if err := h.Service.DeclineRequest(r.Context(), ownerID, requestID); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Request declined")
}

func (h *AcceptanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid accepted user ID")
		return
	}

	detail, err := h.Service.AcceptedDetail(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, detail)
}

func (h *AcceptanceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	mallID, ok := middleware.GetMallIDFromContext(r.Context())
	if !ok || mallID == 0 {
		utils.Error(w, http.StatusBadRequest, "No mall associated with this account")
		return
	}

	accepted, err := h.Service.ListAcceptedByMall(r.Context(), mallID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, accepted)
}

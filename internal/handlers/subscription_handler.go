package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mall-backend/internal/models"
	"mall-backend/internal/services"
	"mall-backend/pkg/utils"
)

type SubscriptionHandler struct {
	Malls *services.MallService
	Users *services.UserService
}

func NewSubscriptionHandler(malls *services.MallService, users *services.UserService) *SubscriptionHandler {
	return &SubscriptionHandler{Malls: malls, Users: users}
}

// Create records a platform subscription for a mall (admin only).
func (h *SubscriptionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sub, err := h.Malls.CreateSubscription(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, sub)
}

func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Malls.ListSubscriptions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, subs)
}

func (h *SubscriptionHandler) Get(w http.ResponseWriter, r *http.Request) {
	mallID, err := strconv.Atoi(mux.Vars(r)["mallId"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid mall ID")
		return
	}

	sub, err := h.Malls.Subscription(r.Context(), mallID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, sub)
}

// ListOwners backs the admin subscription screen with each owner and
// their mall.
func (h *SubscriptionHandler) ListOwners(w http.ResponseWriter, r *http.Request) {
	owners, err := h.Users.ListMallOwners(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, owners)
}

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

type TenantHandler struct {
	Users *services.UserService
}

func NewTenantHandler(users *services.UserService) *TenantHandler {
	return &TenantHandler{Users: users}
}

// Register creates a tenant account tied to the caller's mall.
func (h *TenantHandler) Register(w http.ResponseWriter, r *http.Request) {
	mallID, ok := middleware.GetMallIDFromContext(r.Context())
	if !ok || mallID == 0 {
		utils.Error(w, http.StatusBadRequest, "No mall associated with this account")
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tenant, err := h.Users.RegisterTenant(r.Context(), mallID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, tenant)
}

func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	mallID, ok := middleware.GetMallIDFromContext(r.Context())
	if !ok || mallID == 0 {
		utils.Error(w, http.StatusBadRequest, "No mall associated with this account")
		return
	}

	tenants, err := h.Users.ListTenants(r.Context(), mallID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, tenants)
}

func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	mallID, ok := middleware.GetMallIDFromContext(r.Context())
	if !ok || mallID == 0 {
		utils.Error(w, http.StatusBadRequest, "No mall associated with this account")
		return
	}
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid tenant ID")
		return
	}

	var tenant models.User
	if err := json.NewDecoder(r.Body).Decode(&tenant); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	tenant.ID = id

	if err := h.Users.UpdateTenant(r.Context(), mallID, &tenant); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, tenant)
}

package handlers

import (
	"net/http"

	"mall-backend/internal/middleware"
	"mall-backend/internal/services"
	"mall-backend/pkg/utils"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: service}
}

// Stats returns the aggregate block for the caller's mall.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	mallID, ok := middleware.GetMallIDFromContext(r.Context())
	if !ok || mallID == 0 {
		utils.Error(w, http.StatusBadRequest, "No mall associated with this account")
		return
	}

	stats, err := h.Service.Stats(r.Context(), mallID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

// AdminStats returns the platform-wide aggregate block.
func (h *DashboardHandler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context(), 0)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

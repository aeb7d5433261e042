package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mall-backend/internal/middleware"
	"mall-backend/internal/models"
	"mall-backend/internal/services"
	"mall-backend/internal/storage"
	"mall-backend/pkg/utils"
)

const maxUploadMemory = 10 << 20 // 10 MB before spilling to disk

type MallHandler struct {
	Service *services.MallService
	Files   *storage.Disk
}

func NewMallHandler(service *services.MallService, files *storage.Disk) *MallHandler {
	return &MallHandler{Service: service, Files: files}
}

func (h *MallHandler) List(w http.ResponseWriter, r *http.Request) {
	malls, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, malls)
}

func (h *MallHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid mall ID")
		return
	}

	mall, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, mall)
}

// MyMall returns the mall owned by the authenticated owner.
func (h *MallHandler) MyMall(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	mall, err := h.Service.GetByOwner(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, mall)
}

// SetupInfo records floors, room totals, pricing and an optional
// agreement template in one multipart call.
func (h *MallHandler) SetupInfo(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var req models.MallInfoRequest
	req.BasementCount, _ = strconv.Atoi(r.FormValue("basementCount"))
	req.FloorCount, _ = strconv.Atoi(r.FormValue("floorCount"))
	req.RoomCount, _ = strconv.Atoi(r.FormValue("roomCount"))
	req.PricePerCare, _ = strconv.ParseFloat(r.FormValue("pricePerCare"), 64)

	agreementPath := ""
	if file, header, err := r.FormFile("agreement"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "Failed to read agreement file")
			return
		}
		agreementPath, err = h.Files.Save(header.Filename, data)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "Failed to store agreement file")
			return
		}
	}

	mall, err := h.Service.SetupInfo(r.Context(), ownerID, req, agreementPath)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, mall)
}

func (h *MallHandler) ListFloors(w http.ResponseWriter, r *http.Request) {
	mallID, ok := middleware.GetMallIDFromContext(r.Context())
	if !ok || mallID == 0 {
		utils.Error(w, http.StatusBadRequest, "No mall associated with this account")
		return
	}

	floors, err := h.Service.ListFloors(r.Context(), mallID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, floors)
}

func (h *MallHandler) SetPricePerCare(w http.ResponseWriter, r *http.Request) {
	mallID, ok := middleware.GetMallIDFromContext(r.Context())
	if !ok || mallID == 0 {
		utils.Error(w, http.StatusBadRequest, "No mall associated with this account")
		return
	}

	var req struct {
		FloorID *int    `json:"floorId"`
		Price   float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ppc, err := h.Service.SetPricePerCare(r.Context(), mallID, req.FloorID, req.Price)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, ppc)
}

func (h *MallHandler) ListPricePerCare(w http.ResponseWriter, r *http.Request) {
	mallID, ok := middleware.GetMallIDFromContext(r.Context())
	if !ok || mallID == 0 {
		utils.Error(w, http.StatusBadRequest, "No mall associated with this account")
		return
	}

	prices, err := h.Service.ListPricePerCare(r.Context(), mallID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, prices)
}

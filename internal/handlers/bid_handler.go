package handlers

import (
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

type BidHandler struct {
	Service *services.BidService
	Files   *storage.Disk
}

func NewBidHandler(service *services.BidService, files *storage.Disk) *BidHandler {
	return &BidHandler{Service: service, Files: files}
}

// Place accepts a multipart form with the bid fields and a required
// "idDocument" part holding the bidder's ID photo.
func (h *BidHandler) Place(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req := models.PlaceBidRequest{
		UserName:  r.FormValue("userName"),
		UserPhone: r.FormValue("userPhone"),
		Note:      r.FormValue("note"),
	}
	req.PostID, _ = strconv.Atoi(r.FormValue("postId"))
	req.BidAmount, _ = strconv.ParseFloat(r.FormValue("bidAmount"), 64)

	file, header, err := r.FormFile("idDocument")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "ID document is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Failed to read ID document")
		return
	}
	idDocURL, err := h.Files.SaveUserID(header.Filename, data)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to store ID document")
		return
	}

	bid, err := h.Service.Place(r.Context(), userID, req, idDocURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, bid)
}

// ListByPost returns all bids on a post, visible to the post owner.
func (h *BidHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}
	postID, err := strconv.Atoi(mux.Vars(r)["postId"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	bids, err := h.Service.ListByPost(r.Context(), ownerID, postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, bids)
}

func (h *BidHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	bids, err := h.Service.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, bids)
}

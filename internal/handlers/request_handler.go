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

type RequestHandler struct {
	Service *services.RequestService
	Files   *storage.Disk
}

func NewRequestHandler(service *services.RequestService, files *storage.Disk) *RequestHandler {
	return &RequestHandler{Service: service, Files: files}
}

// Place accepts a multipart form with the request fields and a
// required "idDocument" part.
func (h *RequestHandler) Place(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req := models.PlaceRequestRequest{
		UserName:  r.FormValue("userName"),
		UserPhone: r.FormValue("userPhone"),
		Note:      r.FormValue("note"),
	}
	req.PostID, _ = strconv.Atoi(r.FormValue("postId"))

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

	request, err := h.Service.Place(r.Context(), userID, req, idDocURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, request)
}

func (h *RequestHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
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

	requests, err := h.Service.ListByPost(r.Context(), ownerID, postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, requests)
}

func (h *RequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	requests, err := h.Service.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, requests)
}

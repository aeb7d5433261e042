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

type PostHandler struct {
	Service *services.PostService
	Files   *storage.Disk
}

func NewPostHandler(service *services.PostService, files *storage.Disk) *PostHandler {
	return &PostHandler{Service: service, Files: files}
}

// Create accepts a multipart form with the listing fields plus any
// number of "images" parts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req := models.CreatePostRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		BidDeposit:  r.FormValue("bidDeposit"),
		BidEndDate:  r.FormValue("bidEndDate"),
	}
	req.RoomID, _ = strconv.Atoi(r.FormValue("roomId"))

	var imageURLs []string
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["images"] {
			file, err := fh.Open()
			if err != nil {
				utils.Error(w, http.StatusBadRequest, "Failed to read image")
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				utils.Error(w, http.StatusBadRequest, "Failed to read image")
				return
			}
			url, err := h.Files.SavePostImage(fh.Filename, data)
			if err != nil {
				utils.Error(w, http.StatusInternalServerError, "Failed to store image")
				return
			}
			imageURLs = append(imageURLs, url)
		}
	}

	post, err := h.Service.Create(r.Context(), ownerID, req, imageURLs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, post)
}

// ListApproved is the public feed consumed by the app.
func (h *PostHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Service.ListApproved(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, posts)
}

// ListPending is the admin review queue.
func (h *PostHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Service.ListPending(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, posts)
}

func (h *PostHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	posts, err := h.Service.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, post)
}

// Approve moves a pending post into the public feed (admin only).
func (h *PostHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.Service.Approve(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.Message(w, http.StatusOK, "Post approved")
}

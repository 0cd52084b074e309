package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "github.com/mayank200604/HVA/internal/errors"
	"github.com/mayank200604/HVA/internal/model"
	"github.com/mayank200604/HVA/internal/repository"
	"github.com/mayank200604/HVA/internal/service"
)

// ImageHandler exposes image generation and retrieval.
type ImageHandler struct {
	service *service.ImageService
	store   *repository.ImageStore
}

func NewImageHandler(svc *service.ImageService, store *repository.ImageStore) *ImageHandler {
	return &ImageHandler{service: svc, store: store}
}

// HandleGenerateImage godoc
// @Summary      Generate an image
// @Description  Generates an image via the configured image provider and saves a thumbnail plus the original. Returns a URL pointing at the thumbnail.
// @Tags         Images
// @Accept       json
// @Produce      json
// @Param        imageRequest  body  model.ImageGenRequest  true  "Image prompt"
// @Success      200  {object}  model.ImageGenResult
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /generate_image [post]
func (h *ImageHandler) HandleGenerateImage(w http.ResponseWriter, r *http.Request) {
	var req model.ImageGenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Detail: "Invalid request payload"})
		return
	}
	if err := validateRequest(&req); err != nil {
		if errors.Is(err, app_errors.ErrValidation) {
			respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Detail: err.Error()})
			return
		}
		respondWithJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Detail: err.Error()})
		return
	}

	result, err := h.service.Generate(r.Context(), &req)
	if err != nil {
		slog.Warn("Image generation failed", "error", err)
		respondWithGenerationError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// HandleGetImage godoc
// @Summary      Retrieve a generated image
// @Description  Serves a previously generated image file. Filenames outside the safe allow-list are rejected before any filesystem access.
// @Tags         Images
// @Produce      image/png
// @Produce      image/jpeg
// @Param        filename  path  string  true  "Image filename"
// @Success      200  {file}    binary
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /generated_images/{filename} [get]
func (h *ImageHandler) HandleGetImage(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if !repository.ValidFilename(filename) {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_filename", Detail: "Invalid filename"})
		return
	}
	path, ok := h.store.Path(filename)
	if !ok {
		respondWithJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Detail: "Image not found"})
		return
	}
	w.Header().Set("Content-Type", repository.MimeForFilename(filename))
	http.ServeFile(w, r, path)
}

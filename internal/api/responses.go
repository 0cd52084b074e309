package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/mayank200604/HVA/internal/errors"
	"github.com/mayank200604/HVA/internal/provider"
)

// This file contains shared DTOs for API responses and helper functions for
// sending consistent HTTP responses.

// ErrorResponse defines the standard JSON structure for error messages. The
// Error field carries a stable tag; Detail carries the human-readable cause.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// respondWithJSON is a low-level helper for marshaling a payload to JSON
// and writing it to the http.ResponseWriter with a given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// This indicates a server-side programming error (e.g., trying to marshal a channel).
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

// respondWithGenerationError maps image pipeline errors to HTTP responses.
// Upstream errors pass the provider's own status through; retry exhaustion
// and transport failures are bad-gateway; each local stage failure keeps its
// stage tag with a 500.
func respondWithGenerationError(w http.ResponseWriter, err error) {
	var ue *provider.UpstreamError
	switch {
	case errors.As(err, &ue):
		status := ue.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		respondWithJSON(w, status, ErrorResponse{Error: "upstream_error", Detail: ue.Body})
	case errors.Is(err, apperrors.ErrOverloaded):
		respondWithJSON(w, http.StatusBadGateway, ErrorResponse{Error: "upstream_error", Detail: err.Error()})
	case errors.Is(err, apperrors.ErrNoImage):
		respondWithJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "no_image_found", Detail: err.Error()})
	case errors.Is(err, apperrors.ErrImageTooSmall):
		respondWithJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "image_too_small", Detail: err.Error()})
	case errors.Is(err, apperrors.ErrDecode):
		respondWithJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "decode_failed", Detail: err.Error()})
	case errors.Is(err, apperrors.ErrSave):
		respondWithJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "save_failed", Detail: err.Error()})
	case errors.Is(err, apperrors.ErrThumbnail):
		respondWithJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "thumbnail_failed", Detail: err.Error()})
	default:
		respondWithJSON(w, http.StatusBadGateway, ErrorResponse{Error: "upstream_error", Detail: err.Error()})
	}
}

// writeStreamEvent marshals data and writes it to an SSE stream as a
// `data: <json>` frame. It returns an error on write failure, which is a
// signal that the client has disconnected.
func writeStreamEvent(w http.ResponseWriter, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal stream data to JSON", "error", err)
		// The issue is with the data, not the connection; keep the stream open.
		return nil
	}

	if _, err := fmt.Fprintf(w, "data: %s\n\n", string(jsonData)); err != nil {
		return fmt.Errorf("failed to write data to stream: %w", err)
	}

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

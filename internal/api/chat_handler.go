package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mayank200604/HVA/internal/model"
	"github.com/mayank200604/HVA/internal/service"
)

// ChatHandler exposes the streaming chat endpoint.
type ChatHandler struct {
	service *service.ChatService
}

func NewChatHandler(svc *service.ChatService) *ChatHandler {
	return &ChatHandler{service: svc}
}

// HandleChat godoc
// @Summary      Send a chat message
// @Description  Routes the message to a provider and streams the reply as Server-Sent Events. Errors are delivered as in-band terminal events because the transport channel is already committed to streaming.
// @Tags         Chat
// @Accept       json
// @Produce      text/event-stream
// @Param        chatRequest  body  model.ChatRequest  true  "Chat message with optional history"
// @Success      200  {object}  model.StreamEvent "Stream of chunk events followed by a done or error event"
// @Router       /chat [post]
func (h *ChatHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Error decoding chat request body", "error", err)
		// The channel is already committed to streaming, so even a decode
		// failure goes out as an in-band terminal event.
		_ = writeStreamEvent(w, model.StreamEvent{Type: model.EventError, Detail: "Invalid request body"})
		return
	}
	if err := validateRequest(&req); err != nil {
		_ = writeStreamEvent(w, model.StreamEvent{Type: model.EventError, Detail: err.Error()})
		return
	}

	streamChan := make(chan model.StreamEvent)
	go h.service.HandleNewMessage(r.Context(), &req, streamChan)

	for event := range streamChan {
		if r.Context().Err() != nil {
			slog.Info("Client disconnected during chat stream.")
			break
		}
		if err := writeStreamEvent(w, event); err != nil {
			slog.Warn("Failed to write stream event, client might have disconnected", "error", err)
			break
		}
	}
}

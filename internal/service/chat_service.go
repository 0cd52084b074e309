package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/mayank200604/HVA/internal/errors"
	"github.com/mayank200604/HVA/internal/model"
	"github.com/mayank200604/HVA/internal/normalize"
	"github.com/mayank200604/HVA/internal/provider"
	"github.com/mayank200604/HVA/internal/routing"
)

// chunkSize is the fixed width of a simulated streaming slice, in characters.
// The upstream call is non-streamed; the completed reply is re-emitted in
// fixed slices so the caller sees incremental delivery.
const chunkSize = 12

// emptyReplyPlaceholder is emitted instead of a blank stream when the
// provider returned a response with no extractable text.
const emptyReplyPlaceholder = "[DEBUG] Empty response from model."

// ChatService orchestrates one chat turn end to end: routing, the provider
// call with retry and same-turn fallback, text extraction, and the chunked
// event emission back to the handler.
type ChatService struct {
	registry        *provider.Registry
	retrier         *provider.Retrier
	historyMaxTurns int
}

// NewChatService wires the orchestrator.
func NewChatService(registry *provider.Registry, retrier *provider.Retrier, historyMaxTurns int) *ChatService {
	return &ChatService{
		registry:        registry,
		retrier:         retrier,
		historyMaxTurns: historyMaxTurns,
	}
}

// trimHistory keeps only the most recent turns. Each turn is a user message
// plus an assistant message, so maxTurns*2 messages survive.
func trimHistory(history []model.Message, maxTurns int) []model.Message {
	limit := maxTurns * 2
	if len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

// HandleNewMessage processes one chat turn and emits StreamEvents on the
// channel: zero or more chunk events followed by exactly one done or error
// event. The channel is closed when the turn is finished.
func (s *ChatService) HandleNewMessage(ctx context.Context, req *model.ChatRequest, stream chan<- model.StreamEvent) {
	defer close(stream)

	if strings.TrimSpace(req.Message) == "" {
		stream <- model.StreamEvent{Type: model.EventError, Detail: "Message content is required."}
		return
	}

	systemMsg := model.Message{Role: model.RoleSystem, Content: routing.SystemPrompt}
	history := trimHistory(req.History, s.historyMaxTurns)
	userMsg := model.Message{Role: model.RoleUser, Content: req.Message}

	providerID := routing.SelectProvider(req.Message)
	override, params := routing.DeriveParameters(providerID, req.Message, req.MaxTokens)

	// The current user message is always last; system messages, including
	// the request-scoped override, precede the history tail.
	messages := make([]model.Message, 0, len(history)+3)
	messages = append(messages, systemMsg)
	if override != "" {
		messages = append(messages, model.Message{Role: model.RoleSystem, Content: override})
	}
	messages = append(messages, history...)
	messages = append(messages, userMsg)

	slog.Info("Routing chat turn", "provider", providerID, "max_tokens", params.MaxTokens)

	resp, err := s.retrier.Do(ctx, func() (provider.Response, error) {
		return s.registry.Invoke(ctx, providerID, messages, params)
	})
	if err != nil {
		s.handleTurnFailure(ctx, providerID, systemMsg, history, userMsg, params, err, stream)
		return
	}

	s.emitReply(resp, stream)
}

// handleTurnFailure decides between same-turn fallback and a terminal error
// event. Only auth/not-found failures from the code/creative provider are
// fallback-eligible; everything else is surfaced verbatim.
func (s *ChatService) handleTurnFailure(
	ctx context.Context,
	failed provider.ID,
	systemMsg model.Message,
	history []model.Message,
	userMsg model.Message,
	params provider.Params,
	err error,
	stream chan<- model.StreamEvent,
) {
	var ue *provider.UpstreamError
	if failed == provider.Gemini && errors.As(err, &ue) && ue.AuthOrNotFound() {
		slog.Warn("Falling back to default text provider", "failed_provider", failed, "status", ue.StatusCode)

		// Reuse the original system prompt and history, dropping the
		// provider-specific override, with deterministic parameters.
		fallbackMsgs := make([]model.Message, 0, len(history)+2)
		fallbackMsgs = append(fallbackMsgs, systemMsg)
		fallbackMsgs = append(fallbackMsgs, history...)
		fallbackMsgs = append(fallbackMsgs, userMsg)

		fallbackParams := provider.Params{
			MaxTokens:   params.MaxTokens,
			Temperature: 0,
			TopP:        1,
		}

		resp, fbErr := s.retrier.Do(ctx, func() (provider.Response, error) {
			return s.registry.Invoke(ctx, provider.Groq, fallbackMsgs, fallbackParams)
		})
		if fbErr != nil {
			slog.Error("Fallback provider failed", "error", fbErr)
			stream <- model.StreamEvent{
				Type:   model.EventError,
				Detail: apperrors.ErrFallbackFailed.Error() + ": " + fbErr.Error(),
			}
			return
		}
		s.emitReply(resp, stream)
		return
	}

	stream <- model.StreamEvent{Type: model.EventError, Detail: errorDetail(err)}
}

// emitReply extracts the reply text and streams it as fixed-size slices in
// original order, each event carrying the cumulative text, then a terminal
// done event with the complete reply.
func (s *ChatService) emitReply(resp provider.Response, stream chan<- model.StreamEvent) {
	reply := normalize.ExtractText(resp)
	if strings.TrimSpace(reply) == "" {
		reply = emptyReplyPlaceholder
	}

	runes := []rune(reply)
	var accumulated strings.Builder
	for i := 0; i < len(runes); i += chunkSize {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		slice := string(runes[i:end])
		accumulated.WriteString(slice)
		stream <- model.StreamEvent{
			Type:        model.EventChunk,
			Content:     slice,
			Accumulated: accumulated.String(),
		}
	}

	stream <- model.StreamEvent{Type: model.EventDone, Content: reply}
}

// errorDetail prefers the provider-supplied body text for upstream errors so
// the caller sees what the provider actually said.
func errorDetail(err error) string {
	var ue *provider.UpstreamError
	if errors.As(err, &ue) {
		return ue.Body
	}
	return err.Error()
}

package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayank200604/HVA/internal/model"
	"github.com/mayank200604/HVA/internal/provider"
	"github.com/mayank200604/HVA/internal/routing"
	"github.com/mayank200604/HVA/internal/service"
)

// capturedCall records one adapter invocation for later assertions.
type capturedCall struct {
	messages []model.Message
	params   provider.Params
}

// fakeProvider is a scripted stand-in for a real adapter.
type fakeProvider struct {
	id     provider.ID
	invoke func() (provider.Response, error)
	calls  []capturedCall
}

func (f *fakeProvider) ID() provider.ID { return f.id }

func (f *fakeProvider) Invoke(_ context.Context, messages []model.Message, params provider.Params) (provider.Response, error) {
	f.calls = append(f.calls, capturedCall{messages: messages, params: params})
	return f.invoke()
}

func textResponse(text string) func() (provider.Response, error) {
	return func() (provider.Response, error) {
		return provider.Response{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": text}},
			},
		}, nil
	}
}

func collectEvents(t *testing.T, svc *service.ChatService, req *model.ChatRequest) []model.StreamEvent {
	t.Helper()
	stream := make(chan model.StreamEvent, 64)
	svc.HandleNewMessage(context.Background(), req, stream)

	var events []model.StreamEvent
	for e := range stream {
		events = append(events, e)
	}
	return events
}

func newService(providers ...provider.Provider) *service.ChatService {
	return service.NewChatService(provider.NewRegistry(providers...), provider.NewRetrier(3), 6)
}

func TestChatService_HandleNewMessage(t *testing.T) {
	t.Run("greeting streams through the default provider", func(t *testing.T) {
		reply := "Hi! How can I help you today?"
		groq := &fakeProvider{id: provider.Groq, invoke: textResponse(reply)}
		svc := newService(groq)

		events := collectEvents(t, svc, &model.ChatRequest{Message: "hi"})

		// 29 characters in 12-char slices: 12 + 12 + 5, then one done event.
		require.Len(t, events, 4)
		assert.Equal(t, model.EventChunk, events[0].Type)
		assert.Equal(t, reply[:12], events[0].Content)
		assert.Equal(t, reply[:12], events[0].Accumulated)
		assert.Equal(t, reply[12:24], events[1].Content)
		assert.Equal(t, reply[:24], events[1].Accumulated)
		assert.Equal(t, reply[24:], events[2].Content)
		assert.Equal(t, reply, events[2].Accumulated)
		assert.Equal(t, model.EventDone, events[3].Type)
		assert.Equal(t, reply, events[3].Content)

		// Deterministic parameters for the default provider.
		require.Len(t, groq.calls, 1)
		assert.Equal(t, 0.0, groq.calls[0].params.Temperature)
		assert.Equal(t, 1.0, groq.calls[0].params.TopP)
		assert.Equal(t, routing.DefaultMaxTokens, groq.calls[0].params.MaxTokens)

		// System prompt first, current user message last.
		msgs := groq.calls[0].messages
		require.GreaterOrEqual(t, len(msgs), 2)
		assert.Equal(t, model.RoleSystem, msgs[0].Role)
		assert.Equal(t, routing.SystemPrompt, msgs[0].Content)
		assert.Equal(t, model.RoleUser, msgs[len(msgs)-1].Role)
		assert.Equal(t, "hi", msgs[len(msgs)-1].Content)
	})

	t.Run("30 character reply yields exactly three chunks", func(t *testing.T) {
		reply := strings.Repeat("abcde", 6) // 30 chars
		groq := &fakeProvider{id: provider.Groq, invoke: textResponse(reply)}
		svc := newService(groq)

		events := collectEvents(t, svc, &model.ChatRequest{Message: "hello"})

		require.Len(t, events, 4)
		assert.Len(t, events[0].Content, 12)
		assert.Len(t, events[1].Content, 12)
		assert.Len(t, events[2].Content, 6)
		assert.Equal(t, reply, events[2].Accumulated)
		assert.Equal(t, model.EventDone, events[3].Type)
		assert.Equal(t, reply, events[3].Content)
	})

	t.Run("blank message short-circuits to an error event", func(t *testing.T) {
		groq := &fakeProvider{id: provider.Groq, invoke: textResponse("never called")}
		svc := newService(groq)

		events := collectEvents(t, svc, &model.ChatRequest{Message: "   "})

		require.Len(t, events, 1)
		assert.Equal(t, model.EventError, events[0].Type)
		assert.Contains(t, events[0].Detail, "required")
		assert.Empty(t, groq.calls)
	})

	t.Run("empty extracted text is replaced with the placeholder", func(t *testing.T) {
		groq := &fakeProvider{id: provider.Groq, invoke: textResponse("")}
		svc := newService(groq)

		events := collectEvents(t, svc, &model.ChatRequest{Message: "hello"})

		last := events[len(events)-1]
		assert.Equal(t, model.EventDone, last.Type)
		assert.Contains(t, last.Content, "Empty response from model")
	})

	t.Run("gemini 404 falls back to the default provider in the same turn", func(t *testing.T) {
		gemini := &fakeProvider{id: provider.Gemini, invoke: func() (provider.Response, error) {
			return nil, &provider.UpstreamError{StatusCode: 404, Body: "model not found"}
		}}
		groq := &fakeProvider{id: provider.Groq, invoke: textResponse("fallback reply")}
		svc := newService(gemini, groq)

		events := collectEvents(t, svc, &model.ChatRequest{
			Message: "fix this bug in my code",
			History: []model.Message{
				{Role: model.RoleUser, Content: "earlier question"},
				{Role: model.RoleAssistant, Content: "earlier answer"},
			},
		})

		// Emitted events originate from the fallback reply, not the failure.
		last := events[len(events)-1]
		assert.Equal(t, model.EventDone, last.Type)
		assert.Equal(t, "fallback reply", last.Content)

		// The original call carried the code override; the fallback drops it
		// but keeps the system prompt and history.
		require.Len(t, gemini.calls, 1)
		assert.Equal(t, routing.CodeOverride, gemini.calls[0].messages[1].Content)

		require.Len(t, groq.calls, 1)
		fallbackMsgs := groq.calls[0].messages
		require.Len(t, fallbackMsgs, 4)
		assert.Equal(t, routing.SystemPrompt, fallbackMsgs[0].Content)
		assert.Equal(t, "earlier question", fallbackMsgs[1].Content)
		assert.Equal(t, "earlier answer", fallbackMsgs[2].Content)
		assert.Equal(t, "fix this bug in my code", fallbackMsgs[3].Content)
		assert.Equal(t, 0.0, groq.calls[0].params.Temperature)
		assert.Equal(t, 1.0, groq.calls[0].params.TopP)
	})

	t.Run("failed fallback names the fallback failure", func(t *testing.T) {
		gemini := &fakeProvider{id: provider.Gemini, invoke: func() (provider.Response, error) {
			return nil, &provider.UpstreamError{StatusCode: 401, Body: "bad key"}
		}}
		groq := &fakeProvider{id: provider.Groq, invoke: func() (provider.Response, error) {
			return nil, &provider.UpstreamError{StatusCode: 400, Body: "fallback rejected"}
		}}
		svc := newService(gemini, groq)

		events := collectEvents(t, svc, &model.ChatRequest{Message: "debug my code"})

		require.Len(t, events, 1)
		assert.Equal(t, model.EventError, events[0].Type)
		assert.Contains(t, events[0].Detail, "fallback")
		assert.Contains(t, events[0].Detail, "fallback rejected")
	})

	t.Run("non-fallback upstream errors surface the provider body", func(t *testing.T) {
		groq := &fakeProvider{id: provider.Groq, invoke: func() (provider.Response, error) {
			return nil, &provider.UpstreamError{StatusCode: 400, Body: "bad request body"}
		}}
		svc := newService(groq)

		events := collectEvents(t, svc, &model.ChatRequest{Message: "hello"})

		require.Len(t, events, 1)
		assert.Equal(t, model.EventError, events[0].Type)
		assert.Equal(t, "bad request body", events[0].Detail)
	})

	t.Run("history is trimmed to the most recent turns", func(t *testing.T) {
		groq := &fakeProvider{id: provider.Groq, invoke: textResponse("ok")}
		svc := newService(groq)

		var history []model.Message
		for i := 0; i < 20; i++ {
			history = append(history,
				model.Message{Role: model.RoleUser, Content: "q"},
				model.Message{Role: model.RoleAssistant, Content: "a"},
			)
		}
		collectEvents(t, svc, &model.ChatRequest{Message: "hello", History: history})

		require.Len(t, groq.calls, 1)
		// system prompt + 6 turns (12 messages) + current user message.
		assert.Len(t, groq.calls[0].messages, 14)
	})
}

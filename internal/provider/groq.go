package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/mayank200604/HVA/internal/errors"
	"github.com/mayank200604/HVA/internal/model"
)

// groqProvider talks to Groq's OpenAI-compatible chat completions endpoint.
// Canonical roles map directly onto the provider's native message array, so
// this is the simplest of the three adapters.
type groqProvider struct {
	client       *http.Client
	url          string
	apiKey       string
	defaultModel string
}

// NewGroq creates the Groq adapter. The request timeout is fixed at 30
// seconds; exceeding it surfaces as a transport failure.
func NewGroq(url, apiKey, defaultModel string) Provider {
	return &groqProvider{
		client:       &http.Client{Timeout: 30 * time.Second},
		url:          url,
		apiKey:       apiKey,
		defaultModel: defaultModel,
	}
}

func (p *groqProvider) ID() ID { return Groq }

type groqRequest struct {
	Model       string          `json:"model"`
	Messages    []model.Message `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
	Stream      bool            `json:"stream"`
}

func (p *groqProvider) Invoke(ctx context.Context, messages []model.Message, params Params) (Response, error) {
	mdl := params.Model
	if mdl == "" {
		mdl = p.defaultModel
	}
	body, err := json.Marshal(groqRequest{
		Model:       mdl,
		Messages:    messages,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		TopP:        params.TopP,
		Stream:      params.Stream,
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var out Response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("%w: upstream API returned empty or invalid JSON response", apperrors.ErrMalformed)
	}
	return out, nil
}

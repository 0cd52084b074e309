package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/mayank200604/HVA/internal/errors"
	"github.com/mayank200604/HVA/internal/model"
)

// geminiProvider talks to the Gemini generateContent endpoint. Gemini's
// native protocol has no "system" role, so every call first reshapes the
// canonical conversation: system texts are joined by blank lines and
// prepended to the first user message, and assistant turns are re-labelled
// to Gemini's "model" role.
type geminiProvider struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	defaultModel string
}

// NewGemini creates the Gemini adapter with a fixed 30 second timeout.
func NewGemini(baseURL, apiKey, defaultModel string) Provider {
	return &geminiProvider{
		client:       &http.Client{Timeout: 30 * time.Second},
		baseURL:      baseURL,
		apiKey:       apiKey,
		defaultModel: defaultModel,
	}
}

func (p *geminiProvider) ID() ID { return Gemini }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiGenConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
}

// reshape converts canonical messages into Gemini contents, folding system
// texts into the first user message. If no user message remains after
// filtering, a synthetic one is created from the joined system text.
func reshape(messages []model.Message) []geminiContent {
	var systemTexts []string
	var contents []geminiContent

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			if msg.Content != "" {
				systemTexts = append(systemTexts, msg.Content)
			}
		case model.RoleUser:
			contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: msg.Content}}})
		case model.RoleAssistant:
			contents = append(contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: msg.Content}}})
		}
	}

	joined := strings.Join(systemTexts, "\n\n")
	if joined != "" {
		prefixed := false
		for i := range contents {
			if contents[i].Role == "user" {
				contents[i].Parts[0].Text = joined + "\n\n" + contents[i].Parts[0].Text
				prefixed = true
				break
			}
		}
		if !prefixed {
			contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: joined}}})
		}
	}
	if len(contents) == 0 {
		contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: joined}}})
	}
	return contents
}

func (p *geminiProvider) Invoke(ctx context.Context, messages []model.Message, params Params) (Response, error) {
	mdl := params.Model
	if mdl == "" {
		mdl = p.defaultModel
	}
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", p.baseURL, mdl, p.apiKey)

	body, err := json.Marshal(geminiRequest{
		Contents: reshape(messages),
		GenerationConfig: geminiGenConfig{
			MaxOutputTokens: params.MaxTokens,
			Temperature:     params.Temperature,
			TopP:            params.TopP,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
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

package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mayank200604/HVA/internal/model"
)

// hfImageProvider talks to the Hugging Face router inference API for image
// generation. The provider ignores role structure entirely: system and user
// texts are flattened into one prompt string. The response is raw image
// bytes, which the adapter wraps into an artifacts envelope so downstream
// extraction is uniform across providers.
type hfImageProvider struct {
	client       *http.Client
	baseURL      string
	apiKey       string
	defaultModel string
}

// NewHFImage creates the Hugging Face image adapter. Image synthesis is slow,
// so the timeout is 90 seconds rather than the 30 used for text providers.
func NewHFImage(baseURL, apiKey, defaultModel string) Provider {
	return &hfImageProvider{
		client:       &http.Client{Timeout: 90 * time.Second},
		baseURL:      baseURL,
		apiKey:       apiKey,
		defaultModel: defaultModel,
	}
}

func (p *hfImageProvider) ID() ID { return HuggingFace }

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	NumInferenceSteps int     `json:"num_inference_steps"`
	GuidanceScale     float64 `json:"guidance_scale"`
}

// buildPrompt flattens the conversation into a single prompt string:
// newline-joined system texts, a blank line, then newline-joined user texts.
// A blank result falls back to a fixed placeholder.
func buildPrompt(messages []model.Message) string {
	var systemTexts, userTexts []string
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case model.RoleSystem:
			systemTexts = append(systemTexts, msg.Content)
		case model.RoleUser:
			userTexts = append(userTexts, msg.Content)
		}
	}

	var b strings.Builder
	if len(systemTexts) > 0 {
		b.WriteString(strings.Join(systemTexts, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString(strings.Join(userTexts, "\n"))

	prompt := b.String()
	if strings.TrimSpace(prompt) == "" {
		return "Generate an image."
	}
	return prompt
}

// errorText digs a human-readable message out of an upstream error body,
// preferring the JSON error/message/detail fields over the raw text.
func errorText(body []byte, fallback string) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err == nil {
		for _, key := range []string{"error", "message", "detail"} {
			if s, ok := obj[key].(string); ok && s != "" {
				return s
			}
		}
	}
	if len(body) > 0 {
		return string(body)
	}
	return fallback
}

// hiddenErrorText renders an error value found in a 2xx JSON body. Strings
// pass through; structured values are re-marshaled so the detail survives.
func hiddenErrorText(val any) string {
	if s, ok := val.(string); ok && s != "" {
		return s
	}
	if encoded, err := json.Marshal(val); err == nil {
		return string(encoded)
	}
	return fmt.Sprintf("%v", val)
}

func (p *hfImageProvider) Invoke(ctx context.Context, messages []model.Message, params Params) (Response, error) {
	mdl := params.Model
	if mdl == "" {
		mdl = p.defaultModel
	}
	url := fmt.Sprintf("%s/hf-inference/models/%s", p.baseURL, mdl)

	body, err := json.Marshal(hfRequest{
		Inputs: buildPrompt(messages),
		Parameters: hfParameters{
			NumInferenceSteps: 20,
			GuidanceScale:     7.5,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+strings.TrimSpace(p.apiKey))
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

	// Classify the raw response before treating the body as an image.
	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		// The model is still warming up; this status is retryable.
		detail := errorText(respBody, resp.Status)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       fmt.Sprintf("model is loading, please try again in a moment: %s", detail),
		}
	case resp.StatusCode == http.StatusNotFound:
		detail := errorText(respBody, fmt.Sprintf("model '%s' not found, check if the model name is correct", mdl))
		return nil, &UpstreamError{StatusCode: http.StatusNotFound, Body: detail}
	case resp.StatusCode >= 400:
		detail := errorText(respBody, resp.Status)
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       fmt.Sprintf("image API error (%d): %s", resp.StatusCode, detail),
		}
	}

	// A JSON content type on a success status may still hide an error object.
	// The presence of the key is what matters; the value may be a string or a
	// structured object.
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(contentType, "application/json") {
		var obj map[string]any
		if err := json.Unmarshal(respBody, &obj); err == nil {
			if val, ok := obj["error"]; ok {
				return nil, &UpstreamError{StatusCode: http.StatusBadGateway, Body: hiddenErrorText(val)}
			}
		}
	}

	// Only a binary body of plausible size is accepted as image data.
	if len(respBody) < 100 {
		return nil, &UpstreamError{
			StatusCode: http.StatusBadGateway,
			Body:       "image API returned empty or invalid image response",
		}
	}

	// Base64-encode the bytes so extraction is uniform with JSON providers.
	encoded := base64.StdEncoding.EncodeToString(respBody)
	return Response{
		"artifacts": []any{
			map[string]any{"base64": encoded},
		},
	}, nil
}

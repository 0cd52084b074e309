package provider

import (
	"context"
	"fmt"

	"github.com/mayank200604/HVA/internal/model"
)

// ID identifies one of the configured upstream providers.
type ID string

const (
	// Groq is the default text-completion provider.
	Groq ID = "groq"
	// Gemini is the code/creative text provider.
	Gemini ID = "gemini"
	// HuggingFace is the image-generation provider.
	HuggingFace ID = "hf"
)

// Params are the generation parameters for a single provider call. They are
// chosen by the routing layer per provider and per detected intent, and are
// immutable for the lifetime of one request.
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Stream      bool
}

// Response is the opaque, provider-shaped body returned by an adapter. It is
// deliberately not validated against a fixed schema; the normalize package
// must tolerate missing or extra fields.
type Response map[string]any

// Provider translates a canonical message list into a provider-specific
// request, issues the call, and returns the provider's response envelope.
type Provider interface {
	ID() ID
	Invoke(ctx context.Context, messages []model.Message, params Params) (Response, error)
}

// Registry holds the configured providers and dispatches calls by ID.
type Registry struct {
	providers map[ID]Provider
}

// NewRegistry builds a registry from the given providers.
func NewRegistry(providers ...Provider) *Registry {
	m := make(map[ID]Provider, len(providers))
	for _, p := range providers {
		m[p.ID()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider registered under id.
func (r *Registry) Get(id ID) (Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", id)
	}
	return p, nil
}

// Invoke dispatches a call to the provider registered under id.
func (r *Registry) Invoke(ctx context.Context, id ID, messages []model.Message, params Params) (Response, error) {
	p, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return p.Invoke(ctx, messages, params)
}

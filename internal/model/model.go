package model

// Message is one role-tagged turn of a conversation, independent of any
// provider's native schema. Messages are immutable once constructed; their
// order inside a conversation is semantically significant.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Recognized message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatRequest is the inbound payload of the chat endpoint.
type ChatRequest struct {
	Message   string    `json:"message" validate:"required"`
	SessionID string    `json:"sessionId,omitempty"`
	History   []Message `json:"history,omitempty"`
	MaxTokens int       `json:"maxTokens,omitempty" validate:"gte=0"`
}

// ImageGenRequest is the inbound payload of the image generation endpoint.
// Size and style are accepted for forward compatibility but ignored.
type ImageGenRequest struct {
	Prompt string `json:"prompt" validate:"required"`
	Model  string `json:"model,omitempty"`
	Size   string `json:"size,omitempty"`
	Style  string `json:"style,omitempty"`
}

// Stream event types. A stream is zero or more chunk events followed by
// exactly one terminal done or error event.
const (
	EventChunk = "chunk"
	EventDone  = "done"
	EventError = "error"
)

// StreamEvent is a single increment of a simulated streaming chat response.
// Chunk events carry the new slice and the cumulative text emitted so far;
// the done event carries the complete untruncated reply.
type StreamEvent struct {
	Type        string `json:"type"`
	Content     string `json:"content,omitempty"`
	Accumulated string `json:"accumulated,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// ImageMeta describes a stored generation result.
type ImageMeta struct {
	Mime              string `json:"mime"`
	OriginalFilename  string `json:"originalFilename"`
	ThumbnailFilename string `json:"thumbnailFilename"`
	Base64Length      int    `json:"base64Length"`
}

// ImageGenResult is the success payload of the image generation endpoint.
// URL points at the thumbnail under the image retrieval endpoint.
type ImageGenResult struct {
	URL  string    `json:"url"`
	Meta ImageMeta `json:"meta"`
}

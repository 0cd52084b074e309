// Package normalize extracts a uniform result shape from the heterogeneous
// response envelopes returned by the upstream providers. Extraction is a
// family of shape-specific matchers composed via ordered fallback; a generic
// recursive scan exists only as the lowest-priority path for image payloads,
// because different providers nest them at different depths and under
// different key names.
package normalize

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mayank200604/HVA/internal/provider"
)

// textExtractors are tried in order until one yields non-empty text. Each
// must tolerate missing keys and simply decline rather than panic.
var textExtractors = []func(provider.Response) (string, bool){
	fromCandidateParts,
	fromCandidateString,
	fromChatChoices,
	fromOutputField,
	fromTextField,
}

// ExtractText locates the assistant's textual reply inside an arbitrary
// provider response. As a last resort the whole response is stringified, so
// the caller always gets something to show.
func ExtractText(resp provider.Response) string {
	if len(resp) == 0 {
		return ""
	}
	for _, extract := range textExtractors {
		if text, ok := extract(resp); ok {
			return text
		}
	}
	return fmt.Sprintf("%v", map[string]any(resp))
}

// fromCandidateParts handles the nested-candidate shape:
// candidates[0].content.parts[].text, concatenated in array order.
func fromCandidateParts(resp provider.Response) (string, bool) {
	content, ok := firstCandidateContent(resp)
	if !ok {
		return "", false
	}
	obj, ok := content.(map[string]any)
	if !ok {
		return "", false
	}
	parts, ok := obj["parts"].([]any)
	if !ok {
		return "", false
	}
	var b strings.Builder
	for _, p := range parts {
		if part, ok := p.(map[string]any); ok {
			if text, ok := part["text"].(string); ok {
				b.WriteString(text)
			}
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// fromCandidateString handles the variant where candidates[0].content is a
// direct string.
func fromCandidateString(resp provider.Response) (string, bool) {
	content, ok := firstCandidateContent(resp)
	if !ok {
		return "", false
	}
	if s, ok := content.(string); ok && strings.TrimSpace(s) != "" {
		return s, true
	}
	return "", false
}

// fromChatChoices handles the chat-completion shape:
// choices[0].message.content.
func fromChatChoices(resp provider.Response) (string, bool) {
	choices, ok := resp["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	message, ok := choice["message"].(map[string]any)
	if !ok {
		return "", false
	}
	if s, ok := message["content"].(string); ok && strings.TrimSpace(s) != "" {
		return s, true
	}
	return "", false
}

func fromOutputField(resp provider.Response) (string, bool) {
	if s, ok := resp["output"].(string); ok && strings.TrimSpace(s) != "" {
		return s, true
	}
	return "", false
}

func fromTextField(resp provider.Response) (string, bool) {
	if s, ok := resp["text"].(string); ok && strings.TrimSpace(s) != "" {
		return s, true
	}
	return "", false
}

func firstCandidateContent(resp provider.Response) (any, bool) {
	candidates, ok := resp["candidates"].([]any)
	if !ok || len(candidates) == 0 {
		return nil, false
	}
	first, ok := candidates[0].(map[string]any)
	if !ok {
		return nil, false
	}
	content, ok := first["content"]
	return content, ok
}

// Keys probed first when scanning an object for an image payload, in
// priority order.
var imageKeys = []string{"artifacts", "image", "images", "b64_json", "base64", "b64", "data", "output"}

// Keys accepted inside artifacts/outputs entries even without a base64 magic
// prefix, as long as the value is long enough to plausibly be an image.
var artifactValueKeys = []string{"base64", "b64", "b64_json", "data", "image"}

// ExtractImageBase64 performs a recursive, order-preserving search over an
// arbitrary JSON-like value for a base64-encoded image. Strings are accepted
// when they carry PNG (`iVBOR`) or JPEG (`/9j/`) base64 magic; inside known
// artifact keys a length over 100 characters is enough. The first match
// anywhere in the structure wins. Whitespace is stripped from the result.
func ExtractImageBase64(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		s := strings.TrimSpace(val)
		if hasImageMagic(s) {
			return stripSpace(s), true
		}
		// The string itself may be a JSON document hiding the payload.
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err == nil {
			// Guard against strings that decode to themselves.
			if _, isStr := parsed.(string); !isStr {
				return ExtractImageBase64(parsed)
			}
		}
		return "", false
	case map[string]any:
		return extractFromObject(val)
	case []any:
		for _, item := range val {
			if b64, ok := ExtractImageBase64(item); ok {
				return b64, true
			}
		}
		return "", false
	default:
		return "", false
	}
}

func extractFromObject(obj map[string]any) (string, bool) {
	// Pass 1: the fixed priority key list.
	for _, key := range imageKeys {
		val, present := obj[key]
		if !present {
			continue
		}
		switch v := val.(type) {
		case string:
			if s := strings.TrimSpace(v); hasImageMagic(s) {
				return stripSpace(s), true
			}
		case []any:
			for _, item := range v {
				if b64, ok := ExtractImageBase64(item); ok {
					return b64, true
				}
			}
		case map[string]any:
			if b64, ok := ExtractImageBase64(v); ok {
				return b64, true
			}
		}
	}

	// Pass 2: artifacts/outputs entries get looser acceptance, since some
	// providers return bare base64 without a recognizable magic prefix.
	for _, listKey := range []string{"artifacts", "outputs"} {
		entries, ok := obj[listKey].([]any)
		if !ok {
			continue
		}
		for _, entry := range entries {
			artifact, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			for _, key := range artifactValueKeys {
				if s, ok := artifact[key].(string); ok {
					clean := stripSpace(s)
					if hasImageMagic(clean) || len(clean) > 100 {
						return clean, true
					}
				}
			}
			for _, key := range sortedKeys(artifact) {
				if b64, ok := ExtractImageBase64(artifact[key]); ok {
					return b64, true
				}
			}
		}
	}

	// Pass 3: exhaustive scan of every value, sorted for determinism.
	for _, key := range sortedKeys(obj) {
		if b64, ok := ExtractImageBase64(obj[key]); ok {
			return b64, true
		}
	}
	return "", false
}

func hasImageMagic(s string) bool {
	return strings.HasPrefix(s, "iVBOR") || strings.HasPrefix(s, "/9j/")
}

func stripSpace(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func sortedKeys(obj map[string]any) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

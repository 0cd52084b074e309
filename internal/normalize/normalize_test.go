package normalize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayank200604/HVA/internal/normalize"
	"github.com/mayank200604/HVA/internal/provider"
)

func TestExtractText(t *testing.T) {
	t.Run("concatenates candidate parts in array order", func(t *testing.T) {
		resp := provider.Response{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"parts": []any{
							map[string]any{"text": "Hello, "},
							map[string]any{"text": "world"},
							map[string]any{"notText": 42},
							map[string]any{"text": "!"},
						},
					},
				},
			},
		}
		assert.Equal(t, "Hello, world!", normalize.ExtractText(resp))
	})

	t.Run("candidate content as direct string", func(t *testing.T) {
		resp := provider.Response{
			"candidates": []any{
				map[string]any{"content": "direct string reply"},
			},
		}
		assert.Equal(t, "direct string reply", normalize.ExtractText(resp))
	})

	t.Run("falls through to chat-completion shape when candidates absent", func(t *testing.T) {
		resp := provider.Response{
			"choices": []any{
				map[string]any{
					"message": map[string]any{"role": "assistant", "content": "chat reply"},
				},
			},
		}
		assert.Equal(t, "chat reply", normalize.ExtractText(resp))
	})

	t.Run("top-level output field", func(t *testing.T) {
		assert.Equal(t, "out", normalize.ExtractText(provider.Response{"output": "out"}))
	})

	t.Run("top-level text field", func(t *testing.T) {
		assert.Equal(t, "txt", normalize.ExtractText(provider.Response{"text": "txt"}))
	})

	t.Run("malformed candidates do not panic and fall through", func(t *testing.T) {
		resp := provider.Response{
			"candidates": "not a list",
			"text":       "fallback text",
		}
		assert.Equal(t, "fallback text", normalize.ExtractText(resp))
	})

	t.Run("empty response yields empty string", func(t *testing.T) {
		assert.Equal(t, "", normalize.ExtractText(nil))
		assert.Equal(t, "", normalize.ExtractText(provider.Response{}))
	})

	t.Run("unknown shape is stringified as last resort", func(t *testing.T) {
		got := normalize.ExtractText(provider.Response{"weird": 7})
		assert.Contains(t, got, "weird")
	})
}

func TestExtractImageBase64(t *testing.T) {
	pngPayload := "iVBORw0KGgo" + strings.Repeat("A", 120)

	t.Run("finds payload nested three levels deep", func(t *testing.T) {
		v := []any{
			map[string]any{
				"result": map[string]any{
					"inner": map[string]any{"blob": pngPayload},
				},
			},
		}
		got, ok := normalize.ExtractImageBase64(v)
		require.True(t, ok)
		assert.Equal(t, pngPayload, got)
	})

	t.Run("returns miss when nothing image-like exists", func(t *testing.T) {
		v := map[string]any{
			"a": []any{"plain text", 12},
			"b": map[string]any{"c": "still not an image"},
		}
		_, ok := normalize.ExtractImageBase64(v)
		assert.False(t, ok)
	})

	t.Run("finds artifacts base64 without magic prefix by length", func(t *testing.T) {
		long := strings.Repeat("Q", 150)
		v := map[string]any{
			"artifacts": []any{
				map[string]any{"base64": long},
			},
		}
		got, ok := normalize.ExtractImageBase64(v)
		require.True(t, ok)
		assert.Equal(t, long, got)
	})

	t.Run("short strings under unknown keys are not accepted", func(t *testing.T) {
		v := map[string]any{"unknown": strings.Repeat("Q", 150)}
		// Length alone is only trusted inside artifact entries; elsewhere the
		// magic prefix is required.
		_, ok := normalize.ExtractImageBase64(v)
		assert.False(t, ok)
	})

	t.Run("jpeg magic accepted anywhere", func(t *testing.T) {
		got, ok := normalize.ExtractImageBase64("/9j/4AAQSkZJRg")
		require.True(t, ok)
		assert.Equal(t, "/9j/4AAQSkZJRg", got)
	})

	t.Run("whitespace is stripped from the match", func(t *testing.T) {
		got, ok := normalize.ExtractImageBase64("iVBORw0K\nGgoAAA  AN")
		require.True(t, ok)
		assert.Equal(t, "iVBORw0KGgoAAAAN", got)
	})

	t.Run("payload hidden inside a JSON string is found", func(t *testing.T) {
		v := `{"image": "` + pngPayload + `"}`
		got, ok := normalize.ExtractImageBase64(v)
		require.True(t, ok)
		assert.Equal(t, pngPayload, got)
	})

	t.Run("list elements are scanned in order", func(t *testing.T) {
		first := "iVBOR" + strings.Repeat("A", 110)
		second := "iVBOR" + strings.Repeat("B", 110)
		got, ok := normalize.ExtractImageBase64([]any{
			map[string]any{"image": first},
			map[string]any{"image": second},
		})
		require.True(t, ok)
		assert.Equal(t, first, got)
	})

	t.Run("nil yields miss", func(t *testing.T) {
		_, ok := normalize.ExtractImageBase64(nil)
		assert.False(t, ok)
	})
}

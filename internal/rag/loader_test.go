package rag_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayank200604/HVA/internal/rag"
)

func TestLoadMarkdown(t *testing.T) {
	t.Run("loads only markdown files", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.md"), []byte("# Alpha\ncontent"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "beta.md"), []byte("# Beta"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
		require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.md"), 0o755))

		docs, err := rag.LoadMarkdown(dir)
		require.NoError(t, err)
		require.Len(t, docs, 2)

		assert.Equal(t, "alpha.md", docs[0].Source)
		assert.Equal(t, "# Alpha\ncontent", docs[0].Content)
		assert.Equal(t, "markdown", docs[0].DocType)
		assert.Equal(t, "beta.md", docs[1].Source)
	})

	t.Run("missing directory is an error", func(t *testing.T) {
		_, err := rag.LoadMarkdown(filepath.Join(t.TempDir(), "absent"))
		assert.Error(t, err)
	})

	t.Run("empty directory yields no documents", func(t *testing.T) {
		docs, err := rag.LoadMarkdown(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

// Package rag implements the document ingestion pipeline: local markdown
// files are loaded, split into overlapping chunks, embedded over HTTP, and
// stored in a sqlite-backed vector index. The chat path does not use this
// pipeline; ingestion runs as its own command.
package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is one loaded source file with its metadata.
type Document struct {
	Content    string
	Source     string
	DocType    string
	ChunkIndex int
}

// LoadMarkdown reads every .md file directly under dir into a Document.
func LoadMarkdown(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read docs directory: %w", err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("could not read %s: %w", entry.Name(), err)
		}
		docs = append(docs, Document{
			Content: string(data),
			Source:  entry.Name(),
			DocType: "markdown",
		})
	}
	return docs, nil
}

// Command ingest loads local markdown documents, splits them into
// overlapping chunks, embeds them, and stores them in the sqlite vector
// index. It runs to completion and exits; the chat server never calls it.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mayank200604/HVA/internal/config"
	"github.com/mayank200604/HVA/internal/database"
	"github.com/mayank200604/HVA/internal/rag"
)

const (
	chunkSize    = 1000
	chunkOverlap = 200
	// embedBatchSize bounds how many chunks go to the embedding API per call.
	embedBatchSize = 32
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	ctx := context.Background()

	docs, err := rag.LoadMarkdown(cfg.RAGDocsPath)
	if err != nil {
		slog.Error("Failed to load documents", "path", cfg.RAGDocsPath, "error", err)
		return 1
	}
	slog.Info("Loaded documents", "count", len(docs))

	chunker := rag.NewChunker(chunkSize, chunkOverlap)
	chunks := chunker.ChunkDocuments(docs)
	slog.Info("Created chunks", "count", len(chunks))

	embedder := rag.NewEmbedder(cfg.HFAPIURL, cfg.HFAPIKey, cfg.EmbeddingModel)
	store := rag.NewChunkStore(db)

	stored := 0
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vectors, err := embedder.Embed(ctx, texts)
		if err != nil {
			slog.Error("Failed to embed batch", "start", start, "error", err)
			return 1
		}

		for i, c := range batch {
			_, err := store.Add(ctx, &rag.Chunk{
				Source:     c.Source,
				DocType:    c.DocType,
				ChunkIndex: c.ChunkIndex,
				Content:    c.Content,
				Embedding:  vectors[i],
			})
			if err != nil {
				slog.Error("Failed to store chunk", "source", c.Source, "index", c.ChunkIndex, "error", err)
				return 1
			}
			stored++
		}
	}

	slog.Info("Ingestion complete", "chunks", stored)
	return 0
}

package rag

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Chunk is one embedded document slice as persisted in the vector index.
type Chunk struct {
	ID         string
	Source     string
	DocType    string
	ChunkIndex int
	Content    string
	Embedding  []float64
}

// ChunkStore persists embedded chunks in sqlite. Vectors are stored as JSON
// text; at this corpus size a linear scan with cosine similarity is plenty.
type ChunkStore struct {
	db *sql.DB
}

// NewChunkStore wraps an initialized database handle.
func NewChunkStore(db *sql.DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// Add inserts one embedded chunk and returns its generated id.
func (s *ChunkStore) Add(ctx context.Context, chunk *Chunk) (string, error) {
	id := uuid.NewString()
	embedding, err := json.Marshal(chunk.Embedding)
	if err != nil {
		return "", fmt.Errorf("could not marshal embedding: %w", err)
	}
	query := "INSERT INTO chunks (id, source, doc_type, chunk_index, content, embedding, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	_, err = s.db.ExecContext(ctx, query, id, chunk.Source, chunk.DocType, chunk.ChunkIndex, chunk.Content, string(embedding), time.Now())
	if err != nil {
		return "", err
	}
	return id, nil
}

// Count returns the number of stored chunks.
func (s *ChunkStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n)
	return n, err
}

// ScoredChunk is a search hit with its cosine similarity to the query vector.
type ScoredChunk struct {
	Chunk
	Score float64
}

// Search returns the topK stored chunks most similar to the query vector.
func (s *ChunkStore) Search(ctx context.Context, query []float64, topK int) ([]ScoredChunk, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, source, doc_type, chunk_index, content, embedding FROM chunks")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scored []ScoredChunk
	for rows.Next() {
		var c Chunk
		var embedding string
		if err := rows.Scan(&c.ID, &c.Source, &c.DocType, &c.ChunkIndex, &c.Content, &embedding); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(embedding), &c.Embedding); err != nil {
			return nil, fmt.Errorf("corrupt embedding for chunk %s: %w", c.ID, err)
		}
		scored = append(scored, ScoredChunk{Chunk: c, Score: cosineSimilarity(query, c.Embedding)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

package rag

import "strings"

// Chunker splits text recursively on a fixed separator hierarchy, producing
// chunks no longer than ChunkSize with ChunkOverlap characters carried over
// between adjacent chunks.
type Chunker struct {
	ChunkSize    int
	ChunkOverlap int
	separators   []string
}

// NewChunker creates a chunker with the standard separator hierarchy:
// paragraph breaks, line breaks, spaces, then hard character cuts.
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	return &Chunker{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		separators:   []string{"\n\n", "\n", " ", ""},
	}
}

// ChunkDocuments splits each document and annotates every chunk with its
// index within the source document.
func (c *Chunker) ChunkDocuments(docs []Document) []Document {
	var out []Document
	for _, doc := range docs {
		for i, chunk := range c.Split(doc.Content) {
			out = append(out, Document{
				Content:    chunk,
				Source:     doc.Source,
				DocType:    doc.DocType,
				ChunkIndex: i,
			})
		}
	}
	return out
}

// Split divides text into chunks of at most ChunkSize characters.
func (c *Chunker) Split(text string) []string {
	var chunks []string
	for _, chunk := range c.split(text, c.separators) {
		trimmed := strings.TrimSpace(chunk)
		if trimmed != "" {
			chunks = append(chunks, trimmed)
		}
	}
	return chunks
}

func (c *Chunker) split(text string, separators []string) []string {
	if len(text) <= c.ChunkSize {
		return []string{text}
	}

	// Pick the coarsest separator that actually occurs in the text; the
	// empty separator always applies and means a hard cut.
	sep := ""
	var remaining []string
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			sep = s
			remaining = separators[i+1:]
			break
		}
	}

	if sep == "" {
		return hardCut(text, c.ChunkSize)
	}

	var final []string
	var pending []string
	flush := func() {
		if len(pending) > 0 {
			final = append(final, c.merge(pending, sep)...)
			pending = nil
		}
	}
	for _, piece := range strings.Split(text, sep) {
		if len(piece) <= c.ChunkSize {
			pending = append(pending, piece)
			continue
		}
		// An oversized piece is split again at the next-finer separator.
		flush()
		final = append(final, c.split(piece, remaining)...)
	}
	flush()
	return final
}

// merge greedily joins small pieces back together up to ChunkSize, carrying
// a ChunkOverlap-sized tail of pieces into the next chunk.
func (c *Chunker) merge(pieces []string, sep string) []string {
	var chunks []string
	var current []string

	for _, piece := range pieces {
		if joinedLen(current, sep)+len(sep)+len(piece) > c.ChunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, sep))
			// Retain the tail for overlap with the next chunk.
			for joinedLen(current, sep) > c.ChunkOverlap && len(current) > 0 {
				current = current[1:]
			}
		}
		current = append(current, piece)
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, sep))
	}
	return chunks
}

func joinedLen(pieces []string, sep string) int {
	if len(pieces) == 0 {
		return 0
	}
	n := len(sep) * (len(pieces) - 1)
	for _, p := range pieces {
		n += len(p)
	}
	return n
}

func hardCut(text string, size int) []string {
	runes := []rune(text)
	var out []string
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
	}
	return out
}

package index

import (
	"fmt"
	"math"
	"sort"

	"docchat/internal/domain"
	"docchat/internal/port"
)

// Snapshot is an immutable in-memory vector index: embedded chunks in
// insertion order plus the version counter of the artifact it was
// loaded from (zero until saved). Readers hold a snapshot for the whole
// query; writers produce new snapshots and never mutate a published
// one.
type Snapshot struct {
	dimension int
	version   uint64
	entries   []entry
}

type entry struct {
	id     string
	vector []float32
	chunk  domain.Chunk
}

// Build creates a fresh snapshot from chunks, embedding each text.
// Used for the initial index and for full rebuilds.
func Build(chunks []domain.Chunk, embedder port.Embedder) (*Snapshot, error) {
	if len(chunks) == 0 {
		return nil, domain.ErrNoChunks
	}

	entries, err := embedChunks(chunks, embedder)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		dimension: embedder.Dimension(),
		entries:   entries,
	}, nil
}

// Merge embeds new chunks and returns the union of the receiver and the
// new batch as a fresh snapshot. Existing entries keep their insertion
// order; the receiver is left untouched.
func (s *Snapshot) Merge(chunks []domain.Chunk, embedder port.Embedder) (*Snapshot, error) {
	if len(chunks) == 0 {
		return nil, domain.ErrNoChunks
	}
	if embedder.Dimension() != s.dimension {
		return nil, fmt.Errorf("embedder dimension %d does not match index dimension %d",
			embedder.Dimension(), s.dimension)
	}

	newEntries, err := embedChunks(chunks, embedder)
	if err != nil {
		return nil, err
	}

	merged := make([]entry, 0, len(s.entries)+len(newEntries))
	merged = append(merged, s.entries...)
	merged = append(merged, newEntries...)

	return &Snapshot{
		dimension: s.dimension,
		entries:   merged,
	}, nil
}

func embedChunks(chunks []domain.Chunk, embedder port.Embedder) ([]entry, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := embedder.Embed(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	entries := make([]entry, len(chunks))
	for i, chunk := range chunks {
		if len(vectors[i]) != embedder.Dimension() {
			return nil, fmt.Errorf("vector dimension mismatch: expected %d, got %d",
				embedder.Dimension(), len(vectors[i]))
		}
		entries[i] = entry{
			id:     chunk.ID,
			vector: vectors[i],
			chunk:  chunk,
		}
	}
	return entries, nil
}

// Search returns the k nearest chunks to the query vector by cosine
// similarity. Ties are broken by insertion order.
func (s *Snapshot) Search(query []float32, k int) ([]domain.SearchResult, error) {
	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}
	if k <= 0 || len(s.entries) == 0 {
		return nil, nil
	}

	scores := make([]domain.SearchResult, len(s.entries))
	for i, e := range s.entries {
		scores[i] = domain.SearchResult{
			Chunk: e.chunk,
			Score: cosineSimilarity(query, e.vector),
		}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	if k > len(scores) {
		k = len(scores)
	}
	return scores[:k], nil
}

// Count returns the number of embedded chunks. Tracked exactly at write
// time, never inferred from a probe query.
func (s *Snapshot) Count() int {
	return len(s.entries)
}

func (s *Snapshot) Dimension() int {
	return s.dimension
}

func (s *Snapshot) Version() uint64 {
	return s.version
}

func (s *Snapshot) Stats() domain.Stats {
	return domain.Stats{
		TotalChunks: len(s.entries),
		Dimension:   s.dimension,
		Version:     s.version,
	}
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

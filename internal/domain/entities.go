package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Format is the closed set of document formats the service ingests.
// It is resolved once from the file extension; everything else maps to
// FormatUnknown and takes the soft-failure path.
type Format int

const (
	FormatUnknown Format = iota
	FormatPDF
	FormatText
	FormatWord
	FormatMarkdown
)

func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF
	case ".txt":
		return FormatText
	case ".docx":
		return FormatWord
	case ".md":
		return FormatMarkdown
	default:
		return FormatUnknown
	}
}

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatText:
		return "text"
	case FormatWord:
		return "word"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// Segment is text extracted from one document, before chunking.
// Page is 1-based for paged formats and 0 where pagination does not apply.
type Segment struct {
	Source string
	Page   int
	Text   string
}

// Chunk is the atomic retrieval unit: a bounded slice of a segment with
// the segment's provenance attached.
type Chunk struct {
	ID     string
	Source string
	Page   int
	Text   string
}

// SearchResult is one nearest-neighbor hit from the vector index.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Source attributes part of an answer to the indexed chunk it came from.
// Preview holds at most 200 characters of the chunk text.
type Source struct {
	Preview string `json:"preview"`
	File    string `json:"file"`
	Page    int    `json:"page,omitempty"`
}

// Answer is the query engine's result: generated text plus the sources
// that grounded it.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []Source `json:"sources"`
}

// Stats describes the persisted index artifact.
type Stats struct {
	TotalChunks int
	Dimension   int
	Version     uint64
}

// CorpusFile describes one file in the uploads directory.
type CorpusFile struct {
	Name    string
	Format  Format
	Size    int64
	ModTime time.Time
}

// Message is one turn in a chat session.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Sources   []Source  `json:"sources,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is an ordered conversation keyed by ID. The title is derived
// from the first question.
type Session struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

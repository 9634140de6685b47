package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"docchat/internal/domain"
)

// separators is the hierarchical split order: paragraph breaks first,
// then lines, then words, then raw characters.
var separators = []string{"\n\n", "\n", " ", ""}

// RecursiveChunker splits segment text into chunks of at most chunkSize
// characters, with adjacent chunks sharing up to overlap trailing
// characters. Output is deterministic for identical input and
// parameters.
type RecursiveChunker struct {
	chunkSize int
	overlap   int
}

func NewRecursiveChunker(chunkSize, overlap int) *RecursiveChunker {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}
	return &RecursiveChunker{
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

// Chunk splits every segment and carries its provenance onto the
// resulting chunks.
func (c *RecursiveChunker) Chunk(segments []domain.Segment) []domain.Chunk {
	var chunks []domain.Chunk

	for _, seg := range segments {
		pieces := c.splitRecursive(seg.Text, separators)
		for seq, text := range c.mergeWithOverlap(pieces) {
			chunks = append(chunks, domain.Chunk{
				ID:     chunkID(seg.Source, seg.Page, seq, text),
				Source: seg.Source,
				Page:   seg.Page,
				Text:   text,
			})
		}
	}

	return chunks
}

// splitRecursive cuts text into pieces no longer than chunkSize, trying
// coarser separators before finer ones. Separators stay attached to the
// preceding piece so concatenating pieces reproduces the input.
func (c *RecursiveChunker) splitRecursive(text string, seps []string) []string {
	if utf8.RuneCountInString(text) <= c.chunkSize {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	sep := seps[0]
	if sep == "" {
		return c.hardCut(text)
	}

	parts := strings.Split(text, sep)
	var pieces []string
	for i, part := range parts {
		if i < len(parts)-1 {
			part += sep
		}
		if part == "" {
			continue
		}
		if utf8.RuneCountInString(part) <= c.chunkSize {
			pieces = append(pieces, part)
		} else {
			pieces = append(pieces, c.splitRecursive(part, seps[1:])...)
		}
	}
	return pieces
}

// hardCut is the last resort for runs with no separator at all.
func (c *RecursiveChunker) hardCut(text string) []string {
	runes := []rune(text)
	var pieces []string
	for start := 0; start < len(runes); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}

// mergeWithOverlap packs pieces back into chunks close to chunkSize.
// Each new chunk starts with the tail of the previous one, unless that
// would push the chunk past the size limit.
func (c *RecursiveChunker) mergeWithOverlap(pieces []string) []string {
	var chunks []string
	var cur strings.Builder
	curLen := 0

	for _, piece := range pieces {
		pieceLen := utf8.RuneCountInString(piece)

		if curLen > 0 && curLen+pieceLen > c.chunkSize {
			chunk := cur.String()
			chunks = append(chunks, chunk)

			carry := tailRunes(chunk, c.overlap)
			carryLen := utf8.RuneCountInString(carry)
			cur.Reset()
			curLen = 0
			if carryLen+pieceLen <= c.chunkSize {
				cur.WriteString(carry)
				curLen = carryLen
			}
		}

		cur.WriteString(piece)
		curLen += pieceLen
	}

	if curLen > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

// tailRunes returns the last n runes of s.
func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func chunkID(source string, page, seq int, text string) string {
	data := fmt.Sprintf("%s:%d:%d:%d", source, page, seq, len(text))
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}

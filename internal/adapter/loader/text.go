package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docchat/internal/domain"
)

// extractText reads a plain-text or markdown file as a single segment.
func extractText(path string) ([]domain.Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	content := cleanUTF8(string(data))
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	return []domain.Segment{{
		Source: filepath.Base(path),
		Text:   content,
	}}, nil
}

// cleanUTF8 drops invalid byte sequences. Files that are mostly invalid
// are rejected outright rather than indexed as mojibake.
func cleanUTF8(content string) string {
	if utf8.ValidString(content) {
		return content
	}

	cleaned := strings.ToValidUTF8(content, "")
	if len(content) > 0 && float64(len(content)-len(cleaned))/float64(len(content)) > 0.5 {
		return ""
	}
	return cleaned
}

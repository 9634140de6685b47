package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"docchat/internal/domain"
)

// extractWord reads a .docx document as a single segment.
func extractWord(path string) ([]domain.Segment, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	return []domain.Segment{{
		Source: filepath.Base(path),
		Text:   content,
	}}, nil
}

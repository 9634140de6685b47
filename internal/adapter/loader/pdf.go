package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"docchat/internal/domain"
)

// extractPDF produces one segment per non-empty page, with the 1-based
// page number carried in the segment metadata.
func extractPDF(path string) ([]domain.Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat pdf: %w", err)
	}

	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pdf: %w", err)
	}

	source := filepath.Base(path)
	var segments []domain.Segment

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not lose the rest.
			continue
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		segments = append(segments, domain.Segment{
			Source: source,
			Page:   pageNum,
			Text:   text,
		})
	}

	return segments, nil
}

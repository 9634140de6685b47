package loader

import (
	"fmt"

	"docchat/internal/domain"
)

// DocumentLoader extracts plain-text segments from files in the corpus
// directory, dispatching on the resolved format.
type DocumentLoader struct{}

func NewDocumentLoader() *DocumentLoader {
	return &DocumentLoader{}
}

// Load extracts text segments from the file at path. An unsupported
// extension returns domain.ErrUnsupportedFormat; extraction failures
// return zero segments and the underlying error so batch ingestion can
// skip the file without aborting.
func (l *DocumentLoader) Load(path string) ([]domain.Segment, error) {
	switch domain.FormatFromPath(path) {
	case domain.FormatPDF:
		return extractPDF(path)
	case domain.FormatText, domain.FormatMarkdown:
		return extractText(path)
	case domain.FormatWord:
		return extractWord(path)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, path)
	}
}

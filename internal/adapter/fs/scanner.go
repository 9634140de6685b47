package fs

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"docchat/internal/domain"
)

// supportedPatterns selects the ingestible files in the corpus
// directory. Matching is case-insensitive on the extension via the
// Format resolution, the globs just prefilter.
var supportedPatterns = []string{"**/*.pdf", "**/*.txt", "**/*.docx", "**/*.md"}

// Scanner lists corpus files eligible for ingestion.
type Scanner struct {
	patterns []string
}

func NewScanner() *Scanner {
	return &Scanner{patterns: supportedPatterns}
}

// Scan walks the corpus directory and returns supported files in a
// stable (path-sorted) order, so full rebuilds are deterministic.
func (s *Scanner) Scan(root string) ([]domain.CorpusFile, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var files []domain.CorpusFile
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if !s.matches(relPath) {
			return nil
		}

		format := domain.FormatFromPath(path)
		if format == domain.FormatUnknown {
			return nil
		}

		files = append(files, domain.CorpusFile{
			Name:    relPath,
			Format:  format,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func (s *Scanner) matches(path string) bool {
	for _, pattern := range s.patterns {
		matched, err := doublestar.Match(pattern, filepath.ToSlash(path))
		if err == nil && matched {
			return true
		}
	}
	return false
}

package port

import "docchat/internal/domain"

// Loader extracts plain-text segments from a document on disk.
type Loader interface {
	// Load reads the file and returns its text segments. An unsupported
	// extension returns domain.ErrUnsupportedFormat; a parse failure
	// returns zero segments and the underlying error. Neither panics.
	Load(path string) ([]domain.Segment, error)
}

package usecase

import (
	"fmt"
	"path/filepath"

	"docchat/internal/adapter/fs"
	"docchat/internal/adapter/index"
	"docchat/internal/domain"
	"docchat/internal/port"
)

// ProgressFunc reports batch ingestion progress to the caller.
type ProgressFunc func(processed, total int, currentFile string)

// IngestUseCase runs the ingestion pipeline: load, chunk, embed, index,
// persist. Persistence is all-or-nothing; a failure at any stage leaves
// the previous index untouched.
type IngestUseCase struct {
	loader     port.Loader
	chunker    port.Chunker
	embedder   port.Embedder
	scanner    *fs.Scanner
	manager    *index.Manager
	uploadsDir string
	indexDir   string
}

func NewIngestUseCase(
	loader port.Loader,
	chunker port.Chunker,
	embedder port.Embedder,
	scanner *fs.Scanner,
	manager *index.Manager,
	uploadsDir string,
	indexDir string,
) *IngestUseCase {
	return &IngestUseCase{
		loader:     loader,
		chunker:    chunker,
		embedder:   embedder,
		scanner:    scanner,
		manager:    manager,
		uploadsDir: uploadsDir,
		indexDir:   indexDir,
	}
}

// IngestResult contains the results of a corpus-wide ingestion.
type IngestResult struct {
	FilesLoaded   int
	FilesSkipped  int
	ChunksIndexed int
	Errors        []string
}

// ProcessSingle ingests one document incrementally: its chunks are
// merged into the existing index, or a new index is created if none
// exists yet. Prior indexed content is preserved.
func (u *IngestUseCase) ProcessSingle(path string) error {
	segments, err := u.loader.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}
	if len(segments) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrEmptyDocument, filepath.Base(path))
	}

	chunks := u.chunker.Chunk(segments)
	if len(chunks) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNoChunks, filepath.Base(path))
	}

	var snapshot *index.Snapshot
	if index.Exists(u.indexDir) {
		current, _, err := u.manager.Resolve()
		if err != nil {
			return fmt.Errorf("failed to load existing index: %w", err)
		}
		snapshot, err = current.Merge(chunks, u.embedder)
		if err != nil {
			return err
		}
	} else {
		snapshot, err = index.Build(chunks, u.embedder)
		if err != nil {
			return err
		}
	}

	saved, err := index.Save(u.indexDir, snapshot)
	if err != nil {
		return err
	}
	u.manager.Publish(saved)
	return nil
}

// ProcessAll rebuilds the index from every supported file in the
// corpus directory. Unreadable and unsupported files are logged and
// skipped; a corpus that yields nothing at all is a hard failure. This
// is the only path that can shrink the index, so it is the one to run
// after a document is deleted.
func (u *IngestUseCase) ProcessAll(progress ProgressFunc) (*IngestResult, error) {
	result := &IngestResult{}

	files, err := u.scanner.Scan(u.uploadsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus directory: %w", err)
	}

	var allSegments []domain.Segment
	for i, file := range files {
		if progress != nil {
			progress(i, len(files), file.Name)
		}

		segments, err := u.loader.Load(filepath.Join(u.uploadsDir, file.Name))
		if err != nil || len(segments) == 0 {
			if err == nil {
				err = domain.ErrEmptyDocument
			}
			result.FilesSkipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.Name, err))
			continue
		}

		allSegments = append(allSegments, segments...)
		result.FilesLoaded++
	}
	if progress != nil {
		progress(len(files), len(files), "")
	}

	if len(allSegments) == 0 {
		return result, fmt.Errorf("%w: no documents in %s", domain.ErrEmptyDocument, u.uploadsDir)
	}

	chunks := u.chunker.Chunk(allSegments)
	if len(chunks) == 0 {
		return result, domain.ErrNoChunks
	}

	snapshot, err := index.Build(chunks, u.embedder)
	if err != nil {
		return result, err
	}

	saved, err := index.Save(u.indexDir, snapshot)
	if err != nil {
		return result, err
	}
	u.manager.Publish(saved)

	result.ChunksIndexed = saved.Count()
	return result, nil
}

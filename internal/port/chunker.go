package port

import "docchat/internal/domain"

type Chunker interface {
	Chunk(segments []domain.Segment) []domain.Chunk
}

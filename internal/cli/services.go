package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"docchat/config"
	"docchat/internal/adapter/cache"
	"docchat/internal/adapter/chunker"
	"docchat/internal/adapter/embedding"
	"docchat/internal/adapter/fs"
	"docchat/internal/adapter/index"
	"docchat/internal/adapter/llm"
	"docchat/internal/adapter/loader"
	"docchat/internal/adapter/session"
	"docchat/internal/port"
	"docchat/internal/usecase"
)

// services wires the adapters and use cases for one command invocation.
type services struct {
	ingest     *usecase.IngestUseCase
	engine     *usecase.QueryEngine
	chat       *usecase.ChatUseCase
	scanner    *fs.Scanner
	uploadsDir string
	indexDir   string
}

func newServices() (*services, error) {
	cfg := GetConfig()

	uploadsDir := resolveDir(cfg.Paths.UploadsDir)
	indexDir := resolveDir(cfg.Paths.IndexDir)
	if err := os.MkdirAll(uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	if err := os.MkdirAll(indexDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	embedder, err := newEmbedder(cfg.Embedding)
	if err != nil {
		return nil, err
	}

	scanner := fs.NewScanner()
	manager := index.NewManager(indexDir)
	answerCache := cache.NewAnswerCache(cfg.Cache.MaxSize, cfg.Cache.TTL)

	ingest := usecase.NewIngestUseCase(
		loader.NewDocumentLoader(),
		chunker.NewRecursiveChunker(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap),
		embedder,
		scanner,
		manager,
		uploadsDir,
		indexDir,
	)

	engine, err := usecase.NewQueryEngine(embedder, llm.NewClient(cfg.Generation), manager, answerCache, cfg.Retrieve.TopK)
	if err != nil {
		return nil, err
	}

	return &services{
		ingest:     ingest,
		engine:     engine,
		chat:       usecase.NewChatUseCase(engine, session.NewMemoryStore()),
		scanner:    scanner,
		uploadsDir: uploadsDir,
		indexDir:   indexDir,
	}, nil
}

func newEmbedder(cfg config.EmbeddingConfig) (port.Embedder, error) {
	switch cfg.Provider {
	case "openai", "":
		return embedding.NewOpenAIEmbedder(cfg)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

func resolveDir(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(GetRootDir(), dir)
}

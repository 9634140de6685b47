package usecase

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docchat/internal/adapter/cache"
	"docchat/internal/adapter/chunker"
	"docchat/internal/adapter/embedding"
	"docchat/internal/adapter/fs"
	"docchat/internal/adapter/index"
	"docchat/internal/adapter/loader"
	"docchat/internal/domain"
)

type stubGenerator struct {
	response   string
	calls      int
	lastPrompt string
	hasCred    bool
}

func (g *stubGenerator) Generate(prompt string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	return g.response, nil
}

func (g *stubGenerator) HasCredential() bool { return g.hasCred }
func (g *stubGenerator) ModelName() string   { return "stub-model" }

type testEnv struct {
	ingest    *IngestUseCase
	engine    *QueryEngine
	generator *stubGenerator
	manager   *index.Manager
	uploads   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	uploads := t.TempDir()
	indexDir := t.TempDir()

	embedder := embedding.NewMockEmbedder(64)
	manager := index.NewManager(indexDir)
	generator := &stubGenerator{response: "Paris is the capital of France.", hasCred: true}

	ingest := NewIngestUseCase(
		loader.NewDocumentLoader(),
		chunker.NewRecursiveChunker(800, 100),
		embedder,
		fs.NewScanner(),
		manager,
		uploads,
		indexDir,
	)

	engine, err := NewQueryEngine(embedder, generator, manager,
		cache.NewAnswerCache(100, 5*time.Minute), 3)
	require.NoError(t, err)

	return &testEnv{ingest: ingest, engine: engine, generator: generator, manager: manager, uploads: uploads}
}

func (e *testEnv) writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.uploads, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestQueryBeforeIngest(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.Query("what is in the corpus?")
	require.ErrorIs(t, err, domain.ErrIndexUnavailable)
	require.False(t, env.engine.IsAvailable())
	require.Equal(t, 0, env.engine.DocumentCount())
}

func TestQueryEmptyQuestion(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.Query("   \n ")
	require.ErrorIs(t, err, domain.ErrEmptyQuestion)
}

func TestIngestThenQuery(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeDoc(t, "france.txt", "The capital of France is Paris. It sits on the Seine.")

	require.NoError(t, env.ingest.ProcessSingle(path))

	answer, err := env.engine.Query("What is the capital of France?")
	require.NoError(t, err)
	require.Equal(t, "Paris is the capital of France.", answer.Text)
	require.NotEmpty(t, answer.Sources)
	require.Equal(t, "france.txt", answer.Sources[0].File)
	require.Contains(t, answer.Sources[0].Preview, "Paris")

	// The retrieved chunk must have reached the generator as context.
	require.Contains(t, env.generator.lastPrompt, "The capital of France is Paris.")
	require.Contains(t, env.generator.lastPrompt, "What is the capital of France?")
}

func TestQuerySeesNewIngestWithoutReload(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeDoc(t, "one.txt", "Alpha document body.")

	require.NoError(t, env.ingest.ProcessSingle(path))
	first := env.engine.DocumentCount()
	require.Greater(t, first, 0)

	other := env.writeDoc(t, "two.txt", "Beta document body.")
	require.NoError(t, env.ingest.ProcessSingle(other))

	require.Greater(t, env.engine.DocumentCount(), 0)
	require.GreaterOrEqual(t, env.engine.DocumentCount(), first)

	stats, err := env.engine.Stats()
	require.NoError(t, err)
	require.Equal(t, uint64(2), stats.Version)
}

func TestCachedAnswerSkipsGenerator(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeDoc(t, "doc.txt", "Cached content for repeated questions.")
	require.NoError(t, env.ingest.ProcessSingle(path))

	_, err := env.engine.Query("repeat me")
	require.NoError(t, err)
	require.Equal(t, 1, env.generator.calls)

	_, err = env.engine.Query("repeat me")
	require.NoError(t, err)
	require.Equal(t, 1, env.generator.calls)

	env.engine.ForceReload()
	_, err = env.engine.Query("repeat me")
	require.NoError(t, err)
	require.Equal(t, 2, env.generator.calls)
}

func TestRebuildAfterDeleteExcludesDocument(t *testing.T) {
	env := newTestEnv(t)
	keepPath := env.writeDoc(t, "keep.txt", "Kept document content.")
	dropPath := env.writeDoc(t, "drop.txt", "Dropped document content.")

	require.NoError(t, env.ingest.ProcessSingle(keepPath))
	require.NoError(t, env.ingest.ProcessSingle(dropPath))
	require.Equal(t, 2, env.engine.DocumentCount())

	require.NoError(t, os.Remove(dropPath))
	result, err := env.ingest.ProcessAll(nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.FilesLoaded)
	require.Equal(t, 1, result.ChunksIndexed)

	answer, err := env.engine.Query("what remains?")
	require.NoError(t, err)
	for _, src := range answer.Sources {
		require.NotContains(t, src.File, "drop.txt")
	}
}

func TestProcessAllSkipsUnreadableFiles(t *testing.T) {
	env := newTestEnv(t)
	env.writeDoc(t, "good.txt", "Readable content.")
	env.writeDoc(t, "bad.pdf", "not actually a pdf")

	var seen []string
	result, err := env.ingest.ProcessAll(func(processed, total int, current string) {
		if current != "" {
			seen = append(seen, current)
		}
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.FilesLoaded)
	require.Equal(t, 1, result.FilesSkipped)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "bad.pdf")
	require.Len(t, seen, 2)
}

func TestProcessAllEmptyCorpus(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.ingest.ProcessAll(nil)
	require.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestProcessSingleUnsupportedFormat(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeDoc(t, "image.png", "binary-ish")

	err := env.ingest.ProcessSingle(path)
	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	require.ErrorIs(t, env.engine.HealthCheck(), domain.ErrIndexUnavailable)

	path := env.writeDoc(t, "doc.txt", "Healthy content.")
	require.NoError(t, env.ingest.ProcessSingle(path))
	require.NoError(t, env.engine.HealthCheck())

	env.generator.hasCred = false
	require.ErrorIs(t, env.engine.HealthCheck(), domain.ErrMissingCredential)
}

func TestPreviewTruncation(t *testing.T) {
	long := strings.Repeat("x", 300)
	preview := previewOf(long)
	require.Len(t, []rune(preview), 203)
	require.True(t, strings.HasSuffix(preview, "..."))

	short := "short text"
	require.Equal(t, short, previewOf(short))
}

func TestQueryGeneratorFailurePropagates(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeDoc(t, "doc.txt", "Some content.")
	require.NoError(t, env.ingest.ProcessSingle(path))

	engine, err := NewQueryEngine(
		embedding.NewMockEmbedder(64), &failingGenerator{}, env.manager, nil, 3)
	require.NoError(t, err)

	_, err = engine.Query("anything")
	require.ErrorContains(t, err, "upstream unavailable")
}

type failingGenerator struct{}

func (g *failingGenerator) Generate(string) (string, error) {
	return "", errors.New("upstream unavailable")
}
func (g *failingGenerator) HasCredential() bool { return false }
func (g *failingGenerator) ModelName() string   { return "failing" }

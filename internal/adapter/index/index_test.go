package index

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"docchat/internal/adapter/embedding"
	"docchat/internal/domain"
)

const testDim = 64

func testChunks(source string, texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:     source + "-" + text[:3],
			Source: source,
			Text:   text,
		}
	}
	return chunks
}

func TestBuildAndCount(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)

	snap, err := Build(testChunks("a.txt", "alpha text", "beta text", "gamma text"), embedder)
	require.NoError(t, err)
	require.Equal(t, 3, snap.Count())
	require.Equal(t, testDim, snap.Dimension())
}

func TestBuildEmpty(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)

	_, err := Build(nil, embedder)
	require.ErrorIs(t, err, domain.ErrNoChunks)
}

func TestMergeCountParity(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)

	a := testChunks("a.txt", "first document body", "second piece of a")
	b := testChunks("b.txt", "third text from b", "fourth text from b", "fifth text from b")

	fromA, err := Build(a, embedder)
	require.NoError(t, err)

	merged, err := fromA.Merge(b, embedder)
	require.NoError(t, err)

	union, err := Build(append(append([]domain.Chunk{}, a...), b...), embedder)
	require.NoError(t, err)

	require.Equal(t, union.Count(), merged.Count())

	// Merge must not mutate the receiver.
	require.Equal(t, 2, fromA.Count())
}

func TestSearchStableTieBreak(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)

	// Identical texts embed identically, so scores tie; insertion order
	// must decide.
	chunks := []domain.Chunk{
		{ID: "c1", Source: "a.txt", Text: "same text"},
		{ID: "c2", Source: "b.txt", Text: "same text"},
		{ID: "c3", Source: "c.txt", Text: "same text"},
	}
	snap, err := Build(chunks, embedder)
	require.NoError(t, err)

	vectors, err := embedder.Embed([]string{"same text"})
	require.NoError(t, err)

	results, err := snap.Search(vectors[0], 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "c1", results[0].Chunk.ID)
	require.Equal(t, "c2", results[1].Chunk.ID)
	require.Equal(t, "c3", results[2].Chunk.ID)
}

func TestSearchDimensionMismatch(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)

	snap, err := Build(testChunks("a.txt", "some text"), embedder)
	require.NoError(t, err)

	_, err = snap.Search(make([]float32, testDim+1), 1)
	require.Error(t, err)
}

func TestSearchKLargerThanIndex(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)

	snap, err := Build(testChunks("a.txt", "only entry"), embedder)
	require.NoError(t, err)

	results, err := snap.Search(make([]float32, testDim), 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)
	dir := t.TempDir()

	snap, err := Build(testChunks("a.txt", "alpha content", "beta content", "gamma content"), embedder)
	require.NoError(t, err)

	saved, err := Save(dir, snap)
	require.NoError(t, err)
	require.Equal(t, uint64(1), saved.Version())

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, snap.Count(), loaded.Count())
	require.Equal(t, snap.Dimension(), loaded.Dimension())
	require.Equal(t, uint64(1), loaded.Version())

	vectors, err := embedder.Embed([]string{"beta content"})
	require.NoError(t, err)

	want, err := saved.Search(vectors[0], 3)
	require.NoError(t, err)
	got, err := loaded.Search(vectors[0], 3)
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		require.Equal(t, want[i].Chunk, got[i].Chunk)
		require.InDelta(t, want[i].Score, got[i].Score, 1e-9)
	}
}

func TestSaveIncrementsVersion(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)
	dir := t.TempDir()

	snap, err := Build(testChunks("a.txt", "first body"), embedder)
	require.NoError(t, err)

	_, err = Save(dir, snap)
	require.NoError(t, err)
	_, err = Save(dir, snap)
	require.NoError(t, err)

	version, err := ReadVersion(dir)
	require.NoError(t, err)
	require.Equal(t, uint64(2), version)
}

func TestRebuildExcludesDeletedDocument(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)
	dir := t.TempDir()

	a := testChunks("a.txt", "unique sentence about zebras")
	b := testChunks("b.txt", "ordinary text one", "ordinary text two")

	full, err := Build(append(append([]domain.Chunk{}, a...), b...), embedder)
	require.NoError(t, err)
	_, err = Save(dir, full)
	require.NoError(t, err)

	// Deleting a.txt means rebuilding from b's chunks only.
	rebuilt, err := Build(b, embedder)
	require.NoError(t, err)
	_, err = Save(dir, rebuilt)
	require.NoError(t, err)

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, len(b), loaded.Count())

	vectors, err := embedder.Embed([]string{"unique sentence about zebras"})
	require.NoError(t, err)
	results, err := loaded.Search(vectors[0], loaded.Count())
	require.NoError(t, err)
	for _, r := range results {
		require.NotEqual(t, "a.txt", r.Chunk.Source)
	}
}

func TestLoadMissingArtifact(t *testing.T) {
	_, err := Load(t.TempDir())
	require.ErrorIs(t, err, domain.ErrIndexUnavailable)
}

func TestManagerResolve(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)
	dir := t.TempDir()
	manager := NewManager(dir)

	_, _, err := manager.Resolve()
	require.ErrorIs(t, err, domain.ErrIndexUnavailable)

	snap, err := Build(testChunks("a.txt", "resolve me"), embedder)
	require.NoError(t, err)
	_, err = Save(dir, snap)
	require.NoError(t, err)

	first, reloaded, err := manager.Resolve()
	require.NoError(t, err)
	require.True(t, reloaded)
	require.Equal(t, 1, first.Count())

	// Unchanged artifact: same snapshot, no reload.
	second, reloaded, err := manager.Resolve()
	require.NoError(t, err)
	require.False(t, reloaded)
	require.Same(t, first, second)

	// A new save bumps the version and triggers a reload.
	grown, err := snap.Merge(testChunks("b.txt", "new content"), embedder)
	require.NoError(t, err)
	_, err = Save(dir, grown)
	require.NoError(t, err)

	third, reloaded, err := manager.Resolve()
	require.NoError(t, err)
	require.True(t, reloaded)
	require.Equal(t, 2, third.Count())
}

func TestManagerForceReload(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)
	dir := t.TempDir()
	manager := NewManager(dir)

	snap, err := Build(testChunks("a.txt", "force reload"), embedder)
	require.NoError(t, err)
	_, err = Save(dir, snap)
	require.NoError(t, err)

	_, _, err = manager.Resolve()
	require.NoError(t, err)

	manager.ForceReload()
	_, reloaded, err := manager.Resolve()
	require.NoError(t, err)
	require.True(t, reloaded)
}

func TestManagerPublish(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)
	dir := t.TempDir()
	manager := NewManager(dir)

	snap, err := Build(testChunks("a.txt", "published snapshot"), embedder)
	require.NoError(t, err)
	saved, err := Save(dir, snap)
	require.NoError(t, err)

	manager.Publish(saved)

	resolved, reloaded, err := manager.Resolve()
	require.NoError(t, err)
	require.False(t, reloaded)
	require.Same(t, saved, resolved)
}

func TestMergeDimensionMismatch(t *testing.T) {
	embedder := embedding.NewMockEmbedder(testDim)

	snap, err := Build(testChunks("a.txt", "base entry"), embedder)
	require.NoError(t, err)

	other := embedding.NewMockEmbedder(testDim * 2)
	_, err = snap.Merge(testChunks("b.txt", "wrong dim"), other)
	require.Error(t, err)
	require.False(t, errors.Is(err, domain.ErrNoChunks))
}

package usecase

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"docchat/internal/adapter/cache"
	"docchat/internal/adapter/index"
	"docchat/internal/domain"
	"docchat/internal/port"
)

//go:embed templates/*.txt
var templateFS embed.FS

const (
	defaultTopK      = 3
	previewRuneLimit = 200
)

// QueryEngine answers questions against the indexed corpus. Retrieval
// runs over the current index snapshot; the snapshot is refreshed
// transparently whenever the persisted index version advances, so
// answers always reflect the latest ingestion.
type QueryEngine struct {
	embedder  port.Embedder
	generator port.Generator
	manager   *index.Manager
	cache     *cache.AnswerCache
	topK      int
	prompt    *template.Template
}

func NewQueryEngine(
	embedder port.Embedder,
	generator port.Generator,
	manager *index.Manager,
	answerCache *cache.AnswerCache,
	topK int,
) (*QueryEngine, error) {
	if topK <= 0 {
		topK = defaultTopK
	}
	prompt, err := template.ParseFS(templateFS, "templates/answer_prompt.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &QueryEngine{
		embedder:  embedder,
		generator: generator,
		manager:   manager,
		cache:     answerCache,
		topK:      topK,
		prompt:    prompt,
	}, nil
}

type promptData struct {
	Contexts []string
	Question string
}

// Query retrieves the most relevant chunks for the question and asks
// the generator to answer from them. Each answer carries the sources
// it was grounded on.
func (e *QueryEngine) Query(question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, domain.ErrEmptyQuestion
	}

	snapshot, reloaded, err := e.manager.Resolve()
	if err != nil {
		return domain.Answer{}, err
	}
	if reloaded && e.cache != nil {
		e.cache.Invalidate()
	}

	if e.cache != nil {
		if answer, ok := e.cache.Get(question, e.topK); ok {
			return answer, nil
		}
	}

	vectors, err := e.embedder.Embed([]string{question})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := snapshot.Search(vectors[0], e.topK)
	if err != nil {
		return domain.Answer{}, err
	}

	contexts := make([]string, 0, len(results))
	sources := make([]domain.Source, 0, len(results))
	for _, r := range results {
		contexts = append(contexts, r.Chunk.Text)
		sources = append(sources, domain.Source{
			Preview: previewOf(r.Chunk.Text),
			File:    r.Chunk.Source,
			Page:    r.Chunk.Page,
		})
	}

	var buf bytes.Buffer
	if err := e.prompt.Execute(&buf, promptData{Contexts: contexts, Question: question}); err != nil {
		return domain.Answer{}, fmt.Errorf("failed to render prompt: %w", err)
	}

	text, err := e.generator.Generate(buf.String())
	if err != nil {
		return domain.Answer{}, err
	}

	answer := domain.Answer{
		Text:    strings.TrimSpace(text),
		Sources: sources,
	}
	if e.cache != nil {
		e.cache.Put(question, e.topK, answer)
	}
	return answer, nil
}

// IsAvailable reports whether an index exists and can serve queries.
func (e *QueryEngine) IsAvailable() bool {
	_, _, err := e.manager.Resolve()
	return err == nil
}

// DocumentCount returns the number of indexed chunks, or zero when no
// index exists yet.
func (e *QueryEngine) DocumentCount() int {
	snapshot, _, err := e.manager.Resolve()
	if err != nil {
		return 0
	}
	return snapshot.Count()
}

// Stats returns the current index statistics.
func (e *QueryEngine) Stats() (domain.Stats, error) {
	snapshot, _, err := e.manager.Resolve()
	if err != nil {
		return domain.Stats{}, err
	}
	return snapshot.Stats(), nil
}

// ForceReload discards the in-memory snapshot and cached answers so
// the next query reads the persisted index from disk.
func (e *QueryEngine) ForceReload() {
	e.manager.ForceReload()
	if e.cache != nil {
		e.cache.Invalidate()
	}
}

// HealthCheck reports whether the engine is fully operational: a
// generation credential is configured and an index is loadable.
func (e *QueryEngine) HealthCheck() error {
	if !e.generator.HasCredential() {
		return domain.ErrMissingCredential
	}
	if !e.IsAvailable() {
		return domain.ErrIndexUnavailable
	}
	return nil
}

func previewOf(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRuneLimit {
		return text
	}
	return string(runes[:previewRuneLimit]) + "..."
}

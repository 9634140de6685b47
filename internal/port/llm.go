package port

// Generator is the text-generation model behind the query engine.
type Generator interface {
	// Generate produces text for the prompt. The raw model output is
	// the answer; callers only trim whitespace.
	Generate(prompt string) (string, error)

	// HasCredential reports whether the API token is configured.
	// Checked by the health check, not per call.
	HasCredential() bool

	// ModelName returns the name of the model.
	ModelName() string
}

package domain

import "errors"

// Failure taxonomy. Soft failures (unsupported format, per-file load
// errors) are logged and skipped by batch ingestion; everything else is
// hard and propagates to the caller wrapped with context.
var (
	// ErrUnsupportedFormat marks a file whose extension is outside the
	// supported set. Soft: batch loads skip the file.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrEmptyDocument means loading produced zero text segments.
	// Hard for the enclosing ingestion call: an empty index update
	// would silently corrupt state.
	ErrEmptyDocument = errors.New("document produced no text")

	// ErrNoChunks means chunking produced nothing to index.
	ErrNoChunks = errors.New("no chunks produced")

	// ErrIndexUnavailable is the not-ready condition: no index has been
	// persisted yet. Distinct from "no results found".
	ErrIndexUnavailable = errors.New("no document index available, upload documents first")

	// ErrEmptyQuestion rejects a blank query before retrieval runs.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrMissingCredential means the generation API token is absent.
	// Surfaced by the health check, not at call time.
	ErrMissingCredential = errors.New("generation credential not configured")

	// ErrSessionNotFound means the chat session ID is unknown.
	ErrSessionNotFound = errors.New("session not found")
)

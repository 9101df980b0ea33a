package pipeline

import (
	"weld/internal/script"
	"weld/internal/transform"
)

// ParseOutcome is the immutable result of the parse phase (header
// extraction, metadata deserialization, source transformation). It is never
// partially populated: on failure only Err is set.
type ParseOutcome struct {
	OK       bool
	Metadata *script.Metadata
	Source   string
	Err      error
}

// Parse runs the parse phase over raw script text. The source transformation
// itself cannot fail; only header extraction and metadata deserialization
// can, and their typed errors pass through unchanged.
func Parse(text string) ParseOutcome {
	meta, body, err := script.Parse(text)
	if err != nil {
		return ParseOutcome{Err: err}
	}
	return ParseOutcome{
		OK:       true,
		Metadata: meta,
		Source:   transform.Apply(body),
	}
}

// Outcome is the single result of one pipeline run. It is produced exactly
// once per invocation; the pipeline never retries a stage.
type Outcome struct {
	// Success is true when the run reached a terminal success state
	// (StateDone or StateSucceeded).
	Success bool

	// State is the orchestrator state the run ended in, meaningful once
	// scaffolding completed. StateDone means no build was attempted
	// (source-only output), StateSucceeded means the build ran and passed.
	State State

	// Diagnostics carries the toolchain's combined captured output where
	// one was observed (publish output, or the failing invocation's text).
	Diagnostics string

	// Err is the typed error for a failed run, nil on success.
	Err error
}

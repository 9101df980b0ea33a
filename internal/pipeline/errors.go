package pipeline

import (
	"context"
	"fmt"
)

// The parse-phase error types (FormatError, MetadataError,
// UnsupportedKindError) are defined in internal/script next to the code that
// produces them; the types below cover the stages this package owns. Every
// stage returns exactly one typed error and the pipeline stops at the first
// terminal failure.

// DependencyInstallError reports that resolving one declared dependency
// failed. Dependencies after the failing one are never attempted; the ones
// installed before it remain applied to the scaffolded project.
type DependencyInstallError struct {
	// Dependency is the identifier that failed to install.
	Dependency string

	// Output is the toolchain's combined captured diagnostic text.
	Output string
}

func (e *DependencyInstallError) Error() string {
	return fmt.Sprintf("installing dependency %q failed", e.Dependency)
}

// BuildError reports a failed publish invocation.
type BuildError struct {
	// Output is the toolchain's combined captured diagnostic text.
	Output string
}

func (e *BuildError) Error() string {
	return "build failed"
}

// CancelledError reports that the run was cancelled mid-flight. It is a
// distinct outcome, not a generic failure; no further external processes are
// started after it.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("operation cancelled: %v", e.Err)
}

func (e *CancelledError) Unwrap() error { return e.Err }

// UnexpectedError is the catch-all for I/O and other unanticipated failures.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// classify maps a stage failure to CancelledError when the context is done,
// otherwise to UnexpectedError.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &CancelledError{Err: ctxErr}
	}
	return &UnexpectedError{Err: err}
}

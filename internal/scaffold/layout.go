// Package scaffold writes a transformed script out as a buildable project:
// one source file and one project descriptor inside a per-project source
// directory, plus a sibling output directory for published artifacts.
package scaffold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Layout locates the per-project source and output directories under a
// destination root. Both are keyed by the sanitized project name and are
// owned exclusively by one pipeline invocation; concurrent invocations
// against the same destination are unsupported.
type Layout struct {
	Name      string
	SourceDir string
	OutputDir string
}

// NewLayout derives the directory layout for a project name under destRoot.
// The name is sanitized before use.
func NewLayout(destRoot, name string) Layout {
	s := Sanitize(name)
	return Layout{
		Name:      s,
		SourceDir: filepath.Join(destRoot, "src", s),
		OutputDir: filepath.Join(destRoot, "out", s),
	}
}

// Sanitize replaces every non-alphanumeric character with '_' so the name is
// safe as a directory name, assembly name and namespace.
func Sanitize(name string) string {
	out := []byte(name)
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}

// Reset deletes and recreates both directories. The reset is unconditional:
// a run interrupted mid-preparation leaves no state the next run has to
// reason about, because the next run deletes everything again. ctx is
// checked before each directory operation.
func (l Layout) Reset(ctx context.Context) error {
	for _, dir := range []string{l.SourceDir, l.OutputDir} {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("cleaning %s: %w", dir, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

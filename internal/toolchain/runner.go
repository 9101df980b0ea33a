// Package toolchain invokes the external build toolchain. The toolchain is
// treated as opaque: only exit status and captured output are observed.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Result captures the observable outcome of one external process invocation.
type Result struct {
	// ExitCode is the process exit code; 0 means success.
	ExitCode int

	// Output is the combined captured stdout and stderr.
	Output string
}

// Run executes a command in dir, capturing stdout and stderr in full. It
// blocks until the process exits or ctx is cancelled; on cancellation the
// process is killed and ctx's error is returned. A non-zero exit code is not
// an error here: it is reported through Result so the caller can attach the
// captured diagnostics to its own error type.
func Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("stderr pipe: %w", err)
	}

	var mu sync.Mutex
	var buf bytes.Buffer
	drain := func(r io.Reader) func() error {
		return func() error {
			chunk := make([]byte, 4096)
			for {
				n, err := r.Read(chunk)
				if n > 0 {
					mu.Lock()
					buf.Write(chunk[:n])
					mu.Unlock()
				}
				if err != nil {
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				}
			}
		}
	}

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("starting %s: %w", name, err)
	}

	// Both pipes must be drained before Wait; errgroup coordinates the two
	// readers and surfaces the first read failure.
	var g errgroup.Group
	g.Go(drain(stdout))
	g.Go(drain(stderr))
	readErr := g.Wait()

	waitErr := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{Output: buf.String()}, ctxErr
	}
	if readErr != nil {
		return Result{Output: buf.String()}, fmt.Errorf("capturing output of %s: %w", name, readErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode(), Output: buf.String()}, nil
		}
		return Result{Output: buf.String()}, fmt.Errorf("running %s: %w", name, waitErr)
	}
	return Result{ExitCode: 0, Output: buf.String()}, nil
}

// Package pipeline turns a self-contained script file into a buildable,
// runnable project: it extracts and validates the metadata header, rewrites
// the source body to stand alone as a top-level program, scaffolds a
// build-ready project, resolves declared dependencies, and drives the
// external toolchain to produce the requested artifact shape.
//
// One invocation is single-threaded and owns its destination directories
// exclusively. External toolchain calls are strictly sequential because they
// mutate the shared project descriptor; cancellation is checked at every
// suspension point and no further external process is started after it
// fires.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"weld/internal/output"
	"weld/internal/scaffold"
	"weld/internal/toolchain"
)

// DefaultRuntime is the target platform identifier used when the request
// does not override it.
const DefaultRuntime = "win-x64"

// Request describes one compilation.
type Request struct {
	// ScriptPath is the script file to compile.
	ScriptPath string

	// DestRoot is the destination root; the source and output directories
	// are created beneath it.
	DestRoot string

	// Name is the project name. Empty means the script filename without
	// its extension. It is sanitized before use.
	Name string

	// Output selects the artifact shape.
	Output OutputType

	// Runtime is the target platform identifier. Empty means
	// DefaultRuntime.
	Runtime string
}

// Pipeline runs compilations against an external toolchain.
type Pipeline struct {
	Toolchain toolchain.Toolchain

	// Events receives lifecycle events; nil disables them.
	Events *output.Manager
}

func New(tc toolchain.Toolchain) *Pipeline {
	return &Pipeline{Toolchain: tc}
}

// Run executes the full pipeline for one request and returns its single
// Outcome. It stops at the first terminal error; artifacts produced by
// stages that completed before the failure are left on disk as-is.
func (p *Pipeline) Run(ctx context.Context, req Request) Outcome {
	raw, err := os.ReadFile(req.ScriptPath)
	if err != nil {
		return Outcome{Err: &UnexpectedError{Err: err}}
	}

	p.stageStarted("parse")
	po := Parse(string(raw))
	if !po.OK {
		return Outcome{Err: po.Err}
	}
	p.stageFinished("parse")

	layout := scaffold.NewLayout(req.DestRoot, projectName(req))

	p.stageStarted("prepare")
	if err := layout.Reset(ctx); err != nil {
		return Outcome{Err: classify(ctx, err)}
	}
	p.stageFinished("prepare")

	p.stageStarted("scaffold")
	if err := layout.Write(po.Metadata.Imports, po.Source); err != nil {
		return Outcome{Err: classify(ctx, err)}
	}
	p.stageFinished("scaffold")
	st := StateScaffolded

	p.stageStarted("install")
	if res, err := p.installDependencies(ctx, layout.SourceDir, po.Metadata.Dependencies); err != nil {
		return Outcome{State: st, Diagnostics: res.Output, Err: err}
	}
	p.stageFinished("install")

	if req.Output == OutputSource {
		st, err = st.transition(StateDone)
		if err != nil {
			return Outcome{State: st, Err: &UnexpectedError{Err: err}}
		}
		return Outcome{Success: true, State: st}
	}

	st, err = st.transition(StateBuilding)
	if err != nil {
		return Outcome{State: st, Err: &UnexpectedError{Err: err}}
	}

	p.stageStarted("publish")
	res, buildErr := p.publish(ctx, layout, req)
	if buildErr != nil {
		st, _ = st.transition(StateFailed)
		return Outcome{State: st, Diagnostics: res.Output, Err: buildErr}
	}
	p.stageFinished("publish")

	st, err = st.transition(StateSucceeded)
	if err != nil {
		return Outcome{State: st, Err: &UnexpectedError{Err: err}}
	}
	return Outcome{Success: true, State: st, Diagnostics: res.Output}
}

// installDependencies resolves each declared dependency in declaration
// order, one at a time, waiting for each invocation to complete before
// starting the next. The first failure stops the loop and returns the
// failing invocation's Result so its captured output reaches the caller;
// dependencies already installed stay applied.
func (p *Pipeline) installDependencies(ctx context.Context, projectDir string, deps []string) (toolchain.Result, error) {
	for _, dep := range deps {
		if err := ctx.Err(); err != nil {
			return toolchain.Result{}, &CancelledError{Err: err}
		}
		res, err := p.Toolchain.AddPackage(ctx, projectDir, dep)
		if err != nil {
			return res, classify(ctx, err)
		}
		if res.ExitCode != 0 {
			return res, &DependencyInstallError{Dependency: dep, Output: res.Output}
		}
		p.emit(output.Event{Type: "dependency.installed", Dependency: dep})
	}
	return toolchain.Result{}, nil
}

func (p *Pipeline) publish(ctx context.Context, layout scaffold.Layout, req Request) (toolchain.Result, error) {
	if err := ctx.Err(); err != nil {
		return toolchain.Result{}, &CancelledError{Err: err}
	}

	rt := req.Runtime
	if rt == "" {
		rt = DefaultRuntime
	}
	opts := toolchain.PublishOptions{
		Runtime:       rt,
		OutputDir:     layout.OutputDir,
		SelfContained: req.Output == OutputSingleFile,
		SingleFile:    req.Output == OutputSingleFile,
	}

	res, err := p.Toolchain.Publish(ctx, layout.SourceDir, opts)
	if err != nil {
		return res, classify(ctx, err)
	}
	if res.ExitCode != 0 {
		return res, &BuildError{Output: res.Output}
	}
	return res, nil
}

func projectName(req Request) string {
	name := req.Name
	if name == "" {
		base := filepath.Base(req.ScriptPath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return name
}

func (p *Pipeline) stageStarted(stage string) {
	p.emit(output.Event{Type: "stage.started", Stage: stage})
}

func (p *Pipeline) stageFinished(stage string) {
	p.emit(output.Event{Type: "stage.finished", Stage: stage})
}

func (p *Pipeline) emit(e output.Event) {
	if p.Events == nil {
		return
	}
	_ = p.Events.Write(e)
}

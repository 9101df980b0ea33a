package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weld/internal/output"
	"weld/internal/script"
	"weld/internal/toolchain"
)

// fakeToolchain records invocations and returns scripted results. It stands
// in for the external dotnet CLI so orchestration can be tested hermetically.
type fakeToolchain struct {
	added     []string
	published []toolchain.PublishOptions

	// failAddAt fails the n-th AddPackage call (1-based); 0 disables.
	failAddAt   int
	failPublish bool
}

func (f *fakeToolchain) AddPackage(ctx context.Context, projectDir, pkg string) (toolchain.Result, error) {
	f.added = append(f.added, pkg)
	if f.failAddAt != 0 && len(f.added) == f.failAddAt {
		return toolchain.Result{ExitCode: 1, Output: "error: package not found"}, nil
	}
	return toolchain.Result{Output: "ok"}, nil
}

func (f *fakeToolchain) Publish(ctx context.Context, projectDir string, opts toolchain.PublishOptions) (toolchain.Result, error) {
	f.published = append(f.published, opts)
	if f.failPublish {
		return toolchain.Result{ExitCode: 1, Output: "error CS0000: build broke"}, nil
	}
	return toolchain.Result{Output: "published"}, nil
}

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.csx")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing script: %v", err)
	}
	return path
}

const minimalScript = `<Script kind="program" />
void Main(string[] args) { write("hi"); }
`

func TestRun_SourceOnly_NoBuildInvocation(t *testing.T) {
	tc := &fakeToolchain{}
	p := New(tc)
	dest := t.TempDir()

	out := p.Run(context.Background(), Request{
		ScriptPath: writeScript(t, minimalScript),
		DestRoot:   dest,
		Output:     OutputSource,
	})
	if out.Err != nil {
		t.Fatalf("Run: %v", out.Err)
	}
	if !out.Success {
		t.Fatalf("expected success")
	}
	if out.State != StateDone {
		t.Errorf("state = %v, want StateDone (no build attempted)", out.State)
	}
	if len(tc.published) != 0 {
		t.Errorf("publish was invoked for a source-only run")
	}

	src, err := os.ReadFile(filepath.Join(dest, "src", "demo", "demo.cs"))
	if err != nil {
		t.Fatalf("generated source missing: %v", err)
	}
	text := string(src)
	if !strings.Contains(text, "static void Main(string[] args)") {
		t.Errorf("Main not staticized:\n%s", text)
	}
	if !strings.Contains(text, "public class Program") {
		t.Errorf("Program wrapper missing:\n%s", text)
	}
}

func TestRun_DuplicateDependenciesInstalledOnce(t *testing.T) {
	tc := &fakeToolchain{}
	p := New(tc)

	scriptText := `<Script kind="program">
  <Dependency>A</Dependency>
  <Dependency>a</Dependency>
</Script>
void Main() { }
`
	out := p.Run(context.Background(), Request{
		ScriptPath: writeScript(t, scriptText),
		DestRoot:   t.TempDir(),
		Output:     OutputSource,
	})
	if out.Err != nil {
		t.Fatalf("Run: %v", out.Err)
	}
	if len(tc.added) != 1 || tc.added[0] != "A" {
		t.Errorf("expected exactly one install for the canonical identifier, got %v", tc.added)
	}
}

func TestRun_DependencyFailureStopsLoop(t *testing.T) {
	tc := &fakeToolchain{failAddAt: 2}
	p := New(tc)

	scriptText := `<Script>
  <Dependency>First</Dependency>
  <Dependency>Second</Dependency>
  <Dependency>Third</Dependency>
</Script>
void Main() { }
`
	out := p.Run(context.Background(), Request{
		ScriptPath: writeScript(t, scriptText),
		DestRoot:   t.TempDir(),
		Output:     OutputSingleFile,
	})

	var depErr *DependencyInstallError
	if !errors.As(out.Err, &depErr) {
		t.Fatalf("expected *DependencyInstallError, got %v", out.Err)
	}
	if depErr.Dependency != "Second" {
		t.Errorf("error should name the failing dependency, got %q", depErr.Dependency)
	}
	if !strings.Contains(depErr.Output, "package not found") {
		t.Errorf("diagnostic text lost: %q", depErr.Output)
	}
	if !strings.Contains(out.Diagnostics, "package not found") {
		t.Errorf("outcome diagnostics lost the toolchain output: %q", out.Diagnostics)
	}
	if len(tc.added) != 2 {
		t.Errorf("the third dependency must never be attempted, got %v", tc.added)
	}
	if len(tc.published) != 0 {
		t.Errorf("publish must not run after an install failure")
	}
}

func TestRun_SingleFilePublishFlags(t *testing.T) {
	tc := &fakeToolchain{}
	p := New(tc)
	dest := t.TempDir()

	out := p.Run(context.Background(), Request{
		ScriptPath: writeScript(t, minimalScript),
		DestRoot:   dest,
		Output:     OutputSingleFile,
	})
	if out.Err != nil {
		t.Fatalf("Run: %v", out.Err)
	}
	if out.State != StateSucceeded {
		t.Errorf("state = %v, want StateSucceeded", out.State)
	}
	if len(tc.published) != 1 {
		t.Fatalf("expected one publish, got %d", len(tc.published))
	}
	opts := tc.published[0]
	if !opts.SelfContained || !opts.SingleFile {
		t.Errorf("single-file publish must be self-contained and single-file: %+v", opts)
	}
	if opts.Runtime != DefaultRuntime {
		t.Errorf("runtime = %q, want %q", opts.Runtime, DefaultRuntime)
	}
	if opts.OutputDir != filepath.Join(dest, "out", "demo") {
		t.Errorf("unexpected output dir: %q", opts.OutputDir)
	}
}

func TestRun_FolderPublishFlags(t *testing.T) {
	tc := &fakeToolchain{}
	p := New(tc)

	out := p.Run(context.Background(), Request{
		ScriptPath: writeScript(t, minimalScript),
		DestRoot:   t.TempDir(),
		Output:     OutputFolder,
	})
	if out.Err != nil {
		t.Fatalf("Run: %v", out.Err)
	}
	opts := tc.published[0]
	if opts.SelfContained || opts.SingleFile {
		t.Errorf("folder publish must not request self-contained/single-file: %+v", opts)
	}
}

func TestRun_BuildFailure(t *testing.T) {
	tc := &fakeToolchain{failPublish: true}
	p := New(tc)

	out := p.Run(context.Background(), Request{
		ScriptPath: writeScript(t, minimalScript),
		DestRoot:   t.TempDir(),
		Output:     OutputFolder,
	})

	var buildErr *BuildError
	if !errors.As(out.Err, &buildErr) {
		t.Fatalf("expected *BuildError, got %v", out.Err)
	}
	if !strings.Contains(buildErr.Output, "CS0000") {
		t.Errorf("captured diagnostics lost: %q", buildErr.Output)
	}
	if out.State != StateFailed {
		t.Errorf("state = %v, want StateFailed", out.State)
	}
	if out.Success {
		t.Errorf("failed build must not report success")
	}
}

func TestRun_UnsupportedKindFailsBeforeAnyWrite(t *testing.T) {
	tc := &fakeToolchain{}
	p := New(tc)
	dest := t.TempDir()

	out := p.Run(context.Background(), Request{
		ScriptPath: writeScript(t, "<Script kind=\"library\" />\nclass C { }"),
		DestRoot:   dest,
		Output:     OutputFolder,
	})

	var kindErr *script.UnsupportedKindError
	if !errors.As(out.Err, &kindErr) {
		t.Fatalf("expected *UnsupportedKindError, got %v", out.Err)
	}
	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("kind mismatch must fail before any file is written, found %d entries", len(entries))
	}
	if len(tc.added) != 0 || len(tc.published) != 0 {
		t.Errorf("toolchain must not be invoked after a kind mismatch")
	}
}

func TestRun_MissingScriptFile(t *testing.T) {
	p := New(&fakeToolchain{})
	out := p.Run(context.Background(), Request{
		ScriptPath: filepath.Join(t.TempDir(), "nope.csx"),
		DestRoot:   t.TempDir(),
	})
	var ue *UnexpectedError
	if !errors.As(out.Err, &ue) {
		t.Fatalf("expected *UnexpectedError, got %v", out.Err)
	}
}

func TestRun_CancellationBeforeInstalls(t *testing.T) {
	tc := &fakeToolchain{}
	p := New(tc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := p.Run(ctx, Request{
		ScriptPath: writeScript(t, minimalScript),
		DestRoot:   t.TempDir(),
		Output:     OutputSingleFile,
	})

	var ce *CancelledError
	if !errors.As(out.Err, &ce) {
		t.Fatalf("expected *CancelledError, got %v", out.Err)
	}
	if len(tc.added) != 0 || len(tc.published) != 0 {
		t.Errorf("no external process may start after cancellation")
	}
}

func TestRun_EmitsLifecycleEvents(t *testing.T) {
	tc := &fakeToolchain{}
	p := New(tc)

	var sink recordingSink
	mgr := output.NewManager()
	if err := mgr.AddSink(&sink); err != nil {
		t.Fatalf("AddSink: %v", err)
	}
	p.Events = mgr

	scriptText := `<Script>
  <Dependency>Dapper</Dependency>
</Script>
void Main() { }
`
	out := p.Run(context.Background(), Request{
		ScriptPath: writeScript(t, scriptText),
		DestRoot:   t.TempDir(),
		Output:     OutputSource,
	})
	if out.Err != nil {
		t.Fatalf("Run: %v", out.Err)
	}

	var installs int
	stages := map[string]bool{}
	for _, e := range sink.events {
		switch e.Type {
		case "dependency.installed":
			installs++
		case "stage.finished":
			stages[e.Stage] = true
		}
	}
	if installs != 1 {
		t.Errorf("expected one dependency.installed event, got %d", installs)
	}
	for _, want := range []string{"parse", "prepare", "scaffold", "install"} {
		if !stages[want] {
			t.Errorf("missing stage.finished event for %q", want)
		}
	}
	if stages["publish"] {
		t.Errorf("source-only run must not report a publish stage")
	}
}

type recordingSink struct {
	events []output.Event
}

func (r *recordingSink) Write(e output.Event) error {
	r.events = append(r.events, e)
	return nil
}

func (r *recordingSink) Close() error { return nil }

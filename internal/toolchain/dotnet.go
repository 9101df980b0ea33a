package toolchain

import "context"

// PublishOptions selects how the publish operation packages the project.
type PublishOptions struct {
	// Runtime is the target platform identifier (e.g. "win-x64"). It is
	// fixed for the duration of one pipeline run.
	Runtime string

	// SelfContained bundles the runtime with the artifact.
	SelfContained bool

	// SingleFile packs the published output into a single file.
	SingleFile bool

	// OutputDir receives the published artifacts.
	OutputDir string
}

// Toolchain is the external build toolchain the pipeline drives. Exactly two
// operations are consumed: adding a package dependency to a project, and
// publishing the project. Implementations must be safe for strictly
// sequential use only; the pipeline never calls them concurrently because
// both operations mutate shared project state.
type Toolchain interface {
	AddPackage(ctx context.Context, projectDir, pkg string) (Result, error)
	Publish(ctx context.Context, projectDir string, opts PublishOptions) (Result, error)
}

// DotnetCLI drives the dotnet command-line toolchain.
type DotnetCLI struct {
	// Exe overrides the executable name. Empty means "dotnet".
	Exe string
}

func (d *DotnetCLI) exe() string {
	if d != nil && d.Exe != "" {
		return d.Exe
	}
	return "dotnet"
}

func (d *DotnetCLI) AddPackage(ctx context.Context, projectDir, pkg string) (Result, error) {
	return Run(ctx, projectDir, d.exe(), "add", "package", pkg)
}

func (d *DotnetCLI) Publish(ctx context.Context, projectDir string, opts PublishOptions) (Result, error) {
	args := []string{"publish", "-r", opts.Runtime, "-o", opts.OutputDir}
	if opts.SelfContained {
		args = append(args, "--self-contained", "true")
	}
	if opts.SingleFile {
		args = append(args, "-p:PublishSingleFile=true")
	}
	return Run(ctx, projectDir, d.exe(), args...)
}

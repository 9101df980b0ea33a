package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"weld/internal/config"
	"weld/internal/flags"
	"weld/internal/output"
	"weld/internal/pipeline"
	"weld/internal/toolchain"

	"github.com/spf13/cobra"
)

var cfg = config.New()

var buildCmd = &cobra.Command{
	Use:   "build <script>",
	Short: "Compile a script file into a project or executable",
	Long: `Compile a script file into a project, and optionally into an executable.

The script's metadata header declares its kind, dependencies, and imports.
Weld scaffolds a project under <dest>/src/<name>, installs the declared
dependencies one at a time, and, unless --output-type is "source", publishes
the result to <dest>/out/<name>.

The destination directories are deleted and recreated on every run; nothing
from a previous run survives.

Output:
	Console output is controlled by --console-format (default: text).
	Structured outputs can be written via:
	- --out / --out-format: write an aggregate JSON array or NDJSON stream to a file
	- --no-console: suppress the console sink (use with --out for machine output)

	NDJSON mode emits one JSON object per line. Objects are lifecycle Events with
	a "type" field (run.started, stage.started, stage.finished,
	dependency.installed, run.finished).

Exit codes:
	0 = success
	1 = build failed (dependency install, toolchain build, or unexpected error)
	2 = cancelled (interrupt or timeout)
	3 = usage or configuration error

Examples:
	# Single-file executable for the default runtime
	weld build tool.csx

	# Folder of build outputs for linux
	weld build tool.csx --output-type folder --runtime linux-x64

	# AI Agent: stream machine-readable events to a file
	weld build tool.csx --no-console --out events.ndjson
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runBuild(cmd, args[0]))
	},
}

func runBuild(cmd *cobra.Command, scriptPath string) int {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}

	outType, err := pipeline.ParseOutputType(cfg.Build.OutputType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 3
	}

	mgr := output.NewManager()
	if !cfg.Output.NoConsole {
		if err := mgr.AddSink(output.NewConsoleSink(cmd.OutOrStdout(), cfg.Output.ConsoleFormat)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 3
		}
	}
	if cfg.Output.Out != "" {
		fileSink, err := output.NewFileSink(cfg.Output.Out, cfg.Output.OutFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 3
		}
		if err := mgr.AddSink(fileSink); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 3
		}
	}
	defer func() {
		if err := mgr.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.Runtime.Timeout)
	defer cancel()

	p := pipeline.New(&toolchain.DotnetCLI{})
	p.Events = mgr

	_ = mgr.Write(output.Event{Type: "run.started", Script: scriptPath, OutputType: outType.String()})

	outcome := p.Run(ctx, pipeline.Request{
		ScriptPath: scriptPath,
		DestRoot:   cfg.Build.Dest,
		Name:       cfg.Build.Name,
		Output:     outType,
		Runtime:    cfg.Build.Runtime,
	})

	code := exitCode(outcome.Err)

	finished := output.Event{Type: "run.finished", Script: scriptPath, ExitCode: code}
	if outcome.Err != nil {
		finished.Error = outcome.Err.Error()
	}
	_ = mgr.Write(finished)

	switch code {
	case 0:
	case 2:
		fmt.Fprintln(os.Stderr, "Error: cancelled")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", outcome.Err)
		if cfg.Runtime.Verbose && outcome.Diagnostics != "" {
			fmt.Fprintln(os.Stderr, outcome.Diagnostics)
		}
	}
	return code
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce *pipeline.CancelledError
	if errors.As(err, &ce) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.AddCommand(buildCmd)

	// Build
	buildCmd.Flags().StringVar(&cfg.Build.Dest, flags.FlagDest, cfg.Build.Dest, "Destination root for generated project and build outputs (default: build)")
	buildCmd.Flags().StringVar(&cfg.Build.Name, flags.FlagName, "", "Project name (default: script filename without extension)")
	buildCmd.Flags().StringVar(&cfg.Build.OutputType, flags.FlagOutputType, cfg.Build.OutputType, "Artifact shape: source|single-file|folder (default: single-file)")
	buildCmd.Flags().StringVar(&cfg.Build.Runtime, flags.FlagRuntime, cfg.Build.Runtime, "Target runtime identifier passed to the toolchain (default: win-x64)")

	// Output
	buildCmd.Flags().StringVar(&cfg.Output.ConsoleFormat, flags.FlagConsoleFormat, cfg.Output.ConsoleFormat, "Console output format: text|ndjson (default: text)")
	buildCmd.Flags().StringVar(&cfg.Output.Out, flags.FlagOut, "", "Write structured event output to this path")
	buildCmd.Flags().StringVar(&cfg.Output.OutFormat, flags.FlagOutFormat, "", "Structured output format for --out: json|ndjson (default: inferred from file extension)")
	buildCmd.Flags().BoolVar(&cfg.Output.NoConsole, flags.FlagNoConsole, false, "Suppress console output (use with --out)")

	// Runtime
	buildCmd.Flags().DurationVar(&cfg.Runtime.Timeout, flags.FlagTimeout, cfg.Runtime.Timeout, "Global timeout including toolchain calls (default: 30m)")
}

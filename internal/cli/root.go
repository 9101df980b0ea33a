package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "weld",
	Short: "Turn a self-contained script file into a buildable project",
	Long: `Weld turns a single script file (an XML metadata header followed by the
source body) into a ready-to-build project, installs its declared
dependencies, and drives the external toolchain to produce an artifact.

Examples:
	# Show available commands and global flags
	weld --help

	# Build a script into a single-file executable
	weld build tool.csx

	# Scaffold the project only, skipping the toolchain build
	weld build tool.csx --output-type source

	# Show a script's declared metadata
	weld inspect tool.csx

	# Print build info
	weld version

Output:
	By default, commands write human-readable progress to stdout.
	The build command also supports structured event output (see "weld build --help").`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose output (prints full toolchain output on failures)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

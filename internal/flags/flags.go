package flags

// Package flags defines canonical CLI flag names shared across the CLI and
// pipeline. Keeping these as constants helps avoid drift between Cobra flag
// wiring and other code paths that need to reference flags (e.g. error
// messages produced by config validation).
// IMPORTANT: These are flag *names* without leading dashes.
// Example usage:
//
//	cmd.Flags().StringVar(&cfg.Build.Dest, flags.FlagDest, "", "...")
//	arg := "--" + flags.FlagDest
const (
	// Build
	FlagDest       = "dest"
	FlagName       = "name"
	FlagOutputType = "output-type"
	FlagRuntime    = "runtime"

	// Output
	FlagConsoleFormat = "console-format"
	FlagOut           = "out"
	FlagOutFormat     = "out-format"
	FlagNoConsole     = "no-console"

	// Runtime
	FlagTimeout = "timeout"
)

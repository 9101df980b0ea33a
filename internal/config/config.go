package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	Build   Build
	Output  Output
	Runtime Runtime
}

type Build struct {
	// Dest is the destination root; the project's source and output
	// directories are created beneath it (see --dest).
	Dest string

	// Name overrides the project name derived from the script filename
	// (see --name). Non-alphanumeric characters are replaced with '_'.
	Name string

	// OutputType selects the artifact shape (see --output-type).
	// Allowed values: source, single-file, folder.
	OutputType string

	// Runtime is the target platform identifier passed to the toolchain's
	// publish operation (see --runtime).
	Runtime string
}

type Output struct {
	// ConsoleFormat controls the console sink format (see --console-format).
	// Allowed values: text, ndjson.
	ConsoleFormat string

	// Out writes a structured event stream to this path (see --out).
	Out string

	// OutFormat selects the format for --out (see --out-format).
	// Allowed values: json, ndjson. If empty, it is inferred from the
	// --out file extension.
	OutFormat string

	// NoConsole suppresses the console sink (see --no-console).
	NoConsole bool
}

type Runtime struct {
	// Timeout bounds the whole run, including external toolchain calls
	// (see --timeout). Must be > 0.
	Timeout time.Duration

	// Verbose enables more detailed diagnostics, including the full
	// captured toolchain output on failures.
	Verbose bool
}

func New() *Config {
	return &Config{
		Build: Build{
			Dest:       "build",
			OutputType: "single-file",
			Runtime:    "win-x64",
		},
		Output: Output{
			ConsoleFormat: "text",
		},
		Runtime: Runtime{
			Timeout: 30 * time.Minute,
		},
	}
}

func (c *Config) Validate() error {
	// Build validation
	if strings.TrimSpace(c.Build.Dest) == "" {
		return errors.New("--dest must not be empty")
	}

	c.Build.OutputType = normalizeEnumValue(c.Build.OutputType)
	if c.Build.OutputType == "" {
		return errors.New("--output-type must be one of: source, single-file, folder")
	}
	if c.Build.OutputType != "source" && c.Build.OutputType != "single-file" && c.Build.OutputType != "folder" {
		return fmt.Errorf("unsupported --output-type: %s (must be one of: source, single-file, folder)", c.Build.OutputType)
	}

	c.Build.Runtime = strings.TrimSpace(c.Build.Runtime)
	if c.Build.Runtime == "" {
		return errors.New("--runtime must not be empty")
	}

	// Output validation
	c.Output.ConsoleFormat = normalizeEnumValue(c.Output.ConsoleFormat)
	if c.Output.ConsoleFormat == "" {
		c.Output.ConsoleFormat = "text"
	}
	if c.Output.ConsoleFormat != "text" && c.Output.ConsoleFormat != "ndjson" {
		return fmt.Errorf("unsupported --console-format: %s (must be one of: text, ndjson)", c.Output.ConsoleFormat)
	}

	if c.Output.Out != "" {
		c.Output.OutFormat = normalizeEnumValue(c.Output.OutFormat)
		if c.Output.OutFormat == "" {
			ext := strings.ToLower(filepath.Ext(c.Output.Out))
			switch ext {
			case ".json":
				c.Output.OutFormat = "json"
			case ".ndjson", ".jsonl":
				c.Output.OutFormat = "ndjson"
			default:
				if ext == "" {
					return errors.New("cannot infer output format from file extension (missing extension); use --out-format")
				}
				return fmt.Errorf("cannot infer output format from file extension %q; use --out-format", ext)
			}
		} else {
			if c.Output.OutFormat != "json" && c.Output.OutFormat != "ndjson" {
				return fmt.Errorf("unsupported output format: %s", c.Output.OutFormat)
			}
		}
	}

	// Runtime validation
	if c.Runtime.Timeout <= 0 {
		return errors.New("--timeout must be > 0")
	}

	return nil
}

func normalizeEnumValue(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Package output fans pipeline lifecycle events out to the configured sinks
// (console and/or file) in human-readable or NDJSON form.
package output

// Event is one lifecycle record of a pipeline run.
//
// Event types:
//   - run.started
//   - stage.started / stage.finished (Stage names the pipeline stage)
//   - dependency.installed (Dependency names the package)
//   - run.finished (ExitCode carries the process exit code)
//
// Failed runs carry the error text on the terminal run.finished event.
type Event struct {
	Type       string `json:"type"`
	Script     string `json:"script,omitempty"`
	Stage      string `json:"stage,omitempty"`
	Dependency string `json:"dependency,omitempty"`
	OutputType string `json:"output_type,omitempty"`
	Error      string `json:"error,omitempty"`
	ExitCode   int    `json:"exit_code,omitempty"`
}

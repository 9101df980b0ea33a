package pipeline

import "fmt"

// OutputType selects which build strategy the orchestrator runs. Nothing
// else affects that choice.
type OutputType int

const (
	// OutputSource stops after scaffolding and dependency installation;
	// no external build is invoked.
	OutputSource OutputType = iota

	// OutputSingleFile publishes a self-contained, single-file artifact.
	OutputSingleFile

	// OutputFolder publishes a multi-file compiled folder.
	OutputFolder
)

func (t OutputType) String() string {
	switch t {
	case OutputSource:
		return "source"
	case OutputSingleFile:
		return "single-file"
	case OutputFolder:
		return "folder"
	default:
		return fmt.Sprintf("OutputType(%d)", int(t))
	}
}

// ParseOutputType parses the CLI spelling of an output type.
func ParseOutputType(s string) (OutputType, error) {
	switch s {
	case "source":
		return OutputSource, nil
	case "single-file":
		return OutputSingleFile, nil
	case "folder":
		return OutputFolder, nil
	default:
		return 0, fmt.Errorf("unsupported output type: %s (must be one of: source, single-file, folder)", s)
	}
}

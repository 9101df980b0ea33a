package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

type ConsoleSink struct {
	writer io.Writer
	format string // "text", "ndjson"
	mu     sync.Mutex
}

func NewConsoleSink(w io.Writer, format string) *ConsoleSink {
	if w == nil {
		w = os.Stdout
	}
	if format == "" {
		format = "text"
	}
	return &ConsoleSink{writer: w, format: format}
}

func (s *ConsoleSink) Write(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.format {
	case "ndjson":
		if err := json.NewEncoder(s.writer).Encode(e); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	case "text":
		if err := writeTextEvent(s.writer, e); err != nil {
			return err
		}
		return flushIfPossible(s.writer)
	default:
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
}

func writeTextEvent(w io.Writer, e Event) error {
	var err error
	switch e.Type {
	case "run.started":
		_, err = fmt.Fprintf(w, "Building %s (%s)\n", e.Script, e.OutputType)
	case "stage.finished":
		_, err = fmt.Fprintf(w, "  %s: done\n", e.Stage)
	case "dependency.installed":
		_, err = fmt.Fprintf(w, "  dependency %s installed\n", e.Dependency)
	case "run.finished":
		if e.Error != "" {
			_, err = fmt.Fprintf(w, "failed: %s\n", e.Error)
		} else {
			_, err = fmt.Fprintln(w, "done")
		}
	default:
		// stage.started and future event types stay silent in text mode.
	}
	return err
}

func (s *ConsoleSink) Close() error {
	if s.format != "text" && s.format != "ndjson" {
		return fmt.Errorf("unsupported console format: %s", s.format)
	}
	return nil
}

type flusher interface {
	Flush() error
}

func flushIfPossible(w io.Writer) error {
	f, ok := w.(flusher)
	if !ok {
		return nil
	}
	return f.Flush()
}

package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleSink_NDJSONEmitsOneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf, "ndjson")

	events := []Event{
		{Type: "run.started", Script: "demo.csx", OutputType: "source"},
		{Type: "stage.finished", Stage: "scaffold"},
		{Type: "run.finished", ExitCode: 0},
	}
	for _, e := range events {
		if err := s.Write(e); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	scanner := bufio.NewScanner(&buf)
	var got []Event
	for scanner.Scan() {
		var e Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("invalid NDJSON line %q: %v", scanner.Text(), err)
		}
		got = append(got, e)
	}
	if len(got) != len(events) {
		t.Fatalf("expected %d lines, got %d", len(events), len(got))
	}
	if got[1].Stage != "scaffold" {
		t.Errorf("stage lost in round trip: %+v", got[1])
	}
}

func TestConsoleSink_TextMode(t *testing.T) {
	var buf bytes.Buffer
	s := NewConsoleSink(&buf, "text")

	for _, e := range []Event{
		{Type: "run.started", Script: "demo.csx", OutputType: "single-file"},
		{Type: "stage.started", Stage: "transform"},
		{Type: "dependency.installed", Dependency: "Dapper"},
		{Type: "run.finished"},
	} {
		if err := s.Write(e); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	text := buf.String()
	if !strings.Contains(text, "Building demo.csx (single-file)") {
		t.Errorf("missing run header:\n%s", text)
	}
	if !strings.Contains(text, "dependency Dapper installed") {
		t.Errorf("missing dependency line:\n%s", text)
	}
	if strings.Contains(text, "transform") {
		t.Errorf("stage.started should be silent in text mode:\n%s", text)
	}
	if !strings.Contains(text, "done") {
		t.Errorf("missing completion line:\n%s", text)
	}
}

func TestConsoleSink_UnsupportedFormat(t *testing.T) {
	s := NewConsoleSink(&bytes.Buffer{}, "yaml")
	if err := s.Write(Event{Type: "run.started"}); err == nil {
		t.Fatalf("expected an error for unsupported format")
	}
}

func TestFileSink_JSONAggregate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	s, err := NewFileSink(path, "")
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	if err := s.Write(Event{Type: "run.started"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(Event{Type: "run.finished", ExitCode: 1, Error: "boom"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var got []Event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("aggregate is not a JSON array: %v", err)
	}
	if len(got) != 2 || got[1].Error != "boom" {
		t.Errorf("unexpected aggregate: %+v", got)
	}
}

func TestFileSink_FormatInference(t *testing.T) {
	if _, err := NewFileSink(filepath.Join(t.TempDir(), "events.txt"), ""); err == nil {
		t.Errorf("expected inference failure for .txt")
	}
	s, err := NewFileSink(filepath.Join(t.TempDir(), "events.ndjson"), "")
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	defer s.Close()
}

func TestManager_FansOutToAllSinks(t *testing.T) {
	var a, b bytes.Buffer
	m := NewManager()
	if err := m.AddSink(NewConsoleSink(&a, "ndjson")); err != nil {
		t.Fatalf("AddSink: %v", err)
	}
	if err := m.AddSink(NewConsoleSink(&b, "ndjson")); err != nil {
		t.Fatalf("AddSink: %v", err)
	}
	if err := m.Write(Event{Type: "run.started"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Errorf("event did not reach every sink")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestManager_NilManagerIsSafe(t *testing.T) {
	var m *Manager
	if err := m.Write(Event{Type: "run.started"}); err != nil {
		t.Errorf("nil manager Write: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("nil manager Close: %v", err)
	}
}

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSessionMirrorsAndWrites(t *testing.T) {
	var console bytes.Buffer
	s := New(&console)

	s.Line("header")
	s.Linef("total %d issues", 2)
	s.Lines([]string{"- one", "- two"})

	wantConsole := "header\ntotal 2 issues\n- one\n- two\n"
	if console.String() != wantConsole {
		t.Errorf("console = %q, want %q", console.String(), wantConsole)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := s.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != wantConsole {
		t.Errorf("file = %q, want %q", string(data), wantConsole)
	}
}

func TestWriteFileError(t *testing.T) {
	var console bytes.Buffer
	s := New(&console)
	s.Line("x")

	if err := s.WriteFile(filepath.Join(t.TempDir(), "missing", "out.txt")); err == nil {
		t.Fatal("WriteFile() error = nil, want error for missing directory")
	}
}

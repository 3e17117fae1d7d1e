// Package report accumulates a session's output lines, mirroring them to
// the console as they are produced and writing the full transcript to a
// flat UTF-8 file at the end of the run.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Session is a single run's output sink.
type Session struct {
	console io.Writer
	lines   []string
}

// New creates a session mirroring each line to console as it is recorded.
func New(console io.Writer) *Session {
	return &Session{console: console}
}

// Line records one output line and mirrors it to the console immediately.
func (s *Session) Line(line string) {
	s.lines = append(s.lines, line)
	fmt.Fprintln(s.console, line)
}

// Linef records a formatted output line.
func (s *Session) Linef(format string, args ...interface{}) {
	s.Line(fmt.Sprintf(format, args...))
}

// Lines records a batch of lines, mirroring each one.
func (s *Session) Lines(lines []string) {
	for _, line := range lines {
		s.Line(line)
	}
}

// Len returns the number of recorded lines.
func (s *Session) Len() int {
	return len(s.lines)
}

// WriteFile writes the full transcript to path, one line per record.
func (s *Session) WriteFile(path string) error {
	content := strings.Join(s.lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write session output: %w", err)
	}
	return nil
}

package ui

import "testing"

// Test binaries run with stdout attached to a pipe, so the helpers must
// return their input untouched and keep piped output byte-identical to
// the transcript file.
func TestHelpersPlainWhenNotInteractive(t *testing.T) {
	if Interactive() {
		t.Skip("stdout is a terminal")
	}

	for name, fn := range map[string]func(string) string{
		"Accent": Accent,
		"Count":  Count,
		"Warn":   Warn,
	} {
		if got := fn("my_gitlab_tasks.txt"); got != "my_gitlab_tasks.txt" {
			t.Errorf("%s(%q) = %q, want input unchanged", name, "my_gitlab_tasks.txt", got)
		}
	}
}

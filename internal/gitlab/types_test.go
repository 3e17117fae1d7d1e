package gitlab

import "testing"

func TestIsValidState(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{"opened", true},
		{"closed", true},
		{"reopened", true},
		{"", false},
		{"Opened", false},
		{"wonky", false},
	}
	for _, tt := range tests {
		if got := IsValidState(tt.state); got != tt.want {
			t.Errorf("IsValidState(%q) = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestHasLinks(t *testing.T) {
	tests := []struct {
		issueType string
		want      bool
	}{
		{"", true},
		{"issue", true},
		{"task", false},
		{"incident", false},
		{"test_case", false},
	}
	for _, tt := range tests {
		is := Issue{Type: tt.issueType}
		if got := is.HasLinks(); got != tt.want {
			t.Errorf("HasLinks() with type %q = %v, want %v", tt.issueType, got, tt.want)
		}
	}
}

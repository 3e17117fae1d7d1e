package checklist

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        []Item
	}{
		{
			name:        "checked and unchecked with noise",
			description: "- [x] done\n- [ ] todo\nnotes",
			want:        []Item{{true, "done"}, {false, "todo"}},
		},
		{
			name:        "empty description",
			description: "",
			want:        nil,
		},
		{
			name:        "no checkboxes",
			description: "just some text\nand another line",
			want:        nil,
		},
		{
			name:        "indented lines are trimmed",
			description: "   - [x] indented\t\n",
			want:        []Item{{true, "indented"}},
		},
		{
			name:        "uppercase X is not a checkbox",
			description: "- [X] shouting",
			want:        nil,
		},
		{
			name:        "nested checkbox is skipped as second level",
			description: "- [ ] top\n  - [ ] nested is trimmed so still matches",
			want:        []Item{{false, "top"}, {false, "nested is trimmed so still matches"}},
		},
		{
			name:        "empty brackets without text skipped",
			description: "- [ ] ",
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.description)
			if len(got) != len(tt.want) {
				t.Fatalf("Parse() returned %d items, want %d: %v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("item %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestItemsRestartable verifies the sequence can be ranged over more than once.
func TestItemsRestartable(t *testing.T) {
	seq := Items("- [x] a\n- [ ] b")
	for pass := 0; pass < 2; pass++ {
		count := 0
		for range seq {
			count++
		}
		if count != 2 {
			t.Fatalf("pass %d: counted %d items, want 2", pass, count)
		}
	}
}

// TestItemsEarlyStop verifies break stops the sequence without panicking.
func TestItemsEarlyStop(t *testing.T) {
	var first Item
	for item := range Items("- [x] a\n- [ ] b") {
		first = item
		break
	}
	if !first.Checked || first.Text != "a" {
		t.Errorf("first item = %+v, want {true a}", first)
	}
}

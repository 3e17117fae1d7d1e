// Package checklist extracts markdown checkbox items from issue descriptions.
//
// This is a best-effort annotation layer, not a markdown parser: only
// single-level `- [ ]` / `- [x]` lines are recognized, everything else is
// skipped silently.
package checklist

import (
	"iter"
	"regexp"
	"strings"
)

// itemPattern matches a single-level markdown checkbox line.
// Only a lowercase "x" marks a checked item.
var itemPattern = regexp.MustCompile(`^- \[( |x)\] (.+)$`)

// Item is one checkbox entry from an issue description.
type Item struct {
	Checked bool
	Text    string
}

// Items returns a restartable sequence of checkbox items found in
// description, one per matching line in document order. Leading and
// trailing whitespace on each line is ignored. An empty description
// yields an empty sequence.
func Items(description string) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		if description == "" {
			return
		}
		for _, line := range strings.Split(description, "\n") {
			m := itemPattern.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				continue
			}
			if !yield(Item{Checked: m[1] == "x", Text: m[2]}) {
				return
			}
		}
	}
}

// Parse collects all checkbox items from description into a slice.
func Parse(description string) []Item {
	var items []Item
	for item := range Items(description) {
		items = append(items, item)
	}
	return items
}

package tree

import (
	"fmt"
	"strings"

	"github.com/glabtree/glabtree/internal/checklist"
	"github.com/glabtree/glabtree/internal/gitlab"
)

// indentUnit is the fixed-width indentation added per tree level.
const indentUnit = "    "

// Render walks one root's subtree depth-first, children in registration
// order, and returns the display lines.
//
// Checklist items are rendered only for the depth-0 issue, directly under
// its line and before any children. Checklists of nested issues are not
// rendered; that mirrors the source behavior and is a documented
// limitation, not an oversight.
//
// ChildrenMap is acyclic by construction in Build, but Render does not rely
// on a well-behaved caller: a depth guard stops runaway recursion on a
// hand-assembled cyclic map instead of overflowing the stack.
func Render(issue gitlab.Issue, t *Tree, depth int) []string {
	const maxRenderDepth = 100
	if depth > maxRenderDepth {
		return []string{strings.Repeat(indentUnit, depth) + "- … (depth limit reached)"}
	}

	lines := []string{fmt.Sprintf("%s- [%s] %s (#%d) | state: %s",
		strings.Repeat(indentUnit, depth), issue.TypeTag(), issue.Title, issue.IID, issue.State)}

	if depth == 0 {
		for item := range checklist.Items(issue.Description) {
			mark := "[ ]"
			if item.Checked {
				mark = "[x]"
			}
			lines = append(lines, fmt.Sprintf("%s%s %s", strings.Repeat(indentUnit, depth+1), mark, item.Text))
		}
	}

	for _, child := range t.Children[issue.ID] {
		lines = append(lines, Render(child, t, depth+1)...)
	}

	return lines
}

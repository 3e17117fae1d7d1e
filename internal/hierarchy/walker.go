// Package hierarchy renders work-item trees fetched through the fixed-depth
// GraphQL hierarchy query.
//
// The remote query embeds at most two levels of children in a single
// response. The walker renders exactly what that response carried: it never
// issues a follow-up request to reach a third level or to advance the
// pagination cursor. That refusal is the component's contract, so anything
// the query shape left out is surfaced as an explicit truncation marker
// instead of being fetched or silently dropped.
package hierarchy

import (
	"fmt"
	"strings"

	"github.com/glabtree/glabtree/internal/gitlab"
)

// indentUnit is the fixed-width indentation added per tree level.
const indentUnit = "    "

// truncationMarker flags children that exist remotely but were not fetched.
const truncationMarker = "- … more children (not fetched)"

// Render walks a fetched work item depth-first and returns the display
// lines. Each line carries the work-item type, IID, state, creation date
// (YYYY-MM-DD) and title. Truncated positions get a marker line: a page of
// siblings the cursor never advanced past, or a level below the query's
// static nesting depth.
func Render(item *gitlab.WorkItem, depth int) []string {
	indent := strings.Repeat(indentUnit, depth)
	wtype := item.WorkItemType.Name
	if wtype == "" {
		wtype = "?"
	}
	lines := []string{fmt.Sprintf("%s- [%s] #%s | %s | %s | %s",
		indent, wtype, item.IID, item.State, item.CreatedDate(), item.Title)}

	widget := item.HierarchyWidget()
	if widget == nil {
		return lines
	}

	childIndent := strings.Repeat(indentUnit, depth+1)
	if widget.Children == nil {
		// Below the query's static nesting depth nothing was fetched;
		// hasChildren is all the response tells us.
		if widget.HasChildren {
			lines = append(lines, childIndent+truncationMarker)
		}
		return lines
	}

	for i := range widget.Children.Nodes {
		lines = append(lines, Render(&widget.Children.Nodes[i], depth+1)...)
	}
	if widget.Children.PageInfo.HasNextPage {
		lines = append(lines, childIndent+truncationMarker)
	}

	return lines
}

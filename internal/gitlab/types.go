// Package gitlab provides client and data types for the GitLab REST and
// GraphQL APIs.
//
// This package handles all remote interaction for the tool: listing issues
// assigned to a user, fetching per-issue links and sub-tasks, and fetching
// work-item hierarchies over GraphQL.
package gitlab

import (
	"strings"
	"time"
)

// API configuration constants.
const (
	// DefaultAPIEndpoint is the GitLab REST API v4 path suffix.
	DefaultAPIEndpoint = "/api/v4"

	// DefaultGraphQLEndpoint is the GitLab GraphQL path suffix.
	DefaultGraphQLEndpoint = "/api/graphql"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxPageSize is the maximum number of records to fetch per page.
	MaxPageSize = 100

	// MaxPages is the maximum number of pages to fetch before stopping.
	// This prevents infinite loops from malformed X-Next-Page headers.
	MaxPages = 1000
)

// Issue represents an issue from the GitLab REST API.
type Issue struct {
	ID          int        `json:"id"`  // Global issue ID
	IID         int        `json:"iid"` // Project-scoped issue ID
	ProjectID   int        `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	State       string     `json:"state"`          // "opened", "closed", "reopened"
	Type        string     `json:"type,omitempty"` // "issue", "incident", "test_case", "task"
	Parent      *ParentRef `json:"parent,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	WebURL      string     `json:"web_url,omitempty"`
}

// ParentRef is the parent reference GitLab attaches to task-type issues.
type ParentRef struct {
	ID  int `json:"id"`
	IID int `json:"iid"`
}

// IssueLink is one record from the issue links sub-resource. GitLab returns
// the linked issue's fields augmented with the link metadata.
type IssueLink struct {
	IssueLinkID int    `json:"issue_link_id"`
	ID          int    `json:"id"`
	IID         int    `json:"iid"`
	Title       string `json:"title"`
	State       string `json:"state"`
	LinkType    string `json:"link_type"` // "relates_to", "blocks", "is_blocked_by"
}

// LinkTypeBlocks is the only link type treated as a parent->child edge.
const LinkTypeBlocks = "blocks"

// Task is one record from the issue tasks sub-resource.
type Task struct {
	ID    int    `json:"id"`
	IID   int    `json:"iid"`
	Title string `json:"title"`
	State string `json:"state"`
}

// IsTask reports whether an issue is a task-type issue. GitLab omits
// the type field in some responses; absence means a plain issue.
func (i Issue) IsTask() bool {
	return i.Type == "task"
}

// HasLinks reports whether the links sub-resource applies to this issue.
// Only plain issues (or issues with the type field omitted) carry links;
// tasks, incidents and test cases do not.
func (i Issue) HasLinks() bool {
	return i.Type == "" || i.Type == "issue"
}

// TypeTag returns the uppercased issue type for display, defaulting to ISSUE.
func (i Issue) TypeTag() string {
	if i.Type == "" {
		return "ISSUE"
	}
	return strings.ToUpper(i.Type)
}

// WorkItemRef identifies a work item from a GraphQL listing query.
type WorkItemRef struct {
	ID    string `json:"id"` // global ID, e.g. "gid://gitlab/WorkItem/42"
	IID   string `json:"iid"`
	Title string `json:"title"`
	State string `json:"state"`
}

// WorkItem is a work item with its hierarchy widget, as returned by the
// two-level nested GraphQL query. Grand-grandchildren are never present:
// the query shape stops at two levels of children, and the widget's page
// info marks whatever was left unfetched.
type WorkItem struct {
	ID           string       `json:"id"`
	IID          string       `json:"iid"`
	Title        string       `json:"title"`
	State        string       `json:"state"`
	CreatedAt    string       `json:"createdAt"` // ISO-8601
	WorkItemType WorkItemType `json:"workItemType"`
	Widgets      []Widget     `json:"widgets"`
}

// WorkItemType carries the type name ("Issue", "Task", "Epic", ...).
type WorkItemType struct {
	Name string `json:"name"`
}

// Widget is one entry of a work item's widgets list. Only HIERARCHY widgets
// carry children; for every other type the extra fields are absent.
type Widget struct {
	Type        string              `json:"type"`
	HasChildren bool                `json:"hasChildren,omitempty"`
	Children    *WorkItemConnection `json:"children,omitempty"`
}

// WidgetTypeHierarchy is the widget type carrying the children connection.
const WidgetTypeHierarchy = "HIERARCHY"

// WorkItemConnection is a paginated children connection.
type WorkItemConnection struct {
	Nodes    []WorkItem `json:"nodes"`
	PageInfo PageInfo   `json:"pageInfo"`
}

// PageInfo is the connection's continuation cursor and has-more flag. The
// cursor is surfaced but never advanced; see the hierarchy walker contract.
type PageInfo struct {
	EndCursor   string `json:"endCursor"`
	HasNextPage bool   `json:"hasNextPage"`
}

// HierarchyWidget returns the work item's HIERARCHY widget, or nil.
func (w *WorkItem) HierarchyWidget() *Widget {
	for i := range w.Widgets {
		if w.Widgets[i].Type == WidgetTypeHierarchy {
			return &w.Widgets[i]
		}
	}
	return nil
}

// CreatedDate returns the createdAt timestamp truncated at the date
// boundary (YYYY-MM-DD). Timestamps shorter than a date pass through as-is.
func (w *WorkItem) CreatedDate() string {
	if idx := strings.IndexByte(w.CreatedAt, 'T'); idx >= 0 {
		return w.CreatedAt[:idx]
	}
	return w.CreatedAt
}

// IsValidState reports whether state is one the issues API is known to
// return. Unknown states are still rendered verbatim; this only drives a
// diagnostic.
func IsValidState(state string) bool {
	switch state {
	case "opened", "closed", "reopened":
		return true
	}
	return false
}

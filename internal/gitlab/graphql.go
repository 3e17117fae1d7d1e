package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// listWorkItemsQuery lists one page of a project's issues (id/iid/title/state).
const listWorkItemsQuery = `
query projectIssues($fullPath: ID!, $pageSize: Int!) {
  project(fullPath: $fullPath) {
    issues(first: $pageSize) {
      nodes {
        id
        iid
        title
        state
      }
    }
  }
}`

// listAssignedWorkItemsQuery is the same listing scoped to an assignee.
const listAssignedWorkItemsQuery = `
query projectIssuesAssigned($fullPath: ID!, $pageSize: Int!, $assignees: [String!]) {
  project(fullPath: $fullPath) {
    issues(first: $pageSize, assigneeUsernames: $assignees) {
      nodes {
        id
        iid
        title
        state
      }
    }
  }
}`

// workItemHierarchyQuery fetches one work item and two statically nested
// levels of hierarchy children. This shape is the contract: there is no
// deeper nesting in the query, and the endCursor variable is accepted but
// never advanced by the walker. Deeper levels and further pages stay
// unfetched; pageInfo/hasChildren make the truncation observable.
const workItemHierarchyQuery = `
query workItemTree($id: WorkItemID!, $pageSize: Int!, $endCursor: String) {
  workItem(id: $id) {
    ...WorkItemHierarchy
  }
}
fragment WorkItemHierarchy on WorkItem {
  id
  iid
  title
  state
  createdAt
  workItemType { name }
  widgets {
    type
    ... on WorkItemWidgetHierarchy {
      type
      hasChildren
      children(first: $pageSize, after: $endCursor) {
        pageInfo { endCursor hasNextPage }
        nodes {
          id
          iid
          title
          state
          createdAt
          workItemType { name }
          widgets {
            type
            ... on WorkItemWidgetHierarchy {
              type
              hasChildren
              children(first: $pageSize) {
                pageInfo { endCursor hasNextPage }
                nodes {
                  id
                  iid
                  title
                  state
                  createdAt
                  workItemType { name }
                }
              }
            }
          }
        }
      }
    }
  }
}`

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// graphQLURL returns the GraphQL endpoint under the instance base URL.
func (c *Client) graphQLURL() string {
	return c.BaseURL + DefaultGraphQLEndpoint
}

// query posts one GraphQL request and unmarshals the data payload into out.
// GraphQL-level errors are fatal, matching the REST error policy.
func (c *Client) query(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	respBody, _, err := c.doRequest(ctx, http.MethodPost, c.graphQLURL(), graphQLRequest{
		Query:     query,
		Variables: variables,
	})
	if err != nil {
		return fmt.Errorf("graphql request failed: %w", err)
	}

	var resp graphQLResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return fmt.Errorf("failed to parse graphql response: %w", err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("graphql error: %s", strings.Join(msgs, "; "))
	}
	if len(resp.Data) == 0 {
		return fmt.Errorf("graphql response missing data payload")
	}

	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse graphql data: %w", err)
	}
	return nil
}

type projectIssuesEnvelope struct {
	Project *struct {
		Issues struct {
			Nodes []WorkItemRef `json:"nodes"`
		} `json:"issues"`
	} `json:"project"`
}

// ListProjectWorkItems lists up to pageSize issues of the project identified
// by fullPath. When assigneeUsername is non-empty the listing is scoped to
// that assignee.
func (c *Client) ListProjectWorkItems(ctx context.Context, fullPath, assigneeUsername string, pageSize int) ([]WorkItemRef, error) {
	if pageSize <= 0 {
		pageSize = MaxPageSize
	}

	queryStr := listWorkItemsQuery
	variables := map[string]interface{}{
		"fullPath": fullPath,
		"pageSize": pageSize,
	}
	if assigneeUsername != "" {
		queryStr = listAssignedWorkItemsQuery
		variables["assignees"] = []string{assigneeUsername}
	}

	var envelope projectIssuesEnvelope
	if err := c.query(ctx, queryStr, variables, &envelope); err != nil {
		return nil, err
	}
	if envelope.Project == nil {
		return nil, fmt.Errorf("graphql response missing project %q", fullPath)
	}
	return envelope.Project.Issues.Nodes, nil
}

type workItemEnvelope struct {
	WorkItem *WorkItem `json:"workItem"`
}

// FetchWorkItemHierarchy fetches one work item by global ID together with
// the two embedded levels of hierarchy children. It issues exactly one
// request; whatever the static query shape did not cover is reported
// through the returned connection's page info, never fetched.
func (c *Client) FetchWorkItemHierarchy(ctx context.Context, workItemID string, pageSize int) (*WorkItem, error) {
	if pageSize <= 0 {
		pageSize = MaxPageSize
	}

	var envelope workItemEnvelope
	err := c.query(ctx, workItemHierarchyQuery, map[string]interface{}{
		"id":        workItemID,
		"pageSize":  pageSize,
		"endCursor": "",
	}, &envelope)
	if err != nil {
		return nil, err
	}
	if envelope.WorkItem == nil {
		return nil, fmt.Errorf("graphql response missing work item %q", workItemID)
	}
	return envelope.WorkItem, nil
}

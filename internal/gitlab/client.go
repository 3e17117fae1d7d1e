package gitlab

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/glabtree/glabtree/internal/debug"
)

// ErrNotFound indicates a 404 from the remote API. Callers that treat a
// missing sub-resource as an empty collection check for it with errors.Is.
var ErrNotFound = errors.New("not found")

// Client provides methods to interact with the GitLab REST and GraphQL APIs.
type Client struct {
	Token      string       // GitLab personal access token
	BaseURL    string       // GitLab instance URL (e.g., "https://gitlab.example.com")
	ProjectID  string       // Project ID or URL-encoded path (e.g., "group/project")
	HTTPClient *http.Client // Optional custom HTTP client
}

// NewClient creates a new GitLab client.
func NewClient(token, baseURL, projectID string) *Client {
	return &Client{
		Token:     token,
		BaseURL:   baseURL,
		ProjectID: projectID,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// WithHTTPClient returns a new client with a custom HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		Token:      c.Token,
		BaseURL:    c.BaseURL,
		ProjectID:  c.ProjectID,
		HTTPClient: httpClient,
	}
}

// WithInsecureSkipVerify returns a new client whose transport skips TLS
// certificate verification. Off unless explicitly requested through the
// insecure-skip-verify configuration option.
func (c *Client) WithInsecureSkipVerify() *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402 - explicit opt-in
	return c.WithHTTPClient(&http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	})
}

// projectPath returns the URL-encoded project identifier path segment.
func (c *Client) projectPath() string {
	return url.PathEscape(c.ProjectID)
}

// buildURL constructs a full REST API URL.
func (c *Client) buildURL(path string, params map[string]string) string {
	u := c.BaseURL + DefaultAPIEndpoint + path

	if len(params) > 0 {
		values := url.Values{}
		for k, v := range params {
			values.Set(k, v)
		}
		u += "?" + values.Encode()
	}

	return u
}

// doRequest performs an HTTP request with authentication.
//
// There is no retry logic: any failure aborts the run. A 404 is returned as
// ErrNotFound so sub-resource fetches can map it to an empty collection.
func (c *Client) doRequest(ctx context.Context, method, urlStr string, body interface{}) ([]byte, http.Header, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("PRIVATE-TOKEN", c.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}

	const maxResponseSize = 50 * 1024 * 1024
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	_ = resp.Body.Close()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, fmt.Errorf("%s: %w", urlStr, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("API error: %s (status %d)", string(respBody), resp.StatusCode)
	}

	return respBody, resp.Header, nil
}

// FetchAssignedIssues retrieves every issue in the project assigned to the
// given username, in creation order, following X-Next-Page pagination.
func (c *Client) FetchAssignedIssues(ctx context.Context, assigneeUsername string) ([]Issue, error) {
	var allIssues []Issue
	page := 1

	for {
		select {
		case <-ctx.Done():
			return allIssues, ctx.Err()
		default:
		}

		params := map[string]string{
			"per_page": strconv.Itoa(MaxPageSize),
			"page":     strconv.Itoa(page),
			"order_by": "created_at",
			"sort":     "asc",
			"state":    "all",
		}
		if assigneeUsername != "" {
			params["assignee_username"] = assigneeUsername
		}

		urlStr := c.buildURL("/projects/"+c.projectPath()+"/issues", params)
		respBody, headers, err := c.doRequest(ctx, http.MethodGet, urlStr, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch issues: %w", err)
		}

		var issues []Issue
		if err := json.Unmarshal(respBody, &issues); err != nil {
			return nil, fmt.Errorf("failed to parse issues response: %w", err)
		}
		for _, issue := range issues {
			if !IsValidState(issue.State) {
				debug.Logf("issue #%d has unexpected state %q\n", issue.IID, issue.State)
			}
		}
		allIssues = append(allIssues, issues...)

		next := headers.Get("X-Next-Page")
		if next == "" {
			break
		}
		page, err = strconv.Atoi(next)
		if err != nil {
			break
		}

		if page > MaxPages {
			return nil, fmt.Errorf("pagination limit exceeded: stopped after %d pages", MaxPages)
		}
	}

	return allIssues, nil
}

// IssueLinks retrieves the typed links of one issue by project-scoped IID.
// A 404 (links endpoint not available for this issue) yields an empty slice.
func (c *Client) IssueLinks(ctx context.Context, iid int) ([]IssueLink, error) {
	urlStr := c.buildURL("/projects/"+c.projectPath()+"/issues/"+strconv.Itoa(iid)+"/links", nil)
	respBody, _, err := c.doRequest(ctx, http.MethodGet, urlStr, nil)
	if errors.Is(err, ErrNotFound) {
		return []IssueLink{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch links for issue #%d: %w", iid, err)
	}

	var links []IssueLink
	if err := json.Unmarshal(respBody, &links); err != nil {
		return nil, fmt.Errorf("failed to parse links response: %w", err)
	}
	return links, nil
}

// IssueTasks retrieves the sub-tasks of one issue by project-scoped IID.
// A 404 (tasks endpoint unsupported on this instance) yields an empty slice.
func (c *Client) IssueTasks(ctx context.Context, iid int) ([]Task, error) {
	urlStr := c.buildURL("/projects/"+c.projectPath()+"/issues/"+strconv.Itoa(iid)+"/tasks", nil)
	respBody, _, err := c.doRequest(ctx, http.MethodGet, urlStr, nil)
	if errors.Is(err, ErrNotFound) {
		return []Task{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks for issue #%d: %w", iid, err)
	}

	var tasks []Task
	if err := json.Unmarshal(respBody, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse tasks response: %w", err)
	}
	return tasks, nil
}

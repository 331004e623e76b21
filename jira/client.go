// Package jira provides a small Jira REST API v2 client with graceful
// fallback to built-in sample data when no server is configured.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mbeutel/llamachat/config"
	"github.com/mbeutel/llamachat/types"
)

// issueFields is requested on every search and issue read.
const issueFields = "key,summary,status,assignee,reporter,created,updated,issuetype,priority,labels,description"

// DefaultJQL is the query used when no filter is given.
const DefaultJQL = "ORDER BY created DESC"

const requestTimeout = 20 * time.Second

// Issue is the flattened view of a Jira issue used above the client.
type Issue struct {
	Key         string `json:"key"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Assignee    string `json:"assignee"`
	Reporter    string `json:"reporter"`
	IssueType   string `json:"issue_type"`
	Priority    string `json:"priority"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
	Labels      string `json:"labels"`
}

// Client talks to the Jira REST API. A client without complete
// credentials stays disconnected and serves sample data instead of
// failing.
type Client struct {
	baseURL    string
	username   string
	apiToken   string
	project    string
	connected  bool
	httpClient *http.Client
	logger     *log.Logger
}

// New builds a client from configuration.
func New(cfg *config.Config, logger *log.Logger) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.Jira.ServerURL, "/"),
		username:   cfg.Jira.Username,
		apiToken:   cfg.Jira.APIToken,
		project:    cfg.Jira.Project,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
	c.connected = c.baseURL != "" && c.username != "" && c.apiToken != ""
	if c.connected {
		logger.Printf("Connected to Jira: %s", c.baseURL)
	} else {
		logger.Printf("Jira credentials not found. Using sample data mode.")
	}
	return c
}

// IsConnected reports whether the client has credentials for a live
// server.
func (c *Client) IsConnected() bool {
	return c.connected
}

// Project returns the configured default project key, if any.
func (c *Client) Project() string {
	return c.project
}

// Search runs a JQL query and returns flattened issues.
func (c *Client) Search(ctx context.Context, jql string, maxResults int) ([]Issue, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("maxResults", strconv.Itoa(maxResults))
	q.Set("fields", issueFields)

	var out searchResponse
	if err := c.get(ctx, "/rest/api/2/search?"+q.Encode(), "search", &out); err != nil {
		return nil, err
	}

	issues := make([]Issue, 0, len(out.Issues))
	for _, raw := range out.Issues {
		issues = append(issues, flatten(raw))
	}
	return issues, nil
}

// GetIssue fetches a single issue by key.
func (c *Client) GetIssue(ctx context.Context, key string) (Issue, error) {
	path := fmt.Sprintf("/rest/api/2/issue/%s?fields=%s", url.PathEscape(key), issueFields)
	var raw rawIssue
	if err := c.get(ctx, path, "issue", &raw); err != nil {
		return Issue{}, err
	}
	return flatten(raw), nil
}

// FetchIssues never fails: sample data backs both the disconnected state
// and live query errors. An empty jql means DefaultJQL.
func (c *Client) FetchIssues(ctx context.Context, jql string, maxResults int) []Issue {
	if jql == "" {
		jql = DefaultJQL
	}
	if !c.connected {
		return SampleIssues()
	}
	issues, err := c.Search(ctx, jql, maxResults)
	if err != nil {
		c.logger.Printf("Error fetching issues: %v", err)
		return SampleIssues()
	}
	c.logger.Printf("Fetched %d issues", len(issues))
	return issues
}

// IssueDetail never fails: unknown keys and live errors fall back to the
// matching sample issue, then the first sample.
func (c *Client) IssueDetail(ctx context.Context, key string) Issue {
	if !c.connected {
		return sampleDetail(key)
	}
	issue, err := c.GetIssue(ctx, key)
	if err != nil {
		c.logger.Printf("Error fetching issue %s: %v", key, err)
		return sampleDetail(key)
	}
	return issue
}

// get performs an authenticated GET and decodes the JSON body into dst.
func (c *Client) get(ctx context.Context, path, operation string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &types.JiraError{Operation: operation, Message: "failed to create request", Err: err}
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &types.JiraError{Operation: operation, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &types.JiraError{Operation: operation, StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &types.JiraError{Operation: operation, StatusCode: resp.StatusCode, Message: errorDetail(body)}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &types.JiraError{Operation: operation, StatusCode: resp.StatusCode, Message: "invalid JSON in response", Err: err}
	}
	return nil
}

type searchResponse struct {
	Issues []rawIssue `json:"issues"`
}

type rawIssue struct {
	Key    string    `json:"key"`
	Fields rawFields `json:"fields"`
}

type rawFields struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Status      *rawNamed `json:"status"`
	Assignee    *rawUser  `json:"assignee"`
	Reporter    *rawUser  `json:"reporter"`
	IssueType   *rawNamed `json:"issuetype"`
	Priority    *rawNamed `json:"priority"`
	Created     string    `json:"created"`
	Updated     string    `json:"updated"`
	Labels      []string  `json:"labels"`
}

type rawNamed struct {
	Name string `json:"name"`
}

type rawUser struct {
	DisplayName string `json:"displayName"`
}

// flatten maps a raw API issue onto the simplified shape, substituting
// safe defaults for anything missing.
func flatten(raw rawIssue) Issue {
	issue := Issue{
		Key:         raw.Key,
		Summary:     raw.Fields.Summary,
		Description: raw.Fields.Description,
		Status:      "Unknown",
		Assignee:    "Unassigned",
		Reporter:    "Unknown",
		IssueType:   "Unknown",
		Priority:    "Unknown",
		Created:     raw.Fields.Created,
		Updated:     raw.Fields.Updated,
		Labels:      strings.Join(raw.Fields.Labels, ", "),
	}
	if issue.Summary == "" {
		issue.Summary = "No summary"
	}
	if raw.Fields.Status != nil && raw.Fields.Status.Name != "" {
		issue.Status = raw.Fields.Status.Name
	}
	if raw.Fields.Assignee != nil && raw.Fields.Assignee.DisplayName != "" {
		issue.Assignee = raw.Fields.Assignee.DisplayName
	}
	if raw.Fields.Reporter != nil && raw.Fields.Reporter.DisplayName != "" {
		issue.Reporter = raw.Fields.Reporter.DisplayName
	}
	if raw.Fields.IssueType != nil && raw.Fields.IssueType.Name != "" {
		issue.IssueType = raw.Fields.IssueType.Name
	}
	if raw.Fields.Priority != nil && raw.Fields.Priority.Name != "" {
		issue.Priority = raw.Fields.Priority.Name
	}
	return issue
}

// errorDetail pulls human-readable messages out of a Jira error body.
func errorDetail(body []byte) string {
	var parsed struct {
		ErrorMessages []string          `json:"errorMessages"`
		Errors        map[string]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		parts := append([]string{}, parsed.ErrorMessages...)
		fields := make([]string, 0, len(parsed.Errors))
		for field := range parsed.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			parts = append(parts, fmt.Sprintf("%s: %s", field, parsed.Errors[field]))
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}

	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	if detail == "" {
		detail = "request failed"
	}
	return detail
}

// SampleIssues returns the built-in demo issues served when no Jira
// server is configured.
func SampleIssues() []Issue {
	return []Issue{
		{
			Key:         "DEMO-001",
			Summary:     "Sample issue for development",
			Description: "This is a sample issue used when Jira is not connected",
			Status:      "In Progress",
			Assignee:    "John Doe",
			Reporter:    "Jane Smith",
			IssueType:   "Task",
			Priority:    "Medium",
			Created:     "2024-01-01T10:00:00.000+0000",
			Updated:     "2024-01-02T15:30:00.000+0000",
			Labels:      "development, sample",
		},
		{
			Key:         "DEMO-002",
			Summary:     "Another sample issue",
			Description: "Second sample issue for testing",
			Status:      "Done",
			Assignee:    "Alice Johnson",
			Reporter:    "Bob Wilson",
			IssueType:   "Bug",
			Priority:    "High",
			Created:     "2024-01-03T09:15:00.000+0000",
			Updated:     "2024-01-04T14:20:00.000+0000",
			Labels:      "bug, testing",
		},
		{
			Key:         "DEMO-003",
			Summary:     "Feature request sample",
			Description: "Sample feature request",
			Status:      "To Do",
			Assignee:    "Unassigned",
			Reporter:    "Charlie Brown",
			IssueType:   "Story",
			Priority:    "Low",
			Created:     "2024-01-05T11:45:00.000+0000",
			Updated:     "2024-01-05T11:45:00.000+0000",
			Labels:      "feature, enhancement",
		},
	}
}

func sampleDetail(key string) Issue {
	samples := SampleIssues()
	for _, issue := range samples {
		if issue.Key == key {
			return issue
		}
	}
	return samples[0]
}

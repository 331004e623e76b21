// tools/jira.go
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mbeutel/llamachat/jira"
)

// analyticsFetchLimit caps the snapshot used for dashboard metrics.
const analyticsFetchLimit = 200

// JiraIssuesTool lists issues newest first.
type JiraIssuesTool struct {
	base
	client       *jira.Client
	defaultLimit int
}

// NewJiraIssuesTool creates the get_all_jira_issues tool
func NewJiraIssuesTool(client *jira.Client, defaultLimit int) *JiraIssuesTool {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &JiraIssuesTool{
		base: base{
			name:          "get_all_jira_issues",
			description:   "Get all Jira issues. Use this for general queries about all issues or when counting total issues without filters.",
			parameterName: "limit",
		},
		client:       client,
		defaultLimit: defaultLimit,
	}
}

// Spec carries the hand-written schema; limit is optional.
func (t *JiraIssuesTool) Spec() mcp.Tool {
	return mcp.Tool{
		Name:        t.name,
		Description: t.description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of issues to retrieve (default: 50)",
					"default":     50,
				},
			},
		},
	}
}

// Invoke renders a table of the latest issues. The argument is an
// optional limit.
func (t *JiraIssuesTool) Invoke(ctx context.Context, arg string) (string, error) {
	limit := t.defaultLimit
	if v := strings.TrimSpace(arg); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", fmt.Errorf("invalid limit %q: %w", v, err)
		}
		if n > 0 {
			limit = n
		}
	}

	issues := t.client.FetchIssues(ctx, jira.DefaultJQL, limit)

	var sb strings.Builder
	fmt.Fprintf(&sb, "All Jira Issues (%d total)\n\n", len(issues))
	sb.WriteString(formatIssueTable(issues))
	fmt.Fprintf(&sb, "\nFound %d issues total", len(issues))
	return sb.String(), nil
}

// JiraDetailTool fetches one issue by key.
type JiraDetailTool struct {
	base
	client *jira.Client
}

// NewJiraDetailTool creates the get_jira_issue_detail tool
func NewJiraDetailTool(client *jira.Client) *JiraDetailTool {
	return &JiraDetailTool{
		base: base{
			name:          "get_jira_issue_detail",
			description:   "Get detailed information for a specific Jira issue by its key/ID.",
			parameterName: "issue_key",
		},
		client: client,
	}
}

func (t *JiraDetailTool) Spec() mcp.Tool {
	return mcp.Tool{
		Name:        t.name,
		Description: t.description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"issue_key": map[string]interface{}{
					"type":        "string",
					"description": "The Jira issue key (e.g., 'PROJ-123', 'DEMO-001')",
				},
			},
			Required: []string{"issue_key"},
		},
	}
}

// Invoke renders one issue field per line.
func (t *JiraDetailTool) Invoke(ctx context.Context, arg string) (string, error) {
	key := strings.TrimSpace(arg)
	if key == "" {
		return "", fmt.Errorf("issue_key is required")
	}

	issue := t.client.IssueDetail(ctx, key)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Issue Details: %s\n\n", key)
	fmt.Fprintf(&sb, "Key:      %s\n", issue.Key)
	fmt.Fprintf(&sb, "Summary:  %s\n", issue.Summary)
	fmt.Fprintf(&sb, "Status:   %s\n", issue.Status)
	fmt.Fprintf(&sb, "Assignee: %s\n", issue.Assignee)
	fmt.Fprintf(&sb, "Reporter: %s\n", issue.Reporter)
	fmt.Fprintf(&sb, "Type:     %s\n", issue.IssueType)
	fmt.Fprintf(&sb, "Priority: %s\n", issue.Priority)
	fmt.Fprintf(&sb, "Labels:   %s\n", issue.Labels)
	fmt.Fprintf(&sb, "Created:  %s\n", issue.Created)
	fmt.Fprintf(&sb, "Updated:  %s\n", issue.Updated)
	if issue.Description != "" {
		fmt.Fprintf(&sb, "\nDescription:\n%s\n", issue.Description)
	}
	return sb.String(), nil
}

// JiraFilterTool searches issues by status, assignee, labels, priority,
// or free-text topic. It has no single primary parameter, so object
// arguments reach Invoke as JSON for ParseFilterArg.
type JiraFilterTool struct {
	base
	client       *jira.Client
	defaultLimit int
}

// NewJiraFilterTool creates the get_jira_issues_by_filter tool
func NewJiraFilterTool(client *jira.Client, defaultLimit int) *JiraFilterTool {
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	return &JiraFilterTool{
		base: base{
			name:        "get_jira_issues_by_filter",
			description: "Get Jira issues filtered by status, assignee, labels, priority, or topic. Use this for specific filtered searches.",
		},
		client:       client,
		defaultLimit: defaultLimit,
	}
}

func (t *JiraFilterTool) Spec() mcp.Tool {
	return mcp.Tool{
		Name:        t.name,
		Description: t.description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"status": map[string]interface{}{
					"type":        "string",
					"description": "Filter by status (e.g., 'In Progress', 'Done', 'To Do')",
				},
				"assignee": map[string]interface{}{
					"type":        "string",
					"description": "Filter by assignee name",
				},
				"labels": map[string]interface{}{
					"type":        "string",
					"description": "Filter by label (e.g., 'bug', 'feature', 'urgent')",
				},
				"priority": map[string]interface{}{
					"type":        "string",
					"description": "Filter by priority (e.g., 'High', 'Medium', 'Low')",
				},
				"topic": map[string]interface{}{
					"type":        "string",
					"description": "Search for issues containing this topic in summary or description",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of issues to retrieve (default: 50)",
					"default":     50,
				},
			},
		},
	}
}

// Invoke filters issues and appends suggestions when nothing matched.
func (t *JiraFilterTool) Invoke(ctx context.Context, arg string) (string, error) {
	filter, err := ParseFilterArg(arg)
	if err != nil {
		return "", err
	}
	filter.Project = t.client.Project()
	if filter.Limit <= 0 {
		filter.Limit = t.defaultLimit
	}

	desc := filter.Describe()
	issues := t.client.FetchIssues(ctx, jira.BuildJQL(filter), filter.Limit)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Filtered Jira Issues (%d found)\n", len(issues))
	fmt.Fprintf(&sb, "Filters applied: %s\n\n", desc)
	sb.WriteString(formatIssueTable(issues))
	fmt.Fprintf(&sb, "\nFound %d issues with filters: %s", len(issues), desc)

	if len(issues) == 0 {
		sample := t.client.FetchIssues(ctx, jira.DefaultJQL, t.defaultLimit)
		if suggestion := jira.Suggestions(sample); suggestion != "" {
			fmt.Fprintf(&sb, "\n%s", suggestion)
		}
	}
	return sb.String(), nil
}

// ParseFilterArg accepts a JSON object, comma-separated key=value pairs,
// or a bare topic string.
func ParseFilterArg(arg string) (jira.Filter, error) {
	var filter jira.Filter
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return filter, nil
	}

	if strings.HasPrefix(arg, "{") {
		var raw map[string]interface{}
		if err := json.Unmarshal([]byte(arg), &raw); err != nil {
			return filter, fmt.Errorf("invalid filter JSON: %w", err)
		}
		for key, value := range raw {
			if err := setFilterField(&filter, key, value); err != nil {
				return filter, err
			}
		}
		return filter, nil
	}

	if strings.Contains(arg, "=") {
		for _, pair := range strings.Split(arg, ",") {
			parts := strings.SplitN(pair, "=", 2)
			if len(parts) != 2 {
				return filter, fmt.Errorf("invalid filter pair %q", strings.TrimSpace(pair))
			}
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			if err := setFilterField(&filter, key, value); err != nil {
				return filter, err
			}
		}
		return filter, nil
	}

	filter.Topic = arg
	return filter, nil
}

func setFilterField(filter *jira.Filter, key string, value interface{}) error {
	text := func() string {
		switch v := value.(type) {
		case string:
			return strings.TrimSpace(v)
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return strings.TrimSpace(fmt.Sprintf("%v", value))
		}
	}()

	switch strings.ToLower(strings.TrimSpace(key)) {
	case "status":
		filter.Status = text
	case "assignee":
		filter.Assignee = text
	case "labels", "label":
		filter.Labels = text
	case "priority":
		filter.Priority = text
	case "topic":
		filter.Topic = text
	case "project":
		filter.Project = text
	case "limit":
		n, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("invalid limit %q: %w", text, err)
		}
		filter.Limit = n
	default:
		return fmt.Errorf("unknown filter field %q", key)
	}
	return nil
}

// JiraDashboardTool aggregates issue analytics.
type JiraDashboardTool struct {
	base
	client *jira.Client
}

// NewJiraDashboardTool creates the get_analytical_dashboard_data tool
func NewJiraDashboardTool(client *jira.Client) *JiraDashboardTool {
	return &JiraDashboardTool{
		base: base{
			name:        "get_analytical_dashboard_data",
			description: "Get comprehensive analytics and dashboard data including metrics, charts, and insights about Jira issues.",
		},
		client: client,
	}
}

func (t *JiraDashboardTool) Spec() mcp.Tool {
	return mcp.Tool{
		Name:        t.name,
		Description: t.description,
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// Invoke renders overview metrics, distributions, and recent issues.
func (t *JiraDashboardTool) Invoke(ctx context.Context, arg string) (string, error) {
	issues := t.client.FetchIssues(ctx, jira.DefaultJQL, analyticsFetchLimit)
	if len(issues) == 0 {
		return "No issues found for analysis", nil
	}

	a := jira.BuildAnalytics(issues)

	var sb strings.Builder
	sb.WriteString("Jira Analytics Dashboard\n\n")
	sb.WriteString("Overview:\n")
	fmt.Fprintf(&sb, "  Total issues: %d\n", a.TotalIssues)
	fmt.Fprintf(&sb, "  In progress:  %d\n", a.InProgress)
	fmt.Fprintf(&sb, "  Completed:    %d\n", a.Completed)
	fmt.Fprintf(&sb, "  With labels:  %d\n", a.WithLabels)

	writeDistribution(&sb, "Status distribution", a.StatusDistribution)
	writeDistribution(&sb, "Assignee distribution", a.AssigneeDistribution)
	writeDistribution(&sb, "Label distribution", a.LabelDistribution)

	sb.WriteString("\nRecent issues:\n")
	for _, issue := range a.RecentIssues {
		fmt.Fprintf(&sb, "  %s  %s (%s, %s)\n", issue.Key, issue.Summary, issue.Status, issue.Assignee)
	}
	return sb.String(), nil
}

func writeDistribution(sb *strings.Builder, title string, counts []jira.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n", title)
	for _, c := range counts {
		fmt.Fprintf(sb, "  %s: %d\n", c.Value, c.Count)
	}
}

// formatIssueTable renders issues as a padded text table.
func formatIssueTable(issues []jira.Issue) string {
	if len(issues) == 0 {
		return "(no issues)\n"
	}

	columns := []string{"KEY", "SUMMARY", "STATUS", "ASSIGNEE", "CREATED"}
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, []string{
			issue.Key, issue.Summary, issue.Status, issue.Assignee, issue.Created,
		})
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var sb strings.Builder
	for i, col := range columns {
		fmt.Fprintf(&sb, "%-*s  ", widths[i], col)
	}
	sb.WriteString("\n")
	for i := range columns {
		sb.WriteString(strings.Repeat("-", widths[i]))
		sb.WriteString("  ")
	}
	sb.WriteString("\n")
	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprintf(&sb, "%-*s  ", widths[i], cell)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// NewJiraTools returns the four Jira-backed tools sharing one client.
func NewJiraTools(client *jira.Client, defaultLimit int) []Tool {
	return []Tool{
		NewJiraIssuesTool(client, defaultLimit),
		NewJiraDetailTool(client),
		NewJiraFilterTool(client, defaultLimit),
		NewJiraDashboardTool(client),
	}
}

// jira/analytics.go
package jira

import (
	"sort"
	"strings"
)

// Count pairs a value with how many times it occurs.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Analytics aggregates issue metrics for the dashboard tool.
type Analytics struct {
	TotalIssues          int     `json:"total_issues"`
	InProgress           int     `json:"in_progress"`
	Completed            int     `json:"completed"`
	WithLabels           int     `json:"with_labels"`
	StatusDistribution   []Count `json:"status_distribution"`
	AssigneeDistribution []Count `json:"assignee_distribution"`
	LabelDistribution    []Count `json:"label_distribution"`
	RecentIssues         []Issue `json:"recent_issues"`
}

// BuildAnalytics computes overview metrics and distributions from a
// snapshot of issues. The slice is expected newest-first, which is what
// the default JQL ordering delivers.
func BuildAnalytics(issues []Issue) Analytics {
	a := Analytics{TotalIssues: len(issues)}

	statusCounts := make(map[string]int)
	assigneeCounts := make(map[string]int)
	labelCounts := make(map[string]int)

	for _, issue := range issues {
		status := strings.ToLower(issue.Status)
		if strings.Contains(status, "progress") {
			a.InProgress++
		}
		if strings.Contains(status, "done") || strings.Contains(status, "closed") ||
			strings.Contains(status, "resolved") {
			a.Completed++
		}
		if strings.TrimSpace(issue.Labels) != "" {
			a.WithLabels++
		}

		statusCounts[issue.Status]++
		assigneeCounts[issue.Assignee]++
		for _, label := range splitLabels(issue.Labels) {
			labelCounts[label]++
		}
	}

	a.StatusDistribution = sortedCounts(statusCounts, 0)
	a.AssigneeDistribution = sortedCounts(assigneeCounts, 10)
	a.LabelDistribution = sortedCounts(labelCounts, 10)

	recent := 5
	if len(issues) < recent {
		recent = len(issues)
	}
	a.RecentIssues = append([]Issue(nil), issues[:recent]...)

	return a
}

// Suggestions lists values that would match when a filtered search comes
// back empty. Empty input yields an empty string.
func Suggestions(issues []Issue) string {
	if len(issues) == 0 {
		return ""
	}

	statuses := uniqueValues(issues, func(i Issue) string { return i.Status }, 5)
	assignees := uniqueValues(issues, func(i Issue) string { return i.Assignee }, 5)
	assignees = withoutValue(assignees, "Unassigned")

	var labels []string
	seen := make(map[string]bool)
	for _, issue := range issues {
		for _, label := range splitLabels(issue.Labels) {
			if !seen[label] && len(labels) < 5 {
				seen[label] = true
				labels = append(labels, label)
			}
		}
	}

	var parts []string
	if len(statuses) > 0 {
		parts = append(parts, "Available statuses: "+strings.Join(statuses, ", "))
	}
	if len(assignees) > 0 {
		parts = append(parts, "Available assignees: "+strings.Join(assignees, ", "))
	}
	if len(labels) > 0 {
		parts = append(parts, "Available labels: "+strings.Join(labels, ", "))
	}
	return strings.Join(parts, " | ")
}

// splitLabels breaks the comma-joined label string back into parts.
func splitLabels(labels string) []string {
	var out []string
	for _, part := range strings.Split(labels, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// sortedCounts orders by count descending, value ascending on ties, and
// truncates to limit when limit is positive.
func sortedCounts(counts map[string]int, limit int) []Count {
	out := make([]Count, 0, len(counts))
	for value, n := range counts {
		out = append(out, Count{Value: value, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// uniqueValues collects up to max distinct values in first-seen order.
func uniqueValues(issues []Issue, get func(Issue) string, max int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, issue := range issues {
		v := get(issue)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
		if len(out) == max {
			break
		}
	}
	return out
}

func withoutValue(values []string, drop string) []string {
	out := values[:0]
	for _, v := range values {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}

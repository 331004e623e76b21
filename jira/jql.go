// jira/jql.go
package jira

import (
	"fmt"
	"strings"
)

// Filter describes the supported issue filters. Zero values mean the
// dimension is not filtered.
type Filter struct {
	Project  string
	Status   string
	Assignee string
	Labels   string
	Priority string
	Topic    string
	Limit    int
}

// IsEmpty reports whether no filter dimension is set.
func (f Filter) IsEmpty() bool {
	return f.Status == "" && f.Assignee == "" && f.Labels == "" &&
		f.Priority == "" && f.Topic == ""
}

// Describe renders the active filters for user-facing messages, e.g.
// "status: Done, topic: login".
func (f Filter) Describe() string {
	var parts []string
	if f.Status != "" {
		parts = append(parts, "status: "+f.Status)
	}
	if f.Assignee != "" {
		parts = append(parts, "assignee: "+f.Assignee)
	}
	if f.Labels != "" {
		parts = append(parts, "labels: "+f.Labels)
	}
	if f.Priority != "" {
		parts = append(parts, "priority: "+f.Priority)
	}
	if f.Topic != "" {
		parts = append(parts, "topic: "+f.Topic)
	}
	if len(parts) == 0 {
		return "no filters"
	}
	return strings.Join(parts, ", ")
}

// BuildJQL renders the filter as a JQL query. Every value is escaped and
// single-quoted so user input cannot break out of its clause.
func BuildJQL(f Filter) string {
	var clauses []string
	if f.Status != "" {
		clauses = append(clauses, fmt.Sprintf("status = '%s'", escapeJQL(f.Status)))
	}
	if f.Assignee != "" {
		clauses = append(clauses, fmt.Sprintf("assignee = '%s'", escapeJQL(f.Assignee)))
	}
	if f.Labels != "" {
		clauses = append(clauses, fmt.Sprintf("labels = '%s'", escapeJQL(f.Labels)))
	}
	if f.Priority != "" {
		clauses = append(clauses, fmt.Sprintf("priority = '%s'", escapeJQL(f.Priority)))
	}
	if f.Topic != "" {
		topic := escapeJQL(f.Topic)
		clauses = append(clauses, fmt.Sprintf("(summary ~ '%s' OR description ~ '%s')", topic, topic))
	}

	query := strings.Join(clauses, " AND ")
	if f.Project != "" {
		project := escapeJQL(f.Project)
		if query != "" {
			query = fmt.Sprintf("project = '%s' AND (%s)", project, query)
		} else {
			query = fmt.Sprintf("project = '%s'", project)
		}
	}

	if query == "" {
		return DefaultJQL
	}
	return query + " " + DefaultJQL
}

// escapeJQL backslash-escapes backslash and quote characters so a value
// can sit inside single quotes. Backslashes go first or the quote
// escapes would be doubled.
func escapeJQL(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}

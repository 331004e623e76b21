package tools

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mbeutel/llamachat/config"
	"github.com/mbeutel/llamachat/jira"
)

// sampleModeClient builds a client without credentials, so every fetch
// serves the built-in sample issues.
func sampleModeClient(t *testing.T) *jira.Client {
	t.Helper()
	cfg := config.DefaultConfig()
	return jira.New(cfg, log.New(io.Discard, "", 0))
}

func TestJiraIssuesToolListsSamples(t *testing.T) {
	tool := NewJiraIssuesTool(sampleModeClient(t), 50)

	out, err := tool.Invoke(context.Background(), "")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	for _, want := range []string{
		"All Jira Issues (3 total)",
		"KEY",
		"DEMO-001",
		"DEMO-003",
		"Sample issue for development",
		"Found 3 issues total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJiraIssuesToolLimitArgument(t *testing.T) {
	tool := NewJiraIssuesTool(sampleModeClient(t), 50)

	if _, err := tool.Invoke(context.Background(), "10"); err != nil {
		t.Fatalf("numeric limit: %v", err)
	}
	if _, err := tool.Invoke(context.Background(), "lots"); err == nil {
		t.Fatalf("expected invalid limit to fail")
	}
}

func TestJiraDetailToolRendersIssue(t *testing.T) {
	tool := NewJiraDetailTool(sampleModeClient(t))

	out, err := tool.Invoke(context.Background(), "DEMO-002")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	for _, want := range []string{
		"Issue Details: DEMO-002",
		"Key:      DEMO-002",
		"Summary:  Another sample issue",
		"Status:   Done",
		"Assignee: Alice Johnson",
		"Priority: High",
		"Description:\nSecond sample issue for testing",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJiraDetailToolRequiresKey(t *testing.T) {
	tool := NewJiraDetailTool(sampleModeClient(t))

	if _, err := tool.Invoke(context.Background(), "  "); err == nil {
		t.Fatalf("expected missing issue key to fail")
	}
}

func TestParseFilterArg(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    jira.Filter
		wantErr bool
	}{
		{name: "empty", arg: "", want: jira.Filter{}},
		{name: "bare topic", arg: "login timeout", want: jira.Filter{Topic: "login timeout"}},
		{
			name: "key value pairs",
			arg:  "status=In Progress, assignee=Alice Johnson",
			want: jira.Filter{Status: "In Progress", Assignee: "Alice Johnson"},
		},
		{
			name: "label alias",
			arg:  "label=bug",
			want: jira.Filter{Labels: "bug"},
		},
		{
			name: "json object",
			arg:  `{"status":"Done","priority":"High","limit":5}`,
			want: jira.Filter{Status: "Done", Priority: "High", Limit: 5},
		},
		{
			name: "json topic",
			arg:  `{"topic":"login"}`,
			want: jira.Filter{Topic: "login"},
		},
		{name: "invalid json", arg: `{"status":`, wantErr: true},
		{name: "unknown field", arg: "severity=high", wantErr: true},
		{name: "dangling pair", arg: "status=Done,oops", wantErr: true},
		{name: "bad limit", arg: "limit=lots", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilterArg(tt.arg)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.arg)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse %q: %v", tt.arg, err)
			}
			if got != tt.want {
				t.Fatalf("ParseFilterArg(%q) = %+v, want %+v", tt.arg, got, tt.want)
			}
		})
	}
}

func TestJiraFilterToolRendersFilters(t *testing.T) {
	tool := NewJiraFilterTool(sampleModeClient(t), 50)

	out, err := tool.Invoke(context.Background(), "status=Done")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	for _, want := range []string{
		"Filtered Jira Issues (3 found)",
		"Filters applied: status: Done",
		"Found 3 issues with filters: status: Done",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJiraFilterToolSuggestsOnEmptyResult(t *testing.T) {
	// The filtered query returns nothing; the unfiltered one returns the
	// issues the suggestions are drawn from.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("jql") == jira.DefaultJQL {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"issues": []map[string]interface{}{
					{
						"key": "CHAT-1",
						"fields": map[string]interface{}{
							"summary":  "Fix login flow",
							"status":   map[string]string{"name": "In Review"},
							"assignee": map[string]string{"displayName": "Dana"},
							"labels":   []string{"auth"},
						},
					},
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"issues": []interface{}{}})
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Jira.ServerURL = srv.URL
	cfg.Jira.Username = "jira-user"
	cfg.Jira.APIToken = "secret"
	client := jira.New(cfg, log.New(io.Discard, "", 0))

	tool := NewJiraFilterTool(client, 50)
	out, err := tool.Invoke(context.Background(), "status=Archived")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	for _, want := range []string{
		"Filtered Jira Issues (0 found)",
		"(no issues)",
		"Available statuses: In Review",
		"Available assignees: Dana",
		"Available labels: auth",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJiraDashboardToolRendersAnalytics(t *testing.T) {
	tool := NewJiraDashboardTool(sampleModeClient(t))

	out, err := tool.Invoke(context.Background(), "")
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}

	for _, want := range []string{
		"Jira Analytics Dashboard",
		"Total issues: 3",
		"In progress:  1",
		"Completed:    1",
		"With labels:  3",
		"Status distribution:",
		"In Progress: 1",
		"Assignee distribution:",
		"Label distribution:",
		"bug: 1",
		"Recent issues:",
		"DEMO-001  Sample issue for development (In Progress, John Doe)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatIssueTable(t *testing.T) {
	if got := formatIssueTable(nil); got != "(no issues)\n" {
		t.Fatalf("empty table = %q", got)
	}

	out := formatIssueTable([]jira.Issue{
		{Key: "A-1", Summary: "Short", Status: "Done", Assignee: "Ann", Created: "2024-01-01"},
		{Key: "A-20", Summary: "A longer summary", Status: "To Do", Assignee: "Bo", Created: "2024-01-02"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + separator + 2 rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "KEY ") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "----") {
		t.Fatalf("unexpected separator: %q", lines[1])
	}
	// Columns line up: every row starts its SUMMARY cell at the same
	// offset.
	if strings.Index(lines[2], "Short") != strings.Index(lines[3], "A longer summary") {
		t.Fatalf("summary column misaligned:\n%s", out)
	}
}

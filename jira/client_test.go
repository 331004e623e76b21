package jira

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mbeutel/llamachat/config"
	"github.com/mbeutel/llamachat/types"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func connectedClient(serverURL string) *Client {
	cfg := config.DefaultConfig()
	cfg.Jira.ServerURL = serverURL
	cfg.Jira.Username = "jira-user"
	cfg.Jira.APIToken = "secret"
	cfg.Jira.Project = "CHAT"
	return New(cfg, discardLogger())
}

func disconnectedClient() *Client {
	return New(config.DefaultConfig(), discardLogger())
}

const searchBody = `{"issues":[
  {"key":"CHAT-1","fields":{
    "summary":"Fix login flow",
    "description":"Session cookie expires too early",
    "status":{"name":"In Progress"},
    "assignee":{"displayName":"Alice"},
    "reporter":{"displayName":"Bob"},
    "issuetype":{"name":"Bug"},
    "priority":{"name":"High"},
    "created":"2024-05-01T10:00:00.000+0000",
    "updated":"2024-05-02T10:00:00.000+0000",
    "labels":["auth","login"]}},
  {"key":"CHAT-2","fields":{
    "summary":"",
    "status":null,
    "assignee":null,
    "labels":[]}}
]}`

func TestSearchFlattensIssues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("jql") != "status = 'Done' ORDER BY created DESC" {
			t.Errorf("unexpected jql %q", q.Get("jql"))
		}
		if q.Get("maxResults") != "25" {
			t.Errorf("unexpected maxResults %q", q.Get("maxResults"))
		}
		if q.Get("fields") != issueFields {
			t.Errorf("unexpected fields %q", q.Get("fields"))
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "jira-user" || pass != "secret" {
			t.Errorf("unexpected basic auth %q/%q", user, pass)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("unexpected accept header %q", r.Header.Get("Accept"))
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, searchBody)
	}))
	defer srv.Close()

	client := connectedClient(srv.URL)
	issues, err := client.Search(context.Background(), "status = 'Done' ORDER BY created DESC", 25)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}

	first := issues[0]
	if first.Key != "CHAT-1" || first.Status != "In Progress" || first.Assignee != "Alice" {
		t.Fatalf("unexpected first issue: %+v", first)
	}
	if first.Labels != "auth, login" {
		t.Fatalf("labels = %q, want joined list", first.Labels)
	}

	// Missing fields take readable defaults.
	second := issues[1]
	if second.Summary != "No summary" {
		t.Fatalf("summary default = %q", second.Summary)
	}
	if second.Status != "Unknown" || second.Assignee != "Unassigned" || second.Reporter != "Unknown" {
		t.Fatalf("unexpected defaults: %+v", second)
	}
	if second.Labels != "" {
		t.Fatalf("labels = %q, want empty", second.Labels)
	}
}

func TestGetIssueEscapesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.EscapedPath(); got != "/rest/api/2/issue/CHAT%201" {
			t.Errorf("unexpected path %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"key":"CHAT 1","fields":{"summary":"Spaced key"}}`)
	}))
	defer srv.Close()

	client := connectedClient(srv.URL)
	issue, err := client.GetIssue(context.Background(), "CHAT 1")
	if err != nil {
		t.Fatalf("get issue: %v", err)
	}
	if issue.Summary != "Spaced key" {
		t.Fatalf("unexpected issue: %+v", issue)
	}
}

func TestSearchErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"errorMessages":["The value 'X' does not exist"],"errors":{"b":"bad","a":"worse"}}`)
	}))
	defer srv.Close()

	client := connectedClient(srv.URL)
	_, err := client.Search(context.Background(), DefaultJQL, 10)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, types.ErrJiraQuery) {
		t.Fatalf("expected jira query error, got %v", err)
	}

	var jiraErr *types.JiraError
	if !errors.As(err, &jiraErr) {
		t.Fatalf("expected *types.JiraError, got %T", err)
	}
	if jiraErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", jiraErr.StatusCode)
	}
	// Field errors come after the messages, in sorted field order.
	want := "The value 'X' does not exist; a: worse; b: bad"
	if jiraErr.Message != want {
		t.Fatalf("message = %q, want %q", jiraErr.Message, want)
	}
}

func TestErrorDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "messages only",
			body: `{"errorMessages":["broken jql"]}`,
			want: "broken jql",
		},
		{
			name: "fields only",
			body: `{"errors":{"jql":"unbalanced quotes"}}`,
			want: "jql: unbalanced quotes",
		},
		{
			name: "plain text body",
			body: "upstream proxy timeout",
			want: "upstream proxy timeout",
		},
		{
			name: "empty body",
			body: "",
			want: "request failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorDetail([]byte(tt.body)); got != tt.want {
				t.Fatalf("errorDetail(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestFetchIssuesFallsBackToSamples(t *testing.T) {
	t.Run("disconnected", func(t *testing.T) {
		client := disconnectedClient()
		if client.IsConnected() {
			t.Fatalf("client without credentials should not be connected")
		}
		issues := client.FetchIssues(context.Background(), "", 10)
		if len(issues) != 3 || issues[0].Key != "DEMO-001" {
			t.Fatalf("unexpected sample issues: %+v", issues)
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		}))
		defer srv.Close()

		issues := connectedClient(srv.URL).FetchIssues(context.Background(), DefaultJQL, 10)
		if len(issues) != 3 || issues[0].Key != "DEMO-001" {
			t.Fatalf("unexpected fallback issues: %+v", issues)
		}
	})

	t.Run("empty jql uses the default ordering", func(t *testing.T) {
		var gotJQL string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotJQL = r.URL.Query().Get("jql")
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"issues":[]}`)
		}))
		defer srv.Close()

		connectedClient(srv.URL).FetchIssues(context.Background(), "", 10)
		if gotJQL != DefaultJQL {
			t.Fatalf("jql = %q, want %q", gotJQL, DefaultJQL)
		}
	})
}

func TestIssueDetailSampleFallback(t *testing.T) {
	client := disconnectedClient()

	issue := client.IssueDetail(context.Background(), "DEMO-002")
	if issue.Assignee != "Alice Johnson" {
		t.Fatalf("unexpected issue: %+v", issue)
	}

	// Unknown keys fall back to the first sample.
	issue = client.IssueDetail(context.Background(), "NOPE-1")
	if issue.Key != "DEMO-001" {
		t.Fatalf("unexpected fallback issue: %+v", issue)
	}
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Jira.ServerURL = "https://jira.example.com/"
	cfg.Jira.Username = "u"
	cfg.Jira.APIToken = "t"

	client := New(cfg, discardLogger())
	if client.baseURL != "https://jira.example.com" {
		t.Fatalf("baseURL = %q", client.baseURL)
	}
	if !client.IsConnected() {
		t.Fatalf("expected connected client")
	}
}

package tools

import (
	"context"
	"path/filepath"
	"testing"
)

func newSearchToolForTest(t *testing.T) *SearchTool {
	t.Helper()
	tool, err := NewSearchTool(filepath.Join(t.TempDir(), "knowledge.db"))
	if err != nil {
		t.Fatalf("open knowledge base: %v", err)
	}
	t.Cleanup(func() { tool.Close() })
	return tool
}

func TestSearchInvoke(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "term match",
			query: "tell me about python",
			want:  "ℹ️ 🐍 Python is a high-level programming language known for simplicity and readability.",
		},
		{
			name:  "first seeded term wins",
			query: "what is ai and machine learning",
			want:  "ℹ️ 🤖 Artificial Intelligence simulates human intelligence in machines.",
		},
		{
			name:  "case insensitive",
			query: "Tell me about STREAMLIT",
			want:  "ℹ️ ⚡ Streamlit is an app framework for ML and Data Science projects.",
		},
		{
			name:  "ai shadows terms that contain it",
			query: "explain langchain",
			want:  "ℹ️ 🤖 Artificial Intelligence simulates human intelligence in machines.",
		},
		{
			name:  "no match",
			query: "quantum entanglement",
			want:  "ℹ️ Limited info available. This is a demo database.",
		},
	}

	tool := newSearchToolForTest(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tool.Invoke(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("invoke: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Invoke(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestSearchReopenKeepsSeededData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.db")

	tool, err := NewSearchTool(path)
	if err != nil {
		t.Fatalf("open knowledge base: %v", err)
	}
	if err := tool.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	tool, err = NewSearchTool(path)
	if err != nil {
		t.Fatalf("reopen knowledge base: %v", err)
	}
	defer tool.Close()

	var count int
	if err := tool.db.QueryRow("SELECT COUNT(*) FROM topics").Scan(&count); err != nil {
		t.Fatalf("count topics: %v", err)
	}
	if count != len(demoTopics) {
		t.Fatalf("got %d topics after reopen, want %d", count, len(demoTopics))
	}
}

func TestSeedTopicsIsIdempotent(t *testing.T) {
	tool := newSearchToolForTest(t)

	if err := SeedTopics(tool.db); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	var count int
	if err := tool.db.QueryRow("SELECT COUNT(*) FROM topics").Scan(&count); err != nil {
		t.Fatalf("count topics: %v", err)
	}
	if count != len(demoTopics) {
		t.Fatalf("got %d topics after reseed, want %d", count, len(demoTopics))
	}
}

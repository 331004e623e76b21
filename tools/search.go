// tools/search.go
package tools

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// demoTopics seeds the knowledge base the first time it is opened.
// Lookup order follows insertion order, so broader terms go last.
var demoTopics = [][2]string{
	{"python", "🐍 Python is a high-level programming language known for simplicity and readability."},
	{"ai", "🤖 Artificial Intelligence simulates human intelligence in machines."},
	{"machine learning", "📊 ML enables computers to learn without explicit programming."},
	{"langchain", "🔗 LangChain is a framework for developing LLM-powered applications."},
	{"streamlit", "⚡ Streamlit is an app framework for ML and Data Science projects."},
	{"hugging face", "🤗 Hugging Face provides ML models and datasets."},
	{"tools", "🛠️ Tools extend LLM capabilities by providing specific functions."},
	{"chatbot", "💬 A chatbot is an AI program designed to simulate conversation."},
}

// SearchTool answers general-information queries from a small sqlite
// knowledge base.
type SearchTool struct {
	base
	db *sql.DB
}

// NewSearchTool opens (and if necessary creates and seeds) the knowledge
// base at dbPath.
func NewSearchTool(dbPath string) (*SearchTool, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}

	tool := &SearchTool{
		base: base{
			name:                 "info",
			description:          "Search for general information",
			parameterName:        "query",
			parameterDescription: "The topic to look up",
			keywords: []string{
				"what", "who", "how", "why", "tell me",
				"explain", "about", "search", "find",
			},
		},
		db: db,
	}

	if err := tool.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare knowledge base: %w", err)
	}

	return tool, nil
}

// migrate creates the topics table and seeds it when empty.
func (t *SearchTool) migrate() error {
	_, err := t.db.Exec(`
        CREATE TABLE IF NOT EXISTS topics (
            term TEXT PRIMARY KEY,
            summary TEXT
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create topics table: %w", err)
	}

	var count int
	if err := t.db.QueryRow("SELECT COUNT(*) FROM topics").Scan(&count); err != nil {
		return fmt.Errorf("failed to count topics: %w", err)
	}
	if count > 0 {
		return nil
	}

	return SeedTopics(t.db)
}

// SeedTopics inserts the demo entries. The example seeder shares this so
// the standalone database matches what the tool would create.
func SeedTopics(db *sql.DB) error {
	for _, entry := range demoTopics {
		if _, err := db.Exec(
			"INSERT OR REPLACE INTO topics (term, summary) VALUES (?, ?)",
			entry[0], entry[1],
		); err != nil {
			return fmt.Errorf("failed to seed topic %s: %w", entry[0], err)
		}
	}
	return nil
}

// Invoke scans the topics in insertion order and returns the first whose
// term appears in the query.
func (t *SearchTool) Invoke(ctx context.Context, arg string) (string, error) {
	query := strings.ToLower(strings.TrimSpace(arg))

	rows, err := t.db.QueryContext(ctx, "SELECT term, summary FROM topics ORDER BY rowid")
	if err != nil {
		return "", fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var term, summary string
		if err := rows.Scan(&term, &summary); err != nil {
			return "", fmt.Errorf("failed to scan topic: %w", err)
		}
		if strings.Contains(query, strings.ToLower(term)) {
			return fmt.Sprintf("ℹ️ %s", summary), nil
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to read topics: %w", err)
	}

	return "ℹ️ Limited info available. This is a demo database.", nil
}

// Close releases the knowledge base connection.
func (t *SearchTool) Close() error {
	return t.db.Close()
}

package agent

import (
	"strings"
	"testing"

	"github.com/mbeutel/llamachat/types"
)

func TestSystemPromptListsTools(t *testing.T) {
	prompt := SystemPrompt(testRegistry(t))

	for _, want := range []string{
		"TOOL_CALL: tool_name(parameter_value)",
		"- hello_tool: A simple greeting tool that says hello to someone",
		"- calculator: Perform mathematical calculations",
		"- weather: Get current weather for a city",
		"- time: Get the current date and time",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}

	// Tools are listed in registration order.
	if strings.Index(prompt, "- hello_tool") > strings.Index(prompt, "- calculator") {
		t.Fatalf("tool listing out of registration order:\n%s", prompt)
	}
}

func TestBuildMessages(t *testing.T) {
	history := []types.Message{
		{Role: types.RoleUser, Content: "hi"},
		{Role: types.RoleAssistant, Content: "hello"},
	}

	msgs := BuildMessages("sys", "", history)
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].Role != types.RoleSystem || msgs[0].Content != "sys" {
		t.Fatalf("unexpected system message: %+v", msgs[0])
	}

	msgs = BuildMessages("sys", "extra context", history)
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}
	if msgs[1].Role != types.RoleSystem || msgs[1].Content != "extra context" {
		t.Fatalf("unexpected context message: %+v", msgs[1])
	}
	if msgs[2].Content != "hi" || msgs[3].Content != "hello" {
		t.Fatalf("history out of order: %+v", msgs[2:])
	}
}

func TestFormatToolContext(t *testing.T) {
	if got := formatToolContext(nil); got != "" {
		t.Fatalf("empty results should yield no context, got %q", got)
	}

	got := formatToolContext([]string{
		"**Weather Tool**: Weather in Tokyo: sunny",
		"**Time Tool**: 🕐 now",
	})
	want := "Tool results for the user's query:\n\n" +
		"**Weather Tool**: Weather in Tokyo: sunny\n" +
		"**Time Tool**: 🕐 now\n\n" +
		"Use these tool results to provide a comprehensive and helpful response to the user."
	if got != want {
		t.Fatalf("context = %q, want %q", got, want)
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"weather", "Weather"},
		{"joke_tool", "Joke_tool"},
		{"T", "T"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := capitalize(tt.in); got != tt.want {
			t.Fatalf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

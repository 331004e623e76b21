// agent/prompt.go
package agent

import (
	"fmt"
	"strings"

	"github.com/mbeutel/llamachat/tools"
	"github.com/mbeutel/llamachat/types"
)

// systemPromptTemplate teaches the model the TOOL_CALL protocol. The
// registry's tool descriptions fill the %s.
const systemPromptTemplate = `You are a helpful assistant with access to the following tools:

%s

If the user's request can be handled by one of these tools, respond with:
TOOL_CALL: tool_name(parameter_value)

For example:
- If user says "Say hello to Alice", respond with: TOOL_CALL: hello_tool(Alice)
- If user says "Hello there", you can respond directly or use: TOOL_CALL: hello_tool(World)

Otherwise, respond naturally to the user's question.`

// toolContextTemplate wraps keyword-routed tool output injected ahead of
// the conversation.
const toolContextTemplate = `Tool results for the user's query:

%s

Use these tool results to provide a comprehensive and helpful response to the user.`

// SystemPrompt renders the tool-calling instructions for a registry.
func SystemPrompt(reg *tools.Registry) string {
	return fmt.Sprintf(systemPromptTemplate, reg.Descriptions())
}

// BuildMessages prepends the system prompt (and optional extra system
// context) to the conversation history.
func BuildMessages(system string, context string, history []types.Message) []types.Message {
	messages := make([]types.Message, 0, len(history)+2)
	messages = append(messages, types.Message{Role: types.RoleSystem, Content: system})
	if context != "" {
		messages = append(messages, types.Message{Role: types.RoleSystem, Content: context})
	}
	return append(messages, history...)
}

// formatToolContext renders pre-executed tool results as system context.
func formatToolContext(results []string) string {
	if len(results) == 0 {
		return ""
	}
	return fmt.Sprintf(toolContextTemplate, strings.Join(results, "\n"))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

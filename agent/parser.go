// agent/parser.go
package agent

import (
	"regexp"
	"strings"
)

// toolCallPattern matches the sentinel the system prompt asks the model
// to emit. The lazy argument group stops at the first closing paren.
var toolCallPattern = regexp.MustCompile(`TOOL_CALL:\s*(\w+)\((.*?)\)`)

// ToolInvocation is one parsed tool request.
type ToolInvocation struct {
	Name     string
	Argument string
}

// ParseToolCall finds the first TOOL_CALL sentinel in a model response.
// The boolean is false when the response is a plain answer. The argument
// is trimmed of whitespace and surrounding quotes.
func ParseToolCall(response string) (ToolInvocation, bool) {
	m := toolCallPattern.FindStringSubmatch(response)
	if m == nil {
		return ToolInvocation{}, false
	}
	arg := strings.TrimSpace(m[2])
	arg = strings.Trim(arg, `'"`)
	return ToolInvocation{Name: m[1], Argument: arg}, true
}

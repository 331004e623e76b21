// tools/tool.go
package tools

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tool is the closed capability interface every chat tool implements.
// Dispatch works only through this interface; there is no attribute
// probing on tool values anywhere.
type Tool interface {
	// Name is the unique registry key, also used in TOOL_CALL sentinels.
	Name() string
	// Description is shown to the model in the system prompt.
	Description() string
	// ParameterName names the tool's single text parameter, "" when the
	// tool takes none (or parses structured arguments itself).
	ParameterName() string
	// DefaultArgument is substituted by the dispatcher when the parsed
	// argument is empty or equals it case-insensitively. "" means none.
	DefaultArgument() string
	// Keywords trigger keyword routing; nil means the tool is only
	// reachable through model-driven dispatch.
	Keywords() []string
	// ArgumentFromInput extracts the tool argument from free user text
	// for the keyword-routing path.
	ArgumentFromInput(input string) string
	// Spec describes the tool for native tool calling and MCP exposure.
	Spec() mcp.Tool
	// Invoke executes the tool. Implementations return human-readable
	// text; errors are contained by the dispatcher.
	Invoke(ctx context.Context, arg string) (string, error)
	// Close releases any resources the tool holds.
	Close() error
}

// base carries the descriptor boilerplate shared by the builtin tools.
type base struct {
	name                 string
	description          string
	parameterName        string
	parameterDescription string
	defaultArgument      string
	keywords             []string
}

func (b base) Name() string            { return b.name }
func (b base) Description() string     { return b.description }
func (b base) ParameterName() string   { return b.parameterName }
func (b base) DefaultArgument() string { return b.defaultArgument }
func (b base) Keywords() []string      { return b.keywords }

// ArgumentFromInput passes the raw user input through; tools with a
// narrower argument shape override this.
func (b base) ArgumentFromInput(input string) string { return input }

// Spec derives a single-string-parameter schema from the descriptor.
func (b base) Spec() mcp.Tool {
	schema := mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
	if b.parameterName != "" {
		schema.Properties[b.parameterName] = map[string]interface{}{
			"type":        "string",
			"description": b.parameterDescription,
		}
		if b.defaultArgument == "" {
			schema.Required = []string{b.parameterName}
		}
	}
	return mcp.Tool{
		Name:        b.name,
		Description: b.description,
		InputSchema: schema,
	}
}

func (b base) Close() error { return nil }

// CoerceArgument maps a JSON-encoded argument payload (native tool calls,
// MCP requests) onto the single-string Invoke contract. Plain text passes
// through; objects resolve to the named parameter where possible; objects
// the tool parses itself (no single parameter) pass through as JSON.
func CoerceArgument(t Tool, raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return trimmed
	}

	switch v := decoded.(type) {
	case map[string]interface{}:
		if len(v) == 0 {
			return ""
		}
		param := t.ParameterName()
		if param == "" {
			return trimmed
		}
		if val, ok := v[param]; ok {
			return stringifyArgument(val)
		}
		if len(v) == 1 {
			for _, val := range v {
				return stringifyArgument(val)
			}
		}
		return trimmed
	case string:
		return v
	case nil:
		return ""
	default:
		return stringifyArgument(v)
	}
}

func stringifyArgument(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

package llm

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mbeutel/llamachat/types"
)

// Validator checks native tool calls returned by the model against the
// registered tool specs before they are dispatched.
type Validator struct {
	tools map[string]mcp.Tool
}

// NewValidator creates a new validator with the given tools
func NewValidator(tools []mcp.Tool) *Validator {
	toolMap := make(map[string]mcp.Tool)
	for _, tool := range tools {
		toolMap[tool.Name] = tool
	}
	return &Validator{tools: toolMap}
}

// ValidateToolCall validates a single tool call
func (v *Validator) ValidateToolCall(call types.ToolCall) error {
	tool, ok := v.tools[call.Function.Name]
	if !ok {
		return fmt.Errorf("unknown tool: %s", call.Function.Name)
	}

	args, err := decodeArguments(call.Function.Arguments)
	if err != nil {
		return fmt.Errorf("invalid arguments for tool %s: %w", call.Function.Name, err)
	}

	if err := v.validateArguments(args, tool.InputSchema); err != nil {
		return fmt.Errorf("invalid arguments for tool %s: %w", call.Function.Name, err)
	}

	return nil
}

// decodeArguments parses the JSON-encoded argument string of a tool call.
// An empty string counts as no arguments.
func decodeArguments(raw string) (map[string]interface{}, error) {
	if raw == "" {
		return map[string]interface{}{}, nil
	}

	var args map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	return args, nil
}

// validateArguments validates tool arguments against a schema
func (v *Validator) validateArguments(args map[string]interface{}, schema mcp.ToolInputSchema) error {
	for _, required := range schema.Required {
		if _, ok := args[required]; !ok {
			return fmt.Errorf("missing required field: %s", required)
		}
	}

	for name, value := range args {
		propSchema, ok := schema.Properties[name]
		if !ok {
			return fmt.Errorf("unknown property: %s", name)
		}

		propMap, ok := propSchema.(map[string]interface{})
		if !ok {
			continue
		}
		propType, ok := propMap["type"].(string)
		if !ok {
			return fmt.Errorf("invalid property schema for %s", name)
		}

		if err := validateType(value, propType); err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
	}

	return nil
}

// validateType validates a value against a JSON Schema type
func validateType(value interface{}, expectedType string) error {
	switch expectedType {
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
	case "number", "integer":
		switch value.(type) {
		case float64, float32, int, int64, int32:
			// Valid numeric types
		default:
			return fmt.Errorf("expected number, got %T", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case "object":
		if _, ok := value.(map[string]interface{}); !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
	case "array":
		if _, ok := value.([]interface{}); !ok {
			return fmt.Errorf("expected array, got %T", value)
		}
	default:
		return fmt.Errorf("unsupported type: %s", expectedType)
	}

	return nil
}

// tools/hello.go
package tools

import (
	"context"
	"fmt"
)

// HelloTool greets a person by name.
type HelloTool struct {
	base
}

// NewHelloTool creates the greeting tool
func NewHelloTool() *HelloTool {
	return &HelloTool{base: base{
		name:                 "hello_tool",
		description:          "A simple greeting tool that says hello to someone",
		parameterName:        "name",
		parameterDescription: "The name of the person to greet",
		defaultArgument:      "World",
	}}
}

// Invoke returns the greeting
func (t *HelloTool) Invoke(ctx context.Context, arg string) (string, error) {
	name := arg
	if name == "" {
		name = t.defaultArgument
	}
	return fmt.Sprintf("Hello, %s! Nice to meet you!", name), nil
}

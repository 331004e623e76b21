// agent/dispatch.go
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/mbeutel/llamachat/tools"
)

// Dispatch resolves and runs one tool invocation. Failures never escape
// as errors: unknown tools and execution failures come back as chat text
// so a bad call cannot take the session down.
func (a *Agent) Dispatch(ctx context.Context, call ToolInvocation) string {
	tool, err := a.registry.Resolve(call.Name)
	if err != nil {
		a.logger.Printf("Unknown tool requested: %s", call.Name)
		return fmt.Sprintf("Unknown tool: %s", call.Name)
	}

	arg := call.Argument
	if def := tool.DefaultArgument(); def != "" {
		if arg == "" || strings.EqualFold(arg, def) {
			arg = def
		}
	}

	output, err := a.invoke(ctx, tool, arg)
	if err != nil {
		a.logger.Printf("Tool %s failed: %v", call.Name, err)
		return fmt.Sprintf("Sorry, I had trouble using the %s tool.", call.Name)
	}
	return output
}

// invoke runs the tool with panic containment, so a crashing tool is
// indistinguishable from one that returned an error.
func (a *Agent) invoke(ctx context.Context, tool tools.Tool, arg string) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool panicked: %v", r)
		}
	}()
	return tool.Invoke(ctx, arg)
}

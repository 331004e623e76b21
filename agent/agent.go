// Package agent implements the conversational core: prompt assembly,
// the TOOL_CALL sentinel protocol, native tool calls, keyword routing,
// and tool failure containment.
package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mbeutel/llamachat/config"
	"github.com/mbeutel/llamachat/conversation"
	"github.com/mbeutel/llamachat/llm"
	"github.com/mbeutel/llamachat/tools"
	"github.com/mbeutel/llamachat/types"
)

// Agent ties the LLM client, tool registry, and conversation store into
// one chat loop. The store is owned by the caller; the agent appends to
// it but never replaces it.
type Agent struct {
	cfg       *config.Config
	llmClient *llm.Client
	registry  *tools.Registry
	store     *conversation.Store
	validator *llm.Validator
	system    string
	logger    *log.Logger
}

// New wires an agent from its collaborators.
func New(cfg *config.Config, reg *tools.Registry, store *conversation.Store, logger *log.Logger) *Agent {
	client := llm.New(cfg, logger)

	specs := reg.Specs()
	if cfg.Agent.NativeTools {
		client.SetTools(specs)
	}

	system := cfg.LLM.SystemPrompt
	if system == "" {
		system = SystemPrompt(reg)
	}

	return &Agent{
		cfg:       cfg,
		llmClient: client,
		registry:  reg,
		store:     store,
		validator: llm.NewValidator(specs),
		system:    system,
		logger:    logger,
	}
}

// Store exposes the conversation history, e.g. for transcript saving.
func (a *Agent) Store() *conversation.Store {
	return a.store
}

// Registry exposes the tool registry, e.g. for MCP exposure.
func (a *Agent) Registry() *tools.Registry {
	return a.registry
}

// TestConnection probes the LLM endpoint with a one-word prompt.
func (a *Agent) TestConnection(ctx context.Context) error {
	return a.llmClient.TestConnection(ctx)
}

// ProcessMessage runs one conversational turn and returns the assistant
// answer. The user message is committed to the store before the model is
// consulted, so a failed turn never loses input.
func (a *Agent) ProcessMessage(ctx context.Context, input string) (string, error) {
	a.store.Append(types.RoleUser, input)

	var contextMsg string
	if a.cfg.Agent.KeywordRouting {
		contextMsg = a.keywordContext(ctx, input)
	}
	messages := BuildMessages(a.system, contextMsg, a.store.Messages())

	resp, err := a.llmClient.Complete(ctx, messages)
	if err != nil {
		return "", err
	}

	answer, err := a.resolveResponse(ctx, resp)
	if err != nil {
		return "", err
	}

	a.store.Append(types.RoleAssistant, answer)
	return answer, nil
}

// resolveResponse turns a raw model response into the final answer,
// executing at most one tool along the way.
func (a *Agent) resolveResponse(ctx context.Context, resp *types.LLMResponse) (string, error) {
	if len(resp.ToolCalls) > 0 {
		return a.completeNativeCall(ctx, resp)
	}

	call, ok := ParseToolCall(resp.Content)
	if !ok {
		return strings.TrimSpace(resp.Content), nil
	}

	a.logger.Printf("Tool call detected: %s(%s)", call.Name, call.Argument)
	output := a.Dispatch(ctx, call)
	if !a.cfg.Agent.RoundTripToolResult {
		return output, nil
	}
	return a.roundTrip(ctx, resp.Content, output), nil
}

// completeNativeCall executes the first structured tool call, records
// the exchange in the history, and asks the model to phrase the final
// answer from the result.
func (a *Agent) completeNativeCall(ctx context.Context, resp *types.LLMResponse) (string, error) {
	call := resp.ToolCalls[0]
	if len(resp.ToolCalls) > 1 {
		a.logger.Printf("Model returned %d tool calls; executing only %s",
			len(resp.ToolCalls), call.Function.Name)
	}

	output := a.runNativeCall(ctx, call)

	a.store.AppendMessage(types.Message{
		Role:      types.RoleAssistant,
		Content:   resp.Content,
		ToolCalls: []types.ToolCall{call},
	})
	a.store.AppendMessage(types.Message{
		Role:       types.RoleTool,
		Content:    output,
		ToolCallID: call.ID,
	})

	messages := BuildMessages(a.system, "", a.store.Messages())
	followup, err := a.llmClient.Complete(ctx, messages)
	if err != nil {
		a.logger.Printf("Follow-up completion failed, returning tool output: %v", err)
		return output, nil
	}
	if content := strings.TrimSpace(followup.Content); content != "" {
		return content, nil
	}
	return output, nil
}

// runNativeCall validates and executes one structured call, mapping its
// JSON arguments onto the tool's text parameter.
func (a *Agent) runNativeCall(ctx context.Context, call types.ToolCall) string {
	name := call.Function.Name
	tool, err := a.registry.Resolve(name)
	if err != nil {
		a.logger.Printf("Unknown tool requested: %s", name)
		return fmt.Sprintf("Unknown tool: %s", name)
	}

	if err := a.validator.ValidateToolCall(call); err != nil {
		a.logger.Printf("Tool call rejected: %v", err)
		return fmt.Sprintf("Sorry, I had trouble using the %s tool.", name)
	}

	arg := tools.CoerceArgument(tool, call.Function.Arguments)
	return a.Dispatch(ctx, ToolInvocation{Name: name, Argument: arg})
}

// roundTrip feeds the tool output back so the model can phrase the final
// answer. Failures fall back to the raw tool output; the work is already
// done at this point.
func (a *Agent) roundTrip(ctx context.Context, rawResponse, output string) string {
	history := a.store.Messages()
	messages := make([]types.Message, 0, len(history)+3)
	messages = append(messages, types.Message{Role: types.RoleSystem, Content: a.system})
	messages = append(messages, history...)
	messages = append(messages,
		types.Message{Role: types.RoleAssistant, Content: rawResponse},
		types.Message{Role: types.RoleUser, Content: "Tool result: " + output},
	)

	followup, err := a.llmClient.Complete(ctx, messages)
	if err != nil {
		a.logger.Printf("Round trip failed, returning tool output: %v", err)
		return output
	}
	if content := strings.TrimSpace(followup.Content); content != "" {
		return content
	}
	return output
}

// keywordContext runs keyword-detected tools up front and renders their
// output as extra system context. Detection failures only lose context,
// never the turn.
func (a *Agent) keywordContext(ctx context.Context, input string) string {
	detected := a.registry.Detect(input)
	if len(detected) == 0 {
		return ""
	}

	results := make([]string, 0, len(detected))
	for _, name := range detected {
		tool, err := a.registry.Resolve(name)
		if err != nil {
			continue
		}
		call := ToolInvocation{Name: name, Argument: tool.ArgumentFromInput(input)}
		results = append(results, fmt.Sprintf("**%s Tool**: %s", capitalize(name), a.Dispatch(ctx, call)))
	}
	return formatToolContext(results)
}

// Close releases tool resources.
func (a *Agent) Close() error {
	return a.registry.Close()
}

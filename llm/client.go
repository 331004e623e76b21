package llm

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mbeutel/llamachat/config"
	"github.com/mbeutel/llamachat/types"
)

// Client manages communication with the LlamaShared chat-completion API
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	tools       []mcp.Tool
	logger      *log.Logger
	debug       bool
}

// Request represents a request to the chat-completion API
type Request struct {
	Messages    []types.Message `json:"messages"`
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Tools       []interface{}   `json:"tools,omitempty"`
	ToolChoice  string          `json:"tool_choice,omitempty"`
}

// Response represents a response from the chat-completion API
type Response struct {
	Choices []Choice `json:"choices"`
}

// Choice is a single completion choice. Message is a pointer so a choice
// without a message key can be told apart from an empty one.
type Choice struct {
	Message *ChoiceMessage `json:"message"`
}

// ChoiceMessage is the assistant message inside a choice
type ChoiceMessage struct {
	Role      string           `json:"role"`
	Content   string           `json:"content"`
	ToolCalls []types.ToolCall `json:"tool_calls,omitempty"`
}

// New creates a client from the LLM section of the configuration
func New(cfg *config.Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	}
	if !cfg.LLM.SSLVerify {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		endpoint:    cfg.LLM.Endpoint,
		apiKey:      cfg.LLM.APIKey,
		model:       cfg.LLM.Model,
		maxTokens:   cfg.LLM.MaxTokens,
		temperature: cfg.LLM.Temperature,
		httpClient:  httpClient,
		logger:      logger,
		debug:       cfg.Debug(),
	}
}

// SetTools configures the tool specs attached to each request
func (c *Client) SetTools(tools []mcp.Tool) {
	c.tools = tools
}

// Complete sends the messages to the model and returns its response.
// One request per call: the backend contract has no retry semantics.
func (c *Client) Complete(ctx context.Context, messages []types.Message) (*types.LLMResponse, error) {
	req := c.buildPayload(messages)

	body, err := c.doRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	return parseResponse(body)
}

// TestConnection sends a minimal probe message to verify the endpoint and
// credentials are usable.
func (c *Client) TestConnection(ctx context.Context) error {
	_, err := c.Complete(ctx, []types.Message{
		{Role: types.RoleUser, Content: "Hello"},
	})
	return err
}

func (c *Client) buildPayload(messages []types.Message) Request {
	req := Request{
		Messages:    messages,
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	if len(c.tools) > 0 {
		req.Tools = convertTools(c.tools)
		req.ToolChoice = "auto"
	}

	return req
}

func (c *Client) doRequest(ctx context.Context, req Request) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	if c.debug {
		c.logger.Printf("Sending request to %s: %s", c.endpoint, string(data))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, &types.TransportError{Operation: "complete", Message: "failed to create request", Err: err}
	}

	httpReq.Header.Set("accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	// The gateway matches this header name case-sensitively; assigning the
	// map entry directly bypasses Go's header canonicalization (which would
	// send "Keyid").
	httpReq.Header["KeyId"] = []string{c.apiKey}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &types.TransportError{Operation: "complete", Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.TransportError{Operation: "complete", Message: "failed to read response body", Err: err}
	}

	if c.debug {
		c.logger.Printf("Response status %d: %s", resp.StatusCode, snippet(body))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp.StatusCode, body)
	}

	return body, nil
}

// readAPIError converts a non-200 response into the matching typed error
func readAPIError(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &types.AuthError{StatusCode: status, Message: snippet(body)}
	default:
		return &types.TransportError{
			Operation:  "complete",
			StatusCode: status,
			Message:    snippet(body),
		}
	}
}

func parseResponse(body []byte) (*types.LLMResponse, error) {
	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &types.MalformedResponseError{Message: "invalid JSON: " + err.Error(), Body: snippet(body)}
	}

	if len(parsed.Choices) == 0 {
		return nil, &types.MalformedResponseError{Message: "no choices in response", Body: snippet(body)}
	}

	msg := parsed.Choices[0].Message
	if msg == nil {
		return nil, &types.MalformedResponseError{Message: "no message in choice", Body: snippet(body)}
	}

	return &types.LLMResponse{
		Content:   msg.Content,
		ToolCalls: msg.ToolCalls,
	}, nil
}

// convertTools converts tool specs to the OpenAI function format
func convertTools(tools []mcp.Tool) []interface{} {
	var converted []interface{}

	for _, tool := range tools {
		converted = append(converted, map[string]interface{}{
			"type": "function",
			"function": map[string]interface{}{
				"name":        sanitizeToolName(tool.Name),
				"description": tool.Description,
				"parameters": map[string]interface{}{
					"type":       "object",
					"properties": tool.InputSchema.Properties,
					"required":   tool.InputSchema.Required,
				},
			},
		})
	}

	return converted
}

// sanitizeToolName converts a tool name to a format the backend accepts
func sanitizeToolName(name string) string {
	sanitized := ""
	for _, r := range name {
		if r == '-' || r == ' ' {
			sanitized += "_"
		} else {
			sanitized += string(r)
		}
	}
	return sanitized
}

const maxErrorBody = 512

func snippet(body []byte) string {
	s := string(body)
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}

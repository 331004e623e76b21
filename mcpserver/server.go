// Package mcpserver exposes the chat tools over the Model Context
// Protocol on stdio, so MCP-speaking hosts can call them directly.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mbeutel/llamachat/tools"
)

const serverVersion = "1.0.0"

type MCPServer struct {
	server   *server.MCPServer
	registry *tools.Registry
	logger   *log.Logger
}

// NewMCPServer exposes every registered tool over MCP. The server takes
// ownership of the registry and closes it with Close.
func NewMCPServer(registry *tools.Registry, logger *log.Logger) *MCPServer {
	s := &MCPServer{
		server: server.NewMCPServer(
			"llamachat",
			serverVersion,
			server.WithToolCapabilities(true),
			server.WithLogging(),
		),
		registry: registry,
		logger:   logger,
	}

	for _, tool := range registry.List() {
		s.server.AddTool(tool.Spec(), s.handlerFor(tool))
		logger.Printf("MCP tool registered: %s", tool.Name())
	}

	s.server.AddNotificationHandler(s.handleNotification)
	return s
}

// handlerFor adapts one tool to the MCP call signature, mapping the
// request's argument object onto the tool's text parameter.
func (s *MCPServer) handlerFor(tool tools.Tool) func(map[string]interface{}) (*mcp.CallToolResult, error) {
	return func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		raw, err := json.Marshal(arguments)
		if err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		arg := tools.CoerceArgument(tool, string(raw))

		s.logger.Printf("Executing tool %s(%s)", tool.Name(), arg)
		output, err := tool.Invoke(context.Background(), arg)
		if err != nil {
			s.logger.Printf("Tool %s failed: %v", tool.Name(), err)
			return nil, fmt.Errorf("tool %s failed: %w", tool.Name(), err)
		}

		return &mcp.CallToolResult{
			Content: []interface{}{
				mcp.TextContent{
					Type: "text",
					Text: output,
				},
			},
		}, nil
	}
}

func (s *MCPServer) handleNotification(notification mcp.JSONRPCNotification) {
	s.logger.Printf("Received notification: %s", notification.Method)
}

func (s *MCPServer) Serve() error {
	s.logger.Println("Starting MCP server...")
	if err := server.ServeStdio(s.server); err != nil {
		s.logger.Printf("Server error: %v", err)
		return fmt.Errorf("server error: %w", err)
	}
	s.logger.Println("MCP server stopped")
	return nil
}

func (s *MCPServer) Close() error {
	s.logger.Println("Closing MCP server...")
	if err := s.registry.Close(); err != nil {
		s.logger.Printf("Failed to close tools: %v", err)
		return fmt.Errorf("failed to close tools: %w", err)
	}
	s.logger.Println("MCP server closed")
	return nil
}

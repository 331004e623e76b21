// types/errors.go
package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a configuration error
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAuth indicates the API rejected the KeyId credential
	ErrAuth = errors.New("authentication failed")

	// ErrTransport indicates a network or HTTP-level failure
	ErrTransport = errors.New("transport failure")

	// ErrMalformedResponse indicates an unexpected response shape
	ErrMalformedResponse = errors.New("malformed response")

	// ErrToolExecution indicates a tool execution failure
	ErrToolExecution = errors.New("tool execution failed")

	// ErrJiraQuery indicates a Jira query error
	ErrJiraQuery = errors.New("jira query failed")
)

// ConfigError wraps configuration-related errors
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error in %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %s", e.Field, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// AuthError wraps credential rejections from the LLM endpoint
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication error (status %d): %s", e.StatusCode, e.Message)
}

func (e *AuthError) Unwrap() error {
	return ErrAuth
}

// TransportError wraps network and non-auth HTTP failures
type TransportError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error during %s: %s: %v", e.Operation, e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error during %s (status %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("transport error during %s: %s", e.Operation, e.Message)
}

func (e *TransportError) Unwrap() error {
	return ErrTransport
}

// MalformedResponseError wraps unexpected response shapes
type MalformedResponseError struct {
	Message string
	Body    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return ErrMalformedResponse
}

// ToolError wraps tool-related errors
type ToolError struct {
	Tool    string
	Message string
	Err     error
}

func (e *ToolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tool error in %s: %s: %v", e.Tool, e.Message, e.Err)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

func (e *ToolError) Unwrap() error {
	return ErrToolExecution
}

// JiraError wraps Jira REST failures
type JiraError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *JiraError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("jira error during %s: %s: %v", e.Operation, e.Message, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("jira error during %s (status %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("jira error during %s: %s", e.Operation, e.Message)
}

func (e *JiraError) Unwrap() error {
	return ErrJiraQuery
}

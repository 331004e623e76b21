// tools/registry.go
package tools

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
)

// Registry is the closed set of tools available to the agent. Tools are
// listed in registration order, which also drives system-prompt order.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool. Registering a second tool under an existing name
// is an error: silent overwrites would make dispatch order-dependent.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("cannot register nil tool")
	}
	name := t.Name()
	if name == "" {
		return fmt.Errorf("cannot register tool with empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Resolve looks a tool up by name. Lookups have no side effects.
func (r *Registry) Resolve(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool %s not found", name)
	}
	return t, nil
}

// List returns the tools in registration order
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Specs returns the tool specs in registration order
func (r *Registry) Specs() []mcp.Tool {
	list := r.List()
	specs := make([]mcp.Tool, 0, len(list))
	for _, t := range list {
		specs = append(specs, t.Spec())
	}
	return specs
}

// Descriptions renders the "- name: description" lines for the system prompt
func (r *Registry) Descriptions() string {
	list := r.List()
	lines := make([]string, 0, len(list))
	for _, t := range list {
		lines = append(lines, fmt.Sprintf("- %s: %s", t.Name(), t.Description()))
	}
	return strings.Join(lines, "\n")
}

// Detect returns the names of tools whose keywords appear in the input,
// in registration order.
func (r *Registry) Detect(input string) []string {
	inputLower := strings.ToLower(input)

	var detected []string
	for _, t := range r.List() {
		for _, keyword := range t.Keywords() {
			if strings.Contains(inputLower, strings.ToLower(keyword)) {
				detected = append(detected, t.Name())
				break
			}
		}
	}
	return detected
}

// Close releases all tool resources
func (r *Registry) Close() error {
	var errs []error
	for _, t := range r.List() {
		if err := t.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple close errors: %v", errs)
	}
	return nil
}

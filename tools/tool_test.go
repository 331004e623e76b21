package tools

import (
	"testing"
)

func TestCoerceArgument(t *testing.T) {
	hello := NewHelloTool()

	tests := []struct {
		name string
		tool Tool
		raw  string
		want string
	}{
		{name: "plain text passes through", tool: hello, raw: "Alice", want: "Alice"},
		{name: "whitespace trimmed", tool: hello, raw: "  Alice \n", want: "Alice"},
		{name: "empty", tool: hello, raw: "", want: ""},
		{name: "json string", tool: hello, raw: `"Alice"`, want: "Alice"},
		{name: "json null", tool: hello, raw: "null", want: ""},
		{name: "named parameter", tool: hello, raw: `{"name":"Ada"}`, want: "Ada"},
		{name: "empty object", tool: hello, raw: "{}", want: ""},
		{name: "single other key", tool: hello, raw: `{"person":"Ada"}`, want: "Ada"},
		{name: "numeric value", tool: hello, raw: `{"name": 42}`, want: "42"},
		{name: "boolean value", tool: hello, raw: `{"name": true}`, want: "true"},
		{name: "invalid json passes through", tool: hello, raw: "{oops", want: "{oops"},
		{
			name: "multiple keys without the named parameter stay json",
			tool: hello,
			raw:  `{"a":"1","b":"2"}`,
			want: `{"a":"1","b":"2"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CoerceArgument(tt.tool, tt.raw); got != tt.want {
				t.Fatalf("CoerceArgument(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestCoerceArgumentObjectToolKeepsJSON(t *testing.T) {
	// The filter tool has no single parameter; it parses the object
	// itself.
	filter := NewJiraFilterTool(nil, 0)

	raw := `{"status":"Done","limit":5}`
	if got := CoerceArgument(filter, raw); got != raw {
		t.Fatalf("CoerceArgument(%q) = %q, want the raw JSON", raw, got)
	}
	if got := CoerceArgument(filter, "{}"); got != "" {
		t.Fatalf("CoerceArgument({}) = %q, want empty", got)
	}
}

func TestBaseSpec(t *testing.T) {
	hello := NewHelloTool()
	spec := hello.Spec()
	if spec.Name != "hello_tool" {
		t.Fatalf("spec name = %q", spec.Name)
	}
	if _, ok := spec.InputSchema.Properties["name"]; !ok {
		t.Fatalf("spec missing name property: %+v", spec.InputSchema)
	}
	// A parameter with a default is optional.
	if len(spec.InputSchema.Required) != 0 {
		t.Fatalf("hello_tool should have no required fields, got %v", spec.InputSchema.Required)
	}

	calc := NewCalculatorTool()
	spec = calc.Spec()
	if len(spec.InputSchema.Required) != 1 || spec.InputSchema.Required[0] != "expression" {
		t.Fatalf("calculator required = %v, want [expression]", spec.InputSchema.Required)
	}

	clock := NewClockTool()
	spec = clock.Spec()
	if len(spec.InputSchema.Properties) != 0 {
		t.Fatalf("time tool should take no parameters, got %+v", spec.InputSchema.Properties)
	}
}

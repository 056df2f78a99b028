// Package toolcall defines the contract between the planner and its tools.
//
// Every tool declares a name, a description and a JSON schema for its
// arguments, and returns a single self-contained JSON payload. Repository
// browser tools never return an error: failures are shaped into error
// envelopes so the planner can reason over them. Research tools may return a
// hard error, which aborts the run.
package toolcall

import (
	"context"
	"encoding/json"
	"fmt"
)

// Handler executes a tool call. The returned string is the serialized result
// payload handed back to the model verbatim.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool couples a tool declaration with its handler. Args is a prototype of
// the tool's argument struct; its reflected JSON schema is what the model
// sees.
type Tool struct {
	Name        string
	Description string
	Args        any
	Handler     Handler
}

// Registry holds tools in registration order.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry constructs a Registry containing the given tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds a tool, replacing any previous tool of the same name.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Tools returns all registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Execute dispatches a tool call by name. A call to an unknown tool yields an
// error envelope rather than a fault so the model can correct itself.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	tool, ok := r.tools[name]
	if !ok {
		return ErrorEnvelope(fmt.Sprintf("unknown tool %q", name), map[string]any{"tool": name}), nil
	}
	return tool.Handler(ctx, args)
}

// Encode serializes a success payload. A marshal failure is folded into an
// error envelope instead of crossing the tool boundary as a fault.
func Encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ErrorEnvelope(fmt.Sprintf("encode tool result: %v", err), nil)
	}
	return string(b)
}

// ErrorEnvelope serializes an error payload with the given contextual fields.
// The context should carry the identifying parameters of the failed call so
// the caller can retry with corrected arguments or abandon that line of
// inquiry.
func ErrorEnvelope(message string, context map[string]any) string {
	payload := make(map[string]any, len(context)+1)
	for k, v := range context {
		payload[k] = v
	}
	payload["error"] = message
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, message)
	}
	return string(b)
}

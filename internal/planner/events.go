package planner

import "time"

// EventKind tags a streamed planner event.
type EventKind string

const (
	// KindReasoningStep carries a reasoning summary emitted by the model.
	KindReasoningStep EventKind = "reasoning_step"
	// KindToolCallStarted marks the start of a tool invocation.
	KindToolCallStarted EventKind = "tool_call_started"
	// KindToolCallFinished marks the completion of a tool invocation.
	KindToolCallFinished EventKind = "tool_call_finished"
	// KindMessage carries an incremental chunk of plan text.
	KindMessage EventKind = "message"
)

// Event is the fixed tagged-variant schema for streamed planner progress.
// Consumers switch on Kind; fields not relevant to a kind stay zero. The
// schema is deliberately closed so display layers never have to probe
// attributes speculatively.
type Event struct {
	Kind EventKind
	// Text is the message or reasoning delta.
	Text string
	// ToolName identifies the tool for the tool call kinds.
	ToolName string
	// ToolCallID is the provider-assigned call identifier.
	ToolCallID string
	// ToolArgs holds the decoded call arguments for display.
	ToolArgs map[string]any
	// Duration is how long the tool call took (KindToolCallFinished only).
	Duration time.Duration
}

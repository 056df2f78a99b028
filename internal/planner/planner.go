// Package planner drives the language-model planning loop over the tool registry.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"

	"github.com/issue-planner/planctl/internal/toolcall"
)

// DefaultMaxRounds bounds the number of model rounds before the run is
// declared non-converging.
const DefaultMaxRounds = 32

// Request identifies the issue a plan is generated for.
type Request struct {
	// Repo is the owner/name slug of the repository.
	Repo string
	// IssueNumber is the issue to plan for.
	IssueNumber int
}

// Planner runs the streamed tool-calling conversation that produces an
// execution plan. It issues at most one tool call at a time and blocks for
// each call's full round trip.
type Planner struct {
	client    openai.Client
	model     string
	registry  *toolcall.Registry
	logger    *slog.Logger
	maxRounds int
}

// New constructs a Planner. A non-positive maxRounds falls back to
// DefaultMaxRounds.
func New(client openai.Client, model string, registry *toolcall.Registry, logger *slog.Logger, maxRounds int) *Planner {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Planner{
		client:    client,
		model:     model,
		registry:  registry,
		logger:    logger,
		maxRounds: maxRounds,
	}
}

// Run executes the planning conversation and returns the accumulated plan
// text. Progress is reported through emit. On a hard fault (research
// misconfiguration, transport failure to the model) the text produced so far
// is returned alongside the error so the caller can persist a partial plan.
func (p *Planner) Run(ctx context.Context, req Request, emit func(Event)) (string, error) {
	if emit == nil {
		emit = func(Event) {}
	}

	system, err := systemInstructions()
	if err != nil {
		return "", err
	}
	user, err := userPrompt(req)
	if err != nil {
		return "", err
	}

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Tools: p.toolParams(),
	}

	var plan strings.Builder
	for round := 0; round < p.maxRounds; round++ {
		message, err := p.streamRound(ctx, params, emit, &plan)
		if err != nil {
			return plan.String(), err
		}

		if len(message.ToolCalls) == 0 {
			return plan.String(), nil
		}

		params.Messages = append(params.Messages, message.ToParam())
		for _, call := range message.ToolCalls {
			result, err := p.invokeTool(ctx, call, emit)
			if err != nil {
				return plan.String(), err
			}
			params.Messages = append(params.Messages, openai.ToolMessage(result, call.ID))
		}
	}

	return plan.String(), fmt.Errorf("planning did not converge within %d rounds", p.maxRounds)
}

// streamRound runs one streamed completion, forwarding text deltas to emit
// and accumulating them into plan.
func (p *Planner) streamRound(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
	emit func(Event),
	plan *strings.Builder,
) (*openai.ChatCompletionMessage, error) {
	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	defer func() { _ = stream.Close() }()

	acc := openai.ChatCompletionAccumulator{}
	wroteText := false
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			wroteText = true
			plan.WriteString(delta)
			emit(Event{Kind: KindMessage, Text: delta})
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("stream completion: %w", err)
	}
	if len(acc.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	// Keep later rounds from gluing onto this round's text.
	if wroteText {
		plan.WriteString("\n\n")
		emit(Event{Kind: KindMessage, Text: "\n\n"})
	}

	message := acc.Choices[0].Message
	return &message, nil
}

// invokeTool executes a single tool call and reports its lifecycle. Browser
// tools answer failures as envelope payloads; a non-nil error here is a hard
// fault that aborts the run.
func (p *Planner) invokeTool(ctx context.Context, call openai.ChatCompletionMessageToolCallUnion, emit func(Event)) (string, error) {
	name := call.Function.Name
	raw := json.RawMessage(call.Function.Arguments)

	var args map[string]any
	_ = json.Unmarshal(raw, &args)

	emit(Event{
		Kind:       KindToolCallStarted,
		ToolName:   name,
		ToolCallID: call.ID,
		ToolArgs:   args,
	})

	start := time.Now()
	result, err := p.registry.Execute(ctx, name, raw)
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", name, err)
	}

	emit(Event{
		Kind:       KindToolCallFinished,
		ToolName:   name,
		ToolCallID: call.ID,
		ToolArgs:   args,
		Duration:   time.Since(start),
	})

	if p.logger != nil {
		p.logger.Debug("tool call finished", "tool", name, "result_bytes", len(result))
	}
	return result, nil
}

// toolParams converts the registry's declarations into the provider's
// function-calling shape.
func (p *Planner) toolParams() []openai.ChatCompletionToolUnionParam {
	defs := p.registry.Tools()
	out := make([]openai.ChatCompletionToolUnionParam, 0, len(defs))
	for _, t := range defs {
		out = append(out, openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  shared.FunctionParameters(toolcall.SchemaFor(t.Args)),
		}))
	}
	return out
}

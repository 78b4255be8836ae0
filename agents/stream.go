package agents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/manishdighore/maf-agents/components"
	"github.com/manishdighore/maf-agents/components/systemprompt/simple"
	"github.com/manishdighore/maf-agents/events"
	"github.com/manishdighore/maf-agents/schema"
	"github.com/manishdighore/maf-agents/tools"
)

// maxToolRounds bounds the tool-call loop within one user turn.
const maxToolRounds = 8

// WithInstructions sets a plain-instruction system prompt for the agent.
func WithInstructions(instructions string) Option {
	return func(c *Config) {
		c.systemPromptGenerator = simple.New(instructions)
	}
}

// StreamAgent is a chat agent that streams its responses and can call
// registered tools when the model requests them. Every step of the run is
// emitted as an event in delivery order.
type StreamAgent struct {
	Config
	tools     []tools.CallableTool
	toolIndex map[string]tools.CallableTool
}

var _ Runner = (*StreamAgent)(nil)

// NewStreamAgent initializes the StreamAgent.
func NewStreamAgent(options ...Option) *StreamAgent {
	ret := new(StreamAgent)
	for _, opt := range options {
		opt(&ret.Config)
	}
	if ret.memory == nil {
		ret.memory = components.NewMemory(0)
	}
	if ret.systemPromptGenerator == nil {
		ret.systemPromptGenerator = simple.New("You are a helpful assistant.")
	}
	ret.toolIndex = make(map[string]tools.CallableTool)
	return ret
}

func (a StreamAgent) Name() string {
	return a.name
}

func (a StreamAgent) Description() string {
	return a.description
}

// RegisterTools makes tools callable by the model.
func (a *StreamAgent) RegisterTools(ts ...tools.CallableTool) {
	for _, t := range ts {
		a.tools = append(a.tools, t)
		a.toolIndex[t.Title()] = t
	}
}

// Memory exposes the agent's chat history store.
func (a *StreamAgent) Memory() *components.Memory {
	return a.memory
}

// ResetMemory clears the conversation history.
func (a *StreamAgent) ResetMemory() {
	a.memory.Reset()
}

// toolCallAccumulator collects fragmented tool-call arguments. Fragments
// with an empty call ID belong to the most recently seen ID.
type toolCallAccumulator struct {
	order      []string
	calls      map[string]*openai.ToolCall
	lastCallID string
}

func newToolCallAccumulator() *toolCallAccumulator {
	return &toolCallAccumulator{
		calls: make(map[string]*openai.ToolCall),
	}
}

func (acc *toolCallAccumulator) add(tc openai.ToolCall) {
	id := tc.ID
	if id == "" && acc.lastCallID != "" {
		id = acc.lastCallID
	} else if id != "" {
		acc.lastCallID = id
	} else {
		id = "default"
	}
	call, ok := acc.calls[id]
	if !ok {
		call = &openai.ToolCall{
			ID:   id,
			Type: openai.ToolTypeFunction,
		}
		acc.calls[id] = call
		acc.order = append(acc.order, id)
	}
	if tc.Function.Name != "" {
		call.Function.Name = tc.Function.Name
	}
	call.Function.Arguments += tc.Function.Arguments
}

func (acc *toolCallAccumulator) list() []openai.ToolCall {
	out := make([]openai.ToolCall, 0, len(acc.order))
	for _, id := range acc.order {
		out = append(out, *acc.calls[id])
	}
	return out
}

// RunStream runs one user turn: streams deltas and tool-call fragments as
// they arrive, executes requested tools, and loops until the model produces
// a final message, which is returned in full.
func (a *StreamAgent) RunStream(ctx context.Context, input string, emit StreamHandler) (string, error) {
	if a.chatClient == nil {
		return "", errors.New("stream agent has no chat client")
	}
	if emit == nil {
		emit = func(events.Event) {}
	}
	a.memory.NewTurn()
	a.memory.NewMessage(components.UserRole, schema.String(input))

	messages := []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: a.systemPromptGenerator.Generate(),
	}}
	for _, msg := range a.memory.History() {
		v := new(openai.ChatCompletionMessage)
		msg.ToOpenAI(v)
		messages = append(messages, *v)
	}

	for round := 0; round < maxToolRounds; round++ {
		content, calls, err := a.streamOnce(ctx, messages, emit)
		if err != nil {
			return "", err
		}
		if len(calls) == 0 {
			a.memory.NewMessage(components.AssistantRole, schema.String(content))
			emit(events.AgentMessage{
				AgentID: a.name,
				Role:    components.AssistantRole,
				Text:    content,
			})
			return content, nil
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:      openai.ChatMessageRoleAssistant,
			Content:   content,
			ToolCalls: calls,
		})
		for _, call := range calls {
			result, err := a.callTool(ctx, call)
			if err != nil {
				result = fmt.Sprintf("tool error: %v", err)
			}
			emit(events.FunctionResult{
				AgentID: a.name,
				CallID:  call.ID,
				Result:  result,
			})
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}
	return "", fmt.Errorf("agent %s exceeded %d tool rounds", a.name, maxToolRounds)
}

// streamOnce performs a single streaming completion, emitting deltas and
// tool-call fragments, and returns the accumulated content and tool calls.
func (a *StreamAgent) streamOnce(ctx context.Context, messages []openai.ChatCompletionMessage, emit StreamHandler) (string, []openai.ToolCall, error) {
	req := openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    messages,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
		StreamOptions: &openai.StreamOptions{
			IncludeUsage: true,
		},
	}
	for _, t := range a.tools {
		req.Tools = append(req.Tools, t.OpenAI())
	}
	stream, err := a.chatClient.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", nil, err
	}
	defer stream.Close()

	var buf strings.Builder
	acc := newToolCallAccumulator()
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, err
		}
		if chunk.Usage != nil {
			emit(events.Usage{
				AgentID:      a.name,
				InputTokens:  chunk.Usage.PromptTokens,
				OutputTokens: chunk.Usage.CompletionTokens,
			})
		}
		for _, choice := range chunk.Choices {
			if text := choice.Delta.Content; text != "" {
				buf.WriteString(text)
				emit(events.AgentDelta{
					AgentID: a.name,
					Text:    text,
				})
			}
			for _, tc := range choice.Delta.ToolCalls {
				emit(events.FunctionCall{
					AgentID:   a.name,
					CallID:    tc.ID,
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				})
				acc.add(tc)
			}
		}
	}
	return buf.String(), acc.list(), nil
}

func (a *StreamAgent) callTool(ctx context.Context, call openai.ToolCall) (string, error) {
	tool, ok := a.toolIndex[call.Function.Name]
	if !ok {
		return "", fmt.Errorf("unknown tool %q", call.Function.Name)
	}
	return tool.Call(ctx, call.Function.Arguments)
}

package agents

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/manishdighore/maf-agents/tools"
)

// AgentToolConfig configures how an agent is exposed as a tool.
type AgentToolConfig struct {
	// Name overrides the default tool name (default: "agent_<name>").
	Name string
	// Description overrides the agent's description in the tool schema.
	Description string
	// ArgName is the single argument the model fills in (default: "input").
	ArgName string
	// ArgDescription describes that argument to the model.
	ArgDescription string
}

// AgentTool wraps an agent as a callable tool, enabling delegation from a
// coordinator agent through the standard tool-calling interface. Events
// emitted by the wrapped agent are forwarded to the handler set with
// SetStreamHandler, so nested activity stays visible on the outer stream.
type AgentTool struct {
	tools.Config
	agent   Runner
	argName string
	argDesc string
	emit    StreamHandler
}

var _ tools.CallableTool = (*AgentTool)(nil)

// NewAgentTool creates an AgentTool that wraps the given agent.
// If config is nil, defaults are used.
func NewAgentTool(agent Runner, config *AgentToolConfig) *AgentTool {
	cfg := AgentToolConfig{}
	if config != nil {
		cfg = *config
	}
	ret := &AgentTool{
		agent:   agent,
		argName: cfg.ArgName,
		argDesc: cfg.ArgDescription,
	}
	name := cfg.Name
	if name == "" {
		name = "agent_" + agent.Name()
	}
	ret.SetTitle(name)
	desc := cfg.Description
	if desc == "" {
		desc = fmt.Sprintf("Delegate a task to the %q agent", agent.Name())
	}
	ret.SetDescription(desc)
	if ret.argName == "" {
		ret.argName = "input"
	}
	if ret.argDesc == "" {
		ret.argDesc = "The task or query to send to the agent"
	}
	return ret
}

// SetStreamHandler forwards the wrapped agent's events to fn during calls.
func (t *AgentTool) SetStreamHandler(fn StreamHandler) *AgentTool {
	t.emit = fn
	return t
}

// OpenAI renders the agent as a single-argument function definition.
func (t *AgentTool) OpenAI() openai.Tool {
	params := map[string]any{
		"type": "object",
		"properties": map[string]any{
			t.argName: map[string]any{
				"type":        "string",
				"description": t.argDesc,
			},
		},
		"required": []string{t.argName},
	}
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        t.Title(),
			Description: t.Description(),
			Parameters:  params,
		},
	}
}

// Call runs the wrapped agent with the argument the model produced and
// returns the agent's final message.
func (t *AgentTool) Call(ctx context.Context, arguments string) (string, error) {
	args := make(map[string]string)
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", fmt.Errorf("invalid arguments for %s: %w", t.Title(), err)
		}
	}
	input, ok := args[t.argName]
	if !ok || input == "" {
		return "", fmt.Errorf("missing %q argument for %s", t.argName, t.Title())
	}
	return t.agent.RunStream(ctx, input, t.emit)
}

// RunAnonymous executes the tool with raw JSON argument bytes or text.
func (t *AgentTool) RunAnonymous(ctx context.Context, input any) (any, error) {
	switch v := input.(type) {
	case string:
		return t.Call(ctx, v)
	case []byte:
		return t.Call(ctx, string(v))
	default:
		return nil, fmt.Errorf("invalid tool input schema for %s", t.Title())
	}
}

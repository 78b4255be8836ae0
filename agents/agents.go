// Package agents provides chat agents over hosted language models:
// structured (instructor-backed) agents, streaming agents with tool
// calling, and composition helpers (chains, selectors, agent-as-tool).
package agents

import (
	"context"

	"github.com/bububa/instructor-go/pkg/instructor"

	"github.com/manishdighore/maf-agents/components"
	"github.com/manishdighore/maf-agents/components/systemprompt"
	"github.com/manishdighore/maf-agents/events"
)

type IAgent interface {
	Name() string
}

// ChainableAgent can participate in an agents chain.
type ChainableAgent interface {
	IAgent
	RunForChain(context.Context, any, *components.LLMResponse) (any, error)
}

// AnonymousAgent runs with untyped input/output for orchestration.
type AnonymousAgent interface {
	IAgent
	RunAnonymous(context.Context, any, *components.LLMResponse) (any, error)
}

type AgentSetter interface {
	SetClient(clt instructor.Instructor)
	SetMemory(m *components.Memory)
	SetSystemPromptGenerator(g systemprompt.Generator)
	SetModel(model string)
	SetTemperature(temperature float32)
	SetMaxTokens(maxTokens int)
}

// StreamHandler receives one event at a time, in delivery order.
type StreamHandler func(events.Event)

// Runner is the orchestration-facing surface of a streaming agent. The
// returned string is the agent's final message for the turn.
type Runner interface {
	Name() string
	Description() string
	RunStream(ctx context.Context, input string, emit StreamHandler) (string, error)
}

package agents

import (
	"context"
	"errors"

	"github.com/manishdighore/maf-agents/components"
	"github.com/manishdighore/maf-agents/schema"
	"github.com/manishdighore/maf-agents/tools"
)

// ToolAgent represent agent with tool callback: a start agent produces the
// tool input, the tool result feeds the end agent that answers the user.
type ToolAgent[I schema.Schema, T schema.Schema, O schema.Schema] struct {
	start *Agent[I, T]
	end   *Agent[I, O]
	tool  tools.AnonymousTool
}

// NewToolAgent returns a new ToolAgent instance
func NewToolAgent[I schema.Schema, T schema.Schema, O schema.Schema](options ...Option) *ToolAgent[I, T, O] {
	return &ToolAgent[I, T, O]{
		start: NewAgent[I, T](options...),
		end:   NewAgent[I, O](options...),
	}
}

func (t *ToolAgent[I, T, O]) SetTool(tool tools.AnonymousTool) *ToolAgent[I, T, O] {
	t.tool = tool
	return t
}

func (t *ToolAgent[I, T, O]) Name() string {
	return t.start.Name()
}

func (t *ToolAgent[I, T, O]) ResetMemory() {
	t.start.ResetMemory()
	t.end.ResetMemory()
}

// Run runs the chat agent with the given user input synchronously.
func (t *ToolAgent[I, T, O]) Run(ctx context.Context, userInput *I, output *O, llmResp *components.LLMResponse) error {
	toolOutput := new(T)
	if err := t.start.Run(ctx, userInput, toolOutput, llmResp); err != nil {
		return err
	}
	if t.tool != nil {
		if toolResult, err := t.tool.RunAnonymous(ctx, toolOutput); err != nil {
			return err
		} else if outO, ok := toolResult.(schema.Schema); !ok {
			return errors.New("invalid agent output schema")
		} else {
			t.end.NewMessage(components.SystemRole, outO)
		}
	}
	if err := t.end.Run(ctx, userInput, output, llmResp); err != nil {
		return err
	}
	return nil
}

// RunForChain runs the chat agent with the given user input for chain.
func (t *ToolAgent[I, T, O]) RunForChain(ctx context.Context, userInput any, llmResp *components.LLMResponse) (any, error) {
	in, ok := userInput.(*I)
	if !ok {
		return nil, errors.New("invalid input schema")
	}
	out := new(O)
	if err := t.Run(ctx, in, out, llmResp); err != nil {
		return nil, err
	}
	return out, nil
}

package agents

import (
	"context"
	"errors"

	"github.com/manishdighore/maf-agents/components"
	"github.com/manishdighore/maf-agents/schema"
)

// Chain agents chain
type Chain[I schema.Schema, O schema.Schema] struct {
	agents []ChainableAgent
}

// NewChain returns a new Chain instance
func NewChain[I schema.Schema, O schema.Schema](agents ...ChainableAgent) *Chain[I, O] {
	return &Chain[I, O]{
		agents: agents,
	}
}

// Run runs the chat agents with the given user input synchronously.
func (c *Chain[I, O]) Run(ctx context.Context, input *I, output *O) ([]components.LLMResponse, error) {
	l := len(c.agents)
	llmRespList := make([]components.LLMResponse, 0, l)
	var (
		in  any = input
		out any
	)
	for _, agent := range c.agents {
		llmResp := new(components.LLMResponse)
		ret, err := agent.RunForChain(ctx, in, llmResp)
		if err != nil {
			return llmRespList, err
		}
		in = ret
		out = ret
		llmRespList = append(llmRespList, *llmResp)
	}
	if outO, ok := out.(*O); !ok {
		return llmRespList, errors.New("invalid output schema")
	} else {
		*output = *outO
	}
	return llmRespList, nil
}

// RunForChain runs the chain as a single chainable step.
func (c *Chain[I, O]) RunForChain(ctx context.Context, input any, llmResp *components.LLMResponse) (any, error) {
	in, ok := input.(*I)
	if !ok {
		return nil, errors.New("invalid input schema")
	}
	out := new(O)
	llmRespList, err := c.Run(ctx, in, out)
	if err != nil {
		return nil, err
	}
	for _, v := range llmRespList {
		if v.Usage == nil {
			continue
		}
		if llmResp.Usage == nil {
			llmResp.Usage = new(components.LLMUsage)
		}
		llmResp.Usage.Merge(v.Usage)
	}
	return out, nil
}

package tools

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/manishdighore/maf-agents/schema"
)

type ITool interface {
	SetTitle(string)
	Title() string
	SetDescription(string)
	Description() string
	SetStartHook(fn func(context.Context, AnonymousTool, any))
	SetEndHook(fn func(context.Context, AnonymousTool, any, any))
	SetErrorHook(fn func(context.Context, AnonymousTool, any, error))
}

type Tool[I schema.Schema, O schema.Schema] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

type AnonymousTool interface {
	ITool
	RunAnonymous(context.Context, any) (any, error)
}

// CallableTool is a tool the model can invoke through the function-call
// interface: it exposes an OpenAI function definition and accepts raw
// JSON arguments.
type CallableTool interface {
	AnonymousTool
	OpenAI() openai.Tool
	Call(ctx context.Context, arguments string) (string, error)
}

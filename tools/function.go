package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	openai "github.com/sashabaranov/go-openai"

	"github.com/manishdighore/maf-agents/schema"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Func adapts a typed Go function into a model-callable tool. The input
// type's jsonschema tags become the function parameter schema exposed to
// the model; arguments are validated before the function runs.
type Func[I schema.Schema, O schema.Schema] struct {
	Config
	fn func(context.Context, *I) (*O, error)
}

// NewFunc wraps fn as a callable tool. Title is the function name the model
// sees and must be set via WithTitle unless a default is acceptable.
func NewFunc[I schema.Schema, O schema.Schema](fn func(context.Context, *I) (*O, error), opts ...Option) *Func[I, O] {
	ret := new(Func[I, O])
	for _, opt := range opts {
		opt(&ret.Config)
	}
	if ret.Title() == "" {
		ret.SetTitle("FuncTool")
	}
	ret.fn = fn
	return ret
}

var (
	_ AnonymousTool = (*Func[schema.Input, schema.Output])(nil)
	_ CallableTool  = (*Func[schema.Input, schema.Output])(nil)
)

// Run executes the wrapped function with a typed input.
func (t *Func[I, O]) Run(ctx context.Context, input *I) (*O, error) {
	if fn := t.StartHook(); fn != nil {
		fn(ctx, t, input)
	}
	if reflect.ValueOf(*input).Kind() == reflect.Struct {
		if err := validate.Struct(input); err != nil {
			if fn := t.ErrorHook(); fn != nil {
				fn(ctx, t, input, err)
			}
			return nil, fmt.Errorf("invalid arguments for %s: %w", t.Title(), err)
		}
	}
	out, err := t.fn(ctx, input)
	if err != nil {
		if fn := t.ErrorHook(); fn != nil {
			fn(ctx, t, input, err)
		}
		return nil, err
	}
	if fn := t.EndHook(); fn != nil {
		fn(ctx, t, input, out)
	}
	return out, nil
}

// RunAnonymous executes the tool with an untyped input: either *I or raw
// JSON bytes/text holding the arguments.
func (t *Func[I, O]) RunAnonymous(ctx context.Context, input any) (any, error) {
	switch v := input.(type) {
	case *I:
		return t.Run(ctx, v)
	case []byte:
		in := new(I)
		if err := json.Unmarshal(v, in); err != nil {
			return nil, fmt.Errorf("invalid tool input: %w", err)
		}
		return t.Run(ctx, in)
	case string:
		in := new(I)
		if err := json.Unmarshal([]byte(v), in); err != nil {
			return nil, fmt.Errorf("invalid tool input: %w", err)
		}
		return t.Run(ctx, in)
	default:
		return nil, fmt.Errorf("invalid tool input schema for %s", t.Title())
	}
}

// Call executes the tool from raw model-produced JSON arguments and returns
// the result serialized for the model: the output's plain-text form when it
// has one, JSON otherwise.
func (t *Func[I, O]) Call(ctx context.Context, arguments string) (string, error) {
	in := new(I)
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), in); err != nil {
			return "", fmt.Errorf("invalid arguments for %s: %w", t.Title(), err)
		}
	}
	out, err := t.Run(ctx, in)
	if err != nil {
		return "", err
	}
	if s, ok := any(*out).(fmt.Stringer); ok {
		if text := s.String(); text != "" {
			return text, nil
		}
	}
	return schema.Stringify(*out), nil
}

// OpenAI renders the tool as an OpenAI function definition.
func (t *Func[I, O]) OpenAI() openai.Tool {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}
	params := reflector.Reflect(new(I))
	params.Version = ""
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        t.Title(),
			Description: t.Description(),
			Parameters:  params,
		},
	}
}

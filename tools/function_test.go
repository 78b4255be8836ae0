package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/manishdighore/maf-agents/schema"
)

type echoInput struct {
	schema.Base
	Text string `json:"text" validate:"required" jsonschema:"title=text,description=Text to echo."`
}

type echoOutput struct {
	schema.Base
	Echo string `json:"echo"`
}

func (o echoOutput) String() string {
	return o.Echo
}

func newEcho() *Func[echoInput, echoOutput] {
	return NewFunc(func(ctx context.Context, in *echoInput) (*echoOutput, error) {
		return &echoOutput{Echo: in.Text}, nil
	}, WithTitle("echo"), WithDescription("Echo the input text."))
}

func TestFuncCall(t *testing.T) {
	tool := newEcho()
	out, err := tool.Call(context.Background(), `{"text":"hello"}`)
	if err != nil {
		t.Fatal(err)
	}
	if out != "hello" {
		t.Errorf("expecting hello, got %q", out)
	}
}

type pairOutput struct {
	schema.Base
	First  string `json:"first"`
	Second string `json:"second"`
}

func TestFuncCallStructuredResult(t *testing.T) {
	// pairOutput has no text form of its own, so the result falls back
	// to JSON.
	tool := NewFunc(func(ctx context.Context, in *echoInput) (*pairOutput, error) {
		return &pairOutput{First: in.Text, Second: in.Text}, nil
	}, WithTitle("pair"))
	out, err := tool.Call(context.Background(), `{"text":"x"}`)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"first":"x"`) || !strings.Contains(out, `"second":"x"`) {
		t.Errorf("expecting JSON result, got %q", out)
	}
}

func TestFuncCallValidation(t *testing.T) {
	tool := newEcho()
	if _, err := tool.Call(context.Background(), `{}`); err == nil {
		t.Error("expecting validation error for missing required field")
	}
	if _, err := tool.Call(context.Background(), `{bad json`); err == nil {
		t.Error("expecting error for malformed arguments")
	}
}

func TestFuncHooks(t *testing.T) {
	var started, ended bool
	tool := NewFunc(func(ctx context.Context, in *echoInput) (*echoOutput, error) {
		return &echoOutput{Echo: in.Text}, nil
	},
		WithTitle("echo"),
		WithStartHook(func(context.Context, AnonymousTool, any) { started = true }),
		WithEndHook(func(context.Context, AnonymousTool, any, any) { ended = true }),
	)
	if _, err := tool.Call(context.Background(), `{"text":"x"}`); err != nil {
		t.Fatal(err)
	}
	if !started || !ended {
		t.Error("hooks not invoked")
	}
}

func TestFuncOpenAIDefinition(t *testing.T) {
	def := newEcho().OpenAI()
	if def.Type != openai.ToolTypeFunction || def.Function == nil {
		t.Fatal("expecting a function tool definition")
	}
	if def.Function.Name != "echo" {
		t.Errorf("unexpected name %q", def.Function.Name)
	}
	bs, err := json.Marshal(def.Function.Parameters)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(bs), `"text"`) {
		t.Errorf("parameter schema missing field: %s", bs)
	}
}

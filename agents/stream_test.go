package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishdighore/maf-agents/events"
	"github.com/manishdighore/maf-agents/schema"
	"github.com/manishdighore/maf-agents/tools"
)

// sseServer streams canned chat-completion chunks; one script per request.
func sseServer(t *testing.T, scripts ...[]string) (*httptest.Server, *[][]byte) {
	t.Helper()
	var calls int
	bodies := new([][]byte)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*bodies = append(*bodies, body)
		require.Less(t, calls, len(scripts), "unexpected extra request")
		script := scripts[calls]
		calls++
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range script {
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	return srv, bodies
}

func testClient(srv *httptest.Server) *openai.Client {
	cfg := openai.DefaultConfig("test-token")
	cfg.BaseURL = srv.URL + "/v1"
	return openai.NewClientWithConfig(cfg)
}

func textChunk(text string) string {
	return fmt.Sprintf(`{"id":"c1","object":"chat.completion.chunk","created":1,"model":"m","choices":[{"index":0,"delta":{"content":%q}}]}`, text)
}

const usageChunk = `{"id":"c1","object":"chat.completion.chunk","created":1,"model":"m","choices":[],"usage":{"prompt_tokens":5,"completion_tokens":7,"total_tokens":12}}`

func collectEvents(dst *[]events.Event) StreamHandler {
	return func(ev events.Event) {
		*dst = append(*dst, ev)
	}
}

func TestStreamAgentDeltas(t *testing.T) {
	srv, _ := sseServer(t, []string{textChunk("Hel"), textChunk("lo"), usageChunk})
	agent := NewStreamAgent(
		WithChatClient(testClient(srv)),
		WithModel("m"),
		WithName("assistant"),
		WithInstructions("You are a helpful assistant."),
	)
	var got []events.Event
	final, err := agent.RunStream(context.Background(), "hi", collectEvents(&got))
	require.NoError(t, err)
	assert.Equal(t, "Hello", final)

	var deltas []string
	var messageSeen, usageSeen bool
	for _, ev := range got {
		switch v := ev.(type) {
		case events.AgentDelta:
			assert.False(t, messageSeen, "deltas must precede the completed message")
			deltas = append(deltas, v.Text)
		case events.AgentMessage:
			messageSeen = true
			assert.Equal(t, "Hello", v.Text)
			assert.Equal(t, "assistant", v.AgentID)
		case events.Usage:
			usageSeen = true
			assert.Equal(t, 12, v.TotalTokens())
		}
	}
	assert.Equal(t, []string{"Hel", "lo"}, deltas)
	assert.True(t, messageSeen)
	assert.True(t, usageSeen)
}

type streamEchoInput struct {
	schema.Base
	Text string `json:"text" jsonschema:"title=text,description=Text to echo."`
}

type streamEchoOutput struct {
	schema.Base
	Echo string `json:"echo"`
}

func (o streamEchoOutput) String() string {
	return o.Echo
}

func TestStreamAgentToolLoop(t *testing.T) {
	toolRound := []string{
		// name and id arrive first; argument fragments follow with empty id
		`{"id":"c1","object":"chat.completion.chunk","created":1,"model":"m","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"id":"call_1","type":"function","function":{"name":"echo","arguments":""}}]}}]}`,
		`{"id":"c1","object":"chat.completion.chunk","created":1,"model":"m","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"{\"text\":\"h"}}]}}]}`,
		`{"id":"c1","object":"chat.completion.chunk","created":1,"model":"m","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"i\"}"}}]}}]}`,
		usageChunk,
	}
	finalRound := []string{textChunk("done"), usageChunk}
	srv, bodies := sseServer(t, toolRound, finalRound)

	echo := tools.NewFunc(func(ctx context.Context, in *streamEchoInput) (*streamEchoOutput, error) {
		return &streamEchoOutput{Echo: "echo:" + in.Text}, nil
	}, tools.WithTitle("echo"), tools.WithDescription("Echo the text."))

	agent := NewStreamAgent(
		WithChatClient(testClient(srv)),
		WithModel("m"),
		WithName("assistant"),
	)
	agent.RegisterTools(echo)

	var got []events.Event
	final, err := agent.RunStream(context.Background(), "echo hi", collectEvents(&got))
	require.NoError(t, err)
	assert.Equal(t, "done", final)

	var callFragments int
	var result string
	for _, ev := range got {
		switch v := ev.(type) {
		case events.FunctionCall:
			callFragments++
		case events.FunctionResult:
			result = v.Result
			assert.Equal(t, "call_1", v.CallID)
		}
	}
	assert.Equal(t, 3, callFragments, "every fragment is emitted as delivered")
	assert.Equal(t, "echo:hi", result)

	// The second request must carry the tool result back to the model.
	require.Len(t, *bodies, 2)
	var req openai.ChatCompletionRequest
	require.NoError(t, json.Unmarshal((*bodies)[1], &req))
	var toolMsg *openai.ChatCompletionMessage
	for i := range req.Messages {
		if req.Messages[i].Role == openai.ChatMessageRoleTool {
			toolMsg = &req.Messages[i]
		}
	}
	require.NotNil(t, toolMsg)
	assert.Equal(t, "call_1", toolMsg.ToolCallID)
	assert.Equal(t, "echo:hi", toolMsg.Content)
}

func TestToolCallAccumulator(t *testing.T) {
	acc := newToolCallAccumulator()
	acc.add(openai.ToolCall{ID: "call_1", Function: openai.FunctionCall{Name: "get_weather", Arguments: `{"loc`}})
	acc.add(openai.ToolCall{Function: openai.FunctionCall{Arguments: `ation":"Paris"}`}})
	acc.add(openai.ToolCall{ID: "call_2", Function: openai.FunctionCall{Name: "calculate_tip", Arguments: `{}`}})
	list := acc.list()
	require.Len(t, list, 2)
	assert.Equal(t, `{"location":"Paris"}`, list[0].Function.Arguments)
	assert.Equal(t, "get_weather", list[0].Function.Name)
	assert.Equal(t, "calculate_tip", list[1].Function.Name)
}

func TestStreamAgentNoClient(t *testing.T) {
	agent := NewStreamAgent(WithName("broken"))
	_, err := agent.RunStream(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "chat client"))
}

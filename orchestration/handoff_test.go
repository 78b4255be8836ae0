package orchestration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishdighore/maf-agents/agents"
	"github.com/manishdighore/maf-agents/events"
	"github.com/manishdighore/maf-agents/tools"
)

// routingRunner is a stub agent that can hold handoff tools. Each call it
// either invokes the named tool or replies with the scripted text.
type routingRunner struct {
	name   string
	desc   string
	tools  map[string]tools.CallableTool
	script []routingStep
	calls  int
	inputs []string
}

type routingStep struct {
	handoff string // tool title to invoke, empty to answer instead
	reply   string
}

func newRoutingRunner(name, desc string, script ...routingStep) *routingRunner {
	return &routingRunner{
		name:   name,
		desc:   desc,
		tools:  make(map[string]tools.CallableTool),
		script: script,
	}
}

func (r *routingRunner) Name() string        { return r.name }
func (r *routingRunner) Description() string { return r.desc }

func (r *routingRunner) RegisterTools(ts ...tools.CallableTool) {
	for _, t := range ts {
		r.tools[t.Title()] = t
	}
}

func (r *routingRunner) RunStream(ctx context.Context, input string, emit agents.StreamHandler) (string, error) {
	r.inputs = append(r.inputs, input)
	step := routingStep{reply: "ok"}
	if r.calls < len(r.script) {
		step = r.script[r.calls]
	}
	r.calls++
	if step.handoff != "" {
		tool, ok := r.tools[step.handoff]
		if !ok {
			return "", assert.AnError
		}
		if _, err := tool.Call(ctx, "{}"); err != nil {
			return "", err
		}
		return "transferring", nil
	}
	if emit != nil {
		emit(events.AgentMessage{AgentID: r.name, Role: "assistant", Text: step.reply})
	}
	return step.reply, nil
}

func TestHandoffBuildErrors(t *testing.T) {
	_, err := NewHandoffBuilder().Build()
	assert.ErrorIs(t, err, ErrNoCoordinator)

	// stubRunner has no RegisterTools, so it cannot route.
	plain := &stubRunner{name: "plain"}
	_, err = NewHandoffBuilder().
		StartWith(plain).
		WithHandoffs(plain, newRoutingRunner("billing", "")).
		Build()
	assert.ErrorContains(t, err, "cannot register handoff tools")
}

func TestHandoffRouting(t *testing.T) {
	billing := newRoutingRunner("billing", "handles invoices",
		routingStep{reply: "Your invoice was resent."})
	coordinator := newRoutingRunner("frontline", "routes customers",
		routingStep{handoff: "handoff_to_billing"})

	wf, err := NewHandoffBuilder().
		StartWith(coordinator).
		WithHandoffs(coordinator, billing).
		WithTerminationCondition(AfterUserMessages(1)).
		Build()
	require.NoError(t, err)
	require.Contains(t, coordinator.tools, "handoff_to_billing")

	var got []events.Event
	answer, err := wf.RunStream(context.Background(), "I never got my invoice", collect(&got))
	require.NoError(t, err)
	assert.Equal(t, "Your invoice was resent.", answer)
	assert.Equal(t, []string{"I never got my invoice"}, billing.inputs)

	var sawHandoff bool
	for _, ev := range got {
		if v, ok := ev.(events.OrchestratorMessage); ok && v.Activity == "handoff" {
			sawHandoff = true
			assert.Contains(t, v.Text, "billing")
		}
	}
	assert.True(t, sawHandoff)
	final, ok := got[len(got)-1].(events.FinalResult)
	require.True(t, ok)
	assert.Equal(t, answer, final.Text)
}

func TestHandoffPendingInput(t *testing.T) {
	support := newRoutingRunner("support", "answers questions",
		routingStep{reply: "Try restarting the device."},
		routingStep{reply: "Then check the power cable."})
	coordinator := newRoutingRunner("frontline", "routes customers",
		routingStep{handoff: "handoff_to_support"},
		routingStep{handoff: "handoff_to_support"})

	wf, err := NewHandoffBuilder().
		StartWith(coordinator).
		WithHandoffs(coordinator, support).
		WithTerminationCondition(AfterUserMessages(2)).
		Build()
	require.NoError(t, err)

	var got []events.Event
	answer, err := wf.RunStream(context.Background(), "My router is down", collect(&got))
	require.NoError(t, err)
	assert.Empty(t, answer)

	pending := wf.PendingRequests()
	require.Len(t, pending, 1)
	req, ok := got[len(got)-1].(events.RequestInput)
	require.True(t, ok)
	assert.Equal(t, pending[0].RequestID, req.RequestID)
	assert.Equal(t, "support", req.AgentID)

	answer, err = wf.SendResponses(context.Background(), map[string]string{
		req.RequestID: "Restarting did not help",
	}, collect(&got))
	require.NoError(t, err)
	assert.Equal(t, "Then check the power cable.", answer)
	assert.Empty(t, wf.PendingRequests())
	// The follow-up routed through the coordinator again.
	assert.Equal(t, 2, coordinator.calls)
}

func TestHandoffAsAgent(t *testing.T) {
	billing := newRoutingRunner("billing", "handles invoices",
		routingStep{reply: "Invoice resent."})
	coordinator := newRoutingRunner("frontline", "routes customers",
		routingStep{handoff: "handoff_to_billing"})
	wf, err := NewHandoffBuilder().
		StartWith(coordinator).
		WithHandoffs(coordinator, billing).
		WithTerminationCondition(AfterUserMessages(1)).
		Build()
	require.NoError(t, err)

	var runner agents.Runner = wf.AsAgent("support_desk", "customer support swarm")
	assert.Equal(t, "support_desk", runner.Name())
	assert.Equal(t, "customer support swarm", runner.Description())

	answer, err := runner.RunStream(context.Background(), "resend my invoice", nil)
	require.NoError(t, err)
	assert.Equal(t, "Invoice resent.", answer)
}

func TestHandoffResponseErrors(t *testing.T) {
	coordinator := newRoutingRunner("frontline", "",
		routingStep{reply: "hello"})
	wf, err := NewHandoffBuilder().
		StartWith(coordinator).
		WithTerminationCondition(AfterUserMessages(2)).
		Build()
	require.NoError(t, err)

	_, err = wf.SendResponses(context.Background(), map[string]string{"r1": "hi"}, nil)
	assert.ErrorIs(t, err, ErrNoPendingRequests)

	_, err = wf.RunStream(context.Background(), "hi", nil)
	require.NoError(t, err)
	_, err = wf.SendResponses(context.Background(), map[string]string{"bogus": "hi"}, nil)
	assert.ErrorIs(t, err, ErrUnknownRequest)
}

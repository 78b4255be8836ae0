package orchestration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishdighore/maf-agents/agents"
	"github.com/manishdighore/maf-agents/events"
)

type stubRunner struct {
	name    string
	desc    string
	replies []string
	calls   int
	inputs  []string
}

func (r *stubRunner) Name() string        { return r.name }
func (r *stubRunner) Description() string { return r.desc }

func (r *stubRunner) RunStream(ctx context.Context, input string, emit agents.StreamHandler) (string, error) {
	r.inputs = append(r.inputs, input)
	reply := "ok"
	if r.calls < len(r.replies) {
		reply = r.replies[r.calls]
	}
	r.calls++
	if emit != nil {
		emit(events.AgentDelta{AgentID: r.name, Text: reply})
		emit(events.AgentMessage{AgentID: r.name, Role: "assistant", Text: reply})
	}
	return reply, nil
}

type stubManager struct {
	plan      string
	decisions []*Decision
	step      int
	planCalls int
}

func (m *stubManager) Plan(ctx context.Context, task string, team []agents.Runner) (string, error) {
	m.planCalls++
	return m.plan, nil
}

func (m *stubManager) Step(ctx context.Context, task string, team []agents.Runner, transcript []Turn) (*Decision, error) {
	d := m.decisions[m.step%len(m.decisions)]
	m.step++
	return d, nil
}

func collect(dst *[]events.Event) agents.StreamHandler {
	return func(ev events.Event) {
		*dst = append(*dst, ev)
	}
}

func TestMagenticBuildErrors(t *testing.T) {
	_, err := NewMagenticBuilder().Build()
	assert.ErrorIs(t, err, ErrNoParticipants)

	_, err = NewMagenticBuilder().
		Participants(&stubRunner{name: "researcher"}).
		Build()
	assert.ErrorIs(t, err, ErrNoManager)

	_, err = NewMagenticBuilder().
		Participants(&stubRunner{name: "researcher"}, &stubRunner{name: "researcher"}).
		WithManager(&stubManager{}).
		Build()
	assert.ErrorContains(t, err, "duplicate participant")
}

func TestMagenticRun(t *testing.T) {
	researcher := &stubRunner{name: "researcher", desc: "finds facts", replies: []string{"EVs reached 18% share in 2024"}}
	mgr := &stubManager{
		plan: "1. researcher gathers data",
		decisions: []*Decision{
			{Progress: true, NextSpeaker: "researcher", Instruction: "find EV adoption numbers"},
			{Complete: true, FinalAnswer: "EV adoption reached 18% in 2024."},
		},
	}
	wf, err := NewMagenticBuilder().
		Participants(researcher).
		WithManager(mgr).
		Build()
	require.NoError(t, err)

	var got []events.Event
	answer, err := wf.RunStream(context.Background(), "Summarize EV adoption", collect(&got))
	require.NoError(t, err)
	assert.Equal(t, "EV adoption reached 18% in 2024.", answer)
	assert.Equal(t, []string{"find EV adoption numbers"}, researcher.inputs)

	require.NotEmpty(t, got)
	plan, ok := got[0].(events.OrchestratorMessage)
	require.True(t, ok)
	assert.Equal(t, "plan", plan.Activity)
	final, ok := got[len(got)-1].(events.FinalResult)
	require.True(t, ok)
	assert.Equal(t, answer, final.Text)

	var sawInstruction, sawAgentMessage bool
	for _, ev := range got {
		switch v := ev.(type) {
		case events.OrchestratorMessage:
			if v.Activity == "instruction" {
				sawInstruction = true
				assert.Contains(t, v.Text, "researcher")
			}
		case events.AgentMessage:
			sawAgentMessage = true
		}
	}
	assert.True(t, sawInstruction)
	assert.True(t, sawAgentMessage)
}

func TestMagenticRoundLimit(t *testing.T) {
	writer := &stubRunner{name: "writer"}
	mgr := &stubManager{
		plan: "loop forever",
		decisions: []*Decision{
			{Progress: true, NextSpeaker: "writer", Instruction: "write more"},
		},
	}
	wf, err := NewMagenticBuilder().
		Participants(writer).
		WithManager(mgr).
		WithLimits(3, 0, 0).
		Build()
	require.NoError(t, err)

	_, err = wf.RunStream(context.Background(), "never ends", nil)
	assert.ErrorIs(t, err, ErrRoundLimit)
	assert.Equal(t, 3, writer.calls)
}

func TestMagenticStallReplan(t *testing.T) {
	writer := &stubRunner{name: "writer"}
	mgr := &stubManager{
		plan: "try again",
		decisions: []*Decision{
			{Progress: false, NextSpeaker: "writer", Instruction: "retry"},
		},
	}
	wf, err := NewMagenticBuilder().
		Participants(writer).
		WithManager(mgr).
		WithLimits(0, 1, 1).
		Build()
	require.NoError(t, err)

	var got []events.Event
	_, err = wf.RunStream(context.Background(), "stuck task", collect(&got))
	assert.ErrorIs(t, err, ErrStallLimit)
	// Initial plan plus one replan before giving up.
	assert.Equal(t, 2, mgr.planCalls)

	var sawReplan bool
	for _, ev := range got {
		if v, ok := ev.(events.OrchestratorMessage); ok && v.Activity == "replan" {
			sawReplan = true
		}
	}
	assert.True(t, sawReplan)
}

func TestMagenticUnknownSpeaker(t *testing.T) {
	wf, err := NewMagenticBuilder().
		Participants(&stubRunner{name: "analyst"}).
		WithManager(&stubManager{
			decisions: []*Decision{{Progress: true, NextSpeaker: "ghost"}},
		}).
		Build()
	require.NoError(t, err)

	_, err = wf.RunStream(context.Background(), "task", nil)
	assert.ErrorContains(t, err, `unknown participant "ghost"`)
}

package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/bububa/instructor-go/pkg/instructor"

	"github.com/manishdighore/maf-agents/agents"
	"github.com/manishdighore/maf-agents/components"
	"github.com/manishdighore/maf-agents/components/systemprompt/simple"
	"github.com/manishdighore/maf-agents/schema"
)

// Turn is one completed exchange inside an orchestration transcript.
type Turn struct {
	Agent string
	Text  string
}

// Decision is the manager's verdict after inspecting the transcript.
type Decision struct {
	// Complete means the task is satisfied and FinalAnswer holds the result.
	Complete    bool
	FinalAnswer string
	// Progress is false when the team is looping or stuck.
	Progress bool
	// NextSpeaker names the participant to run next, with its Instruction.
	NextSpeaker string
	Instruction string
}

// Manager drives a magentic run: it plans the task up front and decides,
// round by round, which participant speaks next or whether the run is done.
type Manager interface {
	Plan(ctx context.Context, task string, team []agents.Runner) (string, error)
	Step(ctx context.Context, task string, team []agents.Runner, transcript []Turn) (*Decision, error)
}

// TaskPlan is the structured output of the planning call.
type TaskPlan struct {
	schema.Base
	Facts string `json:"facts" jsonschema:"title=facts,description=Known facts and facts to look up or derive for this task."`
	Plan  string `json:"plan" jsonschema:"title=plan,description=A short bullet-point plan that the team will follow."`
}

func (p TaskPlan) String() string {
	return p.Plan
}

// ProgressLedger is the structured output of each coordination step.
type ProgressLedger struct {
	schema.Base
	IsRequestSatisfied    bool   `json:"is_request_satisfied" jsonschema:"title=is_request_satisfied,description=True when the original request is fully satisfied."`
	IsInLoop              bool   `json:"is_in_loop" jsonschema:"title=is_in_loop,description=True when the team is repeating itself without new results."`
	IsProgressBeingMade   bool   `json:"is_progress_being_made" jsonschema:"title=is_progress_being_made,description=True when the last turns moved the task forward."`
	NextSpeaker           string `json:"next_speaker" jsonschema:"title=next_speaker,description=Name of the team member who should act next."`
	InstructionOrQuestion string `json:"instruction_or_question" jsonschema:"title=instruction_or_question,description=The instruction or question to send to the next speaker."`
	FinalAnswer           string `json:"final_answer" jsonschema:"title=final_answer,description=The complete answer to the original request; only when satisfied."`
}

func (l ProgressLedger) String() string {
	if l.IsRequestSatisfied {
		return l.FinalAnswer
	}
	return l.InstructionOrQuestion
}

const (
	plannerInstructions = `You are the coordinator of a team of agents working on a user task.
Before the team starts, survey what is known: list the given facts, the facts
to look up, and the facts to derive, then produce a short bullet-point plan
assigning work to team members by name.`

	ledgerInstructions = `You are the coordinator of a team of agents working on a user task.
Given the task, the team roster and the transcript so far, fill in the
progress ledger. Pick next_speaker from the roster only. When the request is
satisfied, set is_request_satisfied and write the complete final_answer.`
)

// StandardManager is the LLM-backed Manager: it asks the model for a task
// plan and, each round, a progress ledger selecting the next speaker.
type StandardManager struct {
	planner *agents.Agent[schema.Input, TaskPlan]
	ledger  *agents.Agent[schema.Input, ProgressLedger]
}

var _ Manager = (*StandardManager)(nil)

// NewStandardManager builds a manager on the given structured-output client.
func NewStandardManager(clt instructor.Instructor, model string, options ...agents.Option) *StandardManager {
	plannerOpts := append([]agents.Option{
		agents.WithClient(clt),
		agents.WithModel(model),
		agents.WithMemory(components.NewMemory(2)),
		agents.WithSystemPromptGenerator(simple.New(plannerInstructions)),
	}, options...)
	ledgerOpts := append([]agents.Option{
		agents.WithClient(clt),
		agents.WithModel(model),
		agents.WithMemory(components.NewMemory(2)),
		agents.WithSystemPromptGenerator(simple.New(ledgerInstructions)),
	}, options...)
	return &StandardManager{
		planner: agents.NewAgent[schema.Input, TaskPlan](plannerOpts...),
		ledger:  agents.NewAgent[schema.Input, ProgressLedger](ledgerOpts...),
	}
}

// Plan produces the initial (or replacement) task plan.
func (m *StandardManager) Plan(ctx context.Context, task string, team []agents.Runner) (string, error) {
	m.planner.ResetMemory()
	input := schema.NewInput(fmt.Sprintf("Task:\n%s\n\nTeam:\n%s", task, describeTeam(team)))
	var out TaskPlan
	if err := m.planner.Run(ctx, input, &out, nil); err != nil {
		return "", fmt.Errorf("plan: %w", err)
	}
	return out.Plan, nil
}

// Step evaluates the transcript and decides the next move.
func (m *StandardManager) Step(ctx context.Context, task string, team []agents.Runner, transcript []Turn) (*Decision, error) {
	m.ledger.ResetMemory()
	input := schema.NewInput(fmt.Sprintf(
		"Task:\n%s\n\nTeam:\n%s\n\nTranscript:\n%s",
		task, describeTeam(team), describeTranscript(transcript)))
	var out ProgressLedger
	if err := m.ledger.Run(ctx, input, &out, nil); err != nil {
		return nil, fmt.Errorf("progress ledger: %w", err)
	}
	return &Decision{
		Complete:    out.IsRequestSatisfied,
		FinalAnswer: out.FinalAnswer,
		Progress:    out.IsProgressBeingMade && !out.IsInLoop,
		NextSpeaker: out.NextSpeaker,
		Instruction: out.InstructionOrQuestion,
	}, nil
}

func describeTeam(team []agents.Runner) string {
	var sb strings.Builder
	for _, member := range team {
		fmt.Fprintf(&sb, "- %s: %s\n", member.Name(), member.Description())
	}
	return sb.String()
}

func describeTranscript(transcript []Turn) string {
	if len(transcript) == 0 {
		return "(no turns yet)"
	}
	var sb strings.Builder
	for _, turn := range transcript {
		fmt.Fprintf(&sb, "%s: %s\n", turn.Agent, turn.Text)
	}
	return sb.String()
}

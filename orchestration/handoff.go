package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/manishdighore/maf-agents/agents"
	"github.com/manishdighore/maf-agents/components"
	"github.com/manishdighore/maf-agents/events"
	"github.com/manishdighore/maf-agents/schema"
	"github.com/manishdighore/maf-agents/tools"
)

var (
	// ErrNoCoordinator is returned by Build when no starting agent was set.
	ErrNoCoordinator = errors.New("orchestration: no coordinator")
	// ErrNoPendingRequests means SendResponses was called with nothing pending.
	ErrNoPendingRequests = errors.New("orchestration: no pending input requests")
	// ErrUnknownRequest means a response carried an unrecognized request ID.
	ErrUnknownRequest = errors.New("orchestration: unknown request id")
)

// TerminationCondition decides when a handoff conversation is finished,
// judged against the conversation history. While it returns false, each
// specialist answer is followed by a RequestInput event asking the user
// to continue.
type TerminationCondition func(conversation *components.Memory) bool

// AfterUserMessages terminates once the user has sent n messages.
func AfterUserMessages(n int) TerminationCondition {
	return func(conversation *components.Memory) bool {
		return conversation.CountRole(components.UserRole) >= n
	}
}

// toolRegistrar is the subset of agent capability handoff routing needs:
// a runnable agent that accepts callable tools.
type toolRegistrar interface {
	agents.Runner
	RegisterTools(ts ...tools.CallableTool)
}

// HandoffBuilder assembles a swarm-style workflow: a coordinator that
// transfers conversations to specialists through synthetic
// handoff_to_<agent> tool calls.
type HandoffBuilder struct {
	coordinator agents.Runner
	routes      map[string][]agents.Runner
	order       []agents.Runner
	termination TerminationCondition
	logger      *zap.Logger
}

// NewHandoffBuilder returns an empty builder.
func NewHandoffBuilder() *HandoffBuilder {
	return &HandoffBuilder{routes: make(map[string][]agents.Runner)}
}

// StartWith sets the coordinator that receives every new user message.
func (b *HandoffBuilder) StartWith(coordinator agents.Runner) *HandoffBuilder {
	b.coordinator = coordinator
	return b
}

// WithHandoffs allows from to transfer the conversation to any of to.
func (b *HandoffBuilder) WithHandoffs(from agents.Runner, to ...agents.Runner) *HandoffBuilder {
	name := from.Name()
	if _, seen := b.routes[name]; !seen {
		b.order = append(b.order, from)
	}
	b.routes[name] = append(b.routes[name], to...)
	return b
}

// WithTerminationCondition sets when the conversation ends. The default
// terminates after a single user message.
func (b *HandoffBuilder) WithTerminationCondition(fn TerminationCondition) *HandoffBuilder {
	b.termination = fn
	return b
}

// WithLogger sets the workflow logger. Without it, logging is disabled.
func (b *HandoffBuilder) WithLogger(l *zap.Logger) *HandoffBuilder {
	b.logger = l
	return b
}

// Build registers the handoff tools on every routing agent and returns
// the runnable workflow.
func (b *HandoffBuilder) Build() (*Handoff, error) {
	if b.coordinator == nil {
		return nil, ErrNoCoordinator
	}
	termination := b.termination
	if termination == nil {
		termination = AfterUserMessages(1)
	}
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Handoff{
		coordinator:  b.coordinator,
		termination:  termination,
		logger:       logger.Named("handoff"),
		conversation: components.NewMemory(0),
		pending:      make(map[string]events.RequestInput),
	}
	for _, from := range b.order {
		registrar, ok := from.(toolRegistrar)
		if !ok {
			return nil, fmt.Errorf("orchestration: agent %q cannot register handoff tools", from.Name())
		}
		for _, target := range b.routes[from.Name()] {
			registrar.RegisterTools(newHandoffTool(w, target))
		}
	}
	return w, nil
}

// Handoff runs a conversation that starts at the coordinator and follows
// handoff tool calls between agents. When a specialist answers and the
// termination condition is not yet met, the workflow pauses with a
// RequestInput event; SendResponses resumes it.
type Handoff struct {
	coordinator agents.Runner
	termination TerminationCondition
	logger      *zap.Logger

	conversation *components.Memory

	mu      sync.Mutex
	current agents.Runner
	target  agents.Runner
	pending map[string]events.RequestInput
}

// RunStream starts the conversation with the user's message. It returns the
// final answer once the termination condition is met; until then it returns
// an empty answer after emitting a RequestInput event.
func (w *Handoff) RunStream(ctx context.Context, input string, emit agents.StreamHandler) (string, error) {
	w.conversation.Reset()
	w.mu.Lock()
	w.current = w.coordinator
	for id := range w.pending {
		delete(w.pending, id)
	}
	w.mu.Unlock()
	return w.advance(ctx, input, emit)
}

// PendingRequests lists the input requests awaiting answers.
func (w *Handoff) PendingRequests() []events.RequestInput {
	w.mu.Lock()
	defer w.mu.Unlock()
	reqs := make([]events.RequestInput, 0, len(w.pending))
	for _, req := range w.pending {
		reqs = append(reqs, req)
	}
	return reqs
}

// SendResponses resumes a paused conversation with the user's answers,
// keyed by request ID.
func (w *Handoff) SendResponses(ctx context.Context, responses map[string]string, emit agents.StreamHandler) (string, error) {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return "", ErrNoPendingRequests
	}
	var input string
	for id, text := range responses {
		if _, ok := w.pending[id]; !ok {
			w.mu.Unlock()
			return "", fmt.Errorf("%w: %s", ErrUnknownRequest, id)
		}
		delete(w.pending, id)
		input = text
	}
	// A new user message always routes from the coordinator.
	w.current = w.coordinator
	w.mu.Unlock()
	return w.advance(ctx, input, emit)
}

func (w *Handoff) advance(ctx context.Context, input string, emit agents.StreamHandler) (string, error) {
	if emit == nil {
		emit = func(events.Event) {}
	}
	w.conversation.NewTurn()
	w.conversation.NewMessage(components.UserRole, schema.String(input))
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		w.mu.Lock()
		current := w.current
		w.target = nil
		w.mu.Unlock()
		reply, err := current.RunStream(ctx, input, emit)
		if err != nil {
			return "", fmt.Errorf("orchestration: %s: %w", current.Name(), err)
		}
		w.mu.Lock()
		target := w.target
		w.target = nil
		if target != nil {
			w.current = target
			w.mu.Unlock()
			emit(events.OrchestratorMessage{
				Activity: "handoff",
				Text:     fmt.Sprintf("%s transferred the conversation to %s", current.Name(), target.Name()),
			})
			w.logger.Info("handoff",
				zap.String("from", current.Name()),
				zap.String("to", target.Name()))
			continue
		}
		w.conversation.NewMessage(components.AssistantRole, schema.String(reply))
		if w.termination(w.conversation) {
			w.mu.Unlock()
			emit(events.FinalResult{Text: reply})
			return reply, nil
		}
		req := events.RequestInput{
			RequestID: uuid.NewString(),
			AgentID:   current.Name(),
			Prompt:    "Provide the next message to continue the conversation.",
		}
		w.pending[req.RequestID] = req
		w.mu.Unlock()
		emit(req)
		return "", nil
	}
}

// AsAgent exposes the workflow as a runnable agent, so a whole handoff
// swarm can join larger compositions (a magentic team participant, or an
// agent wrapped as a tool).
func (w *Handoff) AsAgent(name, description string) agents.Runner {
	return &handoffAgent{workflow: w, name: name, description: description}
}

type handoffAgent struct {
	workflow    *Handoff
	name        string
	description string
}

func (a *handoffAgent) Name() string        { return a.name }
func (a *handoffAgent) Description() string { return a.description }

func (a *handoffAgent) RunStream(ctx context.Context, input string, emit agents.StreamHandler) (string, error) {
	return a.workflow.RunStream(ctx, input, emit)
}

// requestHandoff records where the running agent wants to send the
// conversation; the workflow switches after the agent's turn completes.
func (w *Handoff) requestHandoff(target agents.Runner) {
	w.mu.Lock()
	w.target = target
	w.mu.Unlock()
}

// handoffTool is the synthetic function an agent calls to transfer the
// conversation to another agent.
type handoffTool struct {
	tools.Config
	workflow *Handoff
	target   agents.Runner
}

var _ tools.CallableTool = (*handoffTool)(nil)

func newHandoffTool(w *Handoff, target agents.Runner) *handoffTool {
	ret := &handoffTool{workflow: w, target: target}
	ret.SetTitle("handoff_to_" + target.Name())
	ret.SetDescription(fmt.Sprintf("Transfer the conversation to %s. %s", target.Name(), target.Description()))
	return ret
}

// OpenAI renders the no-argument transfer function definition.
func (t *handoffTool) OpenAI() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        t.Title(),
			Description: t.Description(),
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

// Call records the transfer and acknowledges it to the model.
func (t *handoffTool) Call(ctx context.Context, arguments string) (string, error) {
	t.workflow.requestHandoff(t.target)
	return fmt.Sprintf("Conversation transferred to %s.", t.target.Name()), nil
}

// RunAnonymous executes the transfer with raw argument bytes or text.
func (t *handoffTool) RunAnonymous(ctx context.Context, input any) (any, error) {
	switch v := input.(type) {
	case string:
		return t.Call(ctx, v)
	case []byte:
		return t.Call(ctx, string(v))
	default:
		return nil, fmt.Errorf("invalid tool input schema for %s", t.Title())
	}
}

// Package events defines the stream event taxonomy emitted by agent runs
// and orchestrations. Consumers receive events strictly in delivery order;
// each event is one increment of agent activity.
package events

// Kind tags an event with its activity class.
type Kind string

const (
	// KindAgentDelta is an incremental text fragment from a streaming agent.
	KindAgentDelta Kind = "agent_delta"
	// KindAgentMessage is a completed agent message.
	KindAgentMessage Kind = "agent_message"
	// KindOrchestratorMessage is coordinator-level status (plan, progress, replan).
	KindOrchestratorMessage Kind = "orchestrator_message"
	// KindFinalResult is the terminal result of an orchestration run.
	KindFinalResult Kind = "final_result"
	// KindFunctionCall is a model-requested tool invocation, possibly fragmented.
	KindFunctionCall Kind = "function_call"
	// KindFunctionResult is the outcome of an executed tool call.
	KindFunctionResult Kind = "function_result"
	// KindUsage reports token usage and signals completion of one model stream.
	KindUsage Kind = "usage"
	// KindRequestInput asks the user for more input mid-workflow.
	KindRequestInput Kind = "request_input"
)

// Event is one unit of streamed activity.
type Event interface {
	Kind() Kind
}

// AgentDelta is an incremental text fragment emitted while an agent speaks.
type AgentDelta struct {
	AgentID string
	Text    string
}

func (AgentDelta) Kind() Kind { return KindAgentDelta }

// AgentMessage is a whole completed message from an agent.
type AgentMessage struct {
	AgentID string
	Role    string
	Text    string
}

func (AgentMessage) Kind() Kind { return KindAgentMessage }

// OrchestratorMessage carries coordinator status: the activity name
// (e.g. "plan", "progress", "replan") and its text.
type OrchestratorMessage struct {
	Activity string
	Text     string
}

func (OrchestratorMessage) Kind() Kind { return KindOrchestratorMessage }

// FinalResult is the terminal message of an orchestration.
type FinalResult struct {
	Text string
}

func (FinalResult) Kind() Kind { return KindFinalResult }

// FunctionCall is a tool invocation requested by the model. Streaming
// providers fragment the arguments across several events sharing a CallID;
// fragments with an empty CallID belong to the most recent call.
type FunctionCall struct {
	AgentID   string
	CallID    string
	Name      string
	Arguments string
}

func (FunctionCall) Kind() Kind { return KindFunctionCall }

// FunctionResult is the serialized return value of an executed tool call.
type FunctionResult struct {
	AgentID string
	CallID  string
	Result  string
}

func (FunctionResult) Kind() Kind { return KindFunctionResult }

// Usage reports token consumption for one completed model stream.
type Usage struct {
	AgentID      string
	InputTokens  int
	OutputTokens int
}

func (Usage) Kind() Kind { return KindUsage }

// TotalTokens returns the combined token count.
func (u Usage) TotalTokens() int {
	return u.InputTokens + u.OutputTokens
}

// RequestInput asks the user to continue the conversation. Answers are
// delivered back through the workflow keyed by RequestID.
type RequestInput struct {
	RequestID string
	AgentID   string
	Prompt    string
}

func (RequestInput) Kind() Kind { return KindRequestInput }

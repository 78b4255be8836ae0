// Package console renders agent and orchestration event streams to a
// terminal: deltas inline as they arrive, completed messages in labeled
// colored panels.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/manishdighore/maf-agents/events"
)

const defaultWidth = 80

var (
	agentColor        = lipgloss.Color("6") // cyan
	orchestratorColor = lipgloss.Color("5") // magenta
	finalColor        = lipgloss.Color("2") // green
	userColor         = lipgloss.Color("3") // yellow
)

// Option configures a Renderer.
type Option func(r *Renderer)

// WithWidth sets the panel width.
func WithWidth(width int) Option {
	return func(r *Renderer) {
		r.width = width
	}
}

// functionCall accumulates the fragments of one streamed tool call.
type functionCall struct {
	name string
	args strings.Builder
}

// Renderer consumes events and writes them to a terminal-style writer.
// It keeps per-speaker buffers of in-progress streamed text and flushes
// them into panels when messages complete. It is not safe for concurrent
// use; feed it events in delivery order.
type Renderer struct {
	w     io.Writer
	width int

	buffers   map[string]*strings.Builder
	streaming bool
	speaker   string

	callOrder  []string
	calls      map[string]*functionCall
	lastCallID string
}

// New returns a Renderer writing to w.
func New(w io.Writer, options ...Option) *Renderer {
	ret := &Renderer{
		w:       w,
		width:   defaultWidth,
		buffers: make(map[string]*strings.Builder),
		calls:   make(map[string]*functionCall),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Render classifies and prints one event. Unrecognized events are printed
// verbatim; Render never fails.
func (r *Renderer) Render(ev events.Event) {
	switch v := ev.(type) {
	case events.AgentDelta:
		r.renderDelta(v)
	case events.AgentMessage:
		r.renderMessage(v)
	case events.OrchestratorMessage:
		r.breakStream()
		label := "Orchestrator"
		if v.Activity != "" {
			label = fmt.Sprintf("Orchestrator (%s)", v.Activity)
		}
		r.panel(label, v.Text, orchestratorColor)
	case events.FinalResult:
		r.breakStream()
		r.panel("Final Result", v.Text, finalColor)
	case events.FunctionCall:
		r.accumulateCall(v)
	case events.FunctionResult:
		r.breakStream()
		r.panel("Function Result", v.Result, finalColor)
	case events.Usage:
		r.flushCalls()
		r.breakStream()
		fmt.Fprintf(r.w, "tokens: %d in, %d out, %d total\n",
			v.InputTokens, v.OutputTokens, v.TotalTokens())
	case events.RequestInput:
		r.breakStream()
		r.panel("User Input Requested", v.Prompt, userColor)
	default:
		r.breakStream()
		fmt.Fprintf(r.w, "%+v\n", ev)
	}
}

// RenderUserMessage prints the user's own message in a panel, so REPL
// transcripts read uniformly.
func (r *Renderer) RenderUserMessage(text string) {
	r.breakStream()
	r.panel("User", text, userColor)
}

// renderDelta prints the fragment immediately and buffers it for the
// speaker's completion frame. A change of streaming author breaks the
// line so interleaved speakers stay readable.
func (r *Renderer) renderDelta(ev events.AgentDelta) {
	if r.streaming && ev.AgentID != r.speaker {
		r.breakStream()
	}
	r.speaker = ev.AgentID
	buf, ok := r.buffers[ev.AgentID]
	if !ok {
		buf = new(strings.Builder)
		r.buffers[ev.AgentID] = buf
	}
	buf.WriteString(ev.Text)
	fmt.Fprint(r.w, ev.Text)
	r.streaming = true
}

// renderMessage flushes the speaker's buffer into a panel. The panel body
// is the completed message alone; buffered deltas are discarded, never
// printed twice.
func (r *Renderer) renderMessage(ev events.AgentMessage) {
	text := ev.Text
	if buf, ok := r.buffers[ev.AgentID]; ok {
		if text == "" {
			text = buf.String()
		}
		delete(r.buffers, ev.AgentID)
	}
	r.breakStream()
	label := ev.AgentID
	if label == "" {
		label = ev.Role
	}
	r.panel(label, text, agentColor)
}

// accumulateCall collects possibly fragmented tool-call events. Fragments
// with an empty call ID extend the most recent call.
func (r *Renderer) accumulateCall(ev events.FunctionCall) {
	id := ev.CallID
	if id == "" {
		id = r.lastCallID
	} else {
		r.lastCallID = id
	}
	if id == "" {
		return
	}
	call, ok := r.calls[id]
	if !ok {
		call = new(functionCall)
		r.calls[id] = call
		r.callOrder = append(r.callOrder, id)
	}
	if ev.Name != "" {
		call.name = ev.Name
	}
	call.args.WriteString(ev.Arguments)
}

// flushCalls renders every accumulated call and clears the accumulator.
func (r *Renderer) flushCalls() {
	if len(r.callOrder) == 0 {
		return
	}
	r.breakStream()
	for _, id := range r.callOrder {
		call := r.calls[id]
		body := call.name
		if args := call.args.String(); args != "" {
			body = fmt.Sprintf("%s %s", call.name, args)
		}
		r.panel("Function Call", body, orchestratorColor)
	}
	r.callOrder = r.callOrder[:0]
	for id := range r.calls {
		delete(r.calls, id)
	}
	r.lastCallID = ""
}

// breakStream terminates an in-progress inline delta line.
func (r *Renderer) breakStream() {
	if r.streaming {
		fmt.Fprintln(r.w)
		r.streaming = false
	}
}

func (r *Renderer) panel(label, body string, color lipgloss.Color) {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Width(r.width)
	if !looksLikeMarkdown(body) {
		body = strings.TrimSpace(body)
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(color).Render(label)
	fmt.Fprintln(r.w, style.Render(title+"\n"+body))
}

// looksLikeMarkdown reports whether any line opens with a common markdown
// marker; such bodies keep their original line structure.
func looksLikeMarkdown(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "#"),
			strings.HasPrefix(trimmed, "```"),
			strings.HasPrefix(trimmed, "**"),
			strings.HasPrefix(trimmed, "* "),
			strings.HasPrefix(trimmed, "- "),
			strings.HasPrefix(trimmed, "> "):
			return true
		}
	}
	return false
}

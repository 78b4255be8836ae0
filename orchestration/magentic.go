// Package orchestration sequences multiple agents' turns toward a shared
// task: a manager-driven (magentic) workflow and a handoff (swarm) workflow.
package orchestration

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/manishdighore/maf-agents/agents"
	"github.com/manishdighore/maf-agents/events"
)

const (
	defaultMaxRounds = 8
	defaultMaxStalls = 3
	defaultMaxResets = 2
)

var (
	// ErrNoParticipants is returned by Build when the team is empty.
	ErrNoParticipants = errors.New("orchestration: no participants")
	// ErrNoManager is returned by Build when no manager was configured.
	ErrNoManager = errors.New("orchestration: no manager")
	// ErrRoundLimit means the run exceeded its round budget without finishing.
	ErrRoundLimit = errors.New("orchestration: round limit reached")
	// ErrStallLimit means the team stalled past its replan budget.
	ErrStallLimit = errors.New("orchestration: stall limit reached")
)

// MagenticBuilder assembles a manager-driven multi-agent workflow.
type MagenticBuilder struct {
	participants []agents.Runner
	manager      Manager
	logger       *zap.Logger
	maxRounds    int
	maxStalls    int
	maxResets    int
}

// NewMagenticBuilder returns a builder with the standard limits.
func NewMagenticBuilder() *MagenticBuilder {
	return &MagenticBuilder{
		maxRounds: defaultMaxRounds,
		maxStalls: defaultMaxStalls,
		maxResets: defaultMaxResets,
	}
}

// Participants adds team members; each must carry a distinct name.
func (b *MagenticBuilder) Participants(members ...agents.Runner) *MagenticBuilder {
	b.participants = append(b.participants, members...)
	return b
}

// WithManager sets the coordination policy.
func (b *MagenticBuilder) WithManager(m Manager) *MagenticBuilder {
	b.manager = m
	return b
}

// WithLogger sets the workflow logger. Without it, logging is disabled.
func (b *MagenticBuilder) WithLogger(l *zap.Logger) *MagenticBuilder {
	b.logger = l
	return b
}

// WithLimits overrides the round, stall and reset budgets. Zero or
// negative values keep the defaults.
func (b *MagenticBuilder) WithLimits(rounds, stalls, resets int) *MagenticBuilder {
	if rounds > 0 {
		b.maxRounds = rounds
	}
	if stalls > 0 {
		b.maxStalls = stalls
	}
	if resets > 0 {
		b.maxResets = resets
	}
	return b
}

// Build validates the configuration and returns the runnable workflow.
func (b *MagenticBuilder) Build() (*Magentic, error) {
	if len(b.participants) == 0 {
		return nil, ErrNoParticipants
	}
	if b.manager == nil {
		return nil, ErrNoManager
	}
	byName := make(map[string]agents.Runner, len(b.participants))
	for _, member := range b.participants {
		name := member.Name()
		if name == "" {
			return nil, errors.New("orchestration: participant without a name")
		}
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("orchestration: duplicate participant %q", name)
		}
		byName[name] = member
	}
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Magentic{
		participants: b.participants,
		byName:       byName,
		manager:      b.manager,
		logger:       logger.Named("magentic"),
		maxRounds:    b.maxRounds,
		maxStalls:    b.maxStalls,
		maxResets:    b.maxResets,
	}, nil
}

// Magentic runs a team of agents under a manager. Each round the manager
// inspects the transcript and either finishes the task, replans a stalled
// run, or dispatches an instruction to one participant.
type Magentic struct {
	participants []agents.Runner
	byName       map[string]agents.Runner
	manager      Manager
	logger       *zap.Logger
	maxRounds    int
	maxStalls    int
	maxResets    int
}

// RunStream executes the task and returns the final answer. Plan text,
// instructions and the participants' own activity are emitted to fn as the
// run progresses; the terminal answer is also emitted as a FinalResult.
func (w *Magentic) RunStream(ctx context.Context, task string, emit agents.StreamHandler) (string, error) {
	if emit == nil {
		emit = func(events.Event) {}
	}
	plan, err := w.manager.Plan(ctx, task, w.participants)
	if err != nil {
		return "", err
	}
	emit(events.OrchestratorMessage{Activity: "plan", Text: plan})
	w.logger.Info("planned", zap.String("plan", plan))

	var (
		transcript []Turn
		rounds     = atomic.NewInt32(0)
		stalls     = atomic.NewInt32(0)
		resets     = atomic.NewInt32(0)
	)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if int(rounds.Inc()) > w.maxRounds {
			return "", ErrRoundLimit
		}
		decision, err := w.manager.Step(ctx, task, w.participants, transcript)
		if err != nil {
			return "", err
		}
		if decision.Complete {
			emit(events.FinalResult{Text: decision.FinalAnswer})
			w.logger.Info("complete", zap.Int32("rounds", rounds.Load()))
			return decision.FinalAnswer, nil
		}
		if !decision.Progress {
			if int(stalls.Inc()) >= w.maxStalls {
				if int(resets.Inc()) > w.maxResets {
					return "", ErrStallLimit
				}
				transcript = nil
				stalls.Store(0)
				plan, err = w.manager.Plan(ctx, task, w.participants)
				if err != nil {
					return "", err
				}
				emit(events.OrchestratorMessage{Activity: "replan", Text: plan})
				w.logger.Warn("stalled, replanned", zap.Int32("resets", resets.Load()))
				continue
			}
		} else {
			stalls.Store(0)
		}
		speaker, ok := w.byName[decision.NextSpeaker]
		if !ok {
			return "", fmt.Errorf("orchestration: manager selected unknown participant %q", decision.NextSpeaker)
		}
		emit(events.OrchestratorMessage{
			Activity: "instruction",
			Text:     fmt.Sprintf("%s: %s", decision.NextSpeaker, decision.Instruction),
		})
		w.logger.Debug("dispatch",
			zap.String("speaker", decision.NextSpeaker),
			zap.String("instruction", decision.Instruction))
		reply, err := speaker.RunStream(ctx, decision.Instruction, emit)
		if err != nil {
			return "", fmt.Errorf("orchestration: %s: %w", decision.NextSpeaker, err)
		}
		transcript = append(transcript, Turn{Agent: decision.NextSpeaker, Text: reply})
	}
}

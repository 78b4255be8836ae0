package components

import (
	"fmt"
	"sync"

	"github.com/manishdighore/maf-agents/schema"
)

type MemoryStore interface {
	MaxMessages() int
	TurnID() string
	NewTurn() MemoryStore
	NewMessage(MessageRole, schema.Schema) *Message
	History() []Message
	Reset() MemoryStore
	Copy(MemoryStore)
	MessageCount() int
}

// Memory manages the chat history for an AI agent.
// threadsafe
type Memory struct {
	// history is a list of messages representing the chat history.
	history []Message
	// turnID is the ID of the current turn.
	turnID string
	// maxMessages is the maximum number of messages to keep in history.
	// When exceeded, oldest messages are removed first.
	maxMessages int
	// tokenBudget caps history size by token count when > 0.
	tokenBudget int
	// tokenCounter counts tokens for budget-based overflow.
	tokenCounter TokenCounter
	// mtx sync lock
	mtx *sync.RWMutex
}

var _ MemoryStore = (*Memory)(nil)

// NewMemory initializes the Memory with an empty history and optional constraints.
func NewMemory(maxMessages int) *Memory {
	return &Memory{
		maxMessages: maxMessages,
		history:     make([]Message, 0, maxMessages+1),
		mtx:         new(sync.RWMutex),
	}
}

// MaxMessages returns the max number of messages
func (m Memory) MaxMessages() int {
	return m.maxMessages
}

// SetMaxMessages set the max number of messages
func (m *Memory) SetMaxMessages(maxMessages int) *Memory {
	m.maxMessages = maxMessages
	return m
}

// SetTokenBudget caps history by token count using the given counter.
// A zero budget disables token-based overflow.
func (m *Memory) SetTokenBudget(counter TokenCounter, budget int) *Memory {
	m.tokenCounter = counter
	m.tokenBudget = budget
	return m
}

// TurnID returns the current turn ID
func (m Memory) TurnID() string {
	return m.turnID
}

// SetTurnID set the current turn ID
func (m *Memory) SetTurnID(turnID string) MemoryStore {
	m.turnID = turnID
	return m
}

// NewTurn initializes a new turn by generating a random turn ID.
func (m *Memory) NewTurn() MemoryStore {
	return m.SetTurnID(NewTurnID())
}

// NewMessage adds a message to the chat history and manages overflow.
func (m *Memory) NewMessage(role MessageRole, content schema.Schema) *Message {
	msg := NewMessage(role, content).SetTurnID(m.turnID)
	m.mtx.Lock()
	m.history = append(m.history, *msg)
	if m.maxMessages > 0 && len(m.history) > m.maxMessages {
		m.history = m.history[1:]
	}
	if m.tokenBudget > 0 && m.tokenCounter != nil {
		for len(m.history) > 1 && m.historyTokens() > m.tokenBudget {
			m.history = m.history[1:]
		}
	}
	m.mtx.Unlock()
	return msg
}

// historyTokens counts tokens across the whole history. Caller holds the lock.
func (m *Memory) historyTokens() int {
	var total int
	for _, msg := range m.history {
		total += m.tokenCounter.Count(schema.Stringify(msg.Content()))
	}
	return total
}

// SetHistory set a copy of chat history
func (m *Memory) SetHistory(history []Message) *Memory {
	m.mtx.Lock()
	m.history = make([]Message, len(history))
	copy(m.history, history)
	m.mtx.Unlock()
	return m
}

// History retrieves the chat history
func (m *Memory) History() []Message {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.history
}

// Copy creates a copy of the chat memory.
func (m *Memory) Copy(src MemoryStore) {
	m.SetMaxMessages(src.MaxMessages()).SetTurnID(src.TurnID())
	m.SetHistory(src.History())
}

func (m *Memory) Reset() MemoryStore {
	m.mtx.Lock()
	m.history = make([]Message, 0, m.maxMessages)
	m.mtx.Unlock()
	return m
}

// DeleteTurn delete messages from the memory by its turn ID.
// returns error if the specified turn ID is not found in the memory
func (m *Memory) DeleteTurn(turnID string) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	history := make([]Message, 0, len(m.history))
	var found bool
	for _, msg := range m.history {
		if msg.TurnID() == turnID {
			found = true
			continue
		}
		history = append(history, msg)
	}
	if !found {
		return fmt.Errorf("turn '%s' not found in memory", turnID)
	}
	m.history = history
	return nil
}

// MessageCount returns the number of messages in history
func (m *Memory) MessageCount() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return len(m.history)
}

// CountRole returns the number of history messages with the given role
func (m *Memory) CountRole(role MessageRole) int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	var n int
	for _, msg := range m.history {
		if msg.Role() == role {
			n++
		}
	}
	return n
}

package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manishdighore/maf-agents/components"
	"github.com/manishdighore/maf-agents/schema"
)

func TestAgentResetMemoryKeepsSeeds(t *testing.T) {
	seeded := components.NewMemory(0)
	seeded.NewTurn()
	seeded.NewMessage(components.AssistantRole, schema.CreateOutput("Hello, how can I help?"))

	agent := NewAgent[schema.Input, schema.Output](
		WithName("greeter"),
		WithMemory(seeded),
	)
	agent.NewMessage(components.UserRole, schema.String("tell me a joke"))
	require.Equal(t, 2, agent.Memory().MessageCount())

	agent.ResetMemory()
	require.Equal(t, 1, agent.Memory().MessageCount())
	got := schema.Stringify(agent.Memory().History()[0].Content())
	assert.Contains(t, got, "Hello, how can I help?")
}

func TestAgentResetMemoryEmptyStart(t *testing.T) {
	agent := NewAgent[schema.Input, schema.Output](WithName("blank"))
	agent.NewMessage(components.UserRole, schema.String("hi"))
	agent.ResetMemory()
	assert.Equal(t, 0, agent.Memory().MessageCount())
}

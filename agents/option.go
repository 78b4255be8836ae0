package agents

import (
	"github.com/bububa/instructor-go/pkg/instructor"
	openai "github.com/sashabaranov/go-openai"

	"github.com/manishdighore/maf-agents/components"
	"github.com/manishdighore/maf-agents/components/systemprompt"
)

type Option func(c *Config)

func WithClient(clt instructor.Instructor) Option {
	return func(c *Config) {
		c.client = clt
	}
}

// WithChatClient sets the raw chat-completion client used by streaming agents.
func WithChatClient(clt *openai.Client) Option {
	return func(c *Config) {
		c.chatClient = clt
	}
}

func WithMemory(m *components.Memory) Option {
	return func(c *Config) {
		c.memory = m
	}
}

func WithSystemPromptGenerator(g systemprompt.Generator) Option {
	return func(c *Config) {
		c.systemPromptGenerator = g
	}
}

func WithModel(model string) Option {
	return func(c *Config) {
		c.model = model
	}
}

func WithTemperature(temperature float32) Option {
	return func(c *Config) {
		c.temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(c *Config) {
		c.maxTokens = maxTokens
	}
}

func WithName(name string) Option {
	return func(c *Config) {
		c.name = name
	}
}

func WithDescription(desc string) Option {
	return func(c *Config) {
		c.description = desc
	}
}

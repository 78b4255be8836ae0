package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AgentSpec is a declarative agent definition loaded from YAML.
type AgentSpec struct {
	Name         string  `yaml:"name"`
	Description  string  `yaml:"description"`
	Instructions string  `yaml:"instructions"`
	Temperature  float32 `yaml:"temperature"`
	MaxTokens    int     `yaml:"max_tokens"`
}

// AgentsFile is the top-level shape of a declarative agents file.
type AgentsFile struct {
	Task   string      `yaml:"task"`
	Agents []AgentSpec `yaml:"agents"`
}

// LoadAgents parses a declarative agents file.
func LoadAgents(path string) (*AgentsFile, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agents file: %w", err)
	}
	return ParseAgents(bs)
}

// ParseAgents parses declarative agent definitions from YAML bytes.
func ParseAgents(bs []byte) (*AgentsFile, error) {
	var file AgentsFile
	if err := yaml.Unmarshal(bs, &file); err != nil {
		return nil, fmt.Errorf("failed to parse agents file: %w", err)
	}
	for i, spec := range file.Agents {
		if spec.Name == "" {
			return nil, fmt.Errorf("agent #%d has no name", i)
		}
	}
	return &file, nil
}

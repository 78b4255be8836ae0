package config

import (
	"errors"
	"path/filepath"
	"testing"
)

func setFullEnv(t *testing.T) {
	t.Setenv(EnvEndpoint, "https://example.openai.azure.com")
	t.Setenv(EnvChatDeployment, "gpt-4o-mini")
	t.Setenv(EnvAPIVersion, "2024-10-21")
	t.Setenv(EnvResponsesDeployment, "")
	t.Setenv(EnvAPIKey, "")
}

func TestLoadMissingRequired(t *testing.T) {
	setFullEnv(t)
	t.Setenv(EnvChatDeployment, "")
	_, err := LoadFile(filepath.Join(t.TempDir(), ".env"))
	if err == nil {
		t.Fatal("expecting error for missing deployment name")
	}
	var missing *MissingEnvError
	if !errors.As(err, &missing) {
		t.Fatalf("expecting MissingEnvError, got %T", err)
	}
	if missing.Name != EnvChatDeployment {
		t.Errorf("expecting %s reported, got %s", EnvChatDeployment, missing.Name)
	}
}

func TestLoadComplete(t *testing.T) {
	setFullEnv(t)
	cfg, err := LoadFile(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Deployment() != "gpt-4o-mini" {
		t.Errorf("unexpected deployment %q", cfg.Deployment())
	}
}

func TestDeploymentPrefersResponses(t *testing.T) {
	setFullEnv(t)
	t.Setenv(EnvResponsesDeployment, "o4-responses")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Deployment() != "o4-responses" {
		t.Errorf("expecting responses deployment preferred, got %q", cfg.Deployment())
	}
}

func TestParseAgents(t *testing.T) {
	src := []byte(`
task: "compare languages"
agents:
  - name: researcher
    description: finds information
    instructions: "You are a researcher."
    temperature: 0.3
`)
	file, err := ParseAgents(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Agents) != 1 || file.Agents[0].Name != "researcher" {
		t.Fatalf("unexpected parse result: %+v", file)
	}
	if _, err := ParseAgents([]byte("agents:\n  - description: nameless\n")); err == nil {
		t.Error("expecting error for agent without name")
	}
}

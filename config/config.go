// Package config loads the demo configuration from the environment.
//
// A .env file in the working directory is read once at startup; after that
// only process environment variables are consulted. Required variables that
// are missing abort the run before any client is constructed.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names consumed by the demos.
const (
	EnvEndpoint            = "AZURE_OPENAI_ENDPOINT"
	EnvChatDeployment      = "AZURE_OPENAI_CHAT_DEPLOYMENT_NAME"
	EnvResponsesDeployment = "AZURE_OPENAI_RESPONSES_DEPLOYMENT_NAME"
	EnvAPIVersion          = "OPENAI_API_VERSION"
	EnvAPIKey              = "AZURE_OPENAI_API_KEY"
)

// Config holds the hosted chat-completion endpoint settings.
// Immutable for the lifetime of the process.
type Config struct {
	// Endpoint is the Azure OpenAI resource endpoint URL.
	Endpoint string
	// ChatDeployment is the chat-completion deployment name.
	ChatDeployment string
	// ResponsesDeployment optionally overrides ChatDeployment when set.
	ResponsesDeployment string
	// APIVersion is the service API version, e.g. "2024-10-21".
	APIVersion string
	// APIKey authenticates requests. Empty means ambient credentials
	// are expected to be configured on the endpoint.
	APIKey string
}

// MissingEnvError reports a required environment variable that is not set.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("required environment variable %s is not set", e.Name)
}

// Load reads .env (when present) and the environment. It fails fast on any
// missing required variable; value formats are not validated.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is not an
// error; the environment alone may carry the configuration.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	cfg := &Config{
		Endpoint:            os.Getenv(EnvEndpoint),
		ChatDeployment:      os.Getenv(EnvChatDeployment),
		ResponsesDeployment: os.Getenv(EnvResponsesDeployment),
		APIVersion:          os.Getenv(EnvAPIVersion),
		APIKey:              os.Getenv(EnvAPIKey),
	}
	for _, required := range []struct {
		name  string
		value string
	}{
		{EnvEndpoint, cfg.Endpoint},
		{EnvChatDeployment, cfg.ChatDeployment},
		{EnvAPIVersion, cfg.APIVersion},
	} {
		if required.value == "" {
			return nil, &MissingEnvError{Name: required.name}
		}
	}
	return cfg, nil
}

// Deployment returns the deployment the demos should talk to: the responses
// deployment when configured, the chat deployment otherwise.
func (c *Config) Deployment() string {
	if c.ResponsesDeployment != "" {
		return c.ResponsesDeployment
	}
	return c.ChatDeployment
}

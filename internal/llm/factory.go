package llm

import (
	"errors"
	"fmt"
	"os"
)

// ErrDisabled is returned by NewProvider when no provider is configured.
var ErrDisabled = errors.New("llm provider disabled")

// Settings select and configure a provider.
type Settings struct {
	Provider  string
	Model     string
	BaseURL   string
	APIKeyEnv string
}

type endpoint struct {
	baseURL string
	keyEnv  string
}

var endpoints = map[string]endpoint{
	"openai":     {keyEnv: "OPENAI_API_KEY"},
	"openrouter": {baseURL: "https://openrouter.ai/api/v1", keyEnv: "OPENROUTER_API_KEY"},
	"ollama":     {baseURL: "http://localhost:11434/v1"},
}

// NewProvider creates a provider from s. Supported providers: "openai",
// "openrouter", "ollama". An empty provider or "none" returns ErrDisabled.
func NewProvider(s Settings) (Provider, error) {
	if s.Provider == "" || s.Provider == "none" {
		return nil, ErrDisabled
	}
	ep, ok := endpoints[s.Provider]
	if !ok {
		return nil, fmt.Errorf("unsupported provider type: %s", s.Provider)
	}
	if s.Model == "" {
		return nil, fmt.Errorf("provider %s: model is not set", s.Provider)
	}

	baseURL := ep.baseURL
	if s.BaseURL != "" {
		baseURL = s.BaseURL
	}
	keyEnv := ep.keyEnv
	if s.APIKeyEnv != "" {
		keyEnv = s.APIKeyEnv
	}

	// Ollama ignores the key but the client always sends one.
	apiKey := s.Provider
	if keyEnv != "" {
		apiKey = os.Getenv(keyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable is not set", keyEnv)
		}
	}
	return NewOpenAIProvider(s.Provider, apiKey, baseURL, s.Model), nil
}

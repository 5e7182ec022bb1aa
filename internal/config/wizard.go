package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// defaultModels is offered as the model prompt default per provider.
var defaultModels = map[string]string{
	"openai":     "gpt-4o-mini",
	"openrouter": "openai/gpt-4o-mini",
	"ollama":     "llama3",
}

var keyEnvVars = map[string]string{
	"openai":     "OPENAI_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// RunWizard asks for the main settings and saves the result to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to menu-studio! Let's configure your workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	dataDir, err := (&promptui.Prompt{Label: "Data directory", Default: cfg.DataDir}).Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	cfg.DataDir = dataDir

	exportDir, err := (&promptui.Prompt{Label: "Export directory", Default: cfg.ExportDir}).Run()
	if err != nil {
		return nil, fmt.Errorf("export dir: %w", err)
	}
	cfg.ExportDir = exportDir

	portStr, err := (&promptui.Prompt{
		Label:   "Server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p < 1 || p > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}).Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	providerPrompt := promptui.Select{
		Label: "AI menu import (optional)",
		Items: []string{"none", "openai", "openrouter", "ollama"},
	}
	_, provider, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.LLM.Provider = provider

	if cfg.LLMEnabled() {
		model, err := (&promptui.Prompt{Label: "Model", Default: defaultModels[provider]}).Run()
		if err != nil {
			return nil, fmt.Errorf("model: %w", err)
		}
		cfg.LLM.Model = model

		if envVar := keyEnvVars[provider]; envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment before importing with AI.\n", envVar)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

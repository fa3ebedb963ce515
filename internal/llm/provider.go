package llm

import (
	"fmt"

	"github.com/dusk-indust/eventplan/internal/orchestrator"
)

// ProviderKind names a completion backend.
type ProviderKind string

const (
	ProviderAuto   ProviderKind = ""
	ProviderAzure  ProviderKind = "azure"
	ProviderOpenAI ProviderKind = "openai"
	ProviderOllama ProviderKind = "ollama"
)

// Defaults used when the environment names no model.
const (
	DefaultOpenAIModel     = "gpt-4o-mini"
	DefaultOllamaModel     = "llama3.1"
	DefaultAzureAPIVersion = "2024-06-01"
)

// ProviderConfig is a fully resolved completion backend.
type ProviderConfig struct {
	Kind       ProviderKind
	APIKey     string
	BaseURL    string
	APIVersion string
	Model      string
}

// String describes the provider without its credentials.
func (c ProviderConfig) String() string {
	return fmt.Sprintf("%s (model %s)", c.Kind, c.Model)
}

// SelectProvider resolves the completion backend from the environment.
// With ProviderAuto it prefers Azure OpenAI (AZURE_API_KEY and
// AZURE_API_BASE), then OpenAI (OPENAI_API_KEY), then Ollama (OLLAMA_HOST).
// A non-empty model overrides the environment's model or deployment name.
// When nothing usable is found it returns an *orchestrator.ConfigurationError.
func SelectProvider(getenv func(string) string, preferred ProviderKind, model string) (ProviderConfig, error) {
	candidates := []ProviderKind{ProviderAzure, ProviderOpenAI, ProviderOllama}
	if preferred != ProviderAuto {
		candidates = []ProviderKind{preferred}
	}

	for _, kind := range candidates {
		cfg, ok, err := fromEnv(getenv, kind)
		if err != nil {
			return ProviderConfig{}, err
		}
		if !ok {
			continue
		}
		if model != "" {
			cfg.Model = model
		}
		if cfg.Model == "" {
			return ProviderConfig{}, &orchestrator.ConfigurationError{
				Reason: fmt.Sprintf("%s provider selected but no model or deployment name is set", kind),
			}
		}
		return cfg, nil
	}

	if preferred != ProviderAuto {
		return ProviderConfig{}, &orchestrator.ConfigurationError{
			Reason: fmt.Sprintf("provider %q requested but its credentials are not set", preferred),
		}
	}
	return ProviderConfig{}, &orchestrator.ConfigurationError{
		Reason: "no valid API keys found; set AZURE_API_KEY or OPENAI_API_KEY",
	}
}

func fromEnv(getenv func(string) string, kind ProviderKind) (ProviderConfig, bool, error) {
	switch kind {
	case ProviderAzure:
		key, base := getenv("AZURE_API_KEY"), getenv("AZURE_API_BASE")
		if key == "" || base == "" {
			return ProviderConfig{}, false, nil
		}
		version := getenv("AZURE_API_VERSION")
		if version == "" {
			version = DefaultAzureAPIVersion
		}
		return ProviderConfig{
			Kind:       ProviderAzure,
			APIKey:     key,
			BaseURL:    base,
			APIVersion: version,
			Model:      getenv("AZURE_DEPLOYMENT_NAME"),
		}, true, nil

	case ProviderOpenAI:
		key := getenv("OPENAI_API_KEY")
		if key == "" {
			return ProviderConfig{}, false, nil
		}
		model := getenv("OPENAI_MODEL")
		if model == "" {
			model = DefaultOpenAIModel
		}
		return ProviderConfig{
			Kind:    ProviderOpenAI,
			APIKey:  key,
			BaseURL: getenv("OPENAI_API_BASE"),
			Model:   model,
		}, true, nil

	case ProviderOllama:
		host := getenv("OLLAMA_HOST")
		if host == "" {
			return ProviderConfig{}, false, nil
		}
		model := getenv("OLLAMA_MODEL")
		if model == "" {
			model = DefaultOllamaModel
		}
		return ProviderConfig{
			Kind:    ProviderOllama,
			BaseURL: host,
			Model:   model,
		}, true, nil

	default:
		return ProviderConfig{}, false, &orchestrator.ConfigurationError{
			Reason: fmt.Sprintf("unknown provider %q", kind),
		}
	}
}

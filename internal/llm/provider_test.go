package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/eventplan/internal/orchestrator"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestSelectProvider_PrefersAzure(t *testing.T) {
	cfg, err := SelectProvider(envMap(map[string]string{
		"AZURE_API_KEY":         "az-key",
		"AZURE_API_BASE":        "https://example.openai.azure.com",
		"AZURE_DEPLOYMENT_NAME": "gpt-4o",
		"OPENAI_API_KEY":        "sk-test",
	}), ProviderAuto, "")
	require.NoError(t, err)

	assert.Equal(t, ProviderAzure, cfg.Kind)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, DefaultAzureAPIVersion, cfg.APIVersion)
	assert.Equal(t, "azure (model gpt-4o)", cfg.String())
}

func TestSelectProvider_AzureNeedsBase(t *testing.T) {
	cfg, err := SelectProvider(envMap(map[string]string{
		"AZURE_API_KEY":  "az-key",
		"OPENAI_API_KEY": "sk-test",
	}), ProviderAuto, "")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.Kind)
	assert.Equal(t, DefaultOpenAIModel, cfg.Model)
}

func TestSelectProvider_AzureWithoutDeployment(t *testing.T) {
	_, err := SelectProvider(envMap(map[string]string{
		"AZURE_API_KEY":  "az-key",
		"AZURE_API_BASE": "https://example.openai.azure.com",
	}), ProviderAuto, "")
	require.Error(t, err)
	assert.True(t, orchestrator.IsConfigurationError(err))
}

func TestSelectProvider_Ollama(t *testing.T) {
	cfg, err := SelectProvider(envMap(map[string]string{
		"OLLAMA_HOST":  "http://localhost:11434",
		"OLLAMA_MODEL": "mistral",
	}), ProviderAuto, "")
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, cfg.Kind)
	assert.Equal(t, "mistral", cfg.Model)
}

func TestSelectProvider_ModelOverride(t *testing.T) {
	cfg, err := SelectProvider(envMap(map[string]string{
		"OPENAI_API_KEY": "sk-test",
		"OPENAI_MODEL":   "gpt-4o",
	}), ProviderAuto, "gpt-4.1")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", cfg.Model)
}

func TestSelectProvider_Preferred(t *testing.T) {
	env := envMap(map[string]string{
		"OPENAI_API_KEY": "sk-test",
		"OLLAMA_HOST":    "http://localhost:11434",
	})

	cfg, err := SelectProvider(env, ProviderOllama, "")
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, cfg.Kind)

	_, err = SelectProvider(env, ProviderAzure, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `provider "azure" requested`)
}

func TestSelectProvider_NothingConfigured(t *testing.T) {
	_, err := SelectProvider(envMap(nil), ProviderAuto, "")
	require.Error(t, err)

	var ce *orchestrator.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Error(), "no valid API keys found")
}

func TestSelectProvider_UnknownPreferred(t *testing.T) {
	_, err := SelectProvider(envMap(nil), "bedrock", "")
	require.Error(t, err)
	assert.True(t, orchestrator.IsConfigurationError(err))
}

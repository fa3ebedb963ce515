package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/dusk-indust/eventplan/internal/orchestrator"
)

// Compile-time interface check.
var _ orchestrator.StageExecutor = (*Executor)(nil)

// Executor answers pipeline stages with a langchaingo chat model.
type Executor struct {
	model       llms.Model
	provider    string
	temperature float64
	maxTokens   int
}

// Option configures an Executor.
type Option func(*Executor)

// WithTemperature sets the sampling temperature sent with every call.
func WithTemperature(t float64) Option {
	return func(e *Executor) {
		e.temperature = t
	}
}

// WithMaxTokens caps the completion length. Zero leaves the provider default.
func WithMaxTokens(n int) Option {
	return func(e *Executor) {
		e.maxTokens = n
	}
}

// NewExecutor wraps an already constructed model.
func NewExecutor(model llms.Model, provider string, opts ...Option) *Executor {
	e := &Executor{
		model:       model,
		provider:    provider,
		temperature: 0.7,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// New builds the langchaingo client for cfg and wraps it in an Executor.
// Client construction failures are configuration errors.
func New(cfg ProviderConfig, opts ...Option) (*Executor, error) {
	model, err := newModel(cfg)
	if err != nil {
		return nil, &orchestrator.ConfigurationError{
			Reason: fmt.Sprintf("create %s client", cfg.Kind),
			Err:    err,
		}
	}
	return NewExecutor(model, string(cfg.Kind), opts...), nil
}

func newModel(cfg ProviderConfig) (llms.Model, error) {
	switch cfg.Kind {
	case ProviderAzure:
		return openai.New(
			openai.WithAPIType(openai.APITypeAzure),
			openai.WithToken(cfg.APIKey),
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithAPIVersion(cfg.APIVersion),
			openai.WithModel(cfg.Model),
			openai.WithEmbeddingModel(cfg.Model),
		)
	case ProviderOpenAI:
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)
	case ProviderOllama:
		return ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Kind)
	}
}

// Provider returns the name of the backing provider.
func (e *Executor) Provider() string { return e.provider }

// Execute sends the stage instruction to the model, speaking as the task's
// persona, and returns the completion text.
func (e *Executor) Execute(ctx context.Context, task orchestrator.StageTask) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt(task)),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt(task)),
	}

	callOpts := []llms.CallOption{llms.WithTemperature(e.temperature)}
	if e.maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(e.maxTokens))
	}

	resp, err := e.model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", TranslateError(e.provider, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", newProviderError(e.provider, KindEmptyResponse, "no choices returned", nil)
	}

	content := resp.Choices[0].Content
	if strings.TrimSpace(content) == "" {
		return "", newProviderError(e.provider, KindEmptyResponse, "empty completion", nil)
	}
	return content, nil
}

func systemPrompt(task orchestrator.StageTask) string {
	p := task.Persona
	return fmt.Sprintf("You are %s. %s\nYour personal goal is: %s", p.Role, p.Backstory, p.Goal)
}

func userPrompt(task orchestrator.StageTask) string {
	var b strings.Builder
	b.WriteString(task.Instruction)
	if task.ExpectedOutput != "" {
		b.WriteString("\n\nThis is the expected criteria for your final answer: ")
		b.WriteString(task.ExpectedOutput)
		b.WriteString("\nYou MUST return the actual complete content as the final answer, not a summary.")
	}
	return b.String()
}

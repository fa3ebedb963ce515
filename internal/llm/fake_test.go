package llm

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// fakeModel is a configurable llms.Model for tests.
type fakeModel struct {
	generateFn func(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error)
	messages   []llms.MessageContent
	options    llms.CallOptions
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	for _, opt := range opts {
		opt(&m.options)
	}
	if m.generateFn != nil {
		return m.generateFn(ctx, messages, opts...)
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: "ok"}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, opts...)
}

func textOf(mc llms.MessageContent) string {
	for _, part := range mc.Parts {
		if tc, ok := part.(llms.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

//go:build e2e

package e2e

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// stageAnswers maps a persona role to the canned completion returned for it.
var stageAnswers = map[string]string{
	"Venue Coordinator":    "The Grand Hall, Berlin. Seats 600 with breakout rooms.",
	"Logistics Manager":    "Buffet catering for 500, two projectors and a PA system.",
	"Marketing Specialist": "Six week social campaign with early bird tickets.",
}

// scriptedModel answers by persona role, read from the system message. Roles
// listed in fail return that error instead.
type scriptedModel struct {
	mu    sync.Mutex
	fail  map[string]error
	calls []string
}

func (m *scriptedModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	role := roleOf(messages)

	m.mu.Lock()
	m.calls = append(m.calls, role)
	m.mu.Unlock()

	if err, ok := m.fail[role]; ok {
		return nil, err
	}
	answer, ok := stageAnswers[role]
	if !ok {
		return nil, errors.New("unexpected role " + role)
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: answer}}}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, opts...)
}

func (m *scriptedModel) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func roleOf(messages []llms.MessageContent) string {
	for _, mc := range messages {
		if mc.Role != llms.ChatMessageTypeSystem {
			continue
		}
		for _, part := range mc.Parts {
			tc, ok := part.(llms.TextContent)
			if !ok {
				continue
			}
			rest := strings.TrimPrefix(tc.Text, "You are ")
			if i := strings.Index(rest, "."); i > 0 {
				return rest[:i]
			}
		}
	}
	return ""
}

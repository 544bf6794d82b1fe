package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response   string
	Err        error
	Models     []string
	Calls      int
	LastPrompt string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	m.LastPrompt = prompt
	return m.Response, m.Err
}

func (m *MockClient) ListModels(ctx context.Context) ([]string, error) {
	return m.Models, m.Err
}

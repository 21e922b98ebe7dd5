package recipe

import (
	"context"
	"sync"
)

// mockProvider implements RecipeProvider for testing
type mockProvider struct {
	name   string
	recipe string
	err    error

	mu      sync.Mutex
	prompts []string
}

func (m *mockProvider) GenerateRecipe(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	return m.recipe, m.err
}

func (m *mockProvider) Name() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

var (
	_ RecipeProvider = (*mockProvider)(nil)
	_ RecipeProvider = (*GeminiProvider)(nil)
	_ RecipeProvider = (*GroqProvider)(nil)
	_ RecipeProvider = (*OpenAIProvider)(nil)
	_ RecipeProvider = (*ClaudeProvider)(nil)
	_ RecipeProvider = (*FallbackProvider)(nil)
)

package recipe

import "context"

// ProviderType represents the type of AI provider
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderGroq   ProviderType = "groq"
	ProviderOpenAI ProviderType = "openai"
	ProviderClaude ProviderType = "claude"
)

// RecipeProvider turns a prompt into the model's free-text recipe. The text
// is returned as-is; nothing checks it against the requested format.
type RecipeProvider interface {
	GenerateRecipe(ctx context.Context, prompt string) (string, error)
	Name() string
}

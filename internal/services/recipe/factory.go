package recipe

import (
	"github.com/socialchef/chefvoice/internal/config"
	"github.com/socialchef/chefvoice/internal/httpclient"
)

// NewProvider creates the recipe provider selected by the configuration,
// optionally wrapped in a fallback. Config validation guarantees the keys.
func NewProvider(cfg *config.Config) RecipeProvider {
	gc := cfg.Generation
	primary := build(cfg, gc.Provider, gc.Model)

	if gc.FallbackEnabled && gc.FallbackProvider != "" && gc.FallbackProvider != gc.Provider {
		secondary := build(cfg, gc.FallbackProvider, config.DefaultGenerationModel(gc.FallbackProvider))
		return NewFallbackProvider(primary, secondary)
	}

	return primary
}

func build(cfg *config.Config, provider, model string) RecipeProvider {
	client := httpclient.NewInstrumentedClient(cfg.Generation.Timeout)
	key := cfg.APIKey(provider)

	switch ProviderType(provider) {
	case ProviderGroq:
		return NewGroqProvider(key, model, client)
	case ProviderOpenAI:
		return NewOpenAIProvider(key, model, client)
	case ProviderClaude:
		return NewClaudeProvider(key, model, client)
	default:
		return NewGeminiProvider(key, model, client)
	}
}

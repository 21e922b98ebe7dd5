package recipe

import (
	"context"
	"log/slog"
	"time"

	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/metrics"
)

// Generator is the generation adapter the session talks to: one provider
// call per prompt, timed, with deadline errors reported as timeouts.
type Generator struct {
	provider RecipeProvider
}

// NewGenerator wraps a RecipeProvider.
func NewGenerator(provider RecipeProvider) *Generator {
	return &Generator{provider: provider}
}

// Provider returns the wrapped provider.
func (g *Generator) Provider() RecipeProvider {
	return g.provider
}

// GenerateRecipe delegates to the wrapped RecipeProvider
func (g *Generator) GenerateRecipe(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := g.provider.GenerateRecipe(ctx, prompt)
	elapsed := time.Since(start)
	metrics.RecordGeneration(ctx, elapsed, err)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.NewGenerationError("recipe generation timed out", "GENERATION_TIMEOUT", err)
		}
		if _, ok := errors.As(err); !ok {
			return "", errors.NewGenerationError("recipe generation failed", "GENERATION_FAILED", err)
		}
		return "", err
	}
	if text == "" {
		return "", emptyResponse(g.provider.Name())
	}

	slog.DebugContext(ctx, "Recipe generated",
		"provider", g.provider.Name(),
		"duration_ms", elapsed.Milliseconds(),
		"chars", len(text))
	return text, nil
}

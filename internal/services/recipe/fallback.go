package recipe

import (
	"context"
	"log/slog"

	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/metrics"
)

// FallbackProvider implements RecipeProvider with fallback logic
type FallbackProvider struct {
	primary   RecipeProvider
	secondary RecipeProvider
}

// NewFallbackProvider creates a new fallback provider
func NewFallbackProvider(primary, secondary RecipeProvider) *FallbackProvider {
	return &FallbackProvider{
		primary:   primary,
		secondary: secondary,
	}
}

func (f *FallbackProvider) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

// GenerateRecipe tries the primary provider once, then the secondary once on
// retryable errors. Neither provider is ever called twice.
func (f *FallbackProvider) GenerateRecipe(ctx context.Context, prompt string) (string, error) {
	result, err := f.primary.GenerateRecipe(ctx, prompt)
	if err == nil {
		return result, nil
	}

	providerErr := ClassifyError(err, f.primary.Name())

	if !IsRetryableError(err) || ctx.Err() != nil {
		slog.InfoContext(ctx, "Primary provider failed with non-retryable error, not attempting fallback",
			"provider", providerErr.Provider,
			"error_type", providerErr.Type,
			"error", err.Error())
		return "", err
	}

	slog.WarnContext(ctx, "Primary provider failed with retryable error, attempting fallback",
		"provider", providerErr.Provider,
		"fallback_provider", f.secondary.Name(),
		"error_type", providerErr.Type,
		"error", err.Error())
	metrics.RecordFallback(ctx, "generation", f.primary.Name(), f.secondary.Name())

	result, fallbackErr := f.secondary.GenerateRecipe(ctx, prompt)
	if fallbackErr == nil {
		slog.InfoContext(ctx, "Fallback provider succeeded",
			"provider", f.secondary.Name(),
			"primary_error_type", providerErr.Type)
		return result, nil
	}

	fallbackProviderErr := ClassifyError(fallbackErr, f.secondary.Name())
	slog.ErrorContext(ctx, "Both primary and secondary providers failed",
		"primary_error_type", providerErr.Type,
		"primary_error", err.Error(),
		"fallback_error_type", fallbackProviderErr.Type,
		"fallback_error", fallbackErr.Error())

	return "", errors.NewGenerationError(
		"both primary and secondary providers failed",
		"PROVIDER_FALLBACK_FAILED",
		fallbackErr,
	)
}

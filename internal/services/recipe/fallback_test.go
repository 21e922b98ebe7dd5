package recipe

import (
	"context"
	"testing"

	apperrors "github.com/socialchef/chefvoice/internal/errors"
)

func TestFallbackProvider_PrimarySucceeds(t *testing.T) {
	primary := &mockProvider{recipe: "Pancakes"}
	secondary := &mockProvider{recipe: "unused"}

	got, err := NewFallbackProvider(primary, secondary).GenerateRecipe(context.Background(), "prompt")
	if err != nil || got != "Pancakes" {
		t.Fatalf("got %q, %v", got, err)
	}
	if secondary.callCount() != 0 {
		t.Error("secondary should not be called")
	}
}

func TestFallbackProvider_RetryableFallsBack(t *testing.T) {
	primary := &mockProvider{name: "gemini", err: upstreamFailure("Gemini", 429, "quota")}
	secondary := &mockProvider{name: "groq", recipe: "Fried rice"}

	got, err := NewFallbackProvider(primary, secondary).GenerateRecipe(context.Background(), "prompt")
	if err != nil || got != "Fried rice" {
		t.Fatalf("got %q, %v", got, err)
	}
	if primary.callCount() != 1 || secondary.callCount() != 1 {
		t.Errorf("expected one call each, got %d/%d", primary.callCount(), secondary.callCount())
	}
}

func TestFallbackProvider_NonRetryableReturnsOriginal(t *testing.T) {
	original := upstreamFailure("Gemini", 401, "bad key")
	primary := &mockProvider{err: original}
	secondary := &mockProvider{recipe: "unused"}

	_, err := NewFallbackProvider(primary, secondary).GenerateRecipe(context.Background(), "prompt")
	if err != original {
		t.Fatalf("expected original error, got %v", err)
	}
	if secondary.callCount() != 0 {
		t.Error("secondary should not be called on 4xx")
	}
}

func TestFallbackProvider_BothFail(t *testing.T) {
	primary := &mockProvider{err: upstreamFailure("Gemini", 500, "")}
	secondary := &mockProvider{err: upstreamFailure("Groq", 503, "")}

	_, err := NewFallbackProvider(primary, secondary).GenerateRecipe(context.Background(), "prompt")
	appErr, ok := apperrors.As(err)
	if !ok || appErr.ErrorCode != "PROVIDER_FALLBACK_FAILED" || appErr.Type != apperrors.ErrorTypeGeneration {
		t.Fatalf("expected PROVIDER_FALLBACK_FAILED, got %v", err)
	}
}

package transcription

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/metrics"
)

// FallbackProvider implements the TranscriptionProvider interface with fallback logic
type FallbackProvider struct {
	primary   TranscriptionProvider
	secondary TranscriptionProvider
}

// NewFallbackProvider creates a new fallback provider
func NewFallbackProvider(primary, secondary TranscriptionProvider) *FallbackProvider {
	return &FallbackProvider{
		primary:   primary,
		secondary: secondary,
	}
}

func (f *FallbackProvider) Name() string {
	return f.primary.Name() + "+" + f.secondary.Name()
}

// Transcribe tries the primary provider once and, on an upstream outage,
// the secondary once. The same provider is never called twice.
func (f *FallbackProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	result, err := f.primary.Transcribe(ctx, audioPath)
	if err == nil {
		return result, nil
	}

	if !isRetryableError(err) || ctx.Err() != nil {
		slog.InfoContext(ctx, "Primary transcription provider failed, not attempting fallback",
			"provider", f.primary.Name(),
			"error", err.Error())
		return "", err
	}

	slog.WarnContext(ctx, "Primary transcription provider failed, attempting fallback",
		"provider", f.primary.Name(),
		"fallback_provider", f.secondary.Name(),
		"error", err.Error())
	metrics.RecordFallback(ctx, "transcription", f.primary.Name(), f.secondary.Name())

	result, fallbackErr := f.secondary.Transcribe(ctx, audioPath)
	if fallbackErr == nil {
		return result, nil
	}

	slog.ErrorContext(ctx, "Both transcription providers failed",
		"primary_error", err.Error(),
		"fallback_error", fallbackErr.Error())
	return "", errors.NewTranscriptionError(
		"both primary and secondary transcription providers failed",
		"PROVIDER_FALLBACK_FAILED",
		fallbackErr,
	)
}

// isRetryableError reports whether another provider might succeed: upstream
// 5xx and 429 answers and transport failures qualify, bad audio does not.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if status, ok := errors.UpstreamStatus(err); ok {
		return status >= 500 || status == http.StatusTooManyRequests
	}
	if appErr, ok := errors.As(err); ok {
		switch appErr.ErrorCode {
		case "AUDIO_FILE_ERROR", "TRANSCRIPTION_NOT_CONFIGURED":
			return false
		}
		return appErr.IsRetryable()
	}
	return false
}

package transcription

import (
	"log/slog"

	"github.com/socialchef/chefvoice/internal/config"
	"github.com/socialchef/chefvoice/internal/httpclient"
)

// NewProvider creates the transcription provider selected by the
// configuration, wrapped in a fallback when enabled and its key is present.
// Without a key for the primary provider a DisabledProvider is returned.
func NewProvider(cfg *config.Config) TranscriptionProvider {
	tc := cfg.Transcription
	if cfg.APIKey(tc.Provider) == "" {
		slog.Warn("No API key for transcription provider, speech input disabled", "provider", tc.Provider)
		return NewDisabledProvider(tc.Provider)
	}

	primary := build(cfg, tc.Provider, tc.Model)

	if tc.FallbackEnabled && tc.FallbackProvider != tc.Provider {
		if cfg.APIKey(tc.FallbackProvider) == "" {
			slog.Warn("Transcription fallback enabled without API key, ignoring", "fallback_provider", tc.FallbackProvider)
			return primary
		}
		secondary := build(cfg, tc.FallbackProvider, config.DefaultTranscriptionModel(tc.FallbackProvider))
		return NewFallbackProvider(primary, secondary)
	}

	return primary
}

func build(cfg *config.Config, provider, model string) TranscriptionProvider {
	client := httpclient.NewInstrumentedClient(cfg.Transcription.Timeout)
	switch ProviderType(provider) {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAIKey, model, client)
	default:
		return NewGroqProvider(cfg.GroqKey, model, client)
	}
}

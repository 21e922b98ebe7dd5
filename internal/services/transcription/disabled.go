package transcription

import (
	"context"

	"github.com/socialchef/chefvoice/internal/errors"
)

// DisabledProvider stands in when no transcription credential is configured.
type DisabledProvider struct {
	provider string
}

func NewDisabledProvider(provider string) *DisabledProvider {
	return &DisabledProvider{provider: provider}
}

func (p *DisabledProvider) Name() string { return "disabled" }

func (p *DisabledProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	err := errors.NewTranscriptionError("speech transcription is not configured", "TRANSCRIPTION_NOT_CONFIGURED", nil)
	err.Recovery = "Type your ingredients instead, or set the API key for the " + p.provider + " transcription provider."
	return "", err
}

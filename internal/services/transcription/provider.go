package transcription

import (
	"context"
)

type ProviderType string

const (
	ProviderGroq   ProviderType = "groq"
	ProviderOpenAI ProviderType = "openai"
)

// TranscriptionProvider turns an audio file on disk into plain text.
// Implementations hold no per-call state and are shared for the process lifetime.
type TranscriptionProvider interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
	Name() string
}

package transcription

import (
	"context"
	"sync"
)

// mockProvider implements the TranscriptionProvider interface for testing
type mockProvider struct {
	name          string
	transcription string
	err           error

	mu    sync.Mutex
	calls []string
}

func (m *mockProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, audioPath)
	m.mu.Unlock()
	return m.transcription, m.err
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
	return len(m.calls)
}

var (
	_ TranscriptionProvider = (*mockProvider)(nil)
	_ TranscriptionProvider = (*GroqProvider)(nil)
	_ TranscriptionProvider = (*OpenAIProvider)(nil)
	_ TranscriptionProvider = (*FallbackProvider)(nil)
	_ TranscriptionProvider = (*DisabledProvider)(nil)
)

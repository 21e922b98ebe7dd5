package transcription

import (
	"context"
	"net/http"
	"testing"

	"github.com/socialchef/chefvoice/internal/errors"
)

func upstreamFailure(status int) error {
	return errors.NewTranscriptionError("failed", "GROQ_API_HTTP_ERROR",
		&errors.UpstreamError{Provider: "Groq", StatusCode: status})
}

func TestFallbackProvider_PrimarySucceeds(t *testing.T) {
	primary := &mockProvider{transcription: "eggs and ham"}
	secondary := &mockProvider{transcription: "unused"}

	result, err := NewFallbackProvider(primary, secondary).Transcribe(context.Background(), "/tmp/a.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "eggs and ham" {
		t.Errorf("got %q", result)
	}
	if secondary.callCount() != 0 {
		t.Error("secondary should not be called")
	}
}

func TestFallbackProvider_ServerErrorFallsBack(t *testing.T) {
	primary := &mockProvider{err: upstreamFailure(http.StatusServiceUnavailable)}
	secondary := &mockProvider{transcription: "chicken, rice"}

	result, err := NewFallbackProvider(primary, secondary).Transcribe(context.Background(), "/tmp/a.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "chicken, rice" {
		t.Errorf("got %q", result)
	}
	if primary.callCount() != 1 || secondary.callCount() != 1 {
		t.Errorf("expected one call each, got %d/%d", primary.callCount(), secondary.callCount())
	}
}

func TestFallbackProvider_ClientErrorDoesNotFallBack(t *testing.T) {
	primary := &mockProvider{err: upstreamFailure(http.StatusBadRequest)}
	secondary := &mockProvider{transcription: "unused"}

	_, err := NewFallbackProvider(primary, secondary).Transcribe(context.Background(), "/tmp/a.wav")
	if err == nil {
		t.Fatal("expected error")
	}
	if secondary.callCount() != 0 {
		t.Error("secondary should not be called on 4xx")
	}
}

func TestFallbackProvider_BothFail(t *testing.T) {
	primary := &mockProvider{err: upstreamFailure(http.StatusTooManyRequests)}
	secondary := &mockProvider{err: upstreamFailure(http.StatusInternalServerError)}

	_, err := NewFallbackProvider(primary, secondary).Transcribe(context.Background(), "/tmp/a.wav")
	appErr, ok := errors.As(err)
	if !ok || appErr.ErrorCode != "PROVIDER_FALLBACK_FAILED" {
		t.Fatalf("expected PROVIDER_FALLBACK_FAILED, got %v", err)
	}
}

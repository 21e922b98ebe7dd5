package transcription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/openai/openai-go/v3/option"

	"github.com/socialchef/chefvoice/internal/errors"
)

func TestOpenAIProvider(t *testing.T) {
	tempFile := createTempAudioFile(t, "audio-9.mp3")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-openai-key" {
			t.Errorf("unexpected Authorization header %q", auth)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Errorf("Failed to parse multipart form: %v", err)
			return
		}
		if model := r.FormValue("model"); model != "gpt-4o-mini-transcribe" {
			t.Errorf("unexpected model %q", model)
		}
		if _, header, err := r.FormFile("file"); err != nil || header.Filename != "audio-9.mp3" {
			t.Errorf("unexpected file part: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "tomatoes, basil, mozzarella"}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-openai-key", "", nil, option.WithBaseURL(server.URL+"/v1/"))

	result, err := provider.Transcribe(context.Background(), tempFile)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if result != "tomatoes, basil, mozzarella" {
		t.Errorf("unexpected transcription %q", result)
	}
}

func TestOpenAIProvider_ServerErrorIsNotRetriedBySDK(t *testing.T) {
	tempFile := createTempAudioFile(t, "audio.wav")
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "model overloaded", "type": "server_error"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-openai-key", "", nil, option.WithBaseURL(server.URL+"/v1/"))

	_, err := provider.Transcribe(context.Background(), tempFile)
	if !errors.IsType(err, errors.ErrorTypeTranscription) {
		t.Fatalf("Expected TRANSCRIPTION_ERROR, got %v", err)
	}
	if status, ok := errors.UpstreamStatus(err); !ok || status != http.StatusInternalServerError {
		t.Errorf("Expected upstream status 500, got %d", status)
	}
	if !isRetryableError(err) {
		t.Error("a 500 should be eligible for fallback")
	}
	if calls.Load() != 1 {
		t.Errorf("Expected exactly one request, got %d", calls.Load())
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("Expected status in message, got %v", err)
	}
}

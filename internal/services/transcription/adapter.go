package transcription

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/metrics"
)

// SupportedExtensions is the audio allow-list. Only the extension is checked.
var SupportedExtensions = []string{".wav", ".mp3"}

// Upload is an audio blob received from the user.
type Upload struct {
	Filename string
	Data     io.Reader
	// Size is the declared length, or <= 0 when unknown.
	Size int64
}

// ProviderAdapter validates uploads, persists them to a temp file and hands
// the path to the wrapped TranscriptionProvider.
type ProviderAdapter struct {
	provider TranscriptionProvider
	maxBytes int64
	tempDir  string
}

// NewProviderAdapter creates a new ProviderAdapter that wraps a TranscriptionProvider
func NewProviderAdapter(provider TranscriptionProvider, maxBytes int64) *ProviderAdapter {
	return &ProviderAdapter{
		provider: provider,
		maxBytes: maxBytes,
	}
}

// Provider returns the wrapped provider.
func (a *ProviderAdapter) Provider() TranscriptionProvider {
	return a.provider
}

// ValidateFilename checks the upload name against the extension allow-list.
func ValidateFilename(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range SupportedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return errors.NewInputError(
		fmt.Sprintf("unsupported audio format %q", ext),
		"UNSUPPORTED_AUDIO_FORMAT",
		"Upload a WAV or MP3 file.",
	)
}

// TranscribeUpload transcribes one uploaded recording. The temp file is
// removed before returning, whatever the outcome.
func (a *ProviderAdapter) TranscribeUpload(ctx context.Context, up Upload) (string, error) {
	if err := ValidateFilename(up.Filename); err != nil {
		return "", err
	}
	if a.maxBytes > 0 && up.Size > a.maxBytes {
		return "", a.tooLarge()
	}

	audioPath, err := a.persist(up)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(audioPath); err != nil && !os.IsNotExist(err) {
			slog.WarnContext(ctx, "Failed to remove temp audio file", "path", audioPath, "error", err)
		}
	}()

	start := time.Now()
	text, err := a.provider.Transcribe(ctx, audioPath)
	metrics.RecordTranscription(ctx, time.Since(start), err)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.NewTranscriptionError("transcription timed out", "TRANSCRIPTION_TIMEOUT", err)
		}
		return "", err
	}

	slog.DebugContext(ctx, "Transcription finished",
		"provider", a.provider.Name(),
		"duration_ms", time.Since(start).Milliseconds(),
		"chars", len(text))
	return text, nil
}

func (a *ProviderAdapter) persist(up Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	f, err := os.CreateTemp(a.tempDir, "audio-*"+ext)
	if err != nil {
		return "", errors.NewTranscriptionError("failed to create temp audio file", "AUDIO_TEMP_FILE_ERROR", err)
	}

	src := up.Data
	if a.maxBytes > 0 {
		src = io.LimitReader(up.Data, a.maxBytes+1)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	fail := func(err error) (string, error) {
		os.Remove(f.Name())
		return "", err
	}
	switch {
	case copyErr != nil:
		return fail(errors.NewTranscriptionError("failed to save uploaded audio", "AUDIO_SAVE_ERROR", copyErr))
	case closeErr != nil:
		return fail(errors.NewTranscriptionError("failed to save uploaded audio", "AUDIO_SAVE_ERROR", closeErr))
	case n == 0:
		return fail(errors.NewInputError("the uploaded audio file is empty", "EMPTY_AUDIO", "Record again and upload a non-empty WAV or MP3 file."))
	case a.maxBytes > 0 && n > a.maxBytes:
		return fail(a.tooLarge())
	}
	return f.Name(), nil
}

// tooLarge matches the 413 the HTTP layer returns when the request body
// itself overflows.
func (a *ProviderAdapter) tooLarge() error {
	err := errors.NewInputError(
		fmt.Sprintf("audio file exceeds the %d MiB limit", a.maxBytes>>20),
		"AUDIO_TOO_LARGE",
		"Upload a shorter recording.",
	)
	err.StatusCode = http.StatusRequestEntityTooLarge
	return err
}

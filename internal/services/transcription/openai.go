package transcription

import (
	"context"
	stderrors "errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/httpclient"
)

const defaultOpenAIModel = "gpt-4o-mini-transcribe"

// OpenAIProvider implements the TranscriptionProvider interface with the
// official OpenAI SDK.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI transcription provider. Extra
// request options are appended after the defaults (tests use them to point
// the client at a local server).
func NewOpenAIProvider(apiKey, model string, httpClient *http.Client, opts ...option.RequestOption) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		base = append(base, option.WithHTTPClient(httpClient))
	}
	return &OpenAIProvider{
		client: openai.NewClient(append(base, opts...)...),
		model:  model,
	}
}

func (p *OpenAIProvider) Name() string { return string(ProviderOpenAI) }

// Transcribe transcribes an audio file using OpenAI's transcription API
func (p *OpenAIProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audioFile, err := os.Open(audioPath)
	if err != nil {
		return "", errors.NewTranscriptionError("failed to open audio file", "AUDIO_FILE_ERROR", err)
	}
	defer audioFile.Close()

	name := filepath.Base(audioPath)
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := p.client.Audio.Transcriptions.New(httpclient.WithProvider(ctx, "OpenAI"), openai.AudioTranscriptionNewParams{
		File:  openai.File(audioFile, name, contentType),
		Model: openai.AudioModel(p.model),
	})
	if err != nil {
		var apiErr *openai.Error
		if stderrors.As(err, &apiErr) {
			upstream := &errors.UpstreamError{Provider: "OpenAI", StatusCode: apiErr.StatusCode, Body: apiErr.Message}
			return "", errors.NewTranscriptionError(fmt.Sprintf("OpenAI transcription failed with status %d", apiErr.StatusCode), "OPENAI_API_HTTP_ERROR", upstream)
		}
		return "", errors.NewTranscriptionError("failed to call OpenAI transcription API", "OPENAI_API_ERROR", err)
	}

	return resp.Text, nil
}

package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/httpclient"
)

const defaultGroqModel = "whisper-large-v3-turbo"

type transcriptionResponse struct {
	Text string `json:"text"`
}

// GroqProvider implements the TranscriptionProvider interface for Groq
type GroqProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string
}

// NewGroqProvider creates a new Groq transcription provider. A nil client
// gets a plain client with a three minute timeout.
func NewGroqProvider(apiKey, model string, httpClient *http.Client) *GroqProvider {
	if model == "" {
		model = defaultGroqModel
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Minute}
	}
	return &GroqProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
		baseURL:    "https://api.groq.com/openai/v1",
	}
}

func (p *GroqProvider) Name() string { return string(ProviderGroq) }

// Transcribe transcribes an audio file using Groq's transcription API
func (p *GroqProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audioFile, err := os.Open(audioPath)
	if err != nil {
		return "", errors.NewTranscriptionError("failed to open audio file", "AUDIO_FILE_ERROR", err)
	}
	defer audioFile.Close()

	// Stream the multipart body so large recordings are never held in memory
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, audioFile); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := writer.WriteField("model", p.model); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := writer.WriteField("response_format", "json"); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(writer.Close())
	}()

	groqReq, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Groq"), http.MethodPost, p.baseURL+"/audio/transcriptions", pr)
	if err != nil {
		pr.Close()
		return "", errors.NewTranscriptionError("failed to create Groq request", "GROQ_REQUEST_ERROR", err)
	}
	groqReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	groqReq.Header.Set("Content-Type", writer.FormDataContentType())

	groqResp, err := p.httpClient.Do(groqReq)
	if err != nil {
		pr.Close()
		return "", errors.NewTranscriptionError("failed to call Groq transcription API", "GROQ_API_ERROR", err)
	}
	defer groqResp.Body.Close()

	respBody, err := io.ReadAll(groqResp.Body)
	if err != nil {
		return "", errors.NewTranscriptionError("failed to read Groq response", "READ_RESPONSE_ERROR", err)
	}

	if groqResp.StatusCode != http.StatusOK {
		upstream := &errors.UpstreamError{Provider: "Groq", StatusCode: groqResp.StatusCode, Body: string(respBody)}
		return "", errors.NewTranscriptionError(fmt.Sprintf("Groq transcription failed with status %d", groqResp.StatusCode), "GROQ_API_HTTP_ERROR", upstream)
	}

	var transResp transcriptionResponse
	if err := json.Unmarshal(respBody, &transResp); err != nil {
		return "", errors.NewTranscriptionError("failed to parse Groq response", "PARSE_RESPONSE_ERROR", err)
	}

	return transResp.Text, nil
}

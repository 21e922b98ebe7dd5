package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/httpclient"
)

const defaultGroqModel = "llama-3.3-70b-versatile"

// GroqProvider implements RecipeProvider for Groq's OpenAI-compatible chat API
type GroqProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string
}

// NewGroqProvider creates a new Groq recipe provider
func NewGroqProvider(apiKey, model string, httpClient *http.Client) *GroqProvider {
	if model == "" {
		model = defaultGroqModel
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &GroqProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
		baseURL:    "https://api.groq.com/openai/v1",
	}
}

func (p *GroqProvider) Name() string { return string(ProviderGroq) }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateRecipe generates a recipe using Groq's API
func (p *GroqProvider) GenerateRecipe(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    p.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", errors.NewInternalError("failed to encode Groq request", err)
	}

	httpReq, err := http.NewRequestWithContext(httpclient.WithProvider(ctx, "Groq"), http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.NewGenerationError("failed to create Groq request", "GROQ_REQUEST_ERROR", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", errors.NewGenerationError("failed to call Groq API", "GROQ_API_ERROR", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewGenerationError("failed to read Groq response", "READ_RESPONSE_ERROR", err)
	}

	if resp.StatusCode >= 400 {
		return "", upstreamFailure("Groq", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", errors.NewGenerationError("failed to parse Groq response", "PARSE_RESPONSE_ERROR", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", emptyResponse("Groq")
	}

	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", emptyResponse("Groq")
	}
	return text, nil
}

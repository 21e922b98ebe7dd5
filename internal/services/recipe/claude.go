package recipe

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"sync"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/httpclient"
)

const (
	defaultClaudeModel = "claude-3-5-haiku-latest"
	claudeMaxTokens    = 2048
)

// ClaudeProvider implements RecipeProvider for the Anthropic Messages API
type ClaudeProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string

	once sync.Once
	sdk  *anthropic.Client
}

// NewClaudeProvider creates a new Claude recipe provider
func NewClaudeProvider(apiKey, model string, httpClient *http.Client) *ClaudeProvider {
	if model == "" {
		model = defaultClaudeModel
	}
	return &ClaudeProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

func (p *ClaudeProvider) Name() string { return string(ProviderClaude) }

func (p *ClaudeProvider) client() *anthropic.Client {
	p.once.Do(func() {
		var opts []anthropic.ClientOption
		if p.httpClient != nil {
			opts = append(opts, anthropic.WithHTTPClient(p.httpClient))
		}
		if p.baseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(p.baseURL))
		}
		p.sdk = anthropic.NewClient(p.apiKey, opts...)
	})
	return p.sdk
}

// GenerateRecipe generates a recipe from a single user message
func (p *ClaudeProvider) GenerateRecipe(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client().CreateMessages(httpclient.WithProvider(ctx, "Claude"), anthropic.MessagesRequest{
		Model:     anthropic.Model(p.model),
		Messages:  []anthropic.Message{anthropic.NewUserTextMessage(prompt)},
		MaxTokens: claudeMaxTokens,
	})
	if err != nil {
		return "", claudeFailure(err)
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		sb.WriteString(c.GetText())
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", emptyResponse("Claude")
	}
	return text, nil
}

// claudeStatus maps Anthropic error types to the HTTP status the API sends
// with them.
var claudeStatus = map[string]int{
	"invalid_request_error": http.StatusBadRequest,
	"authentication_error":  http.StatusUnauthorized,
	"permission_error":      http.StatusForbidden,
	"not_found_error":       http.StatusNotFound,
	"request_too_large":     http.StatusRequestEntityTooLarge,
	"rate_limit_error":      http.StatusTooManyRequests,
	"api_error":             http.StatusInternalServerError,
	"overloaded_error":      529,
}

func claudeFailure(err error) error {
	var reqErr *anthropic.RequestError
	if stderrors.As(err, &reqErr) && reqErr.StatusCode != 0 {
		return upstreamFailure("Claude", reqErr.StatusCode, err.Error())
	}
	var apiErr *anthropic.APIError
	if stderrors.As(err, &apiErr) {
		if status, ok := claudeStatus[string(apiErr.Type)]; ok {
			return upstreamFailure("Claude", status, apiErr.Message)
		}
	}
	return errors.NewGenerationError("failed to call Claude API", "CLAUDE_API_ERROR", err)
}

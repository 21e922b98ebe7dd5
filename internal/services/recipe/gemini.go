package recipe

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/httpclient"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements RecipeProvider for the Gemini API
type GeminiProvider struct {
	apiKey     string
	model      string
	httpClient *http.Client
	baseURL    string

	once      sync.Once
	sdk       *genai.Client
	clientErr error
}

// NewGeminiProvider creates a new Gemini recipe provider
func NewGeminiProvider(apiKey, model string, httpClient *http.Client) *GeminiProvider {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiProvider{
		apiKey:     apiKey,
		model:      model,
		httpClient: httpClient,
	}
}

func (p *GeminiProvider) Name() string { return string(ProviderGemini) }

// client builds the SDK client on first use and reuses it afterwards.
func (p *GeminiProvider) client(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		cfg := &genai.ClientConfig{
			APIKey:     p.apiKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: p.httpClient,
		}
		if p.baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL, APIVersion: "v1beta"}
		}
		p.sdk, p.clientErr = genai.NewClient(ctx, cfg)
	})
	return p.sdk, p.clientErr
}

// GenerateRecipe sends the prompt as a single user turn
func (p *GeminiProvider) GenerateRecipe(ctx context.Context, prompt string) (string, error) {
	ctx = httpclient.WithProvider(ctx, "Gemini")

	client, err := p.client(ctx)
	if err != nil {
		return "", errors.NewGenerationError("failed to create Gemini client", "CLIENT_ERROR", err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, nil)
	if err != nil {
		var apiErr genai.APIError
		if stderrors.As(err, &apiErr) {
			return "", upstreamFailure("Gemini", apiErr.Code, apiErr.Message)
		}
		return "", errors.NewGenerationError("failed to call Gemini API", "GEMINI_API_ERROR", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", emptyResponse("Gemini")
	}
	return text, nil
}

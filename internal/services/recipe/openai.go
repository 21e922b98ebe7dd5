package recipe

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/httpclient"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider implements RecipeProvider with the OpenAI chat completions API
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI recipe provider. SDK retries are
// disabled; a failed call is reported, never repeated.
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

// GenerateRecipe generates a recipe using a single user message
func (p *OpenAIProvider) GenerateRecipe(ctx context.Context, prompt string) (string, error) {
	completion, err := p.client.Chat.Completions.New(httpclient.WithProvider(ctx, "OpenAI"), openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(p.model),
	})
	if err != nil {
		var apiErr *openai.Error
		if stderrors.As(err, &apiErr) {
			return "", upstreamFailure("OpenAI", apiErr.StatusCode, apiErr.Message)
		}
		return "", errors.NewGenerationError("failed to call OpenAI API", "OPENAI_API_ERROR", err)
	}

	if len(completion.Choices) == 0 {
		return "", emptyResponse("OpenAI")
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", emptyResponse("OpenAI")
	}
	return text, nil
}

package recipe

import (
	"fmt"
	"strings"

	"github.com/socialchef/chefvoice/internal/errors"
)

// ProviderError represents a classified error from an AI provider
type ProviderError struct {
	Type     string // "rate_limit", "credit_exhausted", "server_error", "client_error", "unknown"
	Message  string
	Provider string
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	return e.Message
}

func classify(msg, provider, kind string) *ProviderError {
	return &ProviderError{Type: kind, Message: msg, Provider: provider}
}

// ClassifyError analyzes an error and returns a ProviderError with classification.
// An upstream HTTP status wins; otherwise the message is inspected.
func ClassifyError(err error, provider string) *ProviderError {
	if err == nil {
		return nil
	}

	msg := err.Error()

	if status, ok := errors.UpstreamStatus(err); ok {
		switch {
		case status == 429:
			return classify(msg, provider, "rate_limit")
		case status == 402:
			return classify(msg, provider, "credit_exhausted")
		case status >= 500:
			return classify(msg, provider, "server_error")
		case status >= 400:
			return classify(msg, provider, "client_error")
		}
	}

	if containsAny(msg, "status 429", "HTTP 429", "rate limit", "rate_limit", "too many requests") {
		return classify(msg, provider, "rate_limit")
	}

	if containsAny(msg, "status 402", "HTTP 402", "insufficient credit", "credit exhausted", "billing") {
		return classify(msg, provider, "credit_exhausted")
	}

	if containsAny(msg, "status 5", "HTTP 5", "server error", "internal error", "overloaded") {
		return classify(msg, provider, "server_error")
	}

	if containsAny(msg, "status 4", "HTTP 4", "bad request", "unauthorized", "forbidden", "invalid_request") {
		return classify(msg, provider, "client_error")
	}

	return classify(msg, provider, "unknown")
}

// IsRetryableError returns true if a different provider may succeed (rate
// limit, credit exhausted or server error).
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	switch ClassifyError(err, "").Type {
	case "rate_limit", "credit_exhausted", "server_error":
		return true
	default:
		return false
	}
}

// upstreamFailure wraps a provider HTTP error as a GENERATION_ERROR.
func upstreamFailure(provider string, status int, body string) *errors.AppError {
	return errors.NewGenerationError(
		fmt.Sprintf("%s generation failed with status %d", provider, status),
		"UPSTREAM_FAILED",
		&errors.UpstreamError{Provider: provider, StatusCode: status, Body: body},
	)
}

func emptyResponse(provider string) *errors.AppError {
	return errors.NewGenerationError(provider+" returned an empty recipe", "EMPTY_RESPONSE", nil)
}

// containsAny checks s for any of the substrings, ignoring case
func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/socialchef/chefvoice/internal/metrics"
)

// DefaultTransport is the base transport used by the instrumented client.
var DefaultTransport = http.DefaultTransport

type contextKey string

const providerKey contextKey = "httpclient.provider"

// WithProvider adds a provider name to the context for tracing and metrics.
func WithProvider(ctx context.Context, provider string) context.Context {
	return context.WithValue(ctx, providerKey, provider)
}

// Provider returns the name set by WithProvider.
func Provider(ctx context.Context) string {
	p, _ := ctx.Value(providerKey).(string)
	return p
}

// providerTransport tags the span with the provider and records
// external.api.* metrics for every round trip.
type providerTransport struct {
	base http.RoundTripper
}

func (t *providerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	span := trace.SpanFromContext(req.Context())
	provider := Provider(req.Context())
	if provider != "" {
		span.SetAttributes(attribute.String("provider", provider))
	} else {
		provider = req.URL.Host
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	operation := path.Base(req.URL.Path)
	if err != nil {
		metrics.RecordExternalCall(req.Context(), provider, operation, time.Since(start), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var statusErr error
	if resp.StatusCode >= 400 {
		statusErr = fmt.Errorf("HTTP status %d", resp.StatusCode)
		span.SetStatus(codes.Error, statusErr.Error())
	}
	metrics.RecordExternalCall(req.Context(), provider, operation, time.Since(start), statusErr)
	return resp, nil
}

func newOtelTransport(base http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(&providerTransport{base: base},
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			if provider := Provider(r.Context()); provider != "" {
				return fmt.Sprintf("%s: %s %s", provider, r.Method, r.URL.Path)
			}
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
	)
}

// NewInstrumentedClient returns a new http.Client with OpenTelemetry instrumentation and custom timeout.
func NewInstrumentedClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: newOtelTransport(DefaultTransport),
		Timeout:   timeout,
	}
}

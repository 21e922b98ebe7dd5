package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("chefvoice/business")

	// Speech and generation metrics
	TranscriptionDuration metric.Float64Histogram
	AIGenerationDuration  metric.Float64Histogram

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter
	ExternalAPIDuration   metric.Float64Histogram

	// Provider fallback metrics
	ProviderFallbackTotal metric.Int64Counter

	// Recipe store metrics
	RecipeSavesTotal metric.Int64Counter
)

func Init() error {
	var err error

	TranscriptionDuration, err = meter.Float64Histogram(
		"transcription.duration",
		metric.WithDescription("Duration of speech transcription"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 30, 60, 180),
	)
	if err != nil {
		return err
	}

	AIGenerationDuration, err = meter.Float64Histogram(
		"ai.generation.duration",
		metric.WithDescription("Duration of AI recipe generation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	ProviderFallbackTotal, err = meter.Int64Counter(
		"provider.fallback.total",
		metric.WithDescription("Total number of provider fallback events"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeSavesTotal, err = meter.Int64Counter(
		"recipe.saves.total",
		metric.WithDescription("Total number of recipe save attempts"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}

func status(err error) attribute.KeyValue {
	if err != nil {
		return attribute.String("status", "error")
	}
	return attribute.String("status", "ok")
}

// RecordExternalCall records one call to a hosted provider API.
// The helpers in this file are no-ops until Init has run.
func RecordExternalCall(ctx context.Context, provider, operation string, elapsed time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		status(err),
	)
	if ExternalAPICallsTotal != nil {
		ExternalAPICallsTotal.Add(ctx, 1, attrs)
	}
	if ExternalAPIDuration != nil {
		ExternalAPIDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

func RecordTranscription(ctx context.Context, elapsed time.Duration, err error) {
	if TranscriptionDuration != nil {
		TranscriptionDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(status(err)))
	}
}

func RecordGeneration(ctx context.Context, elapsed time.Duration, err error) {
	if AIGenerationDuration != nil {
		AIGenerationDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(status(err)))
	}
}

func RecordFallback(ctx context.Context, kind, from, to string) {
	if ProviderFallbackTotal != nil {
		ProviderFallbackTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("from", from),
			attribute.String("to", to),
		))
	}
}

func RecordSave(ctx context.Context, backend string, err error) {
	if RecipeSavesTotal != nil {
		RecipeSavesTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("backend", backend),
			status(err),
		))
	}
}

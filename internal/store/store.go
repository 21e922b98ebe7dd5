// Package store persists the ordered list of saved recipes.
package store

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/socialchef/chefvoice/internal/config"
	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/metrics"
	"github.com/socialchef/chefvoice/internal/telemetry"
)

// RecipeStore is an append-only, ordered sequence of recipe texts.
// ReadAll returns recipes in save order and an empty slice (never an error)
// when nothing has been saved yet. Duplicates are allowed.
type RecipeStore interface {
	ReadAll(ctx context.Context) ([]string, error)
	Append(ctx context.Context, recipe string) error
	Close() error
}

// New opens the backend selected by cfg.Store.Backend.
func New(ctx context.Context, cfg *config.Config) (RecipeStore, error) {
	var (
		s   RecipeStore
		err error
	)
	switch cfg.Store.Backend {
	case "file", "":
		s = NewFileStore(cfg.Store.Path)
	case "sqlite":
		s, err = NewSQLiteStore(ctx, cfg.Store.Path)
	case "redis":
		s, err = NewRedisStore(ctx, cfg.RedisURL, DefaultRedisKey)
	case "postgres":
		s, err = NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return nil, errors.NewConfigurationError(fmt.Sprintf("unknown store backend %q", cfg.Store.Backend), "UNKNOWN_BACKEND")
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, cfg.Store.Backend), nil
}

type instrumented struct {
	inner   RecipeStore
	backend string
}

// Instrument adds a span and the recipe.saves.total metric around a store.
func Instrument(s RecipeStore, backend string) RecipeStore {
	if backend == "" {
		backend = "file"
	}
	return &instrumented{inner: s, backend: backend}
}

func (s *instrumented) ReadAll(ctx context.Context) ([]string, error) {
	ctx, span := telemetry.Tracer("store").Start(ctx, "store.ReadAll")
	defer span.End()
	span.SetAttributes(attribute.String("store.backend", s.backend))

	recipes, err := s.inner.ReadAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("store.recipes", len(recipes)))
	return recipes, nil
}

func (s *instrumented) Append(ctx context.Context, recipe string) error {
	ctx, span := telemetry.Tracer("store").Start(ctx, "store.Append")
	defer span.End()
	span.SetAttributes(attribute.String("store.backend", s.backend))

	start := time.Now()
	err := checkEncoding(recipe)
	if err == nil {
		err = s.inner.Append(ctx, recipe)
	}
	metrics.RecordSave(ctx, s.backend, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.Int64("store.append_ms", time.Since(start).Milliseconds()))
	return nil
}

func (s *instrumented) Close() error {
	return s.inner.Close()
}

func readFailed(err error) error {
	return errors.NewPersistenceError("failed to read saved recipes", "READ_FAILED", err)
}

func writeFailed(err error) error {
	return errors.NewPersistenceError("failed to save recipe", "WRITE_FAILED", err)
}

// checkEncoding rejects text that JSON-backed stores could not return
// byte for byte.
func checkEncoding(recipe string) error {
	if !utf8.ValidString(recipe) {
		return errors.NewInputError("recipe text is not valid UTF-8", "INVALID_ENCODING",
			"Save the recipe as UTF-8 text.")
	}
	return nil
}

// Package integration exercises the full HTTP stack with in-process fakes
// in place of the hosted transcription and generation APIs.
package integration

import (
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/socialchef/chefvoice/internal/api"
	"github.com/socialchef/chefvoice/internal/config"
	"github.com/socialchef/chefvoice/internal/services/transcription"
	"github.com/socialchef/chefvoice/internal/session"
	"github.com/socialchef/chefvoice/internal/store"
)

// MockTranscriber records every upload it receives.
type MockTranscriber struct {
	mu        sync.Mutex
	Text      string
	Filenames []string
}

func (m *MockTranscriber) TranscribeUpload(ctx context.Context, up transcription.Upload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := io.Copy(io.Discard, up.Data); err != nil {
		return "", err
	}
	m.Filenames = append(m.Filenames, up.Filename)
	return m.Text, nil
}

// MockGenerator answers every prompt with a canned recipe.
type MockGenerator struct {
	mu      sync.Mutex
	Recipe  string
	Err     error
	Prompts []string
}

func (m *MockGenerator) GenerateRecipe(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	return m.Recipe, m.Err
}

type testServer struct {
	*httptest.Server
	Transcriber *MockTranscriber
	Generator   *MockGenerator
	Store       store.RecipeStore
}

// newTestServer starts the production router over a store of the given backend.
func newTestServer(t *testing.T, backend string) *testServer {
	t.Helper()

	ext := ".json"
	if backend == "sqlite" {
		ext = ".db"
	}
	cfg := &config.Config{
		ServiceName:   "chefvoice-test",
		GroqKey:       "test-key",
		MaxAudioBytes: 1 << 20,
		Transcription: config.TranscriptionConfig{Provider: "groq"},
		Store:         config.StoreConfig{Backend: backend, Path: filepath.Join(t.TempDir(), "saved_recipes"+ext)},
	}

	recipes, err := store.New(context.Background(), cfg)
	require.NoError(t, err)

	ts := &testServer{
		Transcriber: &MockTranscriber{Text: "tomatoes, basil, mozzarella"},
		Generator:   &MockGenerator{Recipe: "# Caprese Salad\n\nSlice and layer."},
		Store:       recipes,
	}
	sess := session.New(ts.Transcriber, ts.Generator, recipes, session.Options{})
	ts.Server = httptest.NewServer(api.NewRouter(cfg.ServiceName, api.NewServer(cfg, sess)))

	t.Cleanup(func() {
		ts.Close()
		recipes.Close()
	})
	return ts
}

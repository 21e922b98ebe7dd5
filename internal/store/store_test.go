package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/chefvoice/internal/config"
	"github.com/socialchef/chefvoice/internal/errors"
)

func TestNew_File(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: "file", Path: filepath.Join(t.TempDir(), "r.json")}}

	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Append(context.Background(), "Chili"))
	recipes, err := s.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Chili"}, recipes)
}

func TestNew_SQLite(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "r.db")}}

	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*instrumented)
	assert.True(t, ok, "store should be instrumented")
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: "mongo"}}

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfiguration))
}

func TestInstrumented_RejectsInvalidUTF8OnEveryBackend(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg := &config.Config{Store: config.StoreConfig{Backend: backend, Path: filepath.Join(t.TempDir(), "saved")}}
			s, err := New(ctx, cfg)
			require.NoError(t, err)
			defer s.Close()

			err = s.Append(ctx, "Crème br\xfbl\xe9e")
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeInput))

			recipes, err := s.ReadAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, recipes)
		})
	}
}

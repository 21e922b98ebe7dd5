package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/chefvoice/internal/store"
)

func TestListEmpty(t *testing.T) {
	s := store.NewFileStore(filepath.Join(t.TempDir(), "r.json"))
	var out bytes.Buffer

	require.NoError(t, list(context.Background(), s, &out))
	assert.Equal(t, "No recipes saved yet.\n", out.String())
}

func TestAddThenList(t *testing.T) {
	ctx := context.Background()
	s := store.NewFileStore(filepath.Join(t.TempDir(), "r.json"))

	require.NoError(t, add(ctx, s, strings.NewReader("Soup\n")))
	require.NoError(t, add(ctx, s, strings.NewReader("Bread")))

	var out bytes.Buffer
	require.NoError(t, list(ctx, s, &out))
	assert.Equal(t, "#### Recipe 1\n\nSoup\n\n---\n#### Recipe 2\n\nBread\n\n---\n", out.String())
}

func TestAddEmpty(t *testing.T) {
	s := store.NewFileStore(filepath.Join(t.TempDir(), "r.json"))
	assert.Error(t, add(context.Background(), s, strings.NewReader("  \n")))
}

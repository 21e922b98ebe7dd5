package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/socialchef/chefvoice/internal/errors"
)

func TestIndex_Empty(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "No recipes saved yet.")
	assert.Contains(t, body, `accept=".wav,.mp3`)
	for _, p := range []string{"None", "Vegetarian", "Vegan", "Gluten-Free", "Low-Carb", "Keto"} {
		assert.Contains(t, body, `<option value="`+p+`"`)
	}
	assert.NotContains(t, body, "Save Recipe")
}

func TestGeneratePage_RendersRecipe(t *testing.T) {
	env := newTestEnv(t)
	req := multipartRequest(t, "/generate", map[string]string{
		"ingredients":        "eggs, flour",
		"dietary_preference": "Keto",
	}, "", nil)

	rr := env.do(req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<h2>Pancakes</h2>")
	assert.Contains(t, body, "<li>Mix</li>")
	assert.Contains(t, body, `<option value="Keto" selected>`)
	assert.Contains(t, body, "Save Recipe")
}

func TestGeneratePage_EscapesModelHTML(t *testing.T) {
	env := newTestEnv(t)
	env.gen.recipe = "Tasty <script>alert(1)</script>"

	rr := env.do(multipartRequest(t, "/generate", map[string]string{"ingredients": "eggs"}, "", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "<script>alert(1)</script>")
}

func TestGeneratePage_ShowsTranscript(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(multipartRequest(t, "/generate", nil, "voice.wav", []byte("RIFF")))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Transcribed Ingredients")
	assert.Contains(t, rr.Body.String(), "chicken, rice")
}

func TestGeneratePage_ErrorHidesStaleRecipe(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(multipartRequest(t, "/generate", map[string]string{"ingredients": "eggs"}, "", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	env.gen.err = apperrors.NewGenerationError("Gemini API error", "UPSTREAM_FAILED", nil)
	rr = env.do(multipartRequest(t, "/generate", map[string]string{"ingredients": "eggs"}, "", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Gemini API error")
	assert.NotContains(t, body, "<h2>Pancakes</h2>")
	assert.NotContains(t, body, "Save Recipe")
}

func TestSavePage(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(multipartRequest(t, "/generate", map[string]string{"ingredients": "eggs"}, "", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(httptest.NewRequest(http.MethodPost, "/save", nil))
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/?saved=1", rr.Header().Get("Location"))

	rr = env.do(httptest.NewRequest(http.MethodGet, "/?saved=1", nil))
	body := rr.Body.String()
	assert.Contains(t, body, "Recipe saved successfully!")
	assert.Contains(t, body, "<h4>Recipe 1</h4>")
	assert.NotContains(t, body, "No recipes saved yet.")
}

func TestSavePage_NothingToSave(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(httptest.NewRequest(http.MethodPost, "/save", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "there is no recipe to save")
}

func TestIndex_StoreFailureOnlyAffectsList(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(multipartRequest(t, "/generate", map[string]string{"ingredients": "eggs"}, "", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	require.NoError(t, os.WriteFile(env.storePath, []byte("{"), 0o644))
	rr = env.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "<h2>Pancakes</h2>")
	assert.True(t, strings.Contains(body, "malformed"), "expected the store error in the saved list section")
}

package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/services/ai"
)

type DietaryPreferencesResponse struct {
	Preferences []ai.DietaryPreference `json:"preferences"`
	Default     ai.DietaryPreference   `json:"default"`
}

func (s *Server) HandleDietaryPreferences(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DietaryPreferencesResponse{
		Preferences: ai.DietaryPreferences(),
		Default:     ai.DietNone,
	})
}

// HandleGenerateRecipe accepts a multipart form with ingredients,
// dietary_preference and an optional audio file.
func (s *Server) HandleGenerateRecipe(w http.ResponseWriter, r *http.Request) {
	form, err := s.parseGenerateForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer form.Close()

	res, err := s.session.Generate(r.Context(), form.req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
	s.session.Rendered(r.Context())
}

type SaveRecipeRequest struct {
	Recipe string `json:"recipe"`
}

type RecipesResponse struct {
	Recipes []string `json:"recipes"`
	Count   int      `json:"count"`
}

// HandleSaveRecipe appends the posted recipe, or the session's current
// recipe when the body is empty.
func (s *Server) HandleSaveRecipe(w http.ResponseWriter, r *http.Request) {
	var req SaveRecipeRequest
	r.Body = http.MaxBytesReader(w, r.Body, formOverhead)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.writeError(w, r, err)
			return
		}
		s.writeError(w, r, apperrors.NewInputError("invalid request body", "INVALID_BODY", `Send {"recipe": "..."} or an empty body.`))
		return
	}

	var (
		saved []string
		err   error
	)
	if req.Recipe == "" {
		saved, err = s.session.SaveCurrent(r.Context())
	} else {
		saved, err = s.session.SaveRecipe(r.Context(), req.Recipe)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, RecipesResponse{Recipes: saved, Count: len(saved)})
}

func (s *Server) HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	saved, err := s.session.SavedRecipes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RecipesResponse{Recipes: saved, Count: len(saved)})
}

package api

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/socialchef/chefvoice/internal/services/ai"
	"github.com/socialchef/chefvoice/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageError struct {
	Message    string
	Suggestion string
}

type savedRecipe struct {
	Number int
	HTML   template.HTML
}

type pageData struct {
	Preferences          []ai.DietaryPreference
	Selected             ai.DietaryPreference
	Ingredients          string
	TranscriptionEnabled bool
	MaxAudioMiB          int64

	Transcript string
	Recipe     template.HTML
	HasRecipe  bool

	Saved      []savedRecipe
	SavedError *pageError
	Notice     string
	Error      *pageError
}

// render converts recipe Markdown to HTML. Raw HTML in the model output is
// not passed through.
func (s *Server) render(md string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

func (s *Server) newPageData(r *http.Request) *pageData {
	data := &pageData{
		Preferences:          ai.DietaryPreferences(),
		TranscriptionEnabled: s.cfg.TranscriptionEnabled(),
		MaxAudioMiB:          s.cfg.MaxAudioBytes >> 20,
	}
	if cur, ok := s.session.Current(); ok {
		s.setResult(data, &cur)
	}
	return data
}

func (s *Server) setResult(data *pageData, res *session.Result) {
	data.Selected = res.Preference
	data.Ingredients = res.Ingredients
	data.Transcript = res.Transcript
	data.Recipe = s.render(res.Recipe)
	data.HasRecipe = true
}

func (s *Server) clearResult(data *pageData) {
	data.Transcript = ""
	data.Recipe = ""
	data.HasRecipe = false
}

// loadSaved fills the saved list. A store failure only affects this section.
func (s *Server) loadSaved(r *http.Request, data *pageData) {
	saved, err := s.session.SavedRecipes(r.Context())
	if err != nil {
		appErr := toAppError(err)
		s.reportError(r, appErr)
		data.SavedError = &pageError{Message: appErr.Message, Suggestion: appErr.RecoverySuggestion()}
		return
	}
	data.Saved = make([]savedRecipe, len(saved))
	for i, recipe := range saved {
		data.Saved[i] = savedRecipe{Number: i + 1, HTML: s.render(recipe)}
	}
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, status int, data *pageData) {
	s.loadSaved(r, data)

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render page", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) pageFailure(w http.ResponseWriter, r *http.Request, data *pageData, err error) {
	appErr := toAppError(err)
	s.reportError(r, appErr)
	data.Error = &pageError{Message: appErr.Message, Suggestion: appErr.RecoverySuggestion()}
	s.writePage(w, r, appErr.StatusCode, data)
}

func (s *Server) HandleIndex(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(r)
	if r.URL.Query().Get("saved") == "1" {
		data.Notice = "Recipe saved successfully!"
	}
	s.writePage(w, r, http.StatusOK, data)
}

func (s *Server) HandleGeneratePage(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData(r)

	form, err := s.parseGenerateForm(w, r)
	if err != nil {
		s.clearResult(data)
		data.Ingredients = r.FormValue("ingredients")
		s.pageFailure(w, r, data, err)
		return
	}
	defer form.Close()
	data.Ingredients = form.req.Ingredients
	data.Selected = form.req.Preference

	res, err := s.session.Generate(r.Context(), form.req)
	if err != nil {
		// A failed generation never shows the previous recipe.
		s.clearResult(data)
		s.pageFailure(w, r, data, err)
		return
	}
	s.setResult(data, res)
	s.writePage(w, r, http.StatusOK, data)
	s.session.Rendered(r.Context())
}

func (s *Server) HandleSavePage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.SaveCurrent(r.Context()); err != nil {
		// The current recipe, if any, stays on screen; only the save failed.
		s.pageFailure(w, r, s.newPageData(r), err)
		return
	}
	http.Redirect(w, r, "/?saved=1", http.StatusSeeOther)
}

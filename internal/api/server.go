package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/socialchef/chefvoice/internal/config"
	"github.com/socialchef/chefvoice/internal/session"
)

// Orchestrator is the part of *session.Session the handlers use.
type Orchestrator interface {
	Generate(ctx context.Context, req session.Request) (*session.Result, error)
	Current() (session.Result, bool)
	Rendered(ctx context.Context)
	SaveCurrent(ctx context.Context) ([]string, error)
	SaveRecipe(ctx context.Context, recipe string) ([]string, error)
	SavedRecipes(ctx context.Context) ([]string, error)
}

type Server struct {
	cfg      *config.Config
	session  Orchestrator
	markdown goldmark.Markdown
}

func NewServer(cfg *config.Config, sess Orchestrator) *Server {
	return &Server{
		cfg:      cfg,
		session:  sess,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Routes mounts the HTML page, the JSON API and the health check on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HandleHealth)

	r.Get("/", s.HandleIndex)
	r.Post("/generate", s.HandleGeneratePage)
	r.Post("/save", s.HandleSavePage)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dietary-preferences", s.HandleDietaryPreferences)
		r.Post("/recipes/generate", s.HandleGenerateRecipe)
		r.Post("/recipes", s.HandleSaveRecipe)
		r.Get("/recipes", s.HandleListRecipes)
	})
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

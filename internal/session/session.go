// Package session drives one user's request from ingredients (typed or
// spoken) through prompt building and generation to a saveable recipe.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/logger"
	"github.com/socialchef/chefvoice/internal/services/ai"
	"github.com/socialchef/chefvoice/internal/services/transcription"
	"github.com/socialchef/chefvoice/internal/store"
	"github.com/socialchef/chefvoice/internal/telemetry"
)

type State int

const (
	AwaitingInput State = iota
	Transcribing
	Generating
	Displaying
	Idle
	Failed
)

var stateNames = [...]string{"awaiting_input", "transcribing", "generating", "displaying", "idle", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Transcriber interface {
	TranscribeUpload(ctx context.Context, up transcription.Upload) (string, error)
}

type Generator interface {
	GenerateRecipe(ctx context.Context, prompt string) (string, error)
}

// Options bounds each external call. Zero means no extra deadline.
type Options struct {
	TranscriptionTimeout time.Duration
	GenerationTimeout    time.Duration
}

// Request is one generate action. Typed Ingredients take precedence over Audio.
type Request struct {
	Ingredients string
	Preference  ai.DietaryPreference
	Audio       *transcription.Upload
}

type Result struct {
	RequestID   string               `json:"requestId"`
	Transcript  string               `json:"transcript,omitempty"`
	Ingredients string               `json:"ingredients"`
	Preference  ai.DietaryPreference `json:"dietaryPreference"`
	Prompt      string               `json:"-"`
	Recipe      string               `json:"recipe"`
}

type Session struct {
	transcriber Transcriber
	generator   Generator
	store       store.RecipeStore
	opts        Options

	// run serializes requests; mu guards the fields below it.
	run     sync.Mutex
	mu      sync.RWMutex
	state   State
	current *Result
}

func New(transcriber Transcriber, generator Generator, recipes store.RecipeStore, opts Options) *Session {
	return &Session{
		transcriber: transcriber,
		generator:   generator,
		store:       recipes,
		opts:        opts,
		state:       AwaitingInput,
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the last successfully generated recipe, if any.
func (s *Session) Current() (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Result{}, false
	}
	return *s.current, true
}

func (s *Session) setState(ctx context.Context, st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	slog.DebugContext(ctx, "Session state", "state", st.String())
}

func (s *Session) markFailed(ctx context.Context, err error) {
	s.mu.Lock()
	s.state = Failed
	s.current = nil
	s.mu.Unlock()
	slog.WarnContext(ctx, "Request failed", "error", err)
}

// Generate runs one request end to end and leaves the session in Displaying.
// Requests on the same session are processed one at a time.
func (s *Session) Generate(ctx context.Context, req Request) (*Result, error) {
	s.run.Lock()
	defer s.run.Unlock()

	res := &Result{
		RequestID:  logger.RequestID(ctx),
		Preference: req.Preference,
	}
	if res.RequestID == "" {
		res.RequestID = uuid.NewString()
		ctx = logger.ContextWithRequestID(ctx, res.RequestID)
	}

	ctx, span := telemetry.Tracer("session").Start(ctx, "session.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("request.id", res.RequestID),
		attribute.String("dietary_preference", req.Preference.String()),
		attribute.Bool("input.typed", strings.TrimSpace(req.Ingredients) != ""),
		attribute.Bool("input.audio", req.Audio != nil),
	)

	fail := func(err error) (*Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.markFailed(ctx, err)
		return nil, err
	}

	s.setState(ctx, AwaitingInput)

	ingredients := strings.TrimSpace(req.Ingredients)
	if ingredients == "" && req.Audio != nil {
		s.setState(ctx, Transcribing)
		transcript, err := s.transcribe(ctx, *req.Audio)
		if err != nil {
			return fail(err)
		}
		res.Transcript = transcript
		ingredients = strings.TrimSpace(transcript)
	}

	if ingredients == "" {
		if req.Audio != nil {
			return fail(errors.NewInputError("no ingredients were recognized in the recording", "EMPTY_TRANSCRIPT",
				"Speak your ingredients clearly, or type them instead."))
		}
		return fail(errors.NewInputError("no ingredients provided", "EMPTY_INGREDIENTS",
			"Type your ingredients or upload a WAV/MP3 recording."))
	}
	res.Ingredients = ingredients

	s.setState(ctx, Generating)
	res.Prompt = ai.BuildRecipePrompt(ingredients, req.Preference)
	recipe, err := s.generate(ctx, res.Prompt)
	if err != nil {
		return fail(err)
	}
	res.Recipe = recipe

	s.mu.Lock()
	s.current = res
	s.state = Displaying
	s.mu.Unlock()

	slog.InfoContext(ctx, "Recipe generated",
		"dietary_preference", req.Preference.String(),
		"transcribed", res.Transcript != "",
		"chars", len(recipe))

	out := *res
	return &out, nil
}

// Rendered marks the current recipe as shown to the user. Generate leaves
// the session in Displaying; the presentation layer calls this once the
// response is written.
func (s *Session) Rendered(ctx context.Context) {
	s.mu.Lock()
	shown := s.state == Displaying
	if shown {
		s.state = Idle
	}
	s.mu.Unlock()
	if shown {
		slog.DebugContext(ctx, "Session state", "state", Idle.String())
	}
}

func (s *Session) transcribe(ctx context.Context, up transcription.Upload) (string, error) {
	if s.transcriber == nil {
		return "", errors.NewTranscriptionError("speech transcription is not configured", "TRANSCRIPTION_NOT_CONFIGURED", nil)
	}
	ctx, cancel := withTimeout(ctx, s.opts.TranscriptionTimeout)
	defer cancel()

	ctx, span := telemetry.Tracer("session").Start(ctx, "session.Transcribe")
	defer span.End()
	span.SetAttributes(attribute.String("audio.filename", up.Filename))

	text, err := s.transcriber.TranscribeUpload(ctx, up)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return text, nil
}

func (s *Session) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, s.opts.GenerationTimeout)
	defer cancel()

	ctx, span := telemetry.Tracer("session").Start(ctx, "session.GenerateRecipe")
	defer span.End()
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)))

	text, err := s.generator.GenerateRecipe(ctx, prompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return text, nil
}

// SaveCurrent appends the current recipe to the store and returns the full
// saved list.
func (s *Session) SaveCurrent(ctx context.Context) ([]string, error) {
	cur, ok := s.Current()
	if !ok {
		return nil, errors.NewInputError("there is no recipe to save", "NO_RECIPE", "Generate a recipe first.")
	}
	return s.SaveRecipe(ctx, cur.Recipe)
}

// SaveRecipe appends recipe to the store and returns the full saved list.
func (s *Session) SaveRecipe(ctx context.Context, recipe string) ([]string, error) {
	if strings.TrimSpace(recipe) == "" {
		return nil, errors.NewInputError("recipe text is empty", "EMPTY_RECIPE", "Provide the recipe text to save.")
	}
	if err := s.store.Append(ctx, recipe); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Recipe saved", "chars", len(recipe))
	return s.SavedRecipes(ctx)
}

func (s *Session) SavedRecipes(ctx context.Context) ([]string, error) {
	return s.store.ReadAll(ctx)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

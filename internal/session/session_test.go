package session

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/services/ai"
	"github.com/socialchef/chefvoice/internal/services/transcription"
)

type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) TranscribeUpload(ctx context.Context, up transcription.Upload) (string, error) {
	args := m.Called(ctx, up)
	return args.String(0), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateRecipe(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// memoryStore is an in-memory RecipeStore.
type memoryStore struct {
	mu      sync.Mutex
	recipes []string
	err     error
}

func (s *memoryStore) ReadAll(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]string{}, s.recipes...), nil
}

func (s *memoryStore) Append(ctx context.Context, recipe string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.recipes = append(s.recipes, recipe)
	return nil
}

func (s *memoryStore) Close() error { return nil }

func audio(name string) *transcription.Upload {
	return &transcription.Upload{Filename: name, Data: strings.NewReader("RIFF"), Size: 4}
}

func TestGenerate_TypedTextSkipsTranscription(t *testing.T) {
	tr := new(MockTranscriber)
	gen := new(MockGenerator)
	gen.On("GenerateRecipe", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "eggs, flour, milk") && strings.Contains(p, "Vegetarian")
	})).Return("1. Pancakes", nil)

	s := New(tr, gen, &memoryStore{}, Options{})
	res, err := s.Generate(context.Background(), Request{
		Ingredients: "eggs, flour, milk",
		Preference:  ai.DietVegetarian,
		Audio:       audio("ignored.wav"),
	})

	require.NoError(t, err)
	assert.Equal(t, "1. Pancakes", res.Recipe)
	assert.Empty(t, res.Transcript)
	assert.NotEmpty(t, res.RequestID)
	assert.Equal(t, Displaying, s.State())
	tr.AssertNotCalled(t, "TranscribeUpload", mock.Anything, mock.Anything)
	gen.AssertNumberOfCalls(t, "GenerateRecipe", 1)
}

func TestGenerate_AudioOnlyIsTranscribedOnce(t *testing.T) {
	tr := new(MockTranscriber)
	gen := new(MockGenerator)
	tr.On("TranscribeUpload", mock.Anything, mock.Anything).Return("chicken, rice", nil).Once()
	gen.On("GenerateRecipe", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Ingredients: chicken, rice")
	})).Return("Chicken rice bowl", nil)

	s := New(tr, gen, &memoryStore{}, Options{})
	res, err := s.Generate(context.Background(), Request{Ingredients: "   ", Audio: audio("voice.mp3")})

	require.NoError(t, err)
	assert.Equal(t, "chicken, rice", res.Transcript)
	assert.Equal(t, "chicken, rice", res.Ingredients)
	tr.AssertNumberOfCalls(t, "TranscribeUpload", 1)
	gen.AssertExpectations(t)
}

func TestGenerate_NoInput(t *testing.T) {
	gen := new(MockGenerator)
	s := New(new(MockTranscriber), gen, &memoryStore{}, Options{})

	_, err := s.Generate(context.Background(), Request{Ingredients: " \n\t"})

	require.Error(t, err)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "EMPTY_INGREDIENTS", appErr.ErrorCode)
	assert.Equal(t, Failed, s.State())
	gen.AssertNotCalled(t, "GenerateRecipe", mock.Anything, mock.Anything)
}

func TestGenerate_BlankTranscript(t *testing.T) {
	tr := new(MockTranscriber)
	gen := new(MockGenerator)
	tr.On("TranscribeUpload", mock.Anything, mock.Anything).Return("  ", nil)

	s := New(tr, gen, &memoryStore{}, Options{})
	_, err := s.Generate(context.Background(), Request{Audio: audio("silence.wav")})

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
	gen.AssertNotCalled(t, "GenerateRecipe", mock.Anything, mock.Anything)
}

func TestGenerate_TranscriptionFailure(t *testing.T) {
	tr := new(MockTranscriber)
	gen := new(MockGenerator)
	tr.On("TranscribeUpload", mock.Anything, mock.Anything).
		Return("", errors.NewTranscriptionError("whisper down", "UPSTREAM_FAILED", nil))

	s := New(tr, gen, &memoryStore{}, Options{})
	_, err := s.Generate(context.Background(), Request{Audio: audio("voice.wav")})

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTranscription))
	assert.Equal(t, Failed, s.State())
	gen.AssertNotCalled(t, "GenerateRecipe", mock.Anything, mock.Anything)
}

func TestGenerate_NilTranscriber(t *testing.T) {
	s := New(nil, new(MockGenerator), &memoryStore{}, Options{})

	_, err := s.Generate(context.Background(), Request{Audio: audio("voice.wav")})

	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "TRANSCRIPTION_NOT_CONFIGURED", appErr.ErrorCode)
}

func TestGenerate_FailureClearsCurrentRecipe(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateRecipe", mock.Anything, mock.Anything).Return("Soup", nil).Once()
	gen.On("GenerateRecipe", mock.Anything, mock.Anything).
		Return("", errors.NewGenerationError("quota", "UPSTREAM_FAILED", nil)).Once()

	st := &memoryStore{}
	s := New(nil, gen, st, Options{})

	_, err := s.Generate(context.Background(), Request{Ingredients: "leeks"})
	require.NoError(t, err)
	_, ok := s.Current()
	require.True(t, ok)

	_, err = s.Generate(context.Background(), Request{Ingredients: "leeks"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeGeneration))

	_, ok = s.Current()
	assert.False(t, ok, "a failed generation must not leave a stale recipe")

	_, err = s.SaveCurrent(context.Background())
	appErr, isApp := errors.As(err)
	require.True(t, isApp)
	assert.Equal(t, "NO_RECIPE", appErr.ErrorCode)
	assert.Empty(t, st.recipes)
}

func TestGenerate_AppliesTimeout(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateRecipe", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
		}).
		Return("ok", nil)

	s := New(nil, gen, &memoryStore{}, Options{GenerationTimeout: time.Minute})
	_, err := s.Generate(context.Background(), Request{Ingredients: "kale"})
	require.NoError(t, err)
}

func TestSaveCurrent(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateRecipe", mock.Anything, mock.Anything).Return("Tacos", nil)

	st := &memoryStore{recipes: []string{"Earlier"}}
	s := New(nil, gen, st, Options{})

	_, err := s.Generate(context.Background(), Request{Ingredients: "tortillas"})
	require.NoError(t, err)

	saved, err := s.SaveCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Earlier", "Tacos"}, saved)
}

func TestSaveRecipe(t *testing.T) {
	st := &memoryStore{}
	s := New(nil, new(MockGenerator), st, Options{})

	_, err := s.SaveRecipe(context.Background(), "First")
	require.NoError(t, err)
	saved, err := s.SaveRecipe(context.Background(), "Second")
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, saved)

	_, err = s.SaveRecipe(context.Background(), "  ")
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
}

func TestSaveRecipe_StoreFailure(t *testing.T) {
	st := &memoryStore{err: errors.NewPersistenceError("disk full", "WRITE_FAILED", io.ErrShortWrite)}
	s := New(nil, new(MockGenerator), st, Options{})

	_, err := s.SaveRecipe(context.Background(), "Stew")
	assert.True(t, errors.IsType(err, errors.ErrorTypePersistence))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting_input", AwaitingInput.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestRendered_MovesDisplayingToIdle(t *testing.T) {
	gen := new(MockGenerator)
	gen.On("GenerateRecipe", mock.Anything, mock.Anything).Return("Tomato soup", nil)
	s := New(nil, gen, &memoryStore{}, Options{})

	// Nothing is on screen yet.
	s.Rendered(context.Background())
	assert.Equal(t, AwaitingInput, s.State())

	_, err := s.Generate(context.Background(), Request{Ingredients: "tomatoes"})
	require.NoError(t, err)
	assert.Equal(t, Displaying, s.State())

	s.Rendered(context.Background())
	assert.Equal(t, Idle, s.State())

	// Saving from Idle keeps the current recipe.
	saved, err := s.SaveCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Tomato soup"}, saved)
	assert.Equal(t, Idle, s.State())
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/socialchef/chefvoice/internal/errors"
)

const (
	DefaultMaxAudioBytes        int64 = 25 << 20
	DefaultGenerationTimeout          = 2 * time.Minute
	DefaultTranscriptionTimeout       = 3 * time.Minute
	DefaultStorePath                  = "saved_recipes.json"
	DefaultSQLitePath                 = "saved_recipes.db"
)

var defaultGenerationModels = map[string]string{
	"gemini": "gemini-2.0-flash",
	"groq":   "llama-3.3-70b-versatile",
	"openai": "gpt-4o-mini",
	"claude": "claude-3-5-haiku-latest",
}

var defaultTranscriptionModels = map[string]string{
	"groq":   "whisper-large-v3-turbo",
	"openai": "gpt-4o-mini-transcribe",
}

var storeBackends = map[string]bool{
	"file":     true,
	"sqlite":   true,
	"redis":    true,
	"postgres": true,
}

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	Port string

	GeminiKey    string
	GroqKey      string
	OpenAIKey    string
	AnthropicKey string

	DatabaseURL string
	RedisURL    string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	MaxAudioBytes int64

	Generation    GenerationConfig
	Transcription TranscriptionConfig
	Store         StoreConfig
}

type GenerationConfig struct {
	Provider         string        `yaml:"provider"`
	Model            string        `yaml:"model"`
	FallbackEnabled  bool          `yaml:"fallback_enabled"`
	FallbackProvider string        `yaml:"fallback_provider"`
	Timeout          time.Duration `yaml:"timeout"`
}

type TranscriptionConfig struct {
	Provider         string        `yaml:"provider"`
	Model            string        `yaml:"model"`
	FallbackEnabled  bool          `yaml:"fallback_enabled"`
	FallbackProvider string        `yaml:"fallback_provider"`
	Timeout          time.Duration `yaml:"timeout"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// Load reads the full server configuration and fails when a required
// credential is missing.
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadStore reads the configuration but only validates the recipe store
// settings. Tools that never call a model use it.
func LoadStore() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateStore(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		Port:                     os.Getenv("PORT"),
		GeminiKey:                os.Getenv("GEMINI_API_KEY"),
		GroqKey:                  os.Getenv("GROQ_API_KEY"),
		OpenAIKey:                os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:             os.Getenv("ANTHROPIC_API_KEY"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
	}

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}
	if err := cfg.LoadFromYAML(configFile); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Environment wins over the YAML file
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "chefvoice"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MaxAudioBytes <= 0 {
		cfg.MaxAudioBytes = DefaultMaxAudioBytes
	}

	cfg.SetGenerationDefaults()
	cfg.SetTranscriptionDefaults()
	cfg.SetStoreDefaults()

	return cfg, nil
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Generation    GenerationConfig    `yaml:"generation"`
		Transcription TranscriptionConfig `yaml:"transcription"`
		Store         StoreConfig         `yaml:"store"`
		MaxAudioBytes int64               `yaml:"max_audio_bytes"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	g := yamlConfig.Generation
	if g.Provider != "" {
		c.Generation.Provider = g.Provider
	}
	if g.Model != "" {
		c.Generation.Model = g.Model
	}
	if g.FallbackEnabled {
		c.Generation.FallbackEnabled = true
	}
	if g.FallbackProvider != "" {
		c.Generation.FallbackProvider = g.FallbackProvider
	}
	if g.Timeout > 0 {
		c.Generation.Timeout = g.Timeout
	}

	tr := yamlConfig.Transcription
	if tr.Provider != "" {
		c.Transcription.Provider = tr.Provider
	}
	if tr.Model != "" {
		c.Transcription.Model = tr.Model
	}
	if tr.FallbackEnabled {
		c.Transcription.FallbackEnabled = true
	}
	if tr.FallbackProvider != "" {
		c.Transcription.FallbackProvider = tr.FallbackProvider
	}
	if tr.Timeout > 0 {
		c.Transcription.Timeout = tr.Timeout
	}

	if yamlConfig.Store.Backend != "" {
		c.Store.Backend = yamlConfig.Store.Backend
	}
	if yamlConfig.Store.Path != "" {
		c.Store.Path = yamlConfig.Store.Path
	}
	if yamlConfig.MaxAudioBytes > 0 {
		c.MaxAudioBytes = yamlConfig.MaxAudioBytes
	}

	return nil
}

func (c *Config) applyEnvOverrides() error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&c.Generation.Provider, "GENERATION_PROVIDER")
	setString(&c.Generation.Model, "GENERATION_MODEL")
	setString(&c.Transcription.Provider, "TRANSCRIPTION_PROVIDER")
	setString(&c.Transcription.Model, "TRANSCRIPTION_MODEL")
	setString(&c.Store.Backend, "STORE_BACKEND")
	setString(&c.Store.Path, "STORE_PATH")

	if v := os.Getenv("MAX_AUDIO_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return apperrors.NewConfigurationError(
				fmt.Sprintf("MAX_AUDIO_BYTES must be a positive integer, got %q", v), "INVALID_VALUE")
		}
		c.MaxAudioBytes = n
	}

	for key, dst := range map[string]*time.Duration{
		"GENERATION_TIMEOUT":    &c.Generation.Timeout,
		"TRANSCRIPTION_TIMEOUT": &c.Transcription.Timeout,
	} {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return apperrors.NewConfigurationError(
				fmt.Sprintf("%s must be a positive duration such as 90s, got %q", key, v), "INVALID_VALUE")
		}
		*dst = d
	}
	return nil
}

func (c *Config) SetGenerationDefaults() {
	if c.Generation.Provider == "" {
		c.Generation.Provider = "gemini"
	}
	c.Generation.Provider = strings.ToLower(c.Generation.Provider)
	c.Generation.FallbackProvider = strings.ToLower(c.Generation.FallbackProvider)
	if c.Generation.Model == "" {
		c.Generation.Model = defaultGenerationModels[c.Generation.Provider]
	}
	if c.Generation.Timeout <= 0 {
		c.Generation.Timeout = DefaultGenerationTimeout
	}
}

func (c *Config) SetTranscriptionDefaults() {
	if c.Transcription.Provider == "" {
		c.Transcription.Provider = "groq"
	}
	c.Transcription.Provider = strings.ToLower(c.Transcription.Provider)
	c.Transcription.FallbackProvider = strings.ToLower(c.Transcription.FallbackProvider)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultTranscriptionModels[c.Transcription.Provider]
	}
	if c.Transcription.Timeout <= 0 {
		c.Transcription.Timeout = DefaultTranscriptionTimeout
	}
}

func (c *Config) SetStoreDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = "file"
	}
	c.Store.Backend = strings.ToLower(c.Store.Backend)
	if c.Store.Path == "" {
		switch c.Store.Backend {
		case "sqlite":
			c.Store.Path = DefaultSQLitePath
		default:
			c.Store.Path = DefaultStorePath
		}
	}
}

// APIKey returns the credential configured for a provider name.
func (c *Config) APIKey(provider string) string {
	switch provider {
	case "gemini":
		return c.GeminiKey
	case "groq":
		return c.GroqKey
	case "openai":
		return c.OpenAIKey
	case "claude":
		return c.AnthropicKey
	}
	return ""
}

// DefaultGenerationModel returns the model used for a generation provider
// when none is configured (fallback providers always use it).
func DefaultGenerationModel(provider string) string {
	return defaultGenerationModels[provider]
}

// DefaultTranscriptionModel returns the default model of a transcription provider.
func DefaultTranscriptionModel(provider string) string {
	return defaultTranscriptionModels[provider]
}

// TranscriptionEnabled reports whether speech input can be served.
func (c *Config) TranscriptionEnabled() bool {
	return c.APIKey(c.Transcription.Provider) != ""
}

func (c *Config) validate() error {
	if _, ok := defaultGenerationModels[c.Generation.Provider]; !ok {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("unknown generation provider %q", c.Generation.Provider), "UNKNOWN_PROVIDER")
	}
	if c.APIKey(c.Generation.Provider) == "" {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("%s is required for generation provider %q", keyEnvName(c.Generation.Provider), c.Generation.Provider),
			"MISSING_API_KEY")
	}
	if c.Generation.FallbackEnabled {
		fb := c.Generation.FallbackProvider
		if _, ok := defaultGenerationModels[fb]; !ok || fb == c.Generation.Provider {
			return apperrors.NewConfigurationError(
				fmt.Sprintf("invalid generation fallback provider %q", fb), "UNKNOWN_PROVIDER")
		}
		if c.APIKey(fb) == "" {
			return apperrors.NewConfigurationError(
				fmt.Sprintf("%s is required for generation fallback provider %q", keyEnvName(fb), fb),
				"MISSING_API_KEY")
		}
	}

	if _, ok := defaultTranscriptionModels[c.Transcription.Provider]; !ok {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("unknown transcription provider %q", c.Transcription.Provider), "UNKNOWN_PROVIDER")
	}
	if c.Transcription.FallbackEnabled {
		if _, ok := defaultTranscriptionModels[c.Transcription.FallbackProvider]; !ok {
			return apperrors.NewConfigurationError(
				fmt.Sprintf("invalid transcription fallback provider %q", c.Transcription.FallbackProvider),
				"UNKNOWN_PROVIDER")
		}
	}

	return c.validateStore()
}

func (c *Config) validateStore() error {
	if !storeBackends[c.Store.Backend] {
		return apperrors.NewConfigurationError(
			fmt.Sprintf("unknown store backend %q", c.Store.Backend), "UNKNOWN_BACKEND")
	}
	if c.Store.Backend == "postgres" && c.DatabaseURL == "" {
		return apperrors.NewConfigurationError("DATABASE_URL is required for the postgres store", "MISSING_DATABASE_URL")
	}
	if c.Store.Backend == "redis" && c.RedisURL == "" {
		return apperrors.NewConfigurationError("REDIS_URL is required for the redis store", "MISSING_REDIS_URL")
	}
	return nil
}

func keyEnvName(provider string) string {
	switch provider {
	case "gemini":
		return "GEMINI_API_KEY"
	case "groq":
		return "GROQ_API_KEY"
	case "openai":
		return "OPENAI_API_KEY"
	case "claude":
		return "ANTHROPIC_API_KEY"
	}
	return strings.ToUpper(provider) + "_API_KEY"
}

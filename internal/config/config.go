package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Completion providers
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderLorem     = "lorem"
)

// History backends
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendMongo     = "mongo"
	BackendSQLite    = "sqlite"
	BackendMemory    = "memory"
)

// Identity verifiers
const (
	VerifierJWKS    = "jwks"
	VerifierIDToken = "idtoken"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`
	TablePrefix string `env:"TABLE_PREFIX"`

	// Secrets. STORE_CREDENTIALS and GOOGLE_CLIENT_ID are always required,
	// the completion key is required for the provider in use.
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	StoreCredentials string `env:"STORE_CREDENTIALS,required"`
	GoogleClientID   string `env:"GOOGLE_CLIENT_ID,required"`

	// Completion
	CompletionProvider    string  `env:"COMPLETION_PROVIDER" envDefault:"openai"`
	CompletionModel       string  `env:"COMPLETION_MODEL" envDefault:"gpt-4"`
	CompletionTemperature float32 `env:"COMPLETION_TEMPERATURE" envDefault:"0.6"`
	CompletionMaxTokens   int     `env:"COMPLETION_MAX_TOKENS" envDefault:"700"`
	OpenAIBaseURL         string  `env:"OPENAI_BASE_URL"`
	AnthropicModel        string  `env:"ANTHROPIC_MODEL" envDefault:"claude-haiku-4-5-20251001"`

	// Identity
	AuthVerifier string   `env:"AUTH_VERIFIER" envDefault:"jwks"`
	AuthJWKSURL  string   `env:"AUTH_JWKS_URL" envDefault:"https://www.googleapis.com/oauth2/v3/certs"`
	AuthIssuers  []string `env:"AUTH_ISSUERS" envSeparator:"," envDefault:"accounts.google.com,https://accounts.google.com"`

	// History
	HistoryBackend string `env:"HISTORY_BACKEND" envDefault:"firestore"`
	HistoryReload  string `env:"HISTORY_RELOAD" envDefault:"last"`

	// Sessions and uploads
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	SessionSweepSpec   string        `env:"SESSION_SWEEP_SPEC" envDefault:"@every 1m"`
	MaxAttachmentBytes int64         `env:"MAX_ATTACHMENT_BYTES" envDefault:"26214400"`

	// Logging
	LogLevel    string `env:"LOG_LEVEL"`
	LogDir      string `env:"LOG_DIR"`
	LogMaxFiles int    `env:"LOG_MAX_FILES" envDefault:"10"`

	// Debug enables dev-only routes such as the raw snapshot listing.
	Debug bool `env:"DEBUG"`

	store *StoreCredentials
}

// Load reads configuration from the environment. Call godotenv.Load first
// to pick up a local .env file.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.TablePrefix == "" {
		cfg.TablePrefix = getTablePrefix(cfg.Environment)
	}
	if _, ok := os.LookupEnv("DEBUG"); !ok {
		cfg.Debug = cfg.Environment != "prod"
	}
	cfg.CompletionProvider = strings.ToLower(strings.TrimSpace(cfg.CompletionProvider))
	cfg.HistoryBackend = strings.ToLower(strings.TrimSpace(cfg.HistoryBackend))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store, err := ParseStoreCredentials(cfg.HistoryBackend, cfg.StoreCredentials)
	if err != nil {
		return nil, err
	}
	cfg.store = store

	return cfg, nil
}

// Validate checks settings that env tags cannot express.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.Environment, validation.In("dev", "test", "prod")),
		validation.Field(&c.GoogleClientID, validation.Required),
		validation.Field(&c.StoreCredentials, validation.Required),
		validation.Field(&c.CompletionProvider, validation.Required,
			validation.In(ProviderOpenAI, ProviderAnthropic, ProviderLorem)),
		validation.Field(&c.OpenAIAPIKey,
			validation.When(c.CompletionProvider == ProviderOpenAI, validation.Required.Error("OPENAI_API_KEY is required"))),
		validation.Field(&c.AnthropicAPIKey,
			validation.When(c.CompletionProvider == ProviderAnthropic, validation.Required.Error("ANTHROPIC_API_KEY is required"))),
		validation.Field(&c.CompletionModel, validation.Required),
		validation.Field(&c.CompletionTemperature, validation.Min(float32(0)), validation.Max(float32(2))),
		validation.Field(&c.CompletionMaxTokens, validation.Required, validation.Min(1)),
		validation.Field(&c.OpenAIBaseURL, is.URL),
		validation.Field(&c.AuthVerifier, validation.In(VerifierJWKS, VerifierIDToken)),
		validation.Field(&c.AuthJWKSURL, validation.When(c.AuthVerifier == VerifierJWKS, validation.Required, is.URL)),
		validation.Field(&c.HistoryBackend, validation.Required,
			validation.In(BackendFirestore, BackendPostgres, BackendMongo, BackendSQLite, BackendMemory)),
		validation.Field(&c.HistoryReload, validation.In("last", "concat")),
		validation.Field(&c.SessionIdleTimeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.SessionSweepSpec, validation.Required),
		validation.Field(&c.MaxAttachmentBytes, validation.Required, validation.Min(int64(1)), validation.Max(int64(MaxUploadBytes))),
		validation.Field(&c.LogMaxFiles, validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Store returns the parsed store credentials.
func (c *Config) Store() *StoreCredentials {
	return c.store
}

// IsProduction reports whether the server runs in the prod environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

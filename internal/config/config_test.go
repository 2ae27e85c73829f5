package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ambientKeys are read by Load but not set by setBaseEnv. They are cleared so
// a developer's exported values cannot leak into the tests.
var ambientKeys = []string{
	"ANTHROPIC_API_KEY",
	"OPENAI_BASE_URL",
	"COMPLETION_PROVIDER",
	"COMPLETION_MODEL",
	"HISTORY_BACKEND",
	"HISTORY_RELOAD",
	"ENVIRONMENT",
	"TABLE_PREFIX",
	"DEBUG",
	"AUTH_VERIFIER",
	"PORT",
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range ambientKeys {
		unsetEnv(t, key)
	}
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("STORE_CREDENTIALS", `{"type":"service_account","project_id":"study-ultra"}`)
	t.Setenv("GOOGLE_CLIENT_ID", "client-123.apps.googleusercontent.com")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "dev_", cfg.TablePrefix)
	assert.Equal(t, ProviderOpenAI, cfg.CompletionProvider)
	assert.Equal(t, "gpt-4", cfg.CompletionModel)
	assert.InDelta(t, 0.6, cfg.CompletionTemperature, 0.0001)
	assert.Equal(t, 700, cfg.CompletionMaxTokens)
	assert.Equal(t, BackendFirestore, cfg.HistoryBackend)
	assert.Equal(t, "last", cfg.HistoryReload)
	assert.Equal(t, VerifierJWKS, cfg.AuthVerifier)
	assert.Equal(t, []string{"accounts.google.com", "https://accounts.google.com"}, cfg.AuthIssuers)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTimeout)
	assert.True(t, cfg.Debug)

	require.NotNil(t, cfg.Store())
	assert.Equal(t, "study-ultra", cfg.Store().ProjectID)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
}

func TestLoad_MissingSecrets(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{name: "completion key", unset: "OPENAI_API_KEY"},
		{name: "store credentials", unset: "STORE_CREDENTIALS"},
		{name: "client id", unset: "GOOGLE_CLIENT_ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			unsetEnv(t, tt.unset)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_LoremNeedsNoKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("COMPLETION_PROVIDER", "lorem")
	t.Setenv("HISTORY_BACKEND", "memory")
	t.Setenv("STORE_CREDENTIALS", "{}")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderLorem, cfg.CompletionProvider)
}

func TestLoad_AnthropicRequiresItsKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("COMPLETION_PROVIDER", "anthropic")

	_, err := Load()
	assert.ErrorContains(t, err, "ANTHROPIC_API_KEY is required")

	t.Setenv("ANTHROPIC_API_KEY", "ak-test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ak-test", cfg.AnthropicAPIKey)
}

func TestLoad_IgnoresAmbientEnvironment(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "ak-from-shell")
	t.Setenv("COMPLETION_PROVIDER", "anthropic")
	t.Setenv("HISTORY_BACKEND", "redis")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:1234/v1")
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.CompletionProvider)
	assert.Equal(t, BackendFirestore, cfg.HistoryBackend)
	assert.Empty(t, cfg.AnthropicAPIKey)
	assert.Empty(t, cfg.OpenAIBaseURL)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("HISTORY_BACKEND", "redis")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProdDisablesDebug(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ENVIRONMENT", "prod")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "prod_", cfg.TablePrefix)
	assert.True(t, cfg.IsProduction())
}

func TestParseStoreCredentials(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		raw     string
		wantErr bool
		check   func(t *testing.T, c *StoreCredentials)
	}{
		{
			name:    "firestore service account",
			backend: BackendFirestore,
			raw:     `{"type":"service_account","project_id":"p1","private_key":"x"}`,
			check: func(t *testing.T, c *StoreCredentials) {
				assert.Equal(t, "p1", c.ProjectID)
				assert.Contains(t, string(c.Raw), "private_key")
			},
		},
		{name: "firestore without project", backend: BackendFirestore, raw: `{"type":"service_account"}`, wantErr: true},
		{
			name:    "postgres dsn",
			backend: BackendPostgres,
			raw:     `{"dsn":"postgres://u:p@localhost:5432/db"}`,
			check: func(t *testing.T, c *StoreCredentials) {
				assert.Equal(t, "postgres://u:p@localhost:5432/db", c.DSN)
			},
		},
		{
			name:    "mongo default database",
			backend: BackendMongo,
			raw:     `{"uri":"mongodb://localhost:27017"}`,
			check: func(t *testing.T, c *StoreCredentials) {
				assert.Equal(t, "studyultra", c.Database)
			},
		},
		{name: "sqlite without path", backend: BackendSQLite, raw: `{}`, wantErr: true},
		{name: "memory accepts empty object", backend: BackendMemory, raw: `{}`},
		{name: "not json", backend: BackendMemory, raw: `project=x`, wantErr: true},
		{name: "json array", backend: BackendMemory, raw: `[1,2]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := ParseStoreCredentials(tt.backend, tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, creds)
			}
		})
	}
}

func TestSetupLogFile_CleansUpOldFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"studyultra-2024-01-01T00-00-00.000.log",
		"studyultra-2024-01-02T00-00-00.000.log",
		"studyultra-2024-01-03T00-00-00.000.log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}

	f, err := SetupLogFile(dir, 2)
	require.NoError(t, err)
	defer f.Close()

	files, err := filepath.Glob(filepath.Join(dir, "studyultra-*.log"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
	assert.Contains(t, files, f.Name())
}

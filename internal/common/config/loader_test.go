package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: intake-test\n  version: 0.1.0\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "intake-test", cfg.App.Name)
	assert.Equal(t, 30000, cfg.Submission.Timeout)
	assert.Equal(t, 3, cfg.Submission.MaxRetries)
	assert.Equal(t, 1000, cfg.Submission.InitialDelay)
	assert.Equal(t, "intake-test/0.1.0", cfg.Submission.UserAgent)
	assert.Equal(t, "file", cfg.Persistence.Backend)
	assert.Equal(t, "ai-engineer-form-draft", cfg.Persistence.StorageKey)
	assert.Equal(t, 1000, cfg.Persistence.Debounce)
	assert.NotEmpty(t, cfg.Persistence.Directory)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Submission.WebhookURL)
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	t.Setenv("TEST_HOOK", "https://hooks.example.com/abc")
	path := writeConfig(t, "submission:\n  webhook_url: ${TEST_HOOK}\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/abc", cfg.Submission.WebhookURL)
}

func TestLoadFromFile_UnsetPlaceholderBecomesEmpty(t *testing.T) {
	path := writeConfig(t, "submission:\n  webhook_url: ${INTAKE_TEST_UNSET_HOOK}\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Submission.WebhookURL)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("INTAKE_SUBMISSION_MAX_RETRIES", "5")
	t.Setenv("INTAKE_PERSISTENCE_DEBOUNCE", "250")
	path := writeConfig(t, "submission:\n  max_retries: 3\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Submission.MaxRetries)
	assert.Equal(t, 250, cfg.Persistence.Debounce)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "redis backend without address",
			body:    "persistence:\n  backend: redis\n",
			wantErr: "redis.address is required",
		},
		{
			name:    "unknown backend",
			body:    "persistence:\n  backend: s3\n",
			wantErr: "persistence.backend must be file or redis",
		},
		{
			name:    "metrics without textfile",
			body:    "metrics:\n  enabled: true\n",
			wantErr: "metrics.textfile_path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

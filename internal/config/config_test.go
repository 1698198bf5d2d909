package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("STOCKLY_CONFIG", "")
	t.Setenv("STOCKLY_LLM_PROVIDER", "")
	t.Setenv("STOCKLY_STORAGE_DRIVER", "")
	t.Setenv("STOCKLY_STORAGE_PATH", "")
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "json", cfg.Storage.Driver)
	assert.Equal(t, "portfolio.json", cfg.Storage.Path)
	assert.Equal(t, "yahoo", cfg.Prices.Provider)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4", cfg.LLM.Model)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, 1500, cfg.LLM.MaxTokens)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: sqlite3
  path: data/test.db
prices:
  provider: static
  static:
    AAPL: 150
llm:
  provider: gemini
`)
	t.Setenv("STOCKLY_CONFIG", "")
	t.Setenv("STOCKLY_LLM_PROVIDER", "")
	t.Setenv("STOCKLY_STORAGE_DRIVER", "")
	t.Setenv("STOCKLY_STORAGE_PATH", "")
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "sqlite3", cfg.Storage.Driver)
	assert.Equal(t, "data/test.db", cfg.Storage.Path)
	assert.Equal(t, 150.0, cfg.Prices.Static["AAPL"])
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, "g-key", cfg.LLM.APIKey)
}

func TestLoad_InvalidDriver(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: mongo\n")
	t.Setenv("STOCKLY_CONFIG", "")
	t.Setenv("STOCKLY_STORAGE_DRIVER", "")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")
}

func TestValidate_PostgresNeedsDSN(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = "postgres"
	assert.Error(t, cfg.Validate())

	cfg.Storage.DSN = "host=localhost dbname=stockly sslmode=disable"
	assert.NoError(t, cfg.Validate())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statement_insight/pkg/core/calc"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "DEEPSEEK_API_KEY", "DASHSCOPE_API_KEY", "QWEN_API_KEY", "STATEMENT_ADDR", "STATEMENT_PROVIDER"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "gemini", cfg.AI.ActiveProvider)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionIdleTTL)
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  addr: ":9000"
  allowed_origins: ["http://localhost:3000"]
  session_idle_ttl: 30m
ai:
  active_provider: deepseek
  agents:
    chat:
      provider: gemini
  providers:
    deepseek:
      model: deepseek-reasoner
labels:
  total_assets: ["SUMME AKTIVA"]
`)
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("QWEN_API_KEY", "qwen-test")
	t.Setenv("STATEMENT_ADDR", ":7000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionIdleTTL)
	assert.Equal(t, "deepseek", cfg.AI.ActiveProvider)
	assert.Equal(t, "gemini", cfg.AI.Agents["chat"].Provider)
	assert.Equal(t, "deepseek-reasoner", cfg.AI.Providers["deepseek"].Model)
	assert.Equal(t, "sk-test", cfg.AI.Providers["deepseek"].APIKey)
	assert.Equal(t, "qwen-test", cfg.AI.Providers["qwen"].APIKey)
	assert.Empty(t, cfg.AI.Providers["gemini"].APIKey)

	policy := cfg.LabelPolicy()
	assert.True(t, policy.Matches(calc.RefTotalAssets, "Summe Aktiva"))
	assert.True(t, policy.Matches(calc.RefTotalAssets, "TOTAL ASSETS"))
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(writeConfig(t, "server: [unclosed"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "labels:\n  goodwill: [\"GOODWILL\"]\n"))
	assert.ErrorContains(t, err, "unknown label kind")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gsk-test", cfg.AI.APIKey)
	assert.Equal(t, "groq", cfg.AI.Provider)
	assert.Equal(t, "llama3-70b-8192", cfg.AI.Model)
	assert.InDelta(t, 0.2, cfg.AI.Temperature, 1e-6)
	assert.Equal(t, 15, cfg.Agent.MaxIterations)
	assert.Equal(t, 60*time.Second, cfg.Agent.MaxExecutionTime)
	assert.Equal(t, 5, cfg.Agent.MemorySize)
	assert.Equal(t, "llm", cfg.Translate.Provider)
	assert.Equal(t, 1, cfg.Tools.TopK)
	assert.Equal(t, 200, cfg.Tools.DocMaxChars)
	assert.Equal(t, 2, cfg.Tools.SearchMaxResults)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.GetAddr())
	assert.Same(t, cfg, Get())
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("AGRI_AI_APIKEY", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
ai:
  provider: openai
  baseUrl: https://api.openai.com/v1
  model: gpt-4o-mini
agent:
  maxIterations: 7
  maxExecutionTime: 30s
translate:
  provider: llm
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("AGRI_AI_APIKEY", "sk-file")
	t.Setenv("AGRI_SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 7, cfg.Agent.MaxIterations)
	assert.Equal(t, 30*time.Second, cfg.Agent.MaxExecutionTime)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sk-file", cfg.AI.APIKey)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AI:         AIConfig{Provider: "groq", APIKey: "k", Model: "m"},
			Agent:      AgentConfig{MaxIterations: 15, MaxExecutionTime: time.Minute, MemorySize: 5},
			Translate:  TranslateConfig{Provider: "llm"},
			Classifier: ClassifierConfig{ModelPath: "m.onnx", InputName: "in", OutputName: "out", MaxUploadBytes: 1024},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.Provider = "acme" }, wantErr: "ai"},
		{name: "zero iterations", mutate: func(c *Config) { c.Agent.MaxIterations = 0 }, wantErr: "agent"},
		{name: "gemini without key", mutate: func(c *Config) { c.Translate.Provider = "gemini" }, wantErr: "gemini"},
		{name: "missing model path", mutate: func(c *Config) { c.Classifier.ModelPath = "" }, wantErr: "classifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

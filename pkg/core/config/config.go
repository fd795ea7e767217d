// Package config loads the service configuration from config/app.yaml, a
// local .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"statement_insight/pkg/core/agent"
	"statement_insight/pkg/core/calc"
)

// DefaultPath is where the service looks for its configuration file.
const DefaultPath = "config/app.yaml"

type Config struct {
	Server    ServerConfig        `yaml:"server"`
	AI        agent.Config        `yaml:"ai"`
	Resources string              `yaml:"resources"` // directory holding prompts/
	Labels    map[string][]string `yaml:"labels"`    // extra aliases per reference kind
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	SessionIdleTTL time.Duration `yaml:"session_idle_ttl"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			SessionIdleTTL: 2 * time.Hour,
		},
		AI: agent.Config{
			ActiveProvider: "gemini",
			Agents: map[string]agent.AgentConfig{
				agent.FeatureNarrative: {Description: "analyst commentary on an uploaded statement"},
				agent.FeatureChat:      {Description: "free-form chat"},
			},
			Providers: map[string]agent.ProviderConfig{},
		},
		Resources: "resources",
	}
}

// Load reads .env (if present), then the YAML file at path (if present), then
// applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("[WARNING] .env not loaded: %v\n", err)
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Printf("[CONFIG] %s not found, using defaults\n", path)
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv lets secrets and the listen address come from the environment.
func (c *Config) applyEnv() {
	if c.AI.Providers == nil {
		c.AI.Providers = map[string]agent.ProviderConfig{}
	}
	setKey := func(provider string, envVars ...string) {
		for _, name := range envVars {
			if v := strings.TrimSpace(os.Getenv(name)); v != "" {
				pc := c.AI.Providers[provider]
				pc.APIKey = v
				c.AI.Providers[provider] = pc
				return
			}
		}
	}
	setKey("gemini", "GEMINI_API_KEY")
	setKey("gemini-legacy", "GEMINI_API_KEY")
	setKey("deepseek", "DEEPSEEK_API_KEY")
	setKey("qwen", "DASHSCOPE_API_KEY", "QWEN_API_KEY")

	if v := os.Getenv("STATEMENT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("STATEMENT_PROVIDER"); v != "" {
		c.AI.ActiveProvider = v
	}
}

// Validate rejects label overrides for unknown reference kinds.
func (c Config) Validate() error {
	for kind := range c.Labels {
		if !knownKind(calc.ReferenceKind(kind)) {
			return fmt.Errorf("config: unknown label kind %q", kind)
		}
	}
	if c.Server.SessionIdleTTL < 0 {
		return fmt.Errorf("config: session_idle_ttl must not be negative")
	}
	return nil
}

// LabelPolicy is the default policy extended with the configured aliases.
func (c Config) LabelPolicy() calc.LabelPolicy {
	policy := calc.DefaultLabelPolicy
	for kind, aliases := range c.Labels {
		policy = policy.WithAliases(calc.ReferenceKind(kind), aliases...)
	}
	return policy
}

func knownKind(k calc.ReferenceKind) bool {
	switch k {
	case calc.RefTotalAssets, calc.RefCurrentAssets, calc.RefCurrentLiabilities:
		return true
	}
	return false
}

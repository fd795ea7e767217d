package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"statement_insight/pkg/core/llm"
)

// Features that ask the manager for a provider.
const (
	FeatureNarrative = "narrative"
	FeatureChat      = "chat"
)

const fallbackProvider = "gemini"

type Config struct {
	ActiveProvider string                    `yaml:"active_provider"`
	Agents         map[string]AgentConfig    `yaml:"agents"`
	Providers      map[string]ProviderConfig `yaml:"providers"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider"` // Optional override
	Description string `yaml:"description"`
}

// ProviderConfig holds per-backend settings. Empty fields keep the provider's
// defaults; API keys normally come from the environment.
type ProviderConfig struct {
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Temperature float32 `yaml:"temperature"`
}

type Manager struct {
	mu        sync.RWMutex
	config    Config
	providers map[string]llm.Provider
}

func NewManager(config Config) *Manager {
	ps := func(name string) ProviderConfig { return config.Providers[name] }

	return NewManagerWithProviders(config, map[string]llm.Provider{
		"gemini": &llm.GeminiProvider{
			APIKey: ps("gemini").APIKey, Model: ps("gemini").Model, Temperature: ps("gemini").Temperature, BaseURL: ps("gemini").BaseURL,
		},
		"gemini-legacy": &llm.GeminiLegacyProvider{
			APIKey: ps("gemini-legacy").APIKey, Model: ps("gemini-legacy").Model, Temperature: ps("gemini-legacy").Temperature,
		},
		"deepseek": &llm.DeepSeekProvider{
			APIKey: ps("deepseek").APIKey, Model: ps("deepseek").Model, BaseURL: ps("deepseek").BaseURL,
		},
		"qwen": &llm.QwenProvider{
			APIKey: ps("qwen").APIKey, Model: ps("qwen").Model, Endpoint: ps("qwen").BaseURL,
		},
	})
}

// NewManagerWithProviders uses the given provider set instead of the built-in one.
func NewManagerWithProviders(config Config, providers map[string]llm.Provider) *Manager {
	if config.ActiveProvider == "" {
		config.ActiveProvider = fallbackProvider
	}
	return &Manager{config: config, providers: providers}
}

// providerName resolves which provider serves the feature. Callers hold m.mu.
func (m *Manager) providerName(agentType string) string {
	// 1. Check for agent-specific override
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if _, ok := m.providers[agentConfig.Provider]; ok {
			return agentConfig.Provider
		}
	}

	// 2. Use global active provider
	if _, ok := m.providers[m.config.ActiveProvider]; ok {
		return m.config.ActiveProvider
	}

	// 3. Fallback
	return fallbackProvider
}

// ProviderNameFor reports the provider that will serve the feature.
func (m *Manager) ProviderNameFor(agentType string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.providerName(agentType)
}

func (m *Manager) GetProvider(agentType string) llm.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.providers[m.providerName(agentType)]
}

// GetProviderByName retrieves a provider instance by its specific name (e.g. "deepseek", "gemini")
func (m *Manager) GetProviderByName(name string) llm.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.providers[name]
}

// Available reports whether the feature's provider has credentials configured.
func (m *Manager) Available(agentType string) bool {
	p := m.GetProvider(agentType)
	if p == nil {
		return false
	}
	if cc, ok := p.(llm.CredentialChecker); ok {
		return cc.HasCredentials()
	}
	return true
}

// ExecutePrompt handles instruction adaptation before sending to the model
func (m *Manager) ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	name := m.ProviderNameFor(agentType)
	provider := m.GetProviderByName(name)
	if provider == nil {
		return "", fmt.Errorf("provider %s not found", name)
	}

	fmt.Printf("[AGENT] %s -> %s\n", agentType, name)
	adaptedSystemPrompt := provider.AdaptInstructions(rawSystemPrompt)
	return provider.GenerateResponse(ctx, rawPrompt, adaptedSystemPrompt, options)
}

// NewChat opens a conversation with the feature's provider.
func (m *Manager) NewChat(ctx context.Context, agentType string, rawSystemPrompt string) (llm.ChatSession, error) {
	name := m.ProviderNameFor(agentType)
	provider := m.GetProviderByName(name)
	cp, ok := provider.(llm.ChatProvider)
	if !ok {
		return nil, fmt.Errorf("provider %s does not support chat", name)
	}

	fmt.Printf("[AGENT] %s chat -> %s\n", agentType, name)
	return cp.NewChat(ctx, cp.AdaptInstructions(rawSystemPrompt))
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	fmt.Printf("[AGENT] Global provider set to: %s\n", newProvider)
	return nil
}

func (m *Manager) GetActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.ActiveProvider
}

// ProviderNames lists the registered providers in sorted order.
func (m *Manager) ProviderNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

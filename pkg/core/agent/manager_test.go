package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statement_insight/pkg/core/llm"
)

type stubProvider struct {
	name     string
	hasKey   bool
	lastSys  string
	lastOpts map[string]interface{}
}

func (s *stubProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	s.lastSys = systemPrompt
	s.lastOpts = options
	return s.name + ":" + prompt, nil
}

func (s *stubProvider) AdaptInstructions(raw string) string { return "[" + s.name + "] " + raw }

func (s *stubProvider) HasCredentials() bool { return s.hasKey }

func newTestManager() (*Manager, *stubProvider, *stubProvider) {
	a := &stubProvider{name: "a", hasKey: true}
	b := &stubProvider{name: "b"}
	m := NewManagerWithProviders(Config{
		ActiveProvider: "a",
		Agents:         map[string]AgentConfig{FeatureChat: {Provider: "b"}},
	}, map[string]llm.Provider{"a": a, "b": b})
	return m, a, b
}

func TestManager_Selection(t *testing.T) {
	m, a, b := newTestManager()

	assert.Equal(t, "a", m.ProviderNameFor(FeatureNarrative))
	assert.Equal(t, "b", m.ProviderNameFor(FeatureChat))
	assert.Same(t, a, m.GetProvider(FeatureNarrative))
	assert.Same(t, b, m.GetProviderByName("b"))
	assert.Nil(t, m.GetProviderByName("missing"))
	assert.Equal(t, []string{"a", "b"}, m.ProviderNames())

	assert.True(t, m.Available(FeatureNarrative))
	assert.False(t, m.Available(FeatureChat))
}

func TestManager_ExecutePromptAdaptsInstructions(t *testing.T) {
	m, a, _ := newTestManager()

	out, err := m.ExecutePrompt(context.Background(), FeatureNarrative, "hi", "sys", map[string]interface{}{"model": "x"})
	require.NoError(t, err)
	assert.Equal(t, "a:hi", out)
	assert.Equal(t, "[a] sys", a.lastSys)
	assert.Equal(t, "x", a.lastOpts["model"])
}

func TestManager_SetGlobalProvider(t *testing.T) {
	m, _, _ := newTestManager()

	require.NoError(t, m.SetGlobalProvider("b"))
	assert.Equal(t, "b", m.GetActiveProvider())
	assert.Equal(t, "b", m.ProviderNameFor(FeatureNarrative))

	assert.Error(t, m.SetGlobalProvider("nope"))
	assert.Equal(t, "b", m.GetActiveProvider())
}

func TestManager_NewChatRequiresChatProvider(t *testing.T) {
	m, _, _ := newTestManager()
	_, err := m.NewChat(context.Background(), FeatureChat, "sys")
	assert.Error(t, err)
}

func TestNewManager_BuiltInProviders(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	m := NewManager(Config{
		Providers: map[string]ProviderConfig{"deepseek": {Model: "deepseek-reasoner"}},
	})

	assert.Equal(t, "gemini", m.GetActiveProvider())
	assert.Equal(t, []string{"deepseek", "gemini", "gemini-legacy", "qwen"}, m.ProviderNames())
	assert.Equal(t, "deepseek-reasoner", m.GetProviderByName("deepseek").(*llm.DeepSeekProvider).Model)
	assert.False(t, m.Available(FeatureNarrative))

	_, err := m.NewChat(context.Background(), FeatureChat, "sys")
	var rse *llm.RemoteServiceError
	require.True(t, errors.As(err, &rse))
	assert.Equal(t, llm.KindCredentialMissing, rse.Kind)
}

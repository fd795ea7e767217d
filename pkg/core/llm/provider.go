package llm

import (
	"context"
	"os"
	"strings"
)

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
	// AdaptInstructions transforms raw instructions into model-specific formats
	AdaptInstructions(rawInstructions string) string
}

// ChatProvider is a Provider that can hold a multi-turn conversation.
type ChatProvider interface {
	Provider
	NewChat(ctx context.Context, systemPrompt string) (ChatSession, error)
}

// CredentialChecker reports whether a provider has what it needs to make calls.
type CredentialChecker interface {
	HasCredentials() bool
}

// resolveKey returns the explicit key, or the first non-empty environment variable.
func resolveKey(explicit string, envVars ...string) string {
	if k := strings.TrimSpace(explicit); k != "" {
		return k
	}
	for _, name := range envVars {
		if k := strings.TrimSpace(os.Getenv(name)); k != "" {
			return k
		}
	}
	return ""
}

func optionString(options map[string]interface{}, key, fallback string) string {
	if val, ok := options[key].(string); ok && val != "" {
		return val
	}
	return fallback
}

func optionFloat(options map[string]interface{}, key string) (float64, bool) {
	switch v := options[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}

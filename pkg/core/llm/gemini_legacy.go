package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	legacy "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	geminiLegacyName         = "gemini-legacy"
	geminiLegacyDefaultModel = "gemini-1.5-flash"
)

// GeminiLegacyProvider uses the older generative-ai-go SDK. It shares the
// GEMINI_API_KEY credential with GeminiProvider.
type GeminiLegacyProvider struct {
	APIKey      string
	Model       string
	Temperature float32

	mu     sync.Mutex
	client *legacy.Client
}

var (
	_ ChatProvider      = (*GeminiLegacyProvider)(nil)
	_ CredentialChecker = (*GeminiLegacyProvider)(nil)
)

func (p *GeminiLegacyProvider) apiKey() string {
	return resolveKey(p.APIKey, "GEMINI_API_KEY")
}

func (p *GeminiLegacyProvider) HasCredentials() bool {
	return p.apiKey() != ""
}

func (p *GeminiLegacyProvider) getClient(ctx context.Context) (*legacy.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	apiKey := p.apiKey()
	if apiKey == "" {
		return nil, credentialMissing(geminiLegacyName, "GEMINI_API_KEY")
	}
	client, err := legacy.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, classify(geminiLegacyName, fmt.Errorf("create Gemini client: %w", err))
	}
	p.client = client
	return client, nil
}

func (p *GeminiLegacyProvider) generativeModel(client *legacy.Client, systemPrompt string, options map[string]interface{}) *legacy.GenerativeModel {
	name := p.Model
	if name == "" {
		name = geminiLegacyDefaultModel
	}
	model := client.GenerativeModel(optionString(options, "model", name))

	temp := p.Temperature
	if t, ok := optionFloat(options, "temperature"); ok {
		temp = float32(t)
	}
	if temp > 0 {
		model.SetTemperature(temp)
	}
	if systemPrompt != "" {
		model.SystemInstruction = &legacy.Content{Parts: []legacy.Part{legacy.Text(systemPrompt)}}
	}
	return model
}

func (p *GeminiLegacyProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := p.generativeModel(client, systemPrompt, options).GenerateContent(ctx, legacy.Text(prompt))
	if err != nil {
		return "", classify(geminiLegacyName, err)
	}
	text := legacyText(resp)
	if strings.TrimSpace(text) == "" {
		return "", emptyResponse(geminiLegacyName)
	}
	return text, nil
}

func (p *GeminiLegacyProvider) NewChat(ctx context.Context, systemPrompt string) (ChatSession, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}
	return &legacyChat{cs: p.generativeModel(client, systemPrompt, nil).StartChat()}, nil
}

func (p *GeminiLegacyProvider) AdaptInstructions(raw string) string {
	return raw
}

type legacyChat struct {
	mu  sync.Mutex
	cs  *legacy.ChatSession
	log turnLog
}

func (c *legacyChat) SendMessage(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := len(c.cs.History)
	resp, err := c.cs.SendMessage(ctx, legacy.Text(text))
	if err != nil {
		c.rewind(before)
		return "", classify(geminiLegacyName, err)
	}
	reply := legacyText(resp)
	if strings.TrimSpace(reply) == "" {
		c.rewind(before)
		return "", emptyResponse(geminiLegacyName)
	}
	c.log.record(text, reply)
	return reply, nil
}

// rewind drops SDK history entries added by a failed turn.
func (c *legacyChat) rewind(n int) {
	if len(c.cs.History) > n {
		c.cs.History = c.cs.History[:n]
	}
}

func (c *legacyChat) History() []Turn {
	return c.log.snapshot()
}

func legacyText(resp *legacy.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(legacy.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String()
}

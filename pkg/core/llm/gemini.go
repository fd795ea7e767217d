package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const (
	geminiName         = "gemini"
	geminiDefaultModel = "gemini-2.5-flash"
)

// GeminiProvider implements the Provider interface for Google's Gemini models.
type GeminiProvider struct {
	APIKey      string // falls back to GEMINI_API_KEY
	Model       string
	Temperature float32
	BaseURL     string // empty: the SDK default endpoint

	mu     sync.Mutex
	client *genai.Client
}

var (
	_ ChatProvider      = (*GeminiProvider)(nil)
	_ CredentialChecker = (*GeminiProvider)(nil)
)

func (p *GeminiProvider) apiKey() string {
	return resolveKey(p.APIKey, "GEMINI_API_KEY")
}

func (p *GeminiProvider) HasCredentials() bool {
	return p.apiKey() != ""
}

// getClient creates the SDK client on first use and reuses it afterwards.
func (p *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	apiKey := p.apiKey()
	if apiKey == "" {
		return nil, credentialMissing(geminiName, "GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: p.BaseURL},
	})
	if err != nil {
		return nil, classify(geminiName, fmt.Errorf("create GenAI client: %w", err))
	}
	p.client = client
	return client, nil
}

func (p *GeminiProvider) model(options map[string]interface{}) string {
	model := p.Model
	if model == "" {
		model = geminiDefaultModel
	}
	return optionString(options, "model", model)
}

func (p *GeminiProvider) contentConfig(systemPrompt string, options map[string]interface{}) *genai.GenerateContentConfig {
	temp := p.Temperature
	if t, ok := optionFloat(options, "temperature"); ok {
		temp = float32(t)
	}
	config := &genai.GenerateContentConfig{}
	if temp > 0 {
		config.Temperature = genai.Ptr(temp)
	}
	if val, ok := options["response_format"].(map[string]interface{}); ok && val["type"] == "json_object" {
		config.ResponseMIMEType = "application/json"
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}
	return config
}

// GenerateResponse sends a single generateContent request.
func (p *GeminiProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return "", err
	}

	model := p.model(options)
	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), p.contentConfig(systemPrompt, options))
	if err != nil {
		return "", classify(geminiName, err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", emptyResponse(geminiName)
	}
	fmt.Printf("[LLM] gemini %s: %d bytes reply\n", model, len(text))
	return text, nil
}

// NewChat opens an SDK chat; the SDK keeps the history it sends on each turn.
func (p *GeminiProvider) NewChat(ctx context.Context, systemPrompt string) (ChatSession, error) {
	client, err := p.getClient(ctx)
	if err != nil {
		return nil, err
	}
	chat, err := client.Chats.Create(ctx, p.model(nil), p.contentConfig(systemPrompt, nil), nil)
	if err != nil {
		return nil, classify(geminiName, err)
	}
	return &geminiChat{chat: chat}, nil
}

func (p *GeminiProvider) AdaptInstructions(raw string) string {
	return raw
}

type geminiChat struct {
	mu   sync.Mutex
	chat *genai.Chat
	log  turnLog
}

func (c *geminiChat) SendMessage(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", classify(geminiName, err)
	}
	reply := resp.Text()
	if strings.TrimSpace(reply) == "" {
		return "", emptyResponse(geminiName)
	}
	c.log.record(text, reply)
	return reply, nil
}

func (c *geminiChat) History() []Turn {
	return c.log.snapshot()
}

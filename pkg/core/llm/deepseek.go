package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	deepSeekName       = "deepseek"
	deepSeekDefaultURL = "https://api.deepseek.com"
)

// DeepSeekProvider talks to the OpenAI-compatible chat completions endpoint.
type DeepSeekProvider struct {
	APIKey  string // falls back to DEEPSEEK_API_KEY
	Model   string
	BaseURL string
	Client  *http.Client
}

var (
	_ ChatProvider      = (*DeepSeekProvider)(nil)
	_ CredentialChecker = (*DeepSeekProvider)(nil)
)

// DeepSeekRequest is the chat completions request body.
type DeepSeekRequest struct {
	Messages         []Message      `json:"messages"`
	Model            string         `json:"model"`
	Thinking         *ThinkingParam `json:"thinking,omitempty"`
	FrequencyPenalty float64        `json:"frequency_penalty"`
	MaxTokens        int            `json:"max_tokens"`
	PresencePenalty  float64        `json:"presence_penalty"`
	ResponseFormat   ResponseFormat `json:"response_format"`
	Stream           bool           `json:"stream"`
	Temperature      float64        `json:"temperature"`
	TopP             float64        `json:"top_p"`
}

type Message struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type ThinkingParam struct {
	Type string `json:"type"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type DeepSeekResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *DeepSeekProvider) apiKey() string {
	return resolveKey(p.APIKey, "DEEPSEEK_API_KEY")
}

func (p *DeepSeekProvider) HasCredentials() bool {
	return p.apiKey() != ""
}

func (p *DeepSeekProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	messages := []Message{{Content: prompt, Role: string(RoleUser)}}
	if systemPrompt != "" {
		messages = append([]Message{{Content: systemPrompt, Role: string(RoleSystem)}}, messages...)
	}
	return p.complete(ctx, messages, options)
}

// NewChat starts a conversation; the full history is resent on every turn.
func (p *DeepSeekProvider) NewChat(ctx context.Context, systemPrompt string) (ChatSession, error) {
	if !p.HasCredentials() {
		return nil, credentialMissing(deepSeekName, "DEEPSEEK_API_KEY")
	}
	return newMessageChat(systemPrompt, func(ctx context.Context, messages []Message) (string, error) {
		return p.complete(ctx, messages, nil)
	}), nil
}

func (p *DeepSeekProvider) complete(ctx context.Context, messages []Message, options map[string]interface{}) (string, error) {
	apiKey := optionString(options, "api_key", p.apiKey())
	if apiKey == "" {
		return "", credentialMissing(deepSeekName, "DEEPSEEK_API_KEY")
	}

	model := p.Model
	if model == "" {
		model = "deepseek-chat"
	}
	model = optionString(options, "model", model)

	reqBody := DeepSeekRequest{
		Messages:       messages,
		Model:          model,
		Thinking:       &ThinkingParam{Type: "disabled"},
		MaxTokens:      4096,
		ResponseFormat: ResponseFormat{Type: "text"},
		Temperature:    1.0,
		TopP:           1.0,
	}
	if t, ok := optionFloat(options, "temperature"); ok {
		reqBody.Temperature = t
	}
	if val, ok := options["response_format"].(map[string]interface{}); ok && val["type"] == "json_object" {
		reqBody.ResponseFormat.Type = "json_object"
	}

	jsonBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal deepseek request: %w", err)
	}

	baseURL := p.BaseURL
	if baseURL == "" {
		baseURL = deepSeekDefaultURL
	}
	url := strings.TrimRight(baseURL, "/") + "/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBytes))
	if err != nil {
		return "", fmt.Errorf("create deepseek request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return "", transportError(deepSeekName, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", transportError(deepSeekName, err)
	}
	if res.StatusCode != http.StatusOK {
		return "", statusError(deepSeekName, res.StatusCode, body)
	}

	var response DeepSeekResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", &RemoteServiceError{Provider: deepSeekName, Kind: KindService, Detail: "malformed response", Err: err}
	}
	if len(response.Choices) == 0 || strings.TrimSpace(response.Choices[0].Message.Content) == "" {
		return "", emptyResponse(deepSeekName)
	}

	fmt.Printf("[LLM] deepseek: %d messages, %d bytes reply\n", len(messages), len(response.Choices[0].Message.Content))
	return response.Choices[0].Message.Content, nil
}

func (p *DeepSeekProvider) AdaptInstructions(raw string) string {
	return raw
}

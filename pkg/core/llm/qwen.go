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
	qwenName            = "qwen"
	qwenDefaultEndpoint = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"
)

// QwenProvider uses the native DashScope text-generation API.
type QwenProvider struct {
	APIKey   string // falls back to DASHSCOPE_API_KEY, then QWEN_API_KEY
	Model    string
	Endpoint string
	Client   *http.Client
}

var (
	_ ChatProvider      = (*QwenProvider)(nil)
	_ CredentialChecker = (*QwenProvider)(nil)
)

func (p *QwenProvider) apiKey() string {
	return resolveKey(p.APIKey, "DASHSCOPE_API_KEY", "QWEN_API_KEY")
}

func (p *QwenProvider) HasCredentials() bool {
	return p.apiKey() != ""
}

func (p *QwenProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	messages := []Message{{Role: string(RoleUser), Content: prompt}}
	if systemPrompt != "" {
		messages = append([]Message{{Role: string(RoleSystem), Content: systemPrompt}}, messages...)
	}
	return p.complete(ctx, messages, options)
}

func (p *QwenProvider) NewChat(ctx context.Context, systemPrompt string) (ChatSession, error) {
	if !p.HasCredentials() {
		return nil, credentialMissing(qwenName, "DASHSCOPE_API_KEY", "QWEN_API_KEY")
	}
	return newMessageChat(systemPrompt, func(ctx context.Context, messages []Message) (string, error) {
		return p.complete(ctx, messages, nil)
	}), nil
}

func (p *QwenProvider) complete(ctx context.Context, messages []Message, options map[string]interface{}) (string, error) {
	apiKey := optionString(options, "api_key", p.apiKey())
	if apiKey == "" {
		return "", credentialMissing(qwenName, "DASHSCOPE_API_KEY", "QWEN_API_KEY")
	}

	model := p.Model
	if model == "" {
		model = "qwen-max"
	}
	model = optionString(options, "model", model)

	// Native DashScope format: messages go under "input".
	parameters := map[string]interface{}{
		"result_format": "message",
	}
	if t, ok := optionFloat(options, "temperature"); ok {
		parameters["temperature"] = t
	}
	reqBody := map[string]interface{}{
		"model":      model,
		"input":      map[string]interface{}{"messages": messages},
		"parameters": parameters,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal qwen request: %w", err)
	}

	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = qwenDefaultEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create qwen request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", transportError(qwenName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", statusError(qwenName, resp.StatusCode, bodyBytes)
	}

	var result struct {
		Output struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
			// Some endpoints return plain text in output
			Text string `json:"text"`
		} `json:"output"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", &RemoteServiceError{Provider: qwenName, Kind: KindService, Detail: "malformed response", Err: err}
	}

	if result.Code != "" {
		rse := &RemoteServiceError{Provider: qwenName, Kind: KindService, Detail: result.Code + " - " + result.Message}
		if strings.Contains(result.Code, "Throttling") || looksLikeQuota(result.Message) {
			rse.Kind = KindQuotaExceeded
		}
		return "", rse
	}

	text := result.Output.Text
	if len(result.Output.Choices) > 0 {
		text = result.Output.Choices[0].Message.Content
	}
	if strings.TrimSpace(text) == "" {
		return "", emptyResponse(qwenName)
	}

	fmt.Printf("[LLM] qwen: %d messages, %d bytes reply\n", len(messages), len(text))
	return text, nil
}

func (p *QwenProvider) AdaptInstructions(raw string) string {
	return raw
}

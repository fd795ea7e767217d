package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), KindTransport},
		{"googleapi 429", &googleapi.Error{Code: http.StatusTooManyRequests}, KindQuotaExceeded},
		{"googleapi 500", &googleapi.Error{Code: http.StatusInternalServerError, Message: "internal"}, KindService},
		{"quota text", errors.New("Error 429, Status: RESOURCE_EXHAUSTED"), KindQuotaExceeded},
		{"genai 429", fmt.Errorf("generate: %w", genai.APIError{Code: http.StatusTooManyRequests}), KindQuotaExceeded},
		{"genai 429 pointer", &genai.APIError{Code: http.StatusTooManyRequests}, KindQuotaExceeded},
		{"genai 400", genai.APIError{Code: http.StatusBadRequest, Message: "bad model"}, KindService},
		{"url error", &url.Error{Op: "Post", URL: "https://example.invalid", Err: errors.New("no such host")}, KindTransport},
		{"dial error", fmt.Errorf("send: %w", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}), KindTransport},
		{"other", errors.New("invalid argument"), KindService},
		{"already classified", emptyResponse("x"), KindEmptyResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("gemini", tt.err)
			assert.True(t, IsKind(err, tt.want), "got %v", err)
			assert.ErrorIs(t, err, ErrRemoteService)
		})
	}
	assert.NoError(t, classify("gemini", nil))

	var rse *RemoteServiceError
	require.ErrorAs(t, classify("gemini", genai.APIError{Code: http.StatusServiceUnavailable}), &rse)
	assert.Equal(t, http.StatusServiceUnavailable, rse.StatusCode)
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(credentialMissing("gemini", "GEMINI_API_KEY")), "no API key")
	assert.Contains(t, UserMessage(&RemoteServiceError{Provider: "p", Kind: KindQuotaExceeded}), "quota")
	assert.Contains(t, UserMessage(&RemoteServiceError{Provider: "p", Kind: KindTransport}), "Could not reach")
	assert.Equal(t, "AI request failed: boom", UserMessage(errors.New("boom")))

	wrapped := fmt.Errorf("narrative: %w", emptyResponse("p"))
	assert.Equal(t, "The AI service returned an empty response.", UserMessage(wrapped))
}

func TestStatusErrorTruncatesBody(t *testing.T) {
	body := make([]byte, 1000)
	for i := range body {
		body[i] = 'a'
	}
	err := statusError("p", http.StatusBadGateway, body)
	assert.Equal(t, KindService, err.Kind)
	assert.Len(t, err.Detail, 303)
}

func TestGemini_MissingKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	p := &GeminiProvider{}
	assert.False(t, p.HasCredentials())
	_, err := p.GenerateResponse(context.Background(), "x", "", nil)
	assert.True(t, IsKind(err, KindCredentialMissing))
	_, err = p.NewChat(context.Background(), "")
	assert.True(t, IsKind(err, KindCredentialMissing))

	legacy := &GeminiLegacyProvider{}
	_, err = legacy.GenerateResponse(context.Background(), "x", "", nil)
	assert.True(t, IsKind(err, KindCredentialMissing))
}

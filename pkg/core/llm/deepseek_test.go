package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompletions serves the chat completions endpoint and records requests.
func fakeCompletions(t *testing.T, reply func(req DeepSeekRequest) (int, string)) (*httptest.Server, *[]DeepSeekRequest) {
	t.Helper()
	var seen []DeepSeekRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req DeepSeekRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, req)

		status, body := reply(req)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func okReply(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"choices": []interface{}{
			map[string]interface{}{"message": map[string]string{"content": content}},
		},
	})
	return string(b)
}

func TestDeepSeek_GenerateResponse(t *testing.T) {
	srv, seen := fakeCompletions(t, func(DeepSeekRequest) (int, string) {
		return http.StatusOK, okReply("Revenue grew.")
	})
	p := &DeepSeekProvider{APIKey: "test-key", BaseURL: srv.URL}

	out, err := p.GenerateResponse(context.Background(), "summary", "you are an analyst", map[string]interface{}{"temperature": 0.2})
	require.NoError(t, err)
	assert.Equal(t, "Revenue grew.", out)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, "deepseek-chat", req.Model)
	assert.Equal(t, 0.2, req.Temperature)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Equal(t, "summary", req.Messages[1].Content)
}

func TestDeepSeek_ChatResendsHistory(t *testing.T) {
	n := 0
	srv, seen := fakeCompletions(t, func(DeepSeekRequest) (int, string) {
		n++
		if n == 2 {
			return http.StatusInternalServerError, `{"error":"boom"}`
		}
		return http.StatusOK, okReply("reply")
	})
	p := &DeepSeekProvider{APIKey: "test-key", BaseURL: srv.URL}

	chat, err := p.NewChat(context.Background(), "be brief")
	require.NoError(t, err)

	_, err = chat.SendMessage(context.Background(), "first")
	require.NoError(t, err)
	assert.Len(t, chat.History(), 2)

	_, err = chat.SendMessage(context.Background(), "second")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindService))
	assert.Len(t, chat.History(), 2, "failed turn is not recorded")

	_, err = chat.SendMessage(context.Background(), "third")
	require.NoError(t, err)

	history := chat.History()
	require.Len(t, history, 4)
	assert.Equal(t, Turn{Role: RoleUser, Text: "first"}, history[0])
	assert.Equal(t, Turn{Role: RoleAssistant, Text: "reply"}, history[1])
	assert.Equal(t, "third", history[2].Text)

	last := (*seen)[2]
	require.Len(t, last.Messages, 4, "system + two prior turns + new message")
	assert.Equal(t, "system", last.Messages[0].Role)
	assert.Equal(t, "first", last.Messages[1].Content)
	assert.Equal(t, "third", last.Messages[3].Content)
}

func TestDeepSeek_Errors(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")

	_, err := (&DeepSeekProvider{}).GenerateResponse(context.Background(), "x", "", nil)
	assert.True(t, IsKind(err, KindCredentialMissing))
	assert.True(t, errors.Is(err, ErrRemoteService))

	_, err = (&DeepSeekProvider{}).NewChat(context.Background(), "")
	assert.True(t, IsKind(err, KindCredentialMissing))

	srv, _ := fakeCompletions(t, func(DeepSeekRequest) (int, string) {
		return http.StatusTooManyRequests, `{"error":"slow down"}`
	})
	_, err = (&DeepSeekProvider{APIKey: "test-key", BaseURL: srv.URL}).GenerateResponse(context.Background(), "x", "", nil)
	assert.True(t, IsKind(err, KindQuotaExceeded))

	empty, _ := fakeCompletions(t, func(DeepSeekRequest) (int, string) {
		return http.StatusOK, `{"choices":[]}`
	})
	_, err = (&DeepSeekProvider{APIKey: "test-key", BaseURL: empty.URL}).GenerateResponse(context.Background(), "x", "", nil)
	assert.True(t, IsKind(err, KindEmptyResponse))
}

func TestDeepSeek_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := (&DeepSeekProvider{APIKey: "test-key", BaseURL: url}).GenerateResponse(context.Background(), "x", "", nil)
	assert.True(t, IsKind(err, KindTransport))
}

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQwen_GenerateResponse(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"output":{"choices":[{"message":{"content":"ok"}}]}}`))
	}))
	defer srv.Close()

	p := &QwenProvider{APIKey: "k", Endpoint: srv.URL}
	out, err := p.GenerateResponse(context.Background(), "hello", "sys", nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	assert.Equal(t, "qwen-max", body["model"])
	input := body["input"].(map[string]interface{})
	assert.Len(t, input["messages"], 2)
}

func TestQwen_TextOutputAndErrors(t *testing.T) {
	reply := `{"output":{"text":"plain"}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(reply))
	}))
	defer srv.Close()
	p := &QwenProvider{APIKey: "k", Endpoint: srv.URL}

	out, err := p.GenerateResponse(context.Background(), "hello", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain", out)

	reply = `{"code":"Throttling.RateQuota","message":"Requests rate limit exceeded"}`
	_, err = p.GenerateResponse(context.Background(), "hello", "", nil)
	assert.True(t, IsKind(err, KindQuotaExceeded))

	reply = `{"code":"InvalidParameter","message":"bad input"}`
	_, err = p.GenerateResponse(context.Background(), "hello", "", nil)
	assert.True(t, IsKind(err, KindService))
	assert.Contains(t, UserMessage(err), "InvalidParameter")

	reply = `{"output":{}}`
	_, err = p.GenerateResponse(context.Background(), "hello", "", nil)
	assert.True(t, IsKind(err, KindEmptyResponse))
}

func TestQwen_KeyFallback(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "")
	t.Setenv("QWEN_API_KEY", "")
	assert.False(t, (&QwenProvider{}).HasCredentials())

	t.Setenv("QWEN_API_KEY", "from-env")
	assert.True(t, (&QwenProvider{}).HasCredentials())
}

package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/mastopoll/internal/domain"
)

func chatServer(t *testing.T, status int, body string, inspect func(*http.Request, map[string]interface{})) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &payload))
		if inspect != nil {
			inspect(r, payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func openAIReply(content string) string {
	raw, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return string(raw)
}

func TestProviderCompleteSendsChatRequest(t *testing.T) {
	t.Setenv("TEST_LLM_KEY", "sk-test")
	temperature := 0.99
	srv := chatServer(t, http.StatusOK, openAIReply("  hello  "), func(r *http.Request, payload map[string]interface{}) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "1", r.Header.Get("X-Extra"))
		assert.Equal(t, "gpt-test", payload["model"])
		assert.Equal(t, 0.99, payload["temperature"])
		assert.EqualValues(t, 256, payload["max_tokens"])
		messages := payload["messages"].([]interface{})
		require.Len(t, messages, 1)
		assert.Equal(t, "write a poll", messages[0].(map[string]interface{})["content"])
	})

	provider, err := NewFactory().ForModel(domain.ModelDefinition{
		Name:        "test",
		Endpoint:    srv.URL,
		AuthEnvVar:  "TEST_LLM_KEY",
		ModelID:     "gpt-test",
		MaxTokens:   256,
		Temperature: &temperature,
		APIFormat:   domain.APIFormat{ExtraHeaders: map[string]string{"X-Extra": "1"}},
	})
	require.NoError(t, err)

	reply, err := provider.Complete(context.Background(), "write a poll")
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)
}

func TestProviderCustomAuthHeaderAndPath(t *testing.T) {
	t.Setenv("TEST_ANTHROPIC_KEY", "ak")
	srv := chatServer(t, http.StatusOK, `{"content":[{"type":"text","text":"ok"}]}`, func(r *http.Request, _ map[string]interface{}) {
		assert.Equal(t, "ak", r.Header.Get("x-api-key"))
		assert.Empty(t, r.Header.Get("Authorization"))
	})

	provider, err := NewFactory().ForModel(domain.ModelDefinition{
		Name:       "claude",
		Endpoint:   srv.URL,
		AuthEnvVar: "TEST_ANTHROPIC_KEY",
		ModelID:    "claude-test",
		APIFormat: domain.APIFormat{
			AuthHeaderName:   "x-api-key",
			ResponseJSONPath: domain.AnthropicResponsePath,
		},
	})
	require.NoError(t, err)

	reply, err := provider.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}

func TestProviderMissingKeyIsConfigError(t *testing.T) {
	t.Setenv("TEST_MISSING_KEY", "")
	_, err := NewFactory().ForModel(domain.ModelDefinition{Name: "x", AuthEnvVar: "TEST_MISSING_KEY"})
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestProviderHTTPErrorIsExternal(t *testing.T) {
	srv := chatServer(t, http.StatusTooManyRequests, `{"error":"rate limited"}`, nil)
	provider, err := NewFactory().ForModel(domain.ModelDefinition{Name: "x", Endpoint: srv.URL, ModelID: "m"})
	require.NoError(t, err)

	_, err = provider.Complete(context.Background(), "hi")
	require.ErrorIs(t, err, domain.ErrExternalService)
	assert.Contains(t, err.Error(), "429")
}

func TestProviderMissingPathIsExternal(t *testing.T) {
	srv := chatServer(t, http.StatusOK, `{"choices":[]}`, nil)
	provider, err := NewFactory().ForModel(domain.ModelDefinition{Name: "x", Endpoint: srv.URL, ModelID: "m"})
	require.NoError(t, err)

	_, err = provider.Complete(context.Background(), "hi")
	assert.ErrorIs(t, err, domain.ErrExternalService)
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	s := strings.Repeat("é", 10)
	cut := truncate(s, 3)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "ééé...", cut)
	assert.Equal(t, "short", truncate("  short  ", 200))
}

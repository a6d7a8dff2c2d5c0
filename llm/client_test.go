package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatNotConfigured(t *testing.T) {
	c := NewClientWith("", "https://api.openai.com/v1", "gpt-4o")
	_, err := c.Chat([]Message{{Role: "user", Content: "hi"}})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, c.Configured())
}

func TestChatReturnsFirstChoice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"a","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer srv.Close()

	c := NewClientWith("test-key", srv.URL, "gpt-4o")
	out, err := c.Chat([]Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestChatUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClientWith("test-key", srv.URL, "gpt-4o")
	_, err := c.Chat([]Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error")
}

func TestChatNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"a","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	c := NewClientWith("test-key", srv.URL, "gpt-4o")
	_, err := c.Chat([]Message{{Role: "user", Content: "hi"}})
	assert.Error(t, err)
}

func TestClassifyImageRequestShape(t *testing.T) {
	var captured ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"id":"a","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewClientWith("test-key", srv.URL, "vision-model")
	dataURI := "data:image/png;base64,AAAA"
	_, err := c.ClassifyImage(dataURI)
	require.NoError(t, err)

	assert.Equal(t, "vision-model", captured.Model)
	assert.Equal(t, float64(0), captured.Temperature)
	assert.Equal(t, 0.3, captured.TopP)
	assert.Equal(t, 1000, captured.MaxTokens)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)

	raw, err := json.Marshal(captured.Messages[1].Content)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), dataURI), string(raw))
	assert.True(t, strings.Contains(string(raw), `"image_url"`), string(raw))
}

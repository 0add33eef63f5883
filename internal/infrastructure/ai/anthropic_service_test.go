package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mycrm-api/internal/domain"
	"github.com/jhoicas/mycrm-api/internal/infrastructure/ai"
	"github.com/jhoicas/mycrm-api/pkg/config"
)

func TestAnthropicService_Complete_EnviaPromptYParametros(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"  APPROVED: sin PHI  "}]}`))
	}))
	defer srv.Close()

	svc := ai.NewAnthropicService("test-key", "claude-test", time.Second).WithEndpoint(srv.URL)
	out, err := svc.Complete(context.Background(), "sistema", "usuario", 200, 0.1)

	require.NoError(t, err)
	assert.Equal(t, "APPROVED: sin PHI", out)
	assert.Equal(t, "claude-test", got["model"])
	assert.Equal(t, "sistema", got["system"])
	assert.EqualValues(t, 200, got["max_tokens"])
	assert.InDelta(t, 0.1, got["temperature"], 1e-9)
}

func TestAnthropicService_Complete_ErrorHTTPEsErrorDeProveedor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	svc := ai.NewAnthropicService("k", "m", time.Second).WithEndpoint(srv.URL)
	_, err := svc.Complete(context.Background(), "", "hola", 10, 0.5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrProvider))
	assert.Contains(t, err.Error(), "rate_limit_error")
}

func TestAnthropicService_Complete_SinAPIKey(t *testing.T) {
	_, err := ai.NewAnthropicService("", "m", time.Second).Complete(context.Background(), "", "x", 10, 0)
	assert.True(t, errors.Is(err, domain.ErrProvider))
}

func TestGeminiService_Complete_UneLasPartes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "gk", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hola "},{"text":"Ana"}]}}]}`))
	}))
	defer srv.Close()

	svc := ai.NewGeminiService("gk", "gemini-test", time.Second).
		WithBaseURL(srv.URL + "/models/%s:generateContent?key=%s")
	out, err := svc.Complete(context.Background(), "s", "u", 50, 0.3)

	require.NoError(t, err)
	assert.Equal(t, "Hola Ana", out)
}

func TestNewTextGenerator_NilSinKey(t *testing.T) {
	assert.Nil(t, ai.NewTextGenerator(config.AIConfig{Provider: "anthropic"}))

	g := ai.NewTextGenerator(config.AIConfig{Provider: "gemini", GeminiAPIKey: "x"})
	_, isGemini := g.(*ai.GeminiService)
	assert.True(t, isGemini)
}

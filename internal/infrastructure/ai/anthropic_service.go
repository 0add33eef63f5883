package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/mycrm-api/internal/application/ports"
	"github.com/jhoicas/mycrm-api/internal/domain"
)

// Verificar en tiempo de compilación que AnthropicService implementa TextGenerator.
var _ ports.TextGenerator = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// AnthropicService adaptador que implementa TextGenerator usando la API REST de Anthropic (Claude).
// Usa net/http de la librería estándar de Go; no requiere el SDK oficial.
type AnthropicService struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewAnthropicService construye el adaptador.
// model suele ser "claude-3-5-haiku-20241022"; timeout acota cada llamada de red.
func NewAnthropicService(apiKey, model string, timeout time.Duration) *AnthropicService {
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &AnthropicService{
		apiKey:     apiKey,
		model:      model,
		endpoint:   anthropicMessagesURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithEndpoint reemplaza la URL de la API (proxy interno o servidor de pruebas).
func (s *AnthropicService) WithEndpoint(url string) *AnthropicService {
	s.endpoint = url
	return s
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Complete envía el prompt a Claude y devuelve el texto del primer bloque.
func (s *AnthropicService) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado: %w", domain.ErrProvider)
	}

	payload := anthropicRequest{
		Model:       s.model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		System:      systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %v: %w", ctx.Err(), domain.ErrProvider)
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %v: %w", err, domain.ErrProvider)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %v: %w", err, domain.ErrProvider)
	}

	// Manejar errores HTTP de la API de Anthropic (incluye 429 por límite de tasa)
	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Anthropic error (%s): %s: %w", errResp.Error.Type, errResp.Error.Message, domain.ErrProvider)
		}
		return "", fmt.Errorf("AI: Anthropic HTTP %d: %w", resp.StatusCode, domain.ErrProvider)
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return "", fmt.Errorf("AI: deserializar respuesta Anthropic: %v: %w", err, domain.ErrProvider)
	}

	for _, block := range anthResp.Content {
		if block.Type == "text" || block.Type == "" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", fmt.Errorf("AI: Claude devolvió respuesta vacía: %w", domain.ErrProvider)
}

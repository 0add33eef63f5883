package ai

import (
	"strings"

	"github.com/jhoicas/mycrm-api/internal/application/ports"
	"github.com/jhoicas/mycrm-api/pkg/config"
)

// NewTextGenerator elige el adaptador según AI_PROVIDER. Devuelve nil (no configurado)
// cuando falta la clave del proveedor elegido; los consumidores aplican su respaldo.
func NewTextGenerator(cfg config.AIConfig) ports.TextGenerator {
	if cfg.APIKey() == "" {
		return nil
	}
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Timeout)
	default:
		return NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.Timeout)
	}
}

package ports

import (
	"context"
)

// TextGenerator define el puerto de salida hacia el modelo de lenguaje.
// Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta interfaz.
// El dominio/aplicación solo conoce este contrato, no la implementación concreta.
//
// Un TextGenerator nil significa "no configurado": los consumidores aplican
// su comportamiento de respaldo en lugar de llamar.
type TextGenerator interface {
	// Complete envía un prompt de sistema y uno de usuario y devuelve el texto generado.
	// Falla con un error que envuelve domain.ErrProvider cuando el proveedor no está
	// disponible, está mal configurado o limita la tasa.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}

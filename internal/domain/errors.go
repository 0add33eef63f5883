package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
// Forman un conjunto cerrado: toda falla que cruza un caso de uso debe envolver
// (fmt.Errorf con %w) exactamente uno de estos sentinelas.
var (
	ErrValidation         = errors.New("entrada inválida")
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrProvider           = errors.New("proveedor externo no disponible")
	ErrBackendUnavailable = errors.New("backend de persistencia no disponible")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)

// ErrDuplicate regla de unicidad violada; es también un ErrValidation.
var ErrDuplicate = fmt.Errorf("recurso duplicado: %w", ErrValidation)

// ValidationError agrupa los problemas de validación de una operación.
// errors.Is(err, ErrValidation) es verdadero para cualquier *ValidationError.
type ValidationError struct {
	Op       string
	Problems []string
}

// NewValidationError construye el error; op identifica la operación (ej. "crear cliente").
func NewValidationError(op string, problems ...string) *ValidationError {
	return &ValidationError{Op: op, Problems: problems}
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return e.Op + ": " + ErrValidation.Error()
	}
	return e.Op + ": " + strings.Join(e.Problems, ", ")
}

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Kind clasifica un error para la capa HTTP.
type Kind string

const (
	KindValidation   Kind = "VALIDATION"
	KindNotFound     Kind = "NOT_FOUND"
	KindProvider     Kind = "PROVIDER"
	KindBackend      Kind = "BACKEND_UNAVAILABLE"
	KindDuplicate    Kind = "DUPLICATE"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindInternal     Kind = "INTERNAL"
)

// KindOf devuelve la categoría del error según el sentinela que envuelve.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrProvider):
		return KindProvider
	case errors.Is(err, ErrBackendUnavailable):
		return KindBackend
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindInternal
	}
}

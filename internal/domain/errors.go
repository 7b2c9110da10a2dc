package domain

import (
	"errors"
	"fmt"
)

// Errores compartidos entre repositorio, gateway y servicios. El router HTTP los traduce al sobre {code, message}.
var (
	ErrProfileNotFound           = errors.New("profile not found")
	ErrEntityNotFound            = errors.New("entity not found")
	ErrStorage                   = errors.New("storage error")
	ErrProfileSerialization      = errors.New("profile serialization error")
	ErrInvalidConversation       = errors.New("invalid conversation")
	ErrInvalidEntity             = errors.New("invalid entity")
	ErrRateLimited               = errors.New("rate limited")
	ErrProviderTimeout           = errors.New("provider timeout")
	ErrProviderRateLimited       = errors.New("provider rate limited")
	ErrMalformedProviderResponse = errors.New("malformed provider response")
)

// GuardrailError indica que el mensaje fue rechazado antes de llegar al proveedor.
type GuardrailError struct {
	Reason string
}

func (e *GuardrailError) Error() string {
	return "guardrail rejected: " + e.Reason
}

// ProviderError envuelve una falla del proveedor externo que no es timeout ni rate limit.
type ProviderError struct {
	Code    string
	Message string
	Status  int
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider error %s (status=%d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("provider error %s: %s", e.Code, e.Message)
}

// DuplicateIDError se produce cuando un id ya existe dentro de su coleccion.
type DuplicateIDError struct {
	Kind string
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id %q", e.Kind, e.ID)
}

// IsRetryable informa si el cliente puede reintentar el request sin cambiarlo.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrProviderTimeout) ||
		errors.Is(err, ErrProviderRateLimited) ||
		errors.Is(err, ErrRateLimited)
}

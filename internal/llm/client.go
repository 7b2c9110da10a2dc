package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"resume-ragu/internal/domain"
)

// LLMClient define la interfaz para obtener una respuesta de un proveedor de modelos.
// Una llamada es un unico intento: no hay reintentos automaticos.
type LLMClient interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// Request es la solicitud ya ensamblada: prompt de sistema mas el historial en orden.
type Request struct {
	System   string
	Messages []domain.ConversationMessage
}

type Response struct {
	Text  string
	Model string
	Usage *domain.Usage
}

// transportError traduce fallas de red o de contexto a la taxonomia de errores del gateway.
func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrProviderTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", domain.ErrProviderTimeout, err)
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("%w: %w", domain.ErrMalformedProviderResponse, err)
	}
	if errors.Is(err, context.Canceled) {
		return &domain.ProviderError{Code: "canceled", Message: err.Error()}
	}
	return &domain.ProviderError{Code: "transport", Message: err.Error()}
}

// statusError traduce un status HTTP no exitoso.
func statusError(status int, message string) error {
	switch {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrProviderRateLimited, message)
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return fmt.Errorf("%w: status=%d", domain.ErrProviderTimeout, status)
	default:
		return &domain.ProviderError{Code: "http_status", Message: message, Status: status}
	}
}

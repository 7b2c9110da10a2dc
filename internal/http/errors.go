package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ragu/internal/domain"
)

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// ErrorEnvelope es la forma estable de toda respuesta de error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

const (
	codeInvalidRequest       = "INVALID_REQUEST"
	codeValidation           = "VALIDATION_ERROR"
	codeProfileNotFound      = "PROFILE_NOT_FOUND"
	codeNotFound             = "NOT_FOUND"
	codeDuplicateID          = "DUPLICATE_ID"
	codeGuardrailRejected    = "GUARDRAIL_REJECTED"
	codeRateLimited          = "RATE_LIMITED"
	codeProviderRateLimited  = "PROVIDER_RATE_LIMITED"
	codeProviderTimeout      = "PROVIDER_TIMEOUT"
	codeProviderError        = "PROVIDER_ERROR"
	codeMalformedResponse    = "MALFORMED_PROVIDER_RESPONSE"
	codeStorage              = "STORAGE_ERROR"
	codeProfileSerialization = "PROFILE_SERIALIZATION_ERROR"
	codeUnauthorized         = "UNAUTHORIZED"
	codeForbidden            = "FORBIDDEN"
	codeInternal             = "INTERNAL_ERROR"
)

func respond(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Code: code, Message: message}})
}

// respondError traduce errores de dominio al sobre {code, message}. Los 5xx no exponen detalles internos.
func respondError(c *gin.Context, err error) {
	status, apiErr := classifyError(err)
	apiErr.Retryable = domain.IsRetryable(err)
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: apiErr})
}

func classifyError(err error) (int, APIError) {
	var (
		guardErr *domain.GuardrailError
		dupErr   *domain.DuplicateIDError
		provErr  *domain.ProviderError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidUserID), errors.Is(err, domain.ErrInvalidConversation):
		return http.StatusBadRequest, APIError{Code: codeInvalidRequest, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidEntity):
		return http.StatusUnprocessableEntity, APIError{Code: codeValidation, Message: err.Error()}
	case errors.As(err, &guardErr):
		return http.StatusUnprocessableEntity, APIError{Code: codeGuardrailRejected, Message: "message rejected: " + guardErr.Reason}
	case errors.Is(err, domain.ErrProfileNotFound):
		return http.StatusNotFound, APIError{Code: codeProfileNotFound, Message: "profile not found"}
	case errors.Is(err, domain.ErrEntityNotFound):
		return http.StatusNotFound, APIError{Code: codeNotFound, Message: err.Error()}
	case errors.As(err, &dupErr):
		return http.StatusConflict, APIError{Code: codeDuplicateID, Message: dupErr.Error()}
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, APIError{Code: codeRateLimited, Message: "too many chat requests, retry later"}
	case errors.Is(err, domain.ErrProviderRateLimited):
		return http.StatusTooManyRequests, APIError{Code: codeProviderRateLimited, Message: "model provider is rate limiting requests"}
	case errors.Is(err, domain.ErrProviderTimeout):
		return http.StatusGatewayTimeout, APIError{Code: codeProviderTimeout, Message: "model provider timed out"}
	case errors.Is(err, domain.ErrMalformedProviderResponse):
		return http.StatusBadGateway, APIError{Code: codeMalformedResponse, Message: "model provider returned an unusable response"}
	case errors.As(err, &provErr):
		return http.StatusBadGateway, APIError{Code: codeProviderError, Message: "model provider error (" + provErr.Code + ")"}
	case errors.Is(err, domain.ErrProfileSerialization):
		return http.StatusInternalServerError, APIError{Code: codeProfileSerialization, Message: "could not serialize profile"}
	case errors.Is(err, domain.ErrStorage):
		return http.StatusInternalServerError, APIError{Code: codeStorage, Message: "storage error"}
	default:
		return http.StatusInternalServerError, APIError{Code: codeInternal, Message: "internal error"}
	}
}

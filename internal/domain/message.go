package domain

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage es un turno de la conversacion. El cliente envia el historial completo en cada request.
type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage contiene los contadores de tokens informados por el proveedor.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// ChatResult es la respuesta de una pasada del orquestador; no se persiste.
type ChatResult struct {
	Message ConversationMessage `json:"message"`
	Usage   *Usage              `json:"usage,omitempty"`
	// Flagged indica que Message es la respuesta de reemplazo; no viaja en el JSON.
	Flagged bool `json:"-"`
}

package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-ragu/internal/domain"
	"resume-ragu/internal/service"
)

// ChatHandler expone POST /api/chat.
type ChatHandler struct {
	logger  *zap.Logger
	chatSvc *service.ChatService
}

func NewChatHandler(logger *zap.Logger, chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{logger: logger, chatSvc: chatSvc}
}

// PostChat maneja POST /api/chat. El cliente envia el historial completo en cada llamada.
func (h *ChatHandler) PostChat(c *gin.Context) {
	var req struct {
		UserID   string                       `json:"userId" binding:"required"`
		Messages []domain.ConversationMessage `json:"messages" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		respond(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}
	if !authorizeUser(c, req.UserID) {
		return
	}

	result, err := h.chatSvc.Chat(c.Request.Context(), req.UserID, req.Messages)
	if err != nil {
		status, apiErr := classifyError(err)
		fields := []zap.Field{
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("user_id", req.UserID),
			zap.String("code", apiErr.Code),
			zap.Error(err),
		}
		if status >= http.StatusInternalServerError {
			h.logger.Error("chat failed", fields...)
		} else {
			h.logger.Warn("chat failed", fields...)
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

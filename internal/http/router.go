package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"resume-ragu/internal/service"
)

type RouterConfig struct {
	ServiceName string
	CORSOrigins []string
	// JWT es opcional; con nil las rutas quedan abiertas.
	JWT *service.JWTService
}

// NewRouter configura el router de Gin con middlewares y rutas base.
func NewRouter(
	logger *zap.Logger,
	cfg RouterConfig,
	profileH *ProfileHandler,
	chatH *ChatHandler,
) *gin.Engine {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "resume-ragu"
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:5173"}
	}

	r := gin.New()

	// Middlewares basicos: request id, tracing, logging, recovery y CORS.
	r.Use(
		requestIDMiddleware(),
		otelgin.Middleware(cfg.ServiceName),
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		corsMiddleware(cfg.CORSOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	if cfg.JWT != nil {
		api.Use(JWTAuthMiddleware(cfg.JWT))
	}

	profiles := api.Group("/profile/:userId", requirePathUser())
	profileH.register(profiles)

	api.POST("/chat", chatH.PostChat)

	return r
}

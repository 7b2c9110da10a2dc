package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"resume-ragu/internal/bootstrap"
	"resume-ragu/internal/config"
	apihttp "resume-ragu/internal/http"
	"resume-ragu/internal/observability"
	"resume-ragu/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := bootstrap.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	gin.SetMode(gin.ReleaseMode)

	shutdownOTel := observability.InitOTel(ctx, logger, observability.OtelConfig{
		Enabled:     cfg.OTelEnabled,
		ServiceName: "resume-ragu",
		Endpoint:    cfg.OTelEndpoint,
	})
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			logger.Warn("otel shutdown", zap.Error(err))
		}
	}()

	store, closeStore, err := bootstrap.OpenProfileStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("profile store", zap.Error(err))
	}
	defer closeStore()

	chatSvc, closeChat, err := bootstrap.NewChatService(ctx, cfg, logger, store)
	if err != nil {
		logger.Fatal("chat service", zap.Error(err))
	}
	defer closeChat()

	var jwtSvc *service.JWTService
	if cfg.JWTSecret != "" {
		jwtSvc = service.NewJWTService(cfg.JWTSecret, 24*time.Hour)
	} else {
		logger.Warn("jwt secret not configured, profile routes are open")
	}

	profileSvc := service.NewProfileService(logger, store)
	router := apihttp.NewRouter(logger,
		apihttp.RouterConfig{ServiceName: "resume-ragu", CORSOrigins: cfg.CORSOrigins, JWT: jwtSvc},
		apihttp.NewProfileHandler(logger, profileSvc),
		apihttp.NewChatHandler(logger, chatSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.String("llm_model", cfg.LLMModel),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(sctx); err != nil {
			logger.Error("server shutdown", zap.Error(err))
		}
	}
}
